package model

import "time"

// Reminder is a daily medication dose for one user. Time is a zero-padded
// 24h "HH:MM" string with no date or zone.
type Reminder struct {
	ID             string     `gorm:"primaryKey;size:36"`
	UserID         string     `gorm:"index;not null"`
	MedicationName string     `gorm:"not null"`
	Dosage         string     `gorm:"not null"`
	Time           string     `gorm:"size:5;not null"`
	VoiceFileID    *string    `gorm:"size:36"`
	Taken          bool       `gorm:"not null;default:false"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	TakenAt        *time.Time
	// AlertedOn is the YYYY-MM-DD day the caretaker was last told about this reminder.
	AlertedOn string `gorm:"size:10"`
}
