package model

import "time"

// VoiceFile is metadata for an uploaded audio prompt. The bytes live in the
// upload directory under Filename.
type VoiceFile struct {
	ID               string    `gorm:"primaryKey;size:36"`
	UserID           string    `gorm:"index;not null"`
	Name             string    `gorm:"not null"`
	Filename         string    `gorm:"uniqueIndex;not null"`
	OriginalFilename string    `gorm:"not null"`
	UploadedAt       time.Time `gorm:"autoCreateTime"`
}
