package model

import "time"

// User is a registered PillPal account. Email is stored lower-cased.
type User struct {
	ID              string    `gorm:"primaryKey;size:36"`
	Name            string    `gorm:"not null"`
	Email           string    `gorm:"uniqueIndex;not null"`
	PasswordHash    string    `gorm:"not null"`
	CaretakerName   string
	CaretakerNumber string
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

// HasCaretakerContact reports whether alerts can be sent on the user's behalf.
func (u *User) HasCaretakerContact() bool {
	return u.CaretakerNumber != ""
}
