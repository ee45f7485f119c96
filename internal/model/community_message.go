package model

// CommunityMessage is one post on the shared board. Seq only orders the feed.
type CommunityMessage struct {
	Seq      uint   `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"not null"`
	Message  string `gorm:"type:text;not null"`
}
