// Package store holds the PillPal record stores. Every store is an interface
// so services can be exercised against doubles; the gorm implementations back
// them with SQLite (in-memory by default) or PostgreSQL.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/pathakanu/pillpal/internal/model"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a record does not exist or is not owned by the caller.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicateEmail is returned when a user with the same email already exists.
	ErrDuplicateEmail = errors.New("store: email already registered")
)

// Users is the user directory.
type Users interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListWithCaretaker(ctx context.Context) ([]model.User, error)
}

// Reminders holds each user's reminder list.
type Reminders interface {
	Create(ctx context.Context, reminder *model.Reminder) error
	ListByUser(ctx context.Context, userID string) ([]model.Reminder, error)
	MarkTaken(ctx context.Context, userID, id string, at time.Time) error
	Delete(ctx context.Context, userID, id string) error
	MarkAlerted(ctx context.Context, userID, id, day string) error
}

// VoiceFiles holds each user's uploaded audio metadata.
type VoiceFiles interface {
	Create(ctx context.Context, file *model.VoiceFile) error
	ListByUser(ctx context.Context, userID string) ([]model.VoiceFile, error)
	Get(ctx context.Context, userID, id string) (*model.VoiceFile, error)
}

// Feed is the global community message board.
type Feed interface {
	Append(ctx context.Context, msg *model.CommunityMessage) error
	List(ctx context.Context) ([]model.CommunityMessage, error)
}

// Stores bundles the gorm-backed stores sharing one connection.
type Stores struct {
	Users      Users
	Reminders  Reminders
	VoiceFiles VoiceFiles
	Feed       Feed
}

// New returns gorm implementations of every store.
func New(db *gorm.DB) *Stores {
	return &Stores{
		Users:      NewUserStore(db),
		Reminders:  NewReminderStore(db),
		VoiceFiles: NewVoiceFileStore(db),
		Feed:       NewFeedStore(db),
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
