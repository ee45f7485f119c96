package store

import (
	"context"
	"time"

	"github.com/pathakanu/pillpal/internal/model"
	"gorm.io/gorm"
)

// ReminderStore is the gorm-backed reminder store. Every query is scoped by
// user id so one user can never touch another's reminders.
type ReminderStore struct {
	db *gorm.DB
}

func NewReminderStore(db *gorm.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

func (s *ReminderStore) Create(ctx context.Context, reminder *model.Reminder) error {
	return s.db.WithContext(ctx).Create(reminder).Error
}

// ListByUser returns the user's reminders in insertion order.
func (s *ReminderStore) ListByUser(ctx context.Context, userID string) ([]model.Reminder, error) {
	var reminders []model.Reminder
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&reminders).Error
	return reminders, err
}

// MarkTaken flags the reminder as taken. ErrNotFound when the id is not in
// the user's list.
func (s *ReminderStore) MarkTaken(ctx context.Context, userID, id string, at time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"taken": true, "taken_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the reminder if present. Missing ids are not an error.
func (s *ReminderStore) Delete(ctx context.Context, userID, id string) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Reminder{}).Error
}

// MarkAlerted records the day a caretaker alert went out for the reminder.
func (s *ReminderStore) MarkAlerted(ctx context.Context, userID, id, day string) error {
	res := s.db.WithContext(ctx).
		Model(&model.Reminder{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("alerted_on", day)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
