// Package reminder manages medication reminders and decides which of them
// are due.
package reminder

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pathakanu/pillpal/internal/apperr"
	"github.com/pathakanu/pillpal/internal/model"
	"github.com/pathakanu/pillpal/internal/store"
)

// AddInput is the add-reminder form.
type AddInput struct {
	MedicationName string
	Dosage         string
	Time           string
	VoiceFileID    string
}

// Entry is a reminder prepared for the dashboard.
type Entry struct {
	model.Reminder
	IsDue       bool
	DueSoon     bool
	TimeDisplay string
}

// Dashboard is the dashboard view of one user's reminders.
type Dashboard struct {
	// Reminders holds every reminder ordered by time of day.
	Reminders []Entry
	// Due holds the overdue, untaken subset in the same order.
	Due []Entry
	// HasDueSoon is set when any untaken reminder falls in the next DueSoonWindow.
	HasDueSoon bool
}

// Service implements reminder operations for a single user at a time.
type Service struct {
	reminders  store.Reminders
	voiceFiles store.VoiceFiles
}

func NewService(reminders store.Reminders, voiceFiles store.VoiceFiles) *Service {
	return &Service{reminders: reminders, voiceFiles: voiceFiles}
}

// Add creates a reminder for userID.
func (s *Service) Add(ctx context.Context, userID string, in AddInput, now time.Time) (*model.Reminder, error) {
	name := strings.TrimSpace(in.MedicationName)
	dosage := strings.TrimSpace(in.Dosage)
	clock := strings.TrimSpace(in.Time)
	if name == "" || dosage == "" || clock == "" {
		return nil, apperr.Validation("Please fill in all required fields.")
	}

	normalized, ok := NormalizeClock(clock)
	if !ok {
		return nil, apperr.Validation("Please enter the time as HH:MM.")
	}

	var voiceFileID *string
	if id := strings.TrimSpace(in.VoiceFileID); id != "" {
		if _, err := s.voiceFiles.Get(ctx, userID, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, apperr.Validation("Selected voice recording was not found.")
			}
			return nil, apperr.Internal(err)
		}
		voiceFileID = &id
	}

	r := &model.Reminder{
		ID:             uuid.NewString(),
		UserID:         userID,
		MedicationName: name,
		Dosage:         dosage,
		Time:           normalized,
		VoiceFileID:    voiceFileID,
		CreatedAt:      now,
	}
	if err := s.reminders.Create(ctx, r); err != nil {
		return nil, apperr.Internal(err)
	}
	return r, nil
}

// MarkTaken flags the reminder as taken at now. NotFound when the id is not
// in the user's list.
func (s *Service) MarkTaken(ctx context.Context, userID, reminderID string, now time.Time) error {
	err := s.reminders.MarkTaken(ctx, userID, reminderID, now)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("Reminder not found.")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Delete removes the reminder. Unknown ids are ignored.
func (s *Service) Delete(ctx context.Context, userID, reminderID string) error {
	if err := s.reminders.Delete(ctx, userID, reminderID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// List returns the user's reminders ordered by time of day, earliest first.
func (s *Service) List(ctx context.Context, userID string) ([]model.Reminder, error) {
	reminders, err := s.reminders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].Time < reminders[j].Time
	})
	return reminders, nil
}

// Dashboard evaluates every reminder against now.
func (s *Service) Dashboard(ctx context.Context, userID string, now time.Time) (*Dashboard, error) {
	reminders, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildDashboard(reminders, now), nil
}

// HasDueSoon reports whether any untaken reminder is due within the next
// DueSoonWindow.
func (s *Service) HasDueSoon(ctx context.Context, userID string, now time.Time) (bool, error) {
	n, err := s.DueSoonCount(ctx, userID, now)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DueSoonCount counts the user's untaken reminders due within the next
// DueSoonWindow.
func (s *Service) DueSoonCount(ctx context.Context, userID string, now time.Time) (int, error) {
	reminders, err := s.reminders.ListByUser(ctx, userID)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return CountDueSoon(reminders, now), nil
}

// BuildDashboard is the pure part of Dashboard. reminders must already be sorted.
func BuildDashboard(reminders []model.Reminder, now time.Time) *Dashboard {
	d := &Dashboard{Reminders: make([]Entry, 0, len(reminders))}
	for _, r := range reminders {
		e := Entry{
			Reminder:    r,
			IsDue:       IsDue(r, now),
			DueSoon:     IsDueSoon(r, now),
			TimeDisplay: DisplayTime(r.Time),
		}
		d.Reminders = append(d.Reminders, e)
		if e.IsDue {
			d.Due = append(d.Due, e)
		}
		if e.DueSoon {
			d.HasDueSoon = true
		}
	}
	return d
}

// CountDueSoon counts untaken reminders due within the next DueSoonWindow.
func CountDueSoon(reminders []model.Reminder, now time.Time) int {
	n := 0
	for _, r := range reminders {
		if IsDueSoon(r, now) {
			n++
		}
	}
	return n
}
