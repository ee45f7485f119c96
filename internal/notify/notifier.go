// Package notify messages caretakers about doses that are overdue and still
// not marked taken.
package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pathakanu/pillpal/internal/model"
	myopenai "github.com/pathakanu/pillpal/internal/openai"
	"github.com/pathakanu/pillpal/internal/reminder"
	"github.com/pathakanu/pillpal/internal/store"
	"github.com/robfig/cron/v3"
)

// DayLayout keys alerts by calendar day.
const DayLayout = "2006-01-02"

// Messenger delivers a text message to a phone number.
type Messenger interface {
	Configured() bool
	SendMessage(to, body string) (string, error)
}

// Composer words an alert.
type Composer interface {
	ComposeCaretakerAlert(ctx context.Context, in myopenai.AlertInput) (string, error)
}

// Options configures a Notifier.
type Options struct {
	// Schedule is a robfig/cron spec for the sweep, e.g. "@every 1m".
	Schedule string
	// After is how long a reminder must be overdue before an alert goes out.
	After time.Duration
	// Location is the wall clock reminders are evaluated on.
	Location *time.Location
}

// Notifier coordinates caretaker alert sweeps.
type Notifier struct {
	users     store.Users
	reminders store.Reminders
	messenger Messenger
	composer  Composer
	opts      Options
	cron      *cron.Cron
	logger    *log.Logger
	now       func() time.Time

	mu sync.Mutex // serializes sweeps
}

// New creates a Notifier.
func New(users store.Users, reminders store.Reminders, messenger Messenger, composer Composer, opts Options, logger *log.Logger) *Notifier {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Schedule == "" {
		opts.Schedule = "@every 1m"
	}
	return &Notifier{
		users:     users,
		reminders: reminders,
		messenger: messenger,
		composer:  composer,
		opts:      opts,
		cron:      cron.New(cron.WithLocation(opts.Location)),
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the sweep job and starts the scheduler loop. It does
// nothing when no messenger is configured.
func (n *Notifier) Start() error {
	if n.messenger == nil || !n.messenger.Configured() {
		n.logger.Printf("notify: caretaker alerts disabled (messaging not configured)")
		return nil
	}
	_, err := n.cron.AddFunc(n.opts.Schedule, func() {
		sent := n.Sweep(context.Background(), n.now().In(n.opts.Location))
		if sent > 0 {
			n.logger.Printf("notify: sent %d caretaker alert(s)", sent)
		}
	})
	if err != nil {
		return err
	}
	n.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running sweep.
func (n *Notifier) Stop() {
	ctx := n.cron.Stop()
	<-ctx.Done()
}

// Sweep alerts caretakers about every reminder overdue by at least
// Options.After at now that has not been alerted today, and returns the number
// of alerts sent.
func (n *Notifier) Sweep(ctx context.Context, now time.Time) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	users, err := n.users.ListWithCaretaker(ctx)
	if err != nil {
		n.logger.Printf("notify: fetch users: %v", err)
		return 0
	}

	sent := 0
	for i := range users {
		sent += n.dispatchUserAlerts(ctx, &users[i], now)
	}
	return sent
}

func (n *Notifier) dispatchUserAlerts(ctx context.Context, user *model.User, now time.Time) int {
	reminders, err := n.reminders.ListByUser(ctx, user.ID)
	if err != nil {
		n.logger.Printf("notify: user %s: %v", user.ID, err)
		return 0
	}

	today := now.Format(DayLayout)
	sent := 0
	for _, r := range reminders {
		if r.AlertedOn == today {
			continue
		}
		overdue, ok := reminder.OverdueBy(r, now)
		if !ok || overdue < n.opts.After {
			continue
		}

		body, err := n.composer.ComposeCaretakerAlert(ctx, myopenai.AlertInput{
			PatientName:    user.Name,
			CaretakerName:  user.CaretakerName,
			MedicationName: r.MedicationName,
			Dosage:         r.Dosage,
			TimeDisplay:    reminder.DisplayTime(r.Time),
		})
		if err != nil {
			n.logger.Printf("notify: compose alert: %v", err)
		}

		if _, err := n.messenger.SendMessage(user.CaretakerNumber, body); err != nil {
			n.logger.Printf("notify: send alert for reminder %s: %v", r.ID, err)
			continue
		}
		if err := n.reminders.MarkAlerted(ctx, user.ID, r.ID, today); err != nil {
			n.logger.Printf("notify: mark reminder %s alerted: %v", r.ID, err)
		}
		sent++
	}
	return sent
}
