package reminder

import (
	"time"

	"github.com/pathakanu/pillpal/internal/model"
)

const (
	// ClockLayout is the stored "HH:MM" form of a reminder time.
	ClockLayout = "15:04"
	// DisplayLayout is the 12-hour form shown to users.
	DisplayLayout = "03:04 PM"
	// DueSoonWindow is how far ahead HasDueSoon looks.
	DueSoonWindow = 10 * time.Minute
)

// IsDue reports whether r's time of day has passed on now's clock and it has
// not been taken. Comparison is lexicographic on zero-padded "HH:MM" strings,
// so a reminder stays due until it is taken or deleted.
func IsDue(r model.Reminder, now time.Time) bool {
	return !r.Taken && r.Time <= now.Format(ClockLayout)
}

// IsDueSoon reports whether the untaken reminder falls within
// [now, now+DueSoonWindow] on now's calendar day. Malformed times are never
// due soon.
func IsDueSoon(r model.Reminder, now time.Time) bool {
	if r.Taken {
		return false
	}
	at, ok := OnDay(r.Time, now)
	if !ok {
		return false
	}
	return !at.Before(now) && !at.After(now.Add(DueSoonWindow))
}

// OverdueBy returns how long ago the reminder's time passed today, and false
// when it is taken, still ahead, or malformed.
func OverdueBy(r model.Reminder, now time.Time) (time.Duration, bool) {
	if r.Taken {
		return 0, false
	}
	at, ok := OnDay(r.Time, now)
	if !ok || at.After(now) {
		return 0, false
	}
	return now.Sub(at), true
}

// OnDay places an "HH:MM" time on day's date and location.
func OnDay(clock string, day time.Time) (time.Time, bool) {
	parsed, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), true
}

// NormalizeClock accepts "H:MM" or "HH:MM" 24h input and returns the
// zero-padded form.
func NormalizeClock(clock string) (string, bool) {
	parsed, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return "", false
	}
	return parsed.Format(ClockLayout), true
}

// DisplayTime renders an "HH:MM" time as "09:00 AM". Malformed input is returned unchanged.
func DisplayTime(clock string) string {
	parsed, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return clock
	}
	return parsed.Format(DisplayLayout)
}
