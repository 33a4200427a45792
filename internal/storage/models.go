package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested reminder does not exist.
var ErrNotFound = errors.New("not found")

// Reminder statuses. Anything else found in the database is legacy data
// and gets normalized back to active during reconciliation.
const (
	StatusActive  = "active"
	StatusSnoozed = "snoozed"
)

// Reminder is a single scheduled reminder.
type Reminder struct {
	ID            int64
	Message       string
	ScheduledTime time.Time
	LastShown     *time.Time // nil until first presented
	Status        string
	SnoozeUntil   *time.Time // set only while snoozed
	Duration      string     // original time token ("5m", "2h", "10:30")
	CreatedAt     time.Time
}

// TimesUpdate describes a partial update of a reminder's timestamps.
// Only non-nil fields are written.
type TimesUpdate struct {
	LastShown     *time.Time
	ScheduledTime *time.Time
	SnoozeUntil   *time.Time
}
