package schedule

import (
	"fmt"
	"time"

	"github.com/kapilsuryawanshi/ReminderCLI/internal/storage"
)

// DefaultSnooze is how long a snoozed reminder stays quiet before the
// next reconciliation pass brings it back.
const DefaultSnooze = 5 * time.Minute

// Action is the user's response to a presented reminder.
type Action int

const (
	// ActionDismiss removes the reminder for good.
	ActionDismiss Action = iota
	// ActionSnooze silences the reminder for the snooze interval.
	ActionSnooze
	// ActionRepeat reschedules the reminder using its original token.
	ActionRepeat
)

func (a Action) String() string {
	switch a {
	case ActionDismiss:
		return "dismiss"
	case ActionSnooze:
		return "snooze"
	case ActionRepeat:
		return "repeat"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Outcome describes the store mutation that follows a presentation.
// Nil pointer fields and an empty Status are left untouched by the
// caller; Delete supersedes everything else.
type Outcome struct {
	Delete        bool
	Status        string
	LastShown     *time.Time
	ScheduledTime *time.Time
	SnoozeUntil   *time.Time
}

// Apply computes the state transition for a reminder that was presented
// at shownAt and answered with action. snoozeFor <= 0 uses DefaultSnooze.
//
// Dismiss deletes the record. Snooze moves it to snoozed until
// shownAt+snoozeFor. Repeat recomputes the schedule from the stored
// duration token relative to shownAt (not the old scheduled time) and
// leaves the status active.
func Apply(r storage.Reminder, action Action, shownAt time.Time, snoozeFor time.Duration) (Outcome, error) {
	if snoozeFor <= 0 {
		snoozeFor = DefaultSnooze
	}

	switch action {
	case ActionDismiss:
		return Outcome{Delete: true}, nil

	case ActionSnooze:
		until := shownAt.Add(snoozeFor)
		return Outcome{
			Status:      storage.StatusSnoozed,
			LastShown:   &shownAt,
			SnoozeUntil: &until,
		}, nil

	case ActionRepeat:
		next, _, err := Parse(r.Duration, shownAt)
		if err != nil {
			return Outcome{}, fmt.Errorf("recomputing schedule from duration %q: %w", r.Duration, err)
		}
		// Status stays active; only the schedule advances.
		return Outcome{
			LastShown:     &shownAt,
			ScheduledTime: &next,
		}, nil
	}

	return Outcome{}, fmt.Errorf("unknown action %d", int(action))
}
