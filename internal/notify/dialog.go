// Package notify presents due reminders as modal desktop dialogs.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ncruces/zenity"

	"github.com/kapilsuryawanshi/ReminderCLI/internal/schedule"
	"github.com/kapilsuryawanshi/ReminderCLI/internal/storage"
)

const timeLayout = "2006-01-02 15:04:05"

// Dialog shows reminders in a system question dialog with three
// choices: Remove, Snooze 5 min, and Repeat.
type Dialog struct{}

func NewDialog() *Dialog {
	return &Dialog{}
}

// Present blocks until the user picks a button. Closing the dialog
// counts as Repeat so an unacknowledged reminder comes back instead of
// being lost.
func (d *Dialog) Present(ctx context.Context, r storage.Reminder) (schedule.Action, error) {
	err := zenity.Question(dialogBody(r),
		zenity.Title("Reminder"),
		zenity.OKLabel("Remove"),
		zenity.ExtraButton("Snooze for 5 min"),
		zenity.CancelLabel("Repeat"),
		zenity.Context(ctx),
	)
	switch {
	case err == nil:
		return schedule.ActionDismiss, nil
	case errors.Is(err, zenity.ErrExtraButton):
		return schedule.ActionSnooze, nil
	case errors.Is(err, zenity.ErrCanceled):
		return schedule.ActionRepeat, nil
	}
	return 0, fmt.Errorf("showing reminder dialog: %w", err)
}

func dialogBody(r storage.Reminder) string {
	var b strings.Builder
	b.WriteString(r.Message)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Duration/Time: %s\n", r.Duration)
	if r.LastShown != nil {
		fmt.Fprintf(&b, "Last shown: %s\n", r.LastShown.Format(timeLayout))
	} else {
		b.WriteString("Last shown: Never\n")
	}
	fmt.Fprintf(&b, "Scheduled for: %s", r.ScheduledTime.Format(timeLayout))
	return b.String()
}
