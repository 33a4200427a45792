package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/kapilsuryawanshi/ReminderCLI/internal/storage"
)

func testReminder(duration string) storage.Reminder {
	return storage.Reminder{
		ID:            1,
		Message:       "Pay rent",
		ScheduledTime: testNow.Add(-time.Minute),
		Status:        storage.StatusActive,
		Duration:      duration,
	}
}

func TestApplyDismiss(t *testing.T) {
	out, err := Apply(testReminder("25m"), ActionDismiss, testNow, 0)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if !out.Delete {
		t.Error("dismiss should delete the reminder")
	}
	if out.Status != "" || out.LastShown != nil || out.ScheduledTime != nil || out.SnoozeUntil != nil {
		t.Errorf("dismiss outcome carries extra updates: %+v", out)
	}
}

func TestApplySnooze(t *testing.T) {
	shownAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	out, err := Apply(testReminder("25m"), ActionSnooze, shownAt, 0)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if out.Delete {
		t.Fatal("snooze must not delete")
	}
	if out.Status != storage.StatusSnoozed {
		t.Errorf("status = %q, want snoozed", out.Status)
	}
	if out.SnoozeUntil == nil || !out.SnoozeUntil.Equal(shownAt.Add(5*time.Minute)) {
		t.Errorf("snooze_until = %v, want 12:05", out.SnoozeUntil)
	}
	if out.LastShown == nil || !out.LastShown.Equal(shownAt) {
		t.Errorf("last_shown = %v, want presentation time", out.LastShown)
	}
	if out.ScheduledTime != nil {
		t.Error("snooze must not touch scheduled_time")
	}
}

func TestApplySnoozeCustomInterval(t *testing.T) {
	out, err := Apply(testReminder("25m"), ActionSnooze, testNow, 10*time.Minute)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if out.SnoozeUntil == nil || !out.SnoozeUntil.Equal(testNow.Add(10*time.Minute)) {
		t.Errorf("snooze_until = %v, want now+10m", out.SnoozeUntil)
	}
}

// Repeat recomputes the schedule from the presentation time, not from
// the stale scheduled_time.
func TestApplyRepeatHours(t *testing.T) {
	shownAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	out, err := Apply(testReminder("2h"), ActionRepeat, shownAt, 0)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if out.Delete {
		t.Fatal("repeat must not delete")
	}
	if out.Status != "" {
		t.Errorf("status = %q, want unchanged (empty)", out.Status)
	}
	if out.ScheduledTime == nil || !out.ScheduledTime.Equal(shownAt.Add(2*time.Hour)) {
		t.Errorf("scheduled_time = %v, want shownAt+2h", out.ScheduledTime)
	}
	if out.LastShown == nil || !out.LastShown.Equal(shownAt) {
		t.Errorf("last_shown = %v, want presentation time", out.LastShown)
	}
	if out.SnoozeUntil != nil {
		t.Error("repeat must not touch snooze_until")
	}
}

func TestApplyRepeatClockRollsForward(t *testing.T) {
	shownAt := time.Date(2025, 3, 10, 9, 5, 0, 0, time.Local)
	out, err := Apply(testReminder("09:00"), ActionRepeat, shownAt, 0)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	want := time.Date(2025, 3, 11, 9, 0, 0, 0, time.Local)
	if out.ScheduledTime == nil || !out.ScheduledTime.Equal(want) {
		t.Errorf("scheduled_time = %v, want %v (next day)", out.ScheduledTime, want)
	}
}

func TestApplyRepeatCorruptDuration(t *testing.T) {
	_, err := Apply(testReminder("whenever"), ActionRepeat, testNow, 0)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("error = %v, want ErrInvalidFormat", err)
	}
}

func TestApplyUnknownAction(t *testing.T) {
	if _, err := Apply(testReminder("25m"), Action(42), testNow, 0); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestActionString(t *testing.T) {
	cases := map[Action]string{
		ActionDismiss: "dismiss",
		ActionSnooze:  "snooze",
		ActionRepeat:  "repeat",
	}
	for a, want := range cases {
		if got := a.String(); got != want {
			t.Errorf("Action(%d).String() = %q, want %q", int(a), got, want)
		}
	}
}
