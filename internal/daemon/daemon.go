// Package daemon drives the reminder poll loop: every interval it asks
// the store for due reminders, presents each one, and persists the
// resulting state transition.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kapilsuryawanshi/ReminderCLI/internal/schedule"
	"github.com/kapilsuryawanshi/ReminderCLI/internal/storage"
)

// ReminderStore abstracts the persistence operations the loop needs.
type ReminderStore interface {
	DueNow(now time.Time) ([]storage.Reminder, error)
	Delete(id int64) error
	SetStatus(id int64, status string) error
	UpdateTimes(id int64, u storage.TimesUpdate) error
}

// Notifier presents a due reminder and blocks until the user picks an
// action. There is deliberately no timeout: a reminder stays on screen
// until acknowledged.
type Notifier interface {
	Present(ctx context.Context, r storage.Reminder) (schedule.Action, error)
}

// Loop polls the store for due reminders on a fixed cadence.
type Loop struct {
	store    ReminderStore
	notifier Notifier
	interval time.Duration
	backoff  time.Duration
	snooze   time.Duration
	logger   *slog.Logger

	// now is swappable so tests can pin the clock.
	now func() time.Time
}

// NewLoop creates a Loop. Non-positive durations fall back to defaults:
// 30s poll interval, 2m backoff, 5m snooze.
func NewLoop(store ReminderStore, notifier Notifier, interval, backoff, snooze time.Duration) *Loop {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if backoff <= 0 {
		backoff = 2 * time.Minute
	}
	if snooze <= 0 {
		snooze = schedule.DefaultSnooze
	}
	return &Loop{
		store:    store,
		notifier: notifier,
		interval: interval,
		backoff:  backoff,
		snooze:   snooze,
		logger:   slog.Default(),
		now:      time.Now,
	}
}

// Run polls until ctx is cancelled. A failed cycle (store unreachable,
// presentation surface broken) is logged and retried after the backoff
// interval instead of the poll interval; it never terminates the loop.
func (l *Loop) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		sleep := l.interval
		if err := l.RunOnce(ctx); err != nil {
			l.logger.Error("poll cycle failed, backing off", "error", err, "backoff", l.backoff)
			sleep = l.backoff
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(sleep):
		}
	}
}

// RunOnce performs a single poll cycle: fetch the due set and handle
// each reminder in turn. A failure while handling one reminder is
// logged and does not abort the rest of the cycle; only a failure of
// the cycle itself (the due query) is returned.
func (l *Loop) RunOnce(ctx context.Context) error {
	due, err := l.store.DueNow(l.now())
	if err != nil {
		return fmt.Errorf("querying due reminders: %w", err)
	}

	for _, r := range due {
		if ctx.Err() != nil {
			return nil
		}
		if err := l.handle(ctx, r); err != nil {
			l.logger.Warn("handling reminder failed", "id", r.ID, "error", err)
		}
	}
	return nil
}

// handle presents one due reminder and applies the chosen transition.
// Presentation blocks until the user responds.
func (l *Loop) handle(ctx context.Context, r storage.Reminder) error {
	action, err := l.notifier.Present(ctx, r)
	if err != nil {
		return fmt.Errorf("presenting reminder: %w", err)
	}
	shownAt := l.now()

	outcome, err := schedule.Apply(r, action, shownAt, l.snooze)
	if err != nil {
		return err
	}

	l.logger.Info("reminder acknowledged", "id", r.ID, "action", action.String())
	return l.persist(r.ID, outcome)
}

// persist applies an engine outcome through the store. Each mutation is
// a single atomic store call, so an interrupted daemon never leaves a
// reminder half-updated.
func (l *Loop) persist(id int64, o schedule.Outcome) error {
	if o.Delete {
		if err := l.store.Delete(id); err != nil {
			return fmt.Errorf("deleting reminder: %w", err)
		}
		return nil
	}

	u := storage.TimesUpdate{
		LastShown:     o.LastShown,
		ScheduledTime: o.ScheduledTime,
		SnoozeUntil:   o.SnoozeUntil,
	}
	if err := l.store.UpdateTimes(id, u); err != nil {
		return fmt.Errorf("updating reminder times: %w", err)
	}
	if o.Status != "" {
		if err := l.store.SetStatus(id, o.Status); err != nil {
			return fmt.Errorf("updating reminder status: %w", err)
		}
	}
	return nil
}
