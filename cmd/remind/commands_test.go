package main

import (
	"testing"
	"time"

	"github.com/kapilsuryawanshi/ReminderCLI/internal/storage"
)

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList("3,99")
	if err != nil {
		t.Fatalf("parseIDList: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 99 {
		t.Errorf("ids = %v, want [3 99]", ids)
	}
}

func TestParseIDListWithSpaces(t *testing.T) {
	ids, err := parseIDList("1, 2 ,5")
	if err != nil {
		t.Fatalf("parseIDList: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 5 {
		t.Errorf("ids = %v, want [1 2 5]", ids)
	}
}

func TestParseIDListMalformed(t *testing.T) {
	for _, s := range []string{"abc", "1,x", "", "1,,2"} {
		if _, err := parseIDList(s); err == nil {
			t.Errorf("parseIDList(%q) succeeded, want error", s)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 30); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	long := "this message is far too long to fit in the column"
	got := truncate(long, 30)
	if len([]rune(got)) != 30 {
		t.Errorf("truncated length = %d, want 30", len([]rune(got)))
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("truncated = %q, want ellipsis suffix", got)
	}
}

func TestFormatStamp(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local)

	sameDay := time.Date(2025, 3, 10, 18, 30, 0, 0, time.Local)
	if got := formatStamp(sameDay, now); got != "18:30" {
		t.Errorf("same-day stamp = %q, want 18:30", got)
	}

	nextDay := time.Date(2025, 3, 11, 9, 0, 0, 0, time.Local)
	if got := formatStamp(nextDay, now); got != "2025-03-11 09:00" {
		t.Errorf("next-day stamp = %q, want full date", got)
	}
}

func TestStatusDisplay(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 3, 0, 0, time.Local)
	until := time.Date(2025, 3, 10, 12, 5, 0, 0, time.Local)

	snoozed := storage.Reminder{Status: storage.StatusSnoozed, SnoozeUntil: &until}
	if got := statusDisplay(snoozed, now); got != "Snoozed until 12:05" {
		t.Errorf("statusDisplay = %q, want %q", got, "Snoozed until 12:05")
	}

	// An expired snooze reads as active even before the store reconciles.
	late := time.Date(2025, 3, 10, 12, 6, 0, 0, time.Local)
	if got := statusDisplay(snoozed, late); got != "Active" {
		t.Errorf("statusDisplay after expiry = %q, want Active", got)
	}

	active := storage.Reminder{Status: storage.StatusActive}
	if got := statusDisplay(active, now); got != "Active" {
		t.Errorf("statusDisplay = %q, want Active", got)
	}
}

func TestDurationOr(t *testing.T) {
	if got := durationOr("45s", time.Minute); got != 45*time.Second {
		t.Errorf("durationOr(45s) = %v", got)
	}
	if got := durationOr("garbage", time.Minute); got != time.Minute {
		t.Errorf("durationOr(garbage) = %v, want fallback", got)
	}
}
