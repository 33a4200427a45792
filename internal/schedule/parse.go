package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidFormat is returned when a time token matches none of the
// accepted shapes (hh:mm, Nm, Nh).
var ErrInvalidFormat = errors.New("invalid time format, use hh:mm, Nm, or Nh")

// ErrOutOfRange is returned when a token has a valid shape but its
// numeric value falls outside the accepted range.
var ErrOutOfRange = errors.New("value out of range")

var (
	clockRe   = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	minutesRe = regexp.MustCompile(`^\d{1,3}m$`)
	hoursRe   = regexp.MustCompile(`^\d{1,2}h$`)
)

// Parse converts a user-supplied time token into an absolute local
// timestamp plus the canonical duration token retained for repeats.
//
// Accepted shapes, first match wins:
//
//	hh:mm  next occurrence of that wall-clock time (rolls to tomorrow
//	       if the time has already passed today)
//	Nm     now + N minutes, N in [1,500]
//	Nh     now + N hours, N in [1,24]
func Parse(token string, now time.Time) (time.Time, string, error) {
	lower := strings.ToLower(token)

	switch {
	case clockRe.MatchString(token):
		parts := strings.SplitN(token, ":", 2)
		hour, _ := strconv.Atoi(parts[0])
		minute, _ := strconv.Atoi(parts[1])
		if hour > 23 || minute > 59 {
			return time.Time{}, "", fmt.Errorf("%w: hours must be 0-23, minutes 0-59", ErrOutOfRange)
		}
		scheduled := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !scheduled.After(now) {
			scheduled = scheduled.AddDate(0, 0, 1)
		}
		return scheduled, token, nil

	case minutesRe.MatchString(lower):
		n, _ := strconv.Atoi(lower[:len(lower)-1])
		if n < 1 || n > 500 {
			return time.Time{}, "", fmt.Errorf("%w: minutes must be between 1 and 500", ErrOutOfRange)
		}
		return now.Add(time.Duration(n) * time.Minute), token, nil

	case hoursRe.MatchString(lower):
		n, _ := strconv.Atoi(lower[:len(lower)-1])
		if n < 1 || n > 24 {
			return time.Time{}, "", fmt.Errorf("%w: hours must be between 1 and 24", ErrOutOfRange)
		}
		return now.Add(time.Duration(n) * time.Hour), token, nil
	}

	return time.Time{}, "", fmt.Errorf("%w: %q", ErrInvalidFormat, token)
}

// Remaining formats the time left until scheduled as "2h 5m" or "33m".
// A zero scheduled time renders as "N/A"; a time already reached
// renders as "Due". Purely presentational, no side effects.
func Remaining(scheduled, now time.Time) string {
	if scheduled.IsZero() {
		return "N/A"
	}

	diff := scheduled.Sub(now)
	if diff <= 0 {
		return "Due"
	}

	total := int(diff / time.Minute)
	hours := total / 60
	minutes := total % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
