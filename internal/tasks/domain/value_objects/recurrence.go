package value_objects

import (
	"errors"
	"strings"
	"time"
)

// Recurrence represents how often a task repeats.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

// ErrInvalidRecurrence is returned when a string does not name a recurrence kind.
var ErrInvalidRecurrence = errors.New("invalid recurrence value")

// ParseRecurrence creates a Recurrence from a string. An empty string
// parses as RecurrenceNone.
func ParseRecurrence(s string) (Recurrence, error) {
	switch Recurrence(strings.ToLower(strings.TrimSpace(s))) {
	case "", RecurrenceNone:
		return RecurrenceNone, nil
	case RecurrenceDaily:
		return RecurrenceDaily, nil
	case RecurrenceWeekly:
		return RecurrenceWeekly, nil
	case RecurrenceMonthly:
		return RecurrenceMonthly, nil
	case RecurrenceYearly:
		return RecurrenceYearly, nil
	default:
		return RecurrenceNone, ErrInvalidRecurrence
	}
}

// String returns the string representation of the recurrence.
func (r Recurrence) String() string {
	return string(r)
}

// IsValid returns true if the recurrence is a known kind.
func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	default:
		return false
	}
}

// IsRepeating returns true for any kind other than none.
func (r Recurrence) IsRepeating() bool {
	return r.IsValid() && r != RecurrenceNone
}

// Next returns t advanced by one recurrence step. Monthly and yearly steps
// use calendar arithmetic, so Jan 31 + monthly lands on the normalized
// date the standard library produces (Mar 2/3), matching AddDate semantics.
func (r Recurrence) Next(t time.Time) time.Time {
	switch r {
	case RecurrenceDaily:
		return t.AddDate(0, 0, 1)
	case RecurrenceWeekly:
		return t.AddDate(0, 0, 7)
	case RecurrenceMonthly:
		return t.AddDate(0, 1, 0)
	case RecurrenceYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t
	}
}
