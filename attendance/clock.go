package attendance

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar date (civil, no time-of-day)
// =============================================================================

// Date is a calendar date. The zero value is not a valid date.
// Internally normalized to midnight UTC; comparisons are date-only.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the civil date of an instant in the given location.
func DateOf(t time.Time, loc *time.Location) Date {
	local := t.In(loc)
	return NewDate(local.Year(), local.Month(), local.Day())
}

func Today(loc *time.Location) Date {
	return DateOf(time.Now(), loc)
}

// DefaultLocation is the organization timezone used when no explicit
// location is configured.
func DefaultLocation() *time.Location { return time.Local }

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Value: s, Reason: "expected YYYY-MM-DD"}
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// =============================================================================
// CLOCK TIME - Civil wall-clock time-of-day ("HH:MM")
// =============================================================================

// ClockTime is a wall-clock time-of-day. Shift boundaries are exchanged
// as "HH:MM" strings anchored to the local calendar day of the event,
// never to UTC midnight.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses an "HH:MM" string (24-hour clock). The whole
// string must be the time; trailing text is rejected.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, &ValidationError{Field: "time", Value: s, Reason: "expected HH:MM"}
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func MustClockTime(s string) ClockTime {
	ct, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return ct
}

// On anchors the time-of-day to a calendar day in the given location
// and returns the resulting absolute instant in UTC.
func (c ClockTime) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, loc).UTC()
}

func (c ClockTime) Minutes() int { return c.Hour*60 + c.Minute }

func (c ClockTime) Before(other ClockTime) bool { return c.Minutes() < other.Minutes() }

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }
