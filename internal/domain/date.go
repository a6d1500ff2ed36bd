package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/util"
)

// Persisted layouts for calendar dates and months
const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Clock returns the current instant
type Clock func() time.Time

// SystemClock is the wall clock in UTC
func SystemClock() time.Time {
	return time.Now().UTC()
}

// Date is a calendar day. Time of day and zone are always zero / UTC.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t
func DateOf(t time.Time) Date {
	return Date{Time: util.TruncateToDay(t)}
}

// Today returns the calendar day the clock is on
func Today(clock Clock) Date {
	return DateOf(clock())
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// ParseMonth validates a YYYY-MM string and returns its first day
func ParseMonth(s string) (Date, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Date{Time: t}, nil
}

// MonthKey formats the month of t as YYYY-MM
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// YearMonth returns the YYYY-MM the date falls in, or "" for the zero date
func (d Date) YearMonth() string {
	if d.IsZero() {
		return ""
	}
	return MonthKey(d.Time)
}

// InMonth reports whether the date falls within the given YYYY-MM
func (d Date) InMonth(month string) bool {
	return !d.IsZero() && d.YearMonth() == month
}

// AddDays returns the date n calendar days later
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// DaysUntil returns the number of calendar days from today to d
func (d Date) DaysUntil(today Date) int {
	return util.DaysBetween(today.Time, d.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(data))
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
