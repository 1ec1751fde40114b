package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DateFormat is the ISO-8601 calendar date layout used for storage and display.
const DateFormat = "2006-01-02"

// readDateFormat also accepts single-digit months and days.
const readDateFormat = "2006-1-2"

const secondsPerDay = 24 * 60 * 60

// Date is a calendar date at midnight UTC.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day.
// Out of range values are normalized the way time.Date does.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string. Time-of-day suffixes such as
// "2024-03-01T10:00:00Z" are ignored.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i > 0 {
		s = s[:i]
	}
	t, err := time.Parse(readDateFormat, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// IsEmpty returns true if the date is zero (for optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateFormat)
}

func (d Date) Before(x Date) bool { return d.Time.Before(x.Time) }
func (d Date) After(x Date) bool  { return d.Time.After(x.Time) }
func (d Date) Equal(x Date) bool  { return d.Time.Equal(x.Time) }

// Compare returns -1, 0 or +1 like time.Time.Compare.
func (d Date) Compare(x Date) int { return d.Time.Compare(x.Time) }

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// AddMonthsClamped moves n calendar months forward and places the result on
// anchorDay, clamped to the last day of the target month.
func (d Date) AddMonthsClamped(n, anchorDay int) Date {
	first := time.Date(d.Year(), d.Time.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := DaysInMonth(first.Year(), first.Month())
	if anchorDay > last {
		anchorDay = last
	}
	if anchorDay < 1 {
		anchorDay = 1
	}
	return NewDate(first.Year(), int(first.Month()), anchorDay)
}

// DaysUntil returns the number of whole days from d to x; negative when x is earlier.
// Both dates sit on UTC midnight, so the difference is exact in seconds.
func (d Date) DaysUntil(x Date) int {
	return int((x.Unix() - d.Unix()) / secondsPerDay)
}

// MonthKey returns the calendar month d belongs to.
func (d Date) MonthKey() MonthKey {
	return MonthKey{Year: d.Year(), Month: d.Time.Month()}
}

// DaysInMonth returns the number of days of the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
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

// MonthKey identifies a calendar month of a specific year.
type MonthKey struct {
	Year  int
	Month time.Month
}

func (k MonthKey) String() string {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Contains reports whether d falls inside the month.
func (k MonthKey) Contains(d Date) bool {
	return d.Year() == k.Year && d.Time.Month() == k.Month
}

// Prev returns the previous calendar month.
func (k MonthKey) Prev() MonthKey {
	t := time.Date(k.Year, k.Month-1, 1, 0, 0, 0, 0, time.UTC)
	return MonthKey{Year: t.Year(), Month: t.Month()}
}
