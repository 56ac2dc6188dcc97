// Package date provides a day-granularity Date, standard lookback periods and
// chronological series of values indexed by Date.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// Layout is the ISO 8601 layout of a Date.
const Layout = "2006-01-02"

// lenient also accepts single digit months and days.
const lenient = "2006-1-2"

// Date is a calendar day. Dates are comparable with ==.
type Date struct {
	year  int
	month time.Month
	day   int
}

// New returns the Date of year, month and day, normalized like time.Date:
// New(2025, time.January, 32) is February 1st.
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the day of t, in t's location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// Today returns the current day in the local time zone.
func Today() Date { return FromTime(time.Now()) }

// midnight returns the start of d in UTC.
func (d Date) midnight() time.Time { return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC) }

func (d Date) IsZero() bool         { return d == Date{} }
func (d Date) Before(o Date) bool   { return d.midnight().Before(o.midnight()) }
func (d Date) After(o Date) bool    { return d.midnight().After(o.midnight()) }
func (d Date) Add(days int) Date    { return New(d.year, d.month, d.day+days) }
func (d Date) AddMonths(n int) Date { return New(d.year, d.month+time.Month(n), d.day) }
func (d Date) String() string       { return d.midnight().Format(Layout) }

// Parse reads a Date in the ISO 8601 layout, "2025-7-1" is also accepted.
func Parse(s string) (Date, error) {
	t, err := time.Parse(lenient, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return FromTime(t), nil
}

// Dates are JSON strings.
func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
