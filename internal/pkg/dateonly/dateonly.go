// Package dateonly models calendar dates without a time-of-day component.
//
// Arithmetic is done on UTC midnights built from the civil year, month and day,
// so differences are always whole days regardless of the timezone a Date was
// read in or any daylight-saving transition in between.
package dateonly

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the ISO-8601 calendar date layout used on the wire and in storage.
const Layout = time.DateOnly

// ErrInvalid is returned when a value cannot be read as a calendar date.
var ErrInvalid = errors.New("dateonly: invalid calendar date")

// Date is a civil calendar date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New builds a Date, normalizing out-of-range values the way time.Date does.
func New(year int, month time.Month, day int) Date {
	return Of(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Of returns the calendar date of t as observed in t's own location.
func Of(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// In returns the calendar date of t as observed in loc. A nil loc means t's
// own location.
func In(t time.Time, loc *time.Location) Date {
	if loc != nil {
		t = t.In(loc)
	}
	return Of(t)
}

// Parse reads a "YYYY-MM-DD" date. A full RFC 3339 timestamp is also accepted;
// its date part is taken as written, without shifting through UTC.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("%w: empty value", ErrInvalid)
	}

	if t, err := time.Parse(Layout, s); err == nil {
		return Of(t), nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Of(t), nil
	}

	return Date{}, fmt.Errorf("%w: %q", ErrInvalid, s)
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return Of(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// String formats d as "YYYY-MM-DD".
func (d Date) String() string {
	return d.Time().Format(Layout)
}

// DaysUntil returns the signed number of days from from to to, so a date
// equal to from yields 0 and the day before yields -1. It works on Unix
// seconds because time.Duration saturates at about 292 years.
func DaysUntil(from, to Date) int {
	return int((to.Time().Unix() - from.Time().Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}

	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
