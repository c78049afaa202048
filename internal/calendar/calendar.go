// Package calendar implements the add, subtract, start-of and end-of
// operations that relative expressions are resolved with.
//
// Arithmetic follows moment.js conventions: sub-day units move the instant by
// an exact (possibly fractional) duration floored to the millisecond, while
// days and months are calendar steps with fractional amounts rounded to the
// nearest whole step. Weeks count as seven days, quarters as three months and
// years as twelve months before rounding.
package calendar

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrUnsupportedUnit is returned for a Unit outside the supported set.
	ErrUnsupportedUnit = errors.New("unsupported unit")

	// ErrOutOfRange is returned when an amount cannot be represented.
	ErrOutOfRange = errors.New("amount out of range")
)

const maxYears = 1_000_000

const (
	maxMonths = 12 * maxYears
	maxDays   = 366 * maxYears
	// time.Duration holds roughly 292 years of nanoseconds.
	maxMillis = math.MaxInt64 / int64(time.Millisecond)
)

var unitMillis = map[Unit]float64{
	Millisecond: 1,
	Second:      1e3,
	Minute:      60e3,
	Hour:        3600e3,
}

// Calendar performs unit arithmetic on time.Time values. The zero value is
// not usable; create one with New.
type Calendar struct {
	weekStart time.Weekday
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithWeekStart sets the first day of the week used by StartOf(Week) and
// EndOf(Week). The default is Sunday.
func WithWeekStart(d time.Weekday) Option {
	return func(c *Calendar) {
		c.weekStart = d
	}
}

// New creates a Calendar with the given options applied.
func New(opts ...Option) *Calendar {
	c := &Calendar{weekStart: time.Sunday}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WeekStart returns the configured first day of the week.
func (c *Calendar) WeekStart() time.Weekday {
	return c.weekStart
}

// Add moves t forward by amount units. Negative amounts move backwards.
func (c *Calendar) Add(t time.Time, amount float64, u Unit) (time.Time, error) {
	if !u.Valid() {
		return time.Time{}, fmt.Errorf("%w: %d", ErrUnsupportedUnit, int(u))
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return time.Time{}, fmt.Errorf("%w: %v", ErrOutOfRange, amount)
	}

	switch u {
	case Millisecond, Second, Minute, Hour:
		ms := amount * unitMillis[u]
		if math.Abs(ms) > float64(maxMillis) {
			return time.Time{}, fmt.Errorf("%w: %v %s", ErrOutOfRange, amount, u)
		}
		return t.Add(time.Duration(math.Floor(ms)) * time.Millisecond), nil
	case Day, Week:
		days := amount
		if u == Week {
			days *= 7
		}
		days = math.Round(days)
		if math.Abs(days) > maxDays {
			return time.Time{}, fmt.Errorf("%w: %v %s", ErrOutOfRange, amount, u)
		}
		return t.AddDate(0, 0, int(days)), nil
	default:
		months := amount
		switch u {
		case Quarter:
			months *= 3
		case Year:
			months *= 12
		}
		months = math.Round(months)
		if math.Abs(months) > maxMonths {
			return time.Time{}, fmt.Errorf("%w: %v %s", ErrOutOfRange, amount, u)
		}
		return addMonths(t, int(months)), nil
	}
}

// Subtract moves t backwards by amount units.
func (c *Calendar) Subtract(t time.Time, amount float64, u Unit) (time.Time, error) {
	return c.Add(t, -amount, u)
}

// StartOf returns the first instant of the u-period containing t.
func (c *Calendar) StartOf(t time.Time, u Unit) (time.Time, error) {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	loc := t.Location()

	switch u {
	case Millisecond:
		ns := t.Nanosecond()
		return time.Date(y, mo, d, h, mi, s, ns-ns%int(time.Millisecond), loc), nil
	case Second:
		return time.Date(y, mo, d, h, mi, s, 0, loc), nil
	case Minute:
		return time.Date(y, mo, d, h, mi, 0, 0, loc), nil
	case Hour:
		return time.Date(y, mo, d, h, 0, 0, 0, loc), nil
	case Day:
		return time.Date(y, mo, d, 0, 0, 0, 0, loc), nil
	case Week:
		back := (int(t.Weekday()) - int(c.weekStart) + 7) % 7
		return time.Date(y, mo, d-back, 0, 0, 0, 0, loc), nil
	case Month:
		return time.Date(y, mo, 1, 0, 0, 0, 0, loc), nil
	case Quarter:
		first := time.Month((int(mo)-1)/3*3 + 1)
		return time.Date(y, first, 1, 0, 0, 0, 0, loc), nil
	case Year:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("%w: %d", ErrUnsupportedUnit, int(u))
}

// EndOf returns the last instant of the u-period containing t, one
// nanosecond before the next period starts.
func (c *Calendar) EndOf(t time.Time, u Unit) (time.Time, error) {
	start, err := c.StartOf(t, u)
	if err != nil {
		return time.Time{}, err
	}

	var next time.Time
	switch u {
	case Millisecond:
		next = start.Add(time.Millisecond)
	case Second:
		next = start.Add(time.Second)
	case Minute:
		next = start.Add(time.Minute)
	case Hour:
		next = start.Add(time.Hour)
	case Day:
		next = start.AddDate(0, 0, 1)
	case Week:
		next = start.AddDate(0, 0, 7)
	case Month:
		next = start.AddDate(0, 1, 0)
	case Quarter:
		next = start.AddDate(0, 3, 0)
	case Year:
		next = start.AddDate(1, 0, 0)
	}
	return next.Add(-time.Nanosecond), nil
}

// addMonths shifts t by n months, clamping the day to the length of the
// target month so Jan 31 + 1 month lands on the last day of February.
func addMonths(t time.Time, n int) time.Time {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()

	total := int(mo) - 1 + n
	ty := y + floorDiv(total, 12)
	tm := time.Month(total - floorDiv(total, 12)*12 + 1)

	if last := daysIn(ty, tm); d > last {
		d = last
	}
	return time.Date(ty, tm, d, h, mi, s, t.Nanosecond(), t.Location())
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
