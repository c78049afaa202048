// Package relative resolves relative-time expressions such as "now-7d" or
// "now-1d|h" into absolute instants, either one expression at a time or
// across the fields of a record like {from, to}.
package relative

import (
	"time"

	"github.com/spiffcs/reltime/internal/calendar"
)

// Clock supplies the instant expressions are resolved against.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now returns f().
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Fixed returns a Clock that always reports t.
func Fixed(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Calendar performs the unit arithmetic behind offsets and rounding.
// *calendar.Calendar implements it.
type Calendar interface {
	Add(t time.Time, amount float64, u calendar.Unit) (time.Time, error)
	Subtract(t time.Time, amount float64, u calendar.Unit) (time.Time, error)
	StartOf(t time.Time, u calendar.Unit) (time.Time, error)
	EndOf(t time.Time, u calendar.Unit) (time.Time, error)
}

// TraceFunc observes every successfully evaluated expression.
type TraceFunc func(e Expression, now, result time.Time)

// Resolver turns expressions into instants. A Resolver holds no mutable
// state and is safe for concurrent use.
type Resolver struct {
	clock Clock
	cal   Calendar
	trace TraceFunc
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock sets the source of "now". The default is SystemClock.
func WithClock(c Clock) Option {
	return func(r *Resolver) {
		r.clock = c
	}
}

// WithCalendar replaces the calendar used for unit arithmetic.
func WithCalendar(c Calendar) Option {
	return func(r *Resolver) {
		r.cal = c
	}
}

// WithTrace registers a hook called after each evaluation.
func WithTrace(fn TraceFunc) Option {
	return func(r *Resolver) {
		r.trace = fn
	}
}

// New creates a Resolver with the given options applied.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		clock: SystemClock,
		cal:   calendar.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Now returns the resolver's current instant.
func (r *Resolver) Now() time.Time {
	return r.clock.Now()
}

// ResolveString parses s and evaluates it against the current instant.
func (r *Resolver) ResolveString(s string) (time.Time, error) {
	e, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return r.Eval(e)
}

// Eval evaluates a parsed expression against the current instant.
func (r *Resolver) Eval(e Expression) (time.Time, error) {
	return r.EvalAt(e, r.clock.Now())
}

// EvalAt evaluates e against now. The offset is applied first and the
// rounding second, so "now-1d|h" is one day ago floored to the hour.
func (r *Resolver) EvalAt(e Expression, now time.Time) (time.Time, error) {
	t := now

	if e.HasOffset() {
		var err error
		op := "add"
		if e.Operator == OpSubtract {
			op = "subtract"
			t, err = r.cal.Subtract(t, e.Amount, e.Unit)
		} else {
			t, err = r.cal.Add(t, e.Amount, e.Unit)
		}
		if err != nil {
			return time.Time{}, &UnitArithmeticError{Expr: e.text(), Op: op, Unit: e.Unit.String(), Err: err}
		}
	}

	if e.HasRounding() {
		var err error
		op := "start of"
		if e.Rounding.Direction == RoundUp {
			op = "end of"
			t, err = r.cal.EndOf(t, e.Rounding.Unit)
		} else {
			t, err = r.cal.StartOf(t, e.Rounding.Unit)
		}
		if err != nil {
			return time.Time{}, &UnitArithmeticError{Expr: e.text(), Op: op, Unit: e.Rounding.Unit.String(), Err: err}
		}
	}

	if r.trace != nil {
		r.trace(e, now, t)
	}
	return t, nil
}
