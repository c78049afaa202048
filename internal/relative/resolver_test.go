package relative

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiffcs/reltime/internal/calendar"
)

const fixedUnix = 1470927160 // 2016-08-11 14:52:40 UTC, a Thursday

func fixedResolver(opts ...Option) *Resolver {
	opts = append([]Option{WithClock(Fixed(time.Unix(fixedUnix, 0).UTC()))}, opts...)
	return New(opts...)
}

func TestResolveString(t *testing.T) {
	r := fixedResolver()

	tests := []struct {
		input string
		want  time.Time
	}{
		{"now", time.Unix(fixedUnix, 0)},
		{"now-7d", time.Unix(fixedUnix-7*86400, 0)},
		{"now+7d", time.Unix(fixedUnix+7*86400, 0)},
		{"now+0s", time.Unix(fixedUnix, 0)},
		{"now-1h", time.Unix(fixedUnix-3600, 0)},
		{"now+30m", time.Unix(fixedUnix+1800, 0)},
		{"now-1500ms", time.Unix(fixedUnix, 0).Add(-1500 * time.Millisecond)},
		{"now+0.5h", time.Unix(fixedUnix+1800, 0)},
		{"now-1M", time.Date(2016, time.July, 11, 14, 52, 40, 0, time.UTC)},
		{"now+1Q", time.Date(2016, time.November, 11, 14, 52, 40, 0, time.UTC)},
		{"now-1y", time.Date(2015, time.August, 11, 14, 52, 40, 0, time.UTC)},
		{"now|d", time.Date(2016, time.August, 11, 0, 0, 0, 0, time.UTC)},
		{"now/d", time.Date(2016, time.August, 12, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)},
		{"now|w", time.Date(2016, time.August, 7, 0, 0, 0, 0, time.UTC)},
		{"now|Q", time.Date(2016, time.July, 1, 0, 0, 0, 0, time.UTC)},
		{"now-1d|h", time.Unix(1470837600, 0)},
		{"now+1M/Q", time.Date(2016, time.October, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)},
		{"now-1y|y", time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := r.ResolveString(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want.UTC(), got)
		})
	}
}

func TestResolveNowIsClockInstant(t *testing.T) {
	now := time.Date(2016, time.August, 11, 14, 52, 40, 123_456_789, time.UTC)
	r := New(WithClock(Fixed(now)))

	got, err := r.ResolveString("now")
	require.NoError(t, err)
	assert.Equal(t, now, got)
	assert.Equal(t, now, r.Now())
}

func TestOffsetMatchesCalendar(t *testing.T) {
	now := time.Unix(fixedUnix, 0).UTC()
	r := New(WithClock(Fixed(now)))
	cal := calendar.New()

	for _, u := range calendar.Units() {
		for _, n := range []string{"0", "1", "3", "12", "0.5"} {
			plus, err := r.ResolveString("now+" + n + u.Code())
			require.NoError(t, err)
			minus, err := r.ResolveString("now-" + n + u.Code())
			require.NoError(t, err)

			e := MustParse("now+" + n + u.Code())
			wantPlus, err := cal.Add(now, e.Amount, u)
			require.NoError(t, err)
			wantMinus, err := cal.Subtract(now, e.Amount, u)
			require.NoError(t, err)

			assert.Equal(t, wantPlus, plus, "now+%s%s", n, u.Code())
			assert.Equal(t, wantMinus, minus, "now-%s%s", n, u.Code())
		}
	}
}

func TestRoundingAppliedAfterOffset(t *testing.T) {
	r := fixedResolver()

	// 15 hours before 14:52 is 23:52 the previous day; flooring that to the
	// day gives the start of Aug 10. Flooring first would give Aug 10 09:00.
	got, err := r.ResolveString("now-15h|d")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, time.August, 10, 0, 0, 0, 0, time.UTC), got)

	got, err = r.ResolveString("now-1d|h")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, time.August, 10, 14, 0, 0, 0, time.UTC), got)
	assert.Equal(t, int64(1470837600), got.Unix())
}

func TestResolveIsPure(t *testing.T) {
	r := fixedResolver()

	first, err := r.ResolveString("now|d")
	require.NoError(t, err)
	second, err := r.ResolveString("now|d")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveConcurrent(t *testing.T) {
	r := fixedResolver()
	want, err := r.ResolveString("now-1d|h")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.ResolveString("now-1d|h")
			if err != nil {
				errs <- err
				return
			}
			if !got.Equal(want) {
				errs <- errors.New("concurrent result differs")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestWeekStartOption(t *testing.T) {
	r := fixedResolver(WithCalendar(calendar.New(calendar.WithWeekStart(time.Monday))))

	got, err := r.ResolveString("now|w")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, time.August, 8, 0, 0, 0, 0, time.UTC), got)
}

type brokenCalendar struct {
	*calendar.Calendar
	failRounding bool
}

var errBroken = errors.New("broken calendar")

func (b brokenCalendar) Add(t time.Time, amount float64, u calendar.Unit) (time.Time, error) {
	if b.failRounding {
		return b.Calendar.Add(t, amount, u)
	}
	return time.Time{}, errBroken
}

func (b brokenCalendar) Subtract(t time.Time, amount float64, u calendar.Unit) (time.Time, error) {
	return b.Add(t, -amount, u)
}

func (b brokenCalendar) EndOf(t time.Time, u calendar.Unit) (time.Time, error) {
	if b.failRounding {
		return time.Time{}, errBroken
	}
	return b.Calendar.EndOf(t, u)
}

func TestUnitArithmeticError(t *testing.T) {
	t.Run("offset", func(t *testing.T) {
		r := fixedResolver(WithCalendar(brokenCalendar{Calendar: calendar.New()}))
		_, err := r.ResolveString("now-1d")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnitArithmetic)
		assert.ErrorIs(t, err, errBroken)

		var aerr *UnitArithmeticError
		require.True(t, errors.As(err, &aerr))
		assert.Equal(t, "subtract", aerr.Op)
		assert.Equal(t, "now-1d", aerr.Expr)
	})

	t.Run("rounding", func(t *testing.T) {
		r := fixedResolver(WithCalendar(brokenCalendar{Calendar: calendar.New(), failRounding: true}))
		_, err := r.ResolveString("now+1d/M")
		require.Error(t, err)

		var aerr *UnitArithmeticError
		require.True(t, errors.As(err, &aerr))
		assert.Equal(t, "end of", aerr.Op)
		assert.Equal(t, "month", aerr.Unit)
	})

	t.Run("out of range", func(t *testing.T) {
		r := fixedResolver()
		_, err := r.ResolveString("now+99999999999999y")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnitArithmetic)
		assert.ErrorIs(t, err, calendar.ErrOutOfRange)
	})

	t.Run("hand built expression", func(t *testing.T) {
		r := fixedResolver()
		_, err := r.Eval(Expression{Operator: OpAdd, Amount: 1})
		assert.ErrorIs(t, err, ErrUnitArithmetic)
		assert.ErrorIs(t, err, calendar.ErrUnsupportedUnit)
	})
}

func TestTraceHook(t *testing.T) {
	var traced []string
	r := fixedResolver(WithTrace(func(e Expression, now, result time.Time) {
		traced = append(traced, e.String())
		assert.Equal(t, int64(fixedUnix), now.Unix())
	}))

	_, err := r.ResolveString("now-7d")
	require.NoError(t, err)
	_, err = r.ResolveString("now-1x")
	require.Error(t, err)

	assert.Equal(t, []string{"now-7d"}, traced)
}

func TestEvalAt(t *testing.T) {
	r := New()
	anchor := time.Date(2020, time.February, 29, 12, 0, 0, 0, time.UTC)

	got, err := r.EvalAt(MustParse("now+1y"), anchor)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, time.February, 28, 12, 0, 0, 0, time.UTC), got)
}
