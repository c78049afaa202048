package relative

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spiffcs/reltime/internal/calendar"
)

/*
Grammar:

	expression := "now" | "now" rounding | "now" offset | "now" offset rounding
	offset     := sign magnitude unit
	sign       := "+" | "-"
	magnitude  := digit+ ( "." digit+ )?
	rounding   := rounddir unit
	rounddir   := "|" | "/"
	unit       := "y" | "Q" | "M" | "w" | "d" | "h" | "m" | "s" | "ms"

"|" rounds down to the start of the unit, "/" rounds up to its end.

Examples

	now
	now-7d
	now+1.5h
	now|d
	now-1d|h
	now+1M/Q
*/

const nowLiteral = "now"

// Operator is the sign of an offset.
type Operator int

const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
)

func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	}
	return ""
}

// Direction is the rounding direction applied after the offset.
type Direction int

const (
	RoundNone Direction = iota
	RoundDown
	RoundUp
)

func (d Direction) String() string {
	switch d {
	case RoundDown:
		return "|"
	case RoundUp:
		return "/"
	}
	return ""
}

// Rounding is the optional rounding directive of an expression.
type Rounding struct {
	Direction Direction
	Unit      calendar.Unit
}

// Expression is a tokenized relative-time expression.
//
// Operator, Amount and Unit are either all set or all zero. The same holds
// for the two Rounding fields.
type Expression struct {
	Source   string
	Operator Operator
	Amount   float64
	Unit     calendar.Unit
	Rounding Rounding
}

// HasOffset reports whether the expression moves away from now.
func (e Expression) HasOffset() bool {
	return e.Operator != OpNone
}

// HasRounding reports whether the expression rounds the instant.
func (e Expression) HasRounding() bool {
	return e.Rounding.Direction != RoundNone
}

// String renders the expression in canonical form, e.g. "now-7d|h".
func (e Expression) String() string {
	var b strings.Builder
	b.WriteString(nowLiteral)
	if e.HasOffset() {
		b.WriteString(e.Operator.String())
		b.WriteString(strconv.FormatFloat(e.Amount, 'f', -1, 64))
		b.WriteString(e.Unit.Code())
	}
	if e.HasRounding() {
		b.WriteString(e.Rounding.Direction.String())
		b.WriteString(e.Rounding.Unit.Code())
	}
	return b.String()
}

func (e Expression) text() string {
	if e.Source != "" {
		return e.Source
	}
	return e.String()
}

// Parse tokenizes a relative-time expression. Unit codes are validated here,
// so a successfully parsed Expression only carries supported units.
func Parse(s string) (Expression, error) {
	e := Expression{Source: s}

	if !strings.HasPrefix(s, nowLiteral) {
		return Expression{}, malformed(s, 0, `expression must start with "now"`)
	}
	pos := len(nowLiteral)
	if pos == len(s) {
		return e, nil
	}

	if _, ok := roundingMarker(s[pos]); !ok {
		op, ok := operatorMarker(s[pos])
		if !ok {
			return Expression{}, malformed(s, pos, `expected "+", "-", "|" or "/" after "now"`)
		}
		pos++

		n, err := scanMagnitude(s, pos)
		if err != nil {
			return Expression{}, err
		}
		amount, perr := strconv.ParseFloat(s[pos:pos+n], 64)
		if perr != nil {
			return Expression{}, malformed(s, pos, "magnitude out of range")
		}
		pos += n

		unit, next, err := scanUnit(s, pos, "expected a unit after the magnitude")
		if err != nil {
			return Expression{}, err
		}
		pos = next

		e.Operator = op
		e.Amount = amount
		e.Unit = unit
	}

	if pos == len(s) {
		return e, nil
	}

	dir, ok := roundingMarker(s[pos])
	if !ok {
		return Expression{}, malformed(s, pos, `expected "|" or "/" before a rounding unit`)
	}
	pos++

	unit, next, err := scanUnit(s, pos, "expected a unit after the rounding marker")
	if err != nil {
		return Expression{}, err
	}
	if next != len(s) {
		return Expression{}, malformed(s, next, "unexpected trailing characters")
	}

	e.Rounding = Rounding{Direction: dir, Unit: unit}
	return e, nil
}

// MustParse is like Parse but panics on error. Use it for expressions that
// are known to be valid, such as built-in defaults.
func MustParse(s string) Expression {
	e, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("relative: MustParse(%q): %v", s, err))
	}
	return e
}

func operatorMarker(c byte) (Operator, bool) {
	switch c {
	case '+':
		return OpAdd, true
	case '-':
		return OpSubtract, true
	}
	return OpNone, false
}

func roundingMarker(c byte) (Direction, bool) {
	switch c {
	case '|':
		return RoundDown, true
	case '/':
		return RoundUp, true
	}
	return RoundNone, false
}

// scanMagnitude returns the length of the digit+ ("." digit+)? run at pos.
func scanMagnitude(s string, pos int) (int, error) {
	i := pos
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == pos {
		return 0, malformed(s, pos, "expected a number after the sign")
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j == i+1 {
			return 0, malformed(s, i, "expected digits after the decimal point")
		}
		i = j
	}
	return i - pos, nil
}

// scanUnit reads the run of letters at pos and resolves it to a unit.
func scanUnit(s string, pos int, missing string) (calendar.Unit, int, error) {
	i := pos
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i == pos {
		return 0, pos, malformed(s, pos, missing)
	}
	code := s[pos:i]
	unit, ok := calendar.ParseUnit(code)
	if !ok {
		return 0, pos, &UnknownUnitError{Expr: s, Unit: code}
	}
	return unit, i, nil
}

func malformed(s string, offset int, reason string) error {
	return &MalformedExpressionError{
		Expr:     s,
		Fragment: s[offset:],
		Offset:   offset,
		Reason:   reason,
	}
}

func isDigit(c byte) bool  { return '0' <= c && c <= '9' }
func isLetter(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }
