package relative

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrMalformedExpression = errors.New("malformed expression")
	ErrUnknownUnit         = errors.New("unknown unit")
	ErrUnitArithmetic      = errors.New("unit arithmetic failed")
)

// InvalidInputError reports an argument that is neither an expression nor a
// record of expressions.
type InvalidInputError struct {
	Kind string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("expected an expression string or a record of expressions, got %s", e.Kind)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// MalformedExpressionError reports an expression that does not follow the
// grammar. Fragment is the offending part of Expr, starting at byte Offset.
type MalformedExpressionError struct {
	Expr     string
	Fragment string
	Offset   int
	Reason   string
}

func (e *MalformedExpressionError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("malformed expression %q: %s", e.Expr, e.Reason)
	}
	return fmt.Sprintf("malformed expression %q: %s at %q (offset %d)", e.Expr, e.Reason, e.Fragment, e.Offset)
}

func (e *MalformedExpressionError) Is(target error) bool { return target == ErrMalformedExpression }

// UnknownUnitError reports a unit code outside the supported set.
type UnknownUnitError struct {
	Expr string
	Unit string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("expression %q: unit %q is not a valid unit (use one of y, Q, M, w, d, h, m, s, ms)", e.Expr, e.Unit)
}

func (e *UnknownUnitError) Is(target error) bool { return target == ErrUnknownUnit }

// UnitArithmeticError wraps a failure from the calendar while applying an
// offset or rounding step.
type UnitArithmeticError struct {
	Expr string
	Op   string
	Unit string
	Err  error
}

func (e *UnitArithmeticError) Error() string {
	return fmt.Sprintf("expression %q: %s %s: %v", e.Expr, e.Op, e.Unit, e.Err)
}

func (e *UnitArithmeticError) Is(target error) bool { return target == ErrUnitArithmetic }

func (e *UnitArithmeticError) Unwrap() error { return e.Err }

// FieldError ties a resolution failure to the record field that caused it.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Key, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
