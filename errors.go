package matchbox

import (
	"errors"
	"fmt"
)

// Sentinel errors reported during evaluation.
var (
	// ErrAbsentValue indicates an operand resolved to the absence marker
	// while the predicate was compiled without lifting.
	ErrAbsentValue = errors.New("operand value is absent")

	// ErrFieldValue indicates a subject value that cannot convert to the
	// declared field type.
	ErrFieldValue = errors.New("subject value does not match field type")
)

// UnknownOperatorError reports a symbol with no registered operator.
type UnknownOperatorError struct {
	Symbol string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator %q", e.Symbol)
}

// IncompatibleOperandsError reports an operand type pair that could not be
// reconciled for an operator.
type IncompatibleOperandsError struct {
	Operator string
	Left     Type
	Right    Type
}

func (e *IncompatibleOperandsError) Error() string {
	return fmt.Sprintf("operator %s cannot reconcile operand types %s and %s",
		e.Operator, e.Left, e.Right)
}

// InvalidOperatorUsageError reports an operator applied outside its domain,
// e.g. an ordering operator on booleans or a scalar-only operator on a list.
type InvalidOperatorUsageError struct {
	Operator string
	Reason   string
}

func (e *InvalidOperatorUsageError) Error() string {
	op := e.Operator
	if op == "" {
		op = "(none)"
	}
	return fmt.Sprintf("invalid use of operator %s: %s", op, e.Reason)
}

// IsUnknownOperator reports whether err is an UnknownOperatorError.
func IsUnknownOperator(err error) bool {
	var uo *UnknownOperatorError
	return errors.As(err, &uo)
}

// IsIncompatibleOperands reports whether err is an IncompatibleOperandsError.
func IsIncompatibleOperands(err error) bool {
	var io *IncompatibleOperandsError
	return errors.As(err, &io)
}

// IsInvalidOperatorUsage reports whether err is an InvalidOperatorUsageError.
func IsInvalidOperatorUsage(err error) bool {
	var iu *InvalidOperatorUsageError
	return errors.As(err, &iu)
}

func errIncompatible(op Operator, left, right Type) error {
	return &IncompatibleOperandsError{Operator: op.Symbol(), Left: left, Right: right}
}

func errInvalidUsage(op Operator, format string, args ...any) error {
	return &InvalidOperatorUsageError{Operator: op.Symbol(), Reason: fmt.Sprintf(format, args...)}
}
