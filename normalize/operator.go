// Package normalize projects raw source tables into the canonical
// {ID, TIME, MEAS, FOV} schema from a user-supplied column selection.
package normalize

import (
	"errors"
	"fmt"
)

// Errors returned by the normalize package.
var (
	// ErrColumnMissing is returned when a required column is unset or not
	// present in the raw table. An empty selector and a selector naming a
	// column the table does not contain fail identically.
	ErrColumnMissing = errors.New("required column missing")

	// ErrBadExpression is returned for an invalid operator/operand
	// combination in the measurement expression.
	ErrBadExpression = errors.New("bad measurement expression")
)

// Operator is the closed set of measurement expressions. The measurement
// is always derived by explicit dispatch over this enum; operator codes
// arriving from the UI are parsed, never evaluated as text.
type Operator int

const (
	// OpNone takes the first measurement column as-is.
	OpNone Operator = iota
	// OpDivide computes meas1 / meas2.
	OpDivide
	// OpSum computes meas1 + meas2.
	OpSum
	// OpMultiply computes meas1 * meas2.
	OpMultiply
	// OpSubtract computes meas1 - meas2.
	OpSubtract
	// OpReciprocal computes 1 / meas1; the second column is ignored.
	OpReciprocal
)

// ParseOperator maps a UI operator code to its Operator.
// Returns ErrBadExpression for anything outside the closed set.
func ParseOperator(code string) (Operator, error) {
	switch code {
	case "none", "":
		return OpNone, nil
	case "/":
		return OpDivide, nil
	case "+":
		return OpSum, nil
	case "*":
		return OpMultiply, nil
	case "-":
		return OpSubtract, nil
	case "1/":
		return OpReciprocal, nil
	default:
		return OpNone, fmt.Errorf("%w: unknown operator code %q", ErrBadExpression, code)
	}
}

// Code returns the UI code for the operator.
func (op Operator) Code() string {
	switch op {
	case OpNone:
		return "none"
	case OpDivide:
		return "/"
	case OpSum:
		return "+"
	case OpMultiply:
		return "*"
	case OpSubtract:
		return "-"
	case OpReciprocal:
		return "1/"
	default:
		return fmt.Sprintf("unknown(%d)", int(op))
	}
}

// String returns the string representation of an Operator.
func (op Operator) String() string {
	return op.Code()
}
