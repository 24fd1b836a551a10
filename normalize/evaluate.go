package normalize

import (
	"fmt"

	"trackboard/tabular"
)

// Evaluate derives the measurement for one row from one or two columns and
// an operator. A missing second column or OpNone yields the first column
// unchanged. Division by zero is not guarded here; it propagates as
// ±Inf/NaN for downstream code to tolerate or reject. Only structural
// problems (non-numeric operand, unknown operator) are errors.
func Evaluate(row tabular.Row, meas1, meas2 string, op Operator) (float64, error) {
	v1, err := operand(row, meas1)
	if err != nil {
		return 0, err
	}

	// A single mapped measurement wins over whatever operator is selected;
	// the operator selector is hidden in that state but may still hold a
	// stale value.
	if op == OpNone || meas2 == NoColumn || meas2 == "" {
		return v1, nil
	}

	if op == OpReciprocal {
		return 1 / v1, nil
	}

	v2, err := operand(row, meas2)
	if err != nil {
		return 0, err
	}

	switch op {
	case OpDivide:
		return v1 / v2, nil
	case OpSum:
		return v1 + v2, nil
	case OpMultiply:
		return v1 * v2, nil
	case OpSubtract:
		return v1 - v2, nil
	default:
		return 0, fmt.Errorf("%w: operator %v", ErrBadExpression, op)
	}
}

func operand(row tabular.Row, col string) (float64, error) {
	v, ok := row[col]
	if !ok {
		return 0, fmt.Errorf("%w: measurement column %q", ErrColumnMissing, col)
	}
	f, ok := v.Float()
	if !ok {
		return 0, fmt.Errorf("%w: column %q value %q is not numeric", ErrBadExpression, col, v.Formatted)
	}
	return f, nil
}
