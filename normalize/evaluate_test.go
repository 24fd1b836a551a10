package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackboard/tabular"
)

func measRow(m1, m2 float64) tabular.Row {
	return tabular.Row{
		"I1": tabular.NewValue(m1, tabular.TypeFloat),
		"I2": tabular.NewValue(m2, tabular.TypeFloat),
	}
}

func TestOperatorTable(t *testing.T) {
	row := measRow(10, 2)

	cases := []struct {
		op   Operator
		want float64
	}{
		{OpDivide, 5},
		{OpSum, 12},
		{OpMultiply, 20},
		{OpSubtract, 8},
		{OpReciprocal, 0.1},
	}
	for _, tc := range cases {
		got, err := Evaluate(row, "I1", "I2", tc.op)
		require.NoError(t, err, tc.op.Code())
		assert.Equal(t, tc.want, got, tc.op.Code())
	}
}

func TestSingleMeasurementWinsOverOperator(t *testing.T) {
	row := measRow(10, 2)
	for _, op := range []Operator{OpNone, OpDivide, OpSum, OpMultiply, OpSubtract, OpReciprocal} {
		got, err := Evaluate(row, "I1", NoColumn, op)
		require.NoError(t, err, op.Code())
		assert.Equal(t, 10.0, got, op.Code())
	}
}

func TestDivisionByZeroPropagates(t *testing.T) {
	row := measRow(10, 0)

	got, err := Evaluate(row, "I1", "I2", OpDivide)
	require.NoError(t, err)
	assert.True(t, math.IsInf(got, 1))

	got, err = Evaluate(tabular.Row{
		"I1": tabular.NewValue(0.0, tabular.TypeFloat),
		"I2": tabular.NewValue(0.0, tabular.TypeFloat),
	}, "I1", "I2", OpDivide)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestNonNumericOperandFails(t *testing.T) {
	row := tabular.Row{
		"I1": tabular.NewValue("not a number", tabular.TypeString),
		"I2": tabular.NewValue(2.0, tabular.TypeFloat),
	}
	_, err := Evaluate(row, "I1", "I2", OpSum)
	assert.ErrorIs(t, err, ErrBadExpression)
}

func TestParseOperator(t *testing.T) {
	for code, want := range map[string]Operator{
		"none": OpNone,
		"/":    OpDivide,
		"+":    OpSum,
		"*":    OpMultiply,
		"-":    OpSubtract,
		"1/":   OpReciprocal,
	} {
		got, err := ParseOperator(code)
		require.NoError(t, err, code)
		assert.Equal(t, want, got, code)
		assert.Equal(t, got, mustRoundTrip(t, got))
	}

	_, err := ParseOperator("eval")
	assert.ErrorIs(t, err, ErrBadExpression)
}

func mustRoundTrip(t *testing.T, op Operator) Operator {
	t.Helper()
	got, err := ParseOperator(op.Code())
	require.NoError(t, err)
	return got
}
