package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	t := NewTable([]string{"Track", "Time", "I1"})
	t.AppendRow(Row{
		"Track": NewValue("a", TypeString),
		"Time":  NewValue(0.0, TypeFloat),
		"I1":    NewValue(int64(10), TypeInt),
	})
	t.AppendRow(Row{
		"Track": NewValue("b", TypeString),
		"Time":  NewValue(1.0, TypeFloat),
		"I1":    NewValue(int64(20), TypeInt),
	})
	return t
}

func TestColumnsDiscovery(t *testing.T) {
	assert.Empty(t, Columns(nil))

	tbl := sampleTable()
	assert.Equal(t, []string{"Track", "Time", "I1"}, Columns(tbl))

	// Discovery hands out a copy, not the table's own slice.
	cols := Columns(tbl)
	cols[0] = "mutated"
	assert.Equal(t, []string{"Track", "Time", "I1"}, Columns(tbl))
}

func TestTableAccess(t *testing.T) {
	tbl := sampleTable()
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 3, tbl.NumCols())
	assert.True(t, tbl.HasColumn("Time"))
	assert.False(t, tbl.HasColumn("missing"))

	v, err := tbl.Cell(1, "Track")
	require.NoError(t, err)
	assert.Equal(t, "b", v.Text())

	_, err = tbl.Cell(5, "Track")
	assert.ErrorIs(t, err, ErrInvalidRow)

	_, err = tbl.Cell(0, "missing")
	assert.ErrorIs(t, err, ErrColumnNotFound)

	var nilTable *Table
	_, err = nilTable.Row(0)
	assert.ErrorIs(t, err, ErrNoTable)
	assert.Equal(t, 0, nilTable.NumRows())
}

func TestValueFloatCoercion(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want float64
		ok   bool
	}{
		{"float", NewValue(2.5, TypeFloat), 2.5, true},
		{"int", NewValue(int64(7), TypeInt), 7, true},
		{"numeric string", NewValue("3.5", TypeString), 3.5, true},
		{"text string", NewValue("abc", TypeString), 0, false},
		{"bool", NewValue(true, TypeBool), 0, false},
		{"null", NewNullValue(TypeFloat), 0, false},
	}
	for _, tc := range cases {
		got, ok := tc.v.Float()
		assert.Equal(t, tc.ok, ok, tc.name)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.name)
		}
	}
}

func TestCanonicalIDsAndSeries(t *testing.T) {
	ct := &CanonicalTable{Rows: []CanonicalRow{
		{ID: "a", Time: 0, Meas: 1, FOV: "-"},
		{ID: "b", Time: 0, Meas: 2, FOV: "-"},
		{ID: "a", Time: 1, Meas: 3, FOV: "-"},
	}}
	assert.Equal(t, []string{"a", "b"}, ct.IDs())

	series := ct.Series("a")
	require.Len(t, series, 2)
	assert.Equal(t, 1.0, series[0].Meas)
	assert.Equal(t, 3.0, series[1].Meas)

	var nilCT *CanonicalTable
	assert.Nil(t, nilCT.IDs())
	assert.Equal(t, 0, nilCT.NumRows())
}
