// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tabular

import "fmt"

// Row maps a source-specific column name to its cell value.
type Row map[string]Value

// Table is a raw, source-specific table: an ordered set of column names
// plus a slice of rows. There is no fixed schema; columns vary per source.
// A table is produced once by a source provider and read-only afterwards.
type Table struct {
	columns []string
	rows    []Row
}

// NewTable creates an empty table with the given column order.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{columns: cols}
}

// AppendRow adds a row to the table. The row is stored as given; callers
// own the map until appended and must not mutate it afterwards.
func (t *Table) AppendRow(r Row) {
	t.rows = append(t.rows, r)
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// NumCols returns the number of columns in the table.
func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.columns)
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Row returns the row at the given index.
// Returns ErrInvalidRow if the index is out of range.
func (t *Table) Row(i int) (Row, error) {
	if t == nil {
		return nil, ErrNoTable
	}
	if i < 0 || i >= len(t.rows) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRow, i)
	}
	return t.rows[i], nil
}

// Cell returns the value at the given row index and column name.
func (t *Table) Cell(row int, col string) (Value, error) {
	r, err := t.Row(row)
	if err != nil {
		return Value{}, err
	}
	v, ok := r[col]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrColumnNotFound, col)
	}
	return v, nil
}

// Columns returns the column names of a table in their source order. It is
// the discovery hook used to populate the selection UI: pure, no side
// effects, and an empty slice when no table is loaded.
func Columns(t *Table) []string {
	if t == nil {
		return []string{}
	}
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}
