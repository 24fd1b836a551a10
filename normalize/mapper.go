package normalize

import (
	"fmt"

	"trackboard/tabular"
)

// Map projects a raw table into the canonical schema using the given
// selection. It is a pure projection: row order is preserved, no row is
// dropped or added, and mapping the same inputs twice yields the same
// canonical table.
func Map(t *tabular.Table, sel Selection) (*tabular.CanonicalTable, error) {
	if err := sel.Validate(t); err != nil {
		return nil, err
	}

	ct := &tabular.CanonicalTable{Rows: make([]tabular.CanonicalRow, 0, t.NumRows())}
	for i := 0; i < t.NumRows(); i++ {
		row, err := t.Row(i)
		if err != nil {
			return nil, err
		}

		id, ok := row[sel.IDCol]
		if !ok {
			return nil, fmt.Errorf("%w: id column %q at row %d", ErrColumnMissing, sel.IDCol, i)
		}

		tv, ok := row[sel.TimeCol]
		if !ok {
			return nil, fmt.Errorf("%w: time column %q at row %d", ErrColumnMissing, sel.TimeCol, i)
		}
		tf, ok := tv.Float()
		if !ok {
			return nil, fmt.Errorf("%w: time column %q value %q is not numeric at row %d",
				ErrBadExpression, sel.TimeCol, tv.Formatted, i)
		}

		meas, err := Evaluate(row, sel.Meas1Col, sel.Meas2Col, sel.Operator)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		fov := tabular.NoFOV
		if sel.FOVCol != NoColumn && sel.FOVCol != "" {
			fv, ok := row[sel.FOVCol]
			if !ok {
				return nil, fmt.Errorf("%w: grouping column %q at row %d", ErrColumnMissing, sel.FOVCol, i)
			}
			fov = fv.Text()
		}

		ct.Rows = append(ct.Rows, tabular.CanonicalRow{
			ID:   id.Text(),
			Time: tf,
			Meas: meas,
			FOV:  fov,
		})
	}
	return ct, nil
}
