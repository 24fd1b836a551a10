package tabular

// NoFOV is the grouping label applied when no grouping column is mapped.
const NoFOV = "-"

// CanonicalRow is one normalized measurement: a track identifier, a
// numeric timestamp, the derived measurement and a grouping label.
type CanonicalRow struct {
	ID   string
	Time float64
	Meas float64
	FOV  string
}

// CanonicalTable is the normalized {ID, TIME, MEAS, FOV} table published
// downstream. Every row has all four fields populated; TIME is orderable
// per ID. Row order matches the raw table the rows were projected from.
type CanonicalTable struct {
	Rows []CanonicalRow
}

// NumRows returns the number of rows in the table.
func (ct *CanonicalTable) NumRows() int {
	if ct == nil {
		return 0
	}
	return len(ct.Rows)
}

// IDs returns the distinct track identifiers in first-appearance order.
func (ct *CanonicalTable) IDs() []string {
	if ct == nil {
		return nil
	}
	seen := make(map[string]bool, 16)
	ids := make([]string, 0, 16)
	for _, r := range ct.Rows {
		if !seen[r.ID] {
			seen[r.ID] = true
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Series returns the rows belonging to one track, in table order.
func (ct *CanonicalTable) Series(id string) []CanonicalRow {
	if ct == nil {
		return nil
	}
	var out []CanonicalRow
	for _, r := range ct.Rows {
		if r.ID == id {
			out = append(out, r)
		}
	}
	return out
}
