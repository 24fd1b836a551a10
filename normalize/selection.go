package normalize

import (
	"fmt"

	"trackboard/tabular"
)

// NoColumn is the sentinel for an optional column left unmapped.
const NoColumn = "none"

// Selection is the user-chosen column mapping read at normalization time.
// Meas2Col and FOVCol may be NoColumn.
type Selection struct {
	IDCol    string
	TimeCol  string
	Meas1Col string
	Meas2Col string
	Operator Operator
	FOVCol   string
}

// SyntheticSelection is the fixed mapping for generator output. The
// synthetic source has a known schema, so no user selection applies.
func SyntheticSelection() Selection {
	return Selection{
		IDCol:    "TrackLabel",
		TimeCol:  "RealTime",
		Meas1Col: "Intensity",
		Meas2Col: NoColumn,
		Operator: OpNone,
		FOVCol:   "Site",
	}
}

// Validate checks the selection against a raw table's columns. Required
// selectors (ID, TIME, first measurement) fail with ErrColumnMissing when
// empty or absent; optional selectors only when set to a column the table
// does not contain.
func (s Selection) Validate(t *tabular.Table) error {
	if t == nil {
		return tabular.ErrNoTable
	}
	required := []struct {
		role string
		name string
	}{
		{"id", s.IDCol},
		{"time", s.TimeCol},
		{"measurement", s.Meas1Col},
	}
	for _, c := range required {
		if c.name == "" || c.name == NoColumn || !t.HasColumn(c.name) {
			return fmt.Errorf("%w: %s column %q", ErrColumnMissing, c.role, c.name)
		}
	}
	if s.Meas2Col != NoColumn && s.Meas2Col != "" && !t.HasColumn(s.Meas2Col) {
		return fmt.Errorf("%w: second measurement column %q", ErrColumnMissing, s.Meas2Col)
	}
	if s.FOVCol != NoColumn && s.FOVCol != "" && !t.HasColumn(s.FOVCol) {
		return fmt.Errorf("%w: grouping column %q", ErrColumnMissing, s.FOVCol)
	}
	return nil
}
