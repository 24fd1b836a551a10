package windows

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"trackboard/normalize"
)

// operatorCodes is the closed set of operator choices offered by the UI;
// it mirrors normalize.Operator exactly.
var operatorCodes = []string{"none", "/", "+", "*", "-", "1/"}

// MappingPanel holds the column selectors that turn raw file columns into
// the canonical schema. The operator selector is only shown while a second
// measurement column is mapped.
type MappingPanel struct {
	idSelect    *widget.Select
	timeSelect  *widget.Select
	meas1Select *widget.Select
	meas2Select *widget.Select
	opSelect    *widget.Select
	fovSelect   *widget.Select

	opRow     *fyne.Container
	root      fyne.CanvasObject
	onChanged func()

	// muted suppresses change callbacks while the panel repopulates.
	muted bool
}

// NewMappingPanel creates the panel. onChanged fires after any selector
// change, once the panel state is consistent.
func NewMappingPanel(onChanged func()) *MappingPanel {
	p := &MappingPanel{onChanged: onChanged}

	changed := func(string) {
		if !p.muted && p.onChanged != nil {
			p.onChanged()
		}
	}

	p.idSelect = widget.NewSelect(nil, changed)
	p.timeSelect = widget.NewSelect(nil, changed)
	p.meas1Select = widget.NewSelect(nil, changed)
	p.fovSelect = widget.NewSelect(nil, changed)
	p.opSelect = widget.NewSelect(operatorCodes, changed)
	p.opSelect.SetSelected("none")

	p.meas2Select = widget.NewSelect(nil, func(sel string) {
		// Hide the operator while only one measurement is mapped; the
		// single column then wins regardless of the stale operator value.
		if sel == normalize.NoColumn || sel == "" {
			p.opRow.Hide()
		} else {
			p.opRow.Show()
		}
		if !p.muted && p.onChanged != nil {
			p.onChanged()
		}
	})

	p.opRow = container.NewVBox(widget.NewLabel("Operator:"), p.opSelect)
	p.opRow.Hide()

	p.root = container.NewVBox(
		widget.NewLabel("ID column:"), p.idSelect,
		widget.NewLabel("Time column:"), p.timeSelect,
		widget.NewLabel("Measurement 1:"), p.meas1Select,
		widget.NewLabel("Measurement 2:"), p.meas2Select,
		p.opRow,
		widget.NewLabel("Grouping (FOV):"), p.fovSelect,
	)
	return p
}

// Container returns the panel's root canvas object.
func (p *MappingPanel) Container() fyne.CanvasObject {
	return widget.NewCard("", "Column Mapping", p.root)
}

// SetColumns repopulates all selectors from a freshly discovered raw
// column list. Current choices are kept when the new file still has them.
func (p *MappingPanel) SetColumns(cols []string) {
	p.muted = true
	defer func() { p.muted = false }()

	optional := append([]string{normalize.NoColumn}, cols...)

	reset := func(s *widget.Select, options []string) {
		prev := s.Selected
		s.Options = options
		kept := false
		for _, o := range options {
			if o == prev {
				kept = true
				break
			}
		}
		if !kept {
			s.ClearSelected()
		}
		s.Refresh()
	}

	reset(p.idSelect, cols)
	reset(p.timeSelect, cols)
	reset(p.meas1Select, cols)
	reset(p.meas2Select, optional)
	reset(p.fovSelect, optional)
}

// Selection snapshots the current column mapping. Unset selectors come out
// as empty strings and fail validation downstream like any other missing
// column.
func (p *MappingPanel) Selection() normalize.Selection {
	op, err := normalize.ParseOperator(p.opSelect.Selected)
	if err != nil {
		op = normalize.OpNone
	}
	meas2 := p.meas2Select.Selected
	if meas2 == "" {
		meas2 = normalize.NoColumn
	}
	fov := p.fovSelect.Selected
	if fov == "" {
		fov = normalize.NoColumn
	}
	return normalize.Selection{
		IDCol:    p.idSelect.Selected,
		TimeCol:  p.timeSelect.Selected,
		Meas1Col: p.meas1Select.Selected,
		Meas2Col: meas2,
		Operator: op,
		FOVCol:   fov,
	}
}
