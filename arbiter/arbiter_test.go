package arbiter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackboard/normalize"
	"trackboard/tabular"
)

func fileTable(id string, meas float64) *tabular.Table {
	t := tabular.NewTable([]string{"Track", "Time", "I1"})
	t.AppendRow(tabular.Row{
		"Track": tabular.NewValue(id, tabular.TypeString),
		"Time":  tabular.NewValue(0.0, tabular.TypeFloat),
		"I1":    tabular.NewValue(meas, tabular.TypeFloat),
	})
	return t
}

func synTable(id string) *tabular.Table {
	t := tabular.NewTable([]string{"TrackLabel", "RealTime", "Intensity", "Site"})
	t.AppendRow(tabular.Row{
		"TrackLabel": tabular.NewValue(id, tabular.TypeString),
		"RealTime":   tabular.NewValue(0.0, tabular.TypeFloat),
		"Intensity":  tabular.NewValue(1.0, tabular.TypeFloat),
		"Site":       tabular.NewValue("fov_0", tabular.TypeString),
	})
	return t
}

func fileSelection() normalize.Selection {
	return normalize.Selection{
		IDCol:    "Track",
		TimeCol:  "Time",
		Meas1Col: "I1",
		Meas2Col: normalize.NoColumn,
		FOVCol:   normalize.NoColumn,
	}
}

// harness wires a controller to swappable source tables.
type harness struct {
	file *tabular.Table
	syn  *tabular.Table
	sel  normalize.Selection
	ctl  *Controller
}

func newHarness() *harness {
	h := &harness{sel: fileSelection()}
	h.ctl = New(
		func() *tabular.Table { return h.file },
		func() (*tabular.Table, error) { return h.syn, nil },
		func() normalize.Selection { return h.sel },
		nil,
	)
	return h
}

func TestRecomputeWithoutTrigger(t *testing.T) {
	h := newHarness()
	src, err := h.ctl.Recompute()
	assert.Equal(t, SourceNone, src)
	assert.ErrorIs(t, err, ErrNoTrigger)
	assert.Nil(t, h.ctl.Published())
}

func TestExclusivityOverInterleavedTriggers(t *testing.T) {
	h := newHarness()

	h.file = fileTable("f", 10)
	h.ctl.Bump(SourceFile)
	src, err := h.ctl.Recompute()
	require.NoError(t, err)
	assert.Equal(t, SourceFile, src)
	require.NotNil(t, h.ctl.Published())
	assert.Equal(t, "f", h.ctl.Published().Rows[0].ID)

	h.syn = synTable("s")
	h.ctl.Bump(SourceSynthetic)
	src, err = h.ctl.Recompute()
	require.NoError(t, err)
	assert.Equal(t, SourceSynthetic, src)
	assert.Equal(t, "s", h.ctl.Published().Rows[0].ID)

	// Back to the file without reloading it: a fresh trigger republishes.
	h.ctl.Bump(SourceFile)
	src, err = h.ctl.Recompute()
	require.NoError(t, err)
	assert.Equal(t, SourceFile, src)
	assert.Equal(t, "f", h.ctl.Published().Rows[0].ID)
}

func TestFileWinsTieBreak(t *testing.T) {
	h := newHarness()
	h.file = fileTable("f", 10)
	h.syn = synTable("s")

	// Both sources fire before a single recomputation.
	h.ctl.Bump(SourceSynthetic)
	h.ctl.Bump(SourceFile)

	src, err := h.ctl.Recompute()
	require.NoError(t, err)
	assert.Equal(t, SourceFile, src)
	assert.Equal(t, "f", h.ctl.Published().Rows[0].ID)

	// The synthetic trigger was not dropped: it is served next.
	src, err = h.ctl.Recompute()
	require.NoError(t, err)
	assert.Equal(t, SourceSynthetic, src)
	assert.Equal(t, "s", h.ctl.Published().Rows[0].ID)

	// And then the counters are drained.
	_, err = h.ctl.Recompute()
	assert.ErrorIs(t, err, ErrNoTrigger)
}

func TestFailureConsumesTriggerAndKeepsPublished(t *testing.T) {
	h := newHarness()

	h.file = fileTable("f", 10)
	h.ctl.Bump(SourceFile)
	_, err := h.ctl.Recompute()
	require.NoError(t, err)
	prev := h.ctl.Published()
	require.NotNil(t, prev)

	// Break the selection and fire the file source again.
	h.sel.Meas1Col = "NoSuchColumn"
	h.ctl.Bump(SourceFile)
	src, err := h.ctl.Recompute()
	assert.Equal(t, SourceFile, src)
	assert.ErrorIs(t, err, normalize.ErrColumnMissing)

	// Previous publish survives and the failed trigger is not replayed.
	assert.Same(t, prev, h.ctl.Published())
	_, err = h.ctl.Recompute()
	assert.ErrorIs(t, err, ErrNoTrigger)
}

func TestFileTriggerWithoutTableIsQuiet(t *testing.T) {
	h := newHarness()
	h.ctl.Bump(SourceFile)

	src, err := h.ctl.Recompute()
	assert.Equal(t, SourceFile, src)
	assert.NoError(t, err)
	assert.Nil(t, h.ctl.Published())
}

func TestSyntheticGenerationFailure(t *testing.T) {
	genErr := errors.New("generator broke")
	c := New(
		func() *tabular.Table { return nil },
		func() (*tabular.Table, error) { return nil, genErr },
		fileSelection,
		nil,
	)
	c.Bump(SourceSynthetic)

	src, err := c.Recompute()
	assert.Equal(t, SourceSynthetic, src)
	assert.ErrorIs(t, err, genErr)
	assert.Nil(t, c.Published())
}

func TestRemapReprojectsFileWinner(t *testing.T) {
	h := newHarness()
	h.file = fileTable("f", 10)
	h.ctl.Bump(SourceFile)
	_, err := h.ctl.Recompute()
	require.NoError(t, err)
	assert.Equal(t, tabular.NoFOV, h.ctl.Published().Rows[0].FOV)

	// Change the selection: Remap re-projects without a new trigger.
	h.sel.FOVCol = "Track"
	require.NoError(t, h.ctl.Remap())
	assert.Equal(t, "f", h.ctl.Published().Rows[0].FOV)

	// No counter moved.
	_, err = h.ctl.Recompute()
	assert.ErrorIs(t, err, ErrNoTrigger)
}

func TestRemapIgnoresSyntheticWinner(t *testing.T) {
	h := newHarness()
	h.syn = synTable("s")
	h.ctl.Bump(SourceSynthetic)
	_, err := h.ctl.Recompute()
	require.NoError(t, err)
	prev := h.ctl.Published()

	// The synthetic mapping is fixed; selector churn must not disturb it.
	h.sel.Meas1Col = "NoSuchColumn"
	require.NoError(t, h.ctl.Remap())
	assert.Same(t, prev, h.ctl.Published())
}

func TestOnPublishCallback(t *testing.T) {
	var gotSrc Source
	var gotRows int
	file := fileTable("f", 10)
	c := New(
		func() *tabular.Table { return file },
		func() (*tabular.Table, error) { return nil, nil },
		fileSelection,
		func(ct *tabular.CanonicalTable, src Source) {
			gotSrc = src
			gotRows = ct.NumRows()
		},
	)
	c.Bump(SourceFile)
	_, err := c.Recompute()
	require.NoError(t, err)
	assert.Equal(t, SourceFile, gotSrc)
	assert.Equal(t, 1, gotRows)
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "none", SourceNone.String())
	assert.Equal(t, "file", SourceFile.String())
	assert.Equal(t, "synthetic", SourceSynthetic.String())
}
