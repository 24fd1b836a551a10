package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackboard/tabular"
)

func flatTrack(id string, n int, level float64) []tabular.CanonicalRow {
	rows := make([]tabular.CanonicalRow, n)
	for i := range rows {
		rows[i] = tabular.CanonicalRow{
			ID: id, Time: float64(i), Meas: level, FOV: tabular.NoFOV,
		}
	}
	return rows
}

func TestRollingOutliersFlagsSpike(t *testing.T) {
	rows := flatTrack("a", 21, 10)
	// Mild jitter so MAD is nonzero, plus one unmistakable spike.
	for i := range rows {
		rows[i].Meas += float64(i%3) * 0.1
	}
	rows[10].Meas = 100
	ct := &tabular.CanonicalTable{Rows: rows}

	res := RollingOutliers(ct, DefaultRollingConfig())
	require.Len(t, res.Flags, 21)
	assert.True(t, res.Flags[10], "spike should be flagged, score %v", res.Scores[10])

	flagged := 0
	for _, f := range res.Flags {
		if f {
			flagged++
		}
	}
	assert.Equal(t, 1, flagged)
}

func TestRollingOutliersImputesNonFinite(t *testing.T) {
	rows := flatTrack("a", 11, 5)
	rows[4].Meas = math.Inf(1)
	rows[7].Meas = math.NaN()
	ct := &tabular.CanonicalTable{Rows: rows}

	res := RollingOutliers(ct, DefaultRollingConfig())
	assert.Equal(t, 5.0, res.Imputed[4])
	assert.Equal(t, 5.0, res.Imputed[7])
	assert.False(t, res.Flags[4])
	assert.False(t, res.Flags[7])
}

func TestRollingOutliersPerTrackWindows(t *testing.T) {
	// Track b lives at a far higher level; it must not contaminate track
	// a's windows even though the rows interleave.
	var rows []tabular.CanonicalRow
	for i := 0; i < 15; i++ {
		rows = append(rows,
			tabular.CanonicalRow{ID: "a", Time: float64(i), Meas: 1 + float64(i%2)*0.1, FOV: tabular.NoFOV},
			tabular.CanonicalRow{ID: "b", Time: float64(i), Meas: 1000 + float64(i%2)*0.1, FOV: tabular.NoFOV},
		)
	}
	ct := &tabular.CanonicalTable{Rows: rows}

	res := RollingOutliers(ct, DefaultRollingConfig())
	for i, f := range res.Flags {
		assert.False(t, f, "row %d", i)
	}
}

func TestRollingOutliersEmptyTable(t *testing.T) {
	res := RollingOutliers(&tabular.CanonicalTable{}, DefaultRollingConfig())
	assert.Empty(t, res.Scores)
	assert.Empty(t, res.Flags)
	assert.Empty(t, res.Imputed)
}

func TestRollingOutliersConstantTrack(t *testing.T) {
	// Zero MAD: nothing can be scored, nothing flagged.
	ct := &tabular.CanonicalTable{Rows: flatTrack("a", 9, 3)}
	res := RollingOutliers(ct, DefaultRollingConfig())
	for i := range res.Flags {
		assert.False(t, res.Flags[i])
		assert.Zero(t, res.Scores[i])
	}
}
