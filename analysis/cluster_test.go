package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackboard/tabular"
)

func sineTrack(id string, level float64) []tabular.CanonicalRow {
	rows := make([]tabular.CanonicalRow, 30)
	for i := range rows {
		rows[i] = tabular.CanonicalRow{
			ID:   id,
			Time: float64(i),
			Meas: level + math.Sin(float64(i)/4),
			FOV:  tabular.NoFOV,
		}
	}
	return rows
}

func TestClusterGroupsSimilarTracks(t *testing.T) {
	var rows []tabular.CanonicalRow
	// Two low tracks, two high tracks, interleaved in the input so the
	// grouping must come from the clustering and not the input order.
	rows = append(rows, sineTrack("low1", 1)...)
	rows = append(rows, sineTrack("high1", 100)...)
	rows = append(rows, sineTrack("low2", 1.2)...)
	rows = append(rows, sineTrack("high2", 100.2)...)
	ct := &tabular.CanonicalTable{Rows: rows}

	d := Cluster(ct, 32)
	require.Len(t, d.Order, 4)

	pos := make(map[string]int, 4)
	for i, id := range d.Order {
		pos[id] = i
	}
	// Similar tracks end up adjacent in leaf order.
	assert.Equal(t, 1, abs(pos["low1"]-pos["low2"]))
	assert.Equal(t, 1, abs(pos["high1"]-pos["high2"]))

	// Every leaf joins at its within-group merge, far below the
	// inter-group distance of ~99 per sample.
	for _, id := range d.Order {
		assert.GreaterOrEqual(t, d.Heights[id], 0.0, id)
		assert.Less(t, d.Heights[id], 50.0, id)
	}
}

func TestClusterDeterministic(t *testing.T) {
	var rows []tabular.CanonicalRow
	for i, level := range []float64{3, 8, 1, 9, 2} {
		rows = append(rows, sineTrack(string(rune('a'+i)), level)...)
	}
	ct := &tabular.CanonicalTable{Rows: rows}

	first := Cluster(ct, 32)
	second := Cluster(ct, 32)
	assert.Equal(t, first.Order, second.Order)
	assert.Equal(t, first.Heights, second.Heights)
}

func TestClusterDegenerateInputs(t *testing.T) {
	d := Cluster(&tabular.CanonicalTable{}, 32)
	assert.Empty(t, d.Order)

	ct := &tabular.CanonicalTable{Rows: sineTrack("only", 5)}
	d = Cluster(ct, 32)
	assert.Equal(t, []string{"only"}, d.Order)
	assert.Equal(t, 0.0, d.Heights["only"])
}

func TestResample(t *testing.T) {
	rows := []tabular.CanonicalRow{
		{ID: "a", Time: 0, Meas: 0},
		{ID: "a", Time: 10, Meas: 10},
	}
	out := Resample(rows, 5)
	assert.Equal(t, []float64{0, 2.5, 5, 7.5, 10}, out)

	// Order independence: rows arrive unsorted.
	shuffled := []tabular.CanonicalRow{
		{ID: "a", Time: 10, Meas: 10},
		{ID: "a", Time: 0, Meas: 0},
	}
	assert.Equal(t, out, Resample(shuffled, 5))

	// Single time point degenerates to a constant series.
	flat := Resample([]tabular.CanonicalRow{{ID: "a", Time: 3, Meas: 7}}, 4)
	assert.Equal(t, []float64{7, 7, 7, 7}, flat)

	assert.Equal(t, []float64{0, 0, 0}, Resample(nil, 3))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
