// Package analysis holds the downstream consumers of the canonical table:
// rolling-window outlier detection and hierarchical clustering for the
// heatmap. Both take a CanonicalTable and nothing else.
package analysis

import (
	"math"
	"sort"

	"trackboard/tabular"
)

// RollingConfig holds the thresholds for the rolling-window detector.
type RollingConfig struct {
	Window    int     // rolling window size in samples
	Threshold float64 // modified z-score above which a point is an outlier
}

// DefaultRollingConfig returns the detector defaults.
func DefaultRollingConfig() RollingConfig {
	return RollingConfig{
		Window:    7,
		Threshold: 3.5,
	}
}

// OutlierResult is aligned with the input table: Scores[i], Flags[i] and
// Imputed[i] describe table row i.
type OutlierResult struct {
	Scores  []float64 // modified z-score per row
	Flags   []bool    // true where the score exceeds the threshold
	Imputed []float64 // measurement with non-finite values replaced
}

// RollingOutliers scores every row of the canonical table against a
// rolling median of its own track. Rows are processed per ID in TIME
// order; non-finite measurements (the divide-by-zero products the mapper
// lets through) are imputed from the window median before scoring.
func RollingOutliers(ct *tabular.CanonicalTable, cfg RollingConfig) OutlierResult {
	n := ct.NumRows()
	res := OutlierResult{
		Scores:  make([]float64, n),
		Flags:   make([]bool, n),
		Imputed: make([]float64, n),
	}
	if n == 0 {
		return res
	}
	if cfg.Window < 3 {
		cfg.Window = 3
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultRollingConfig().Threshold
	}

	for i, r := range ct.Rows {
		res.Imputed[i] = r.Meas
	}

	for _, id := range ct.IDs() {
		idx := trackIndices(ct, id)
		sort.SliceStable(idx, func(a, b int) bool {
			return ct.Rows[idx[a]].Time < ct.Rows[idx[b]].Time
		})

		// Impute non-finite values from the finite neighbours in the window.
		for k, i := range idx {
			if isFinite(res.Imputed[i]) {
				continue
			}
			win := windowValues(res.Imputed, idx, k, cfg.Window, true)
			if len(win) > 0 {
				res.Imputed[i] = median(win)
			} else {
				res.Imputed[i] = 0
			}
		}

		// Score each point against its window median via MAD.
		for k, i := range idx {
			win := windowValues(res.Imputed, idx, k, cfg.Window, false)
			if len(win) < 3 {
				continue
			}
			med := median(win)
			mad := medianAbsDev(win, med)
			if mad == 0 {
				continue
			}
			// 0.6745 rescales MAD to the standard deviation of a normal.
			score := 0.6745 * math.Abs(res.Imputed[i]-med) / mad
			res.Scores[i] = score
			res.Flags[i] = score > cfg.Threshold
		}
	}
	return res
}

func trackIndices(ct *tabular.CanonicalTable, id string) []int {
	var idx []int
	for i, r := range ct.Rows {
		if r.ID == id {
			idx = append(idx, i)
		}
	}
	return idx
}

// windowValues collects the values of the window centred on position k of
// the ordered index slice. With finiteOnly set, non-finite entries are
// skipped; the centre itself is always excluded when finiteOnly is set
// (it is the value being imputed).
func windowValues(vals []float64, idx []int, k, window int, finiteOnly bool) []float64 {
	half := window / 2
	lo := k - half
	if lo < 0 {
		lo = 0
	}
	hi := k + half
	if hi > len(idx)-1 {
		hi = len(idx) - 1
	}
	out := make([]float64, 0, hi-lo+1)
	for j := lo; j <= hi; j++ {
		if finiteOnly && j == k {
			continue
		}
		v := vals[idx[j]]
		if finiteOnly && !isFinite(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func median(vals []float64) float64 {
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

func medianAbsDev(vals []float64, med float64) float64 {
	dev := make([]float64, len(vals))
	for i, v := range vals {
		dev[i] = math.Abs(v - med)
	}
	return median(dev)
}
