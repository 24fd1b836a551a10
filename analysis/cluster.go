package analysis

import (
	"math"
	"sort"

	"trackboard/tabular"
)

// Dendrogram is the result of clustering the per-track series: the leaf
// order used to arrange heatmap rows and the merge height each track
// joined its cluster at (for dendrogram coloring).
type Dendrogram struct {
	Order   []string
	Heights map[string]float64
}

// cluster is an intermediate agglomerative node.
type cluster struct {
	leaves []int // indices into the track list, in leaf order
	series []float64
}

// Cluster performs centroid-linkage agglomerative clustering of the
// per-track measurement series. Each series is resampled to the given
// number of points on a common time axis so tracks of different lengths
// compare. Deterministic for a given table.
func Cluster(ct *tabular.CanonicalTable, samples int) Dendrogram {
	ids := ct.IDs()
	if samples < 2 {
		samples = 32
	}
	d := Dendrogram{Heights: make(map[string]float64, len(ids))}
	if len(ids) == 0 {
		return d
	}
	if len(ids) == 1 {
		d.Order = []string{ids[0]}
		d.Heights[ids[0]] = 0
		return d
	}

	clusters := make([]*cluster, len(ids))
	for i, id := range ids {
		clusters[i] = &cluster{
			leaves: []int{i},
			series: Resample(ct.Series(id), samples),
		}
	}

	// Cluster series are member-weighted means, so comparing them is
	// centroid linkage; O(samples) per pair.
	dist := func(a, b *cluster) float64 {
		return euclidean(a.series, b.series)
	}

	for len(clusters) > 1 {
		bi, bj := 0, 1
		best := math.Inf(1)
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				if dv := dist(clusters[i], clusters[j]); dv < best {
					best = dv
					bi, bj = i, j
				}
			}
		}

		a, b := clusters[bi], clusters[bj]
		merged := &cluster{
			leaves: append(append([]int{}, a.leaves...), b.leaves...),
			series: meanSeries(a.series, b.series, len(a.leaves), len(b.leaves)),
		}
		for _, leaf := range merged.leaves {
			if _, done := d.Heights[ids[leaf]]; !done {
				d.Heights[ids[leaf]] = best
			}
		}

		next := clusters[:0]
		for k, c := range clusters {
			if k != bi && k != bj {
				next = append(next, c)
			}
		}
		clusters = append(next, merged)
	}

	for _, leaf := range clusters[0].leaves {
		d.Order = append(d.Order, ids[leaf])
	}
	return d
}

// Resample linearly interpolates a track's series onto an evenly spaced
// time grid of the given size. Rows are used in TIME order; non-finite
// measurements are carried as-is and neutralized by the caller.
func Resample(rows []tabular.CanonicalRow, samples int) []float64 {
	out := make([]float64, samples)
	if len(rows) == 0 {
		return out
	}
	ordered := make([]tabular.CanonicalRow, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(a, b int) bool { return ordered[a].Time < ordered[b].Time })

	t0 := ordered[0].Time
	t1 := ordered[len(ordered)-1].Time
	if t1 == t0 {
		for i := range out {
			out[i] = ordered[0].Meas
		}
		return out
	}

	j := 0
	for i := 0; i < samples; i++ {
		target := t0 + (t1-t0)*float64(i)/float64(samples-1)
		for j < len(ordered)-2 && ordered[j+1].Time < target {
			j++
		}
		a, b := ordered[j], ordered[j+1]
		if b.Time == a.Time {
			out[i] = a.Meas
			continue
		}
		frac := (target - a.Time) / (b.Time - a.Time)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		out[i] = a.Meas + frac*(b.Meas-a.Meas)
	}
	return out
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		if !isFinite(a[i]) || !isFinite(b[i]) {
			continue
		}
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func meanSeries(a, b []float64, na, nb int) []float64 {
	out := make([]float64, len(a))
	wa, wb := float64(na), float64(nb)
	for i := range a {
		out[i] = (a[i]*wa + b[i]*wb) / (wa + wb)
	}
	return out
}
