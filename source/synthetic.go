package source

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"trackboard/tabular"
)

// Fixed column names of generator output. The synthetic mapping in the
// normalize package is keyed to these.
const (
	ColTrackLabel = "TrackLabel"
	ColRealTime   = "RealTime"
	ColIntensity  = "Intensity"
	ColSite       = "Site"
)

// outlierSentinel is the constant written over the injected row ranges so
// the downstream detector has a known target.
const outlierSentinel = 10.0

// Injected outlier row ranges, end-exclusive, indices into the whole
// generated table. Position-dependent on the generator's output size;
// ranges are clamped when the table is shorter.
var injectRanges = [][2]int{{50, 60}, {110, 120}}

// Config controls the synthetic trajectory generator.
type Config struct {
	// Tracks is the number of distinct track labels.
	Tracks int
	// Points is the number of samples per track.
	Points int
	// Sites is the number of fields of view the tracks are spread over.
	Sites int
	// OutlierLevel scales the random spikes mixed into the intensity walk.
	OutlierLevel float64
	// InjectOutliers overwrites two fixed row ranges with a constant
	// sentinel intensity.
	InjectOutliers bool
	// Seed fixes the random stream; 0 picks an arbitrary one.
	Seed int64
}

// DefaultConfig returns the generator defaults used by the dashboard.
func DefaultConfig() Config {
	return Config{
		Tracks:       20,
		Points:       60,
		Sites:        2,
		OutlierLevel: 3,
	}
}

// Generator produces synthetic track/intensity tables in the fixed
// four-column schema.
type Generator struct {
	cfg Config
	rng *rand.Rand
	log *logrus.Entry
}

// NewGenerator creates a generator for the given config.
func NewGenerator(cfg Config) *Generator {
	if cfg.Tracks <= 0 {
		cfg.Tracks = DefaultConfig().Tracks
	}
	if cfg.Points <= 0 {
		cfg.Points = DefaultConfig().Points
	}
	if cfg.Sites <= 0 {
		cfg.Sites = 1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
		log: logrus.WithField("component", "synthetic"),
	}
}

// Generate produces one raw table: per track a smoothed random-walk
// intensity trajectory sampled at unit time steps, with a site label per
// track block. Each call produces a fresh table.
func (g *Generator) Generate() (*tabular.Table, error) {
	t := tabular.NewTable([]string{ColTrackLabel, ColRealTime, ColIntensity, ColSite})

	for track := 0; track < g.cfg.Tracks; track++ {
		label := fmt.Sprintf("track_%d", track+1)
		site := fmt.Sprintf("fov_%d", track*g.cfg.Sites/g.cfg.Tracks+1)

		level := 40 + g.rng.Float64()*40
		drift := 0.0
		for p := 0; p < g.cfg.Points; p++ {
			drift = 0.85*drift + g.rng.NormFloat64()
			level += drift * 0.5
			intensity := level + g.rng.NormFloat64()

			// Occasional spikes scaled by the outlier level parameter.
			if g.cfg.OutlierLevel > 0 && g.rng.Float64() < 0.01 {
				intensity += g.cfg.OutlierLevel * (5 + math.Abs(g.rng.NormFloat64())*5)
			}

			t.AppendRow(tabular.Row{
				ColTrackLabel: tabular.NewValue(label, tabular.TypeString),
				ColRealTime:   tabular.NewValue(float64(p), tabular.TypeFloat),
				ColIntensity:  tabular.NewValue(intensity, tabular.TypeFloat),
				ColSite:       tabular.NewValue(site, tabular.TypeString),
			})
		}
	}

	if g.cfg.InjectOutliers {
		injectOutliers(t)
	}

	g.log.WithFields(logrus.Fields{
		"tracks": g.cfg.Tracks,
		"rows":   t.NumRows(),
	}).Debug("synthetic table generated")
	return t, nil
}

// injectOutliers overwrites the fixed row ranges with the sentinel
// intensity, clamped to the table length.
func injectOutliers(t *tabular.Table) {
	for _, rng := range injectRanges {
		start, end := rng[0], rng[1]
		if end > t.NumRows() {
			end = t.NumRows()
		}
		for i := start; i < end; i++ {
			row, err := t.Row(i)
			if err != nil {
				return
			}
			row[ColIntensity] = tabular.NewValue(outlierSentinel, tabular.TypeFloat)
		}
	}
}
