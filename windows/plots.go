package windows

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	png "image/png"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"trackboard/analysis"
	"trackboard/tabular"
)

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    4,
		DotColor:    col,
	}
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0x1e, 0x1e, 0x1e, 0xff}}, image.Point{}, draw.Src)
	return img
}

// renderHeatmap draws one horizontal color strip per track, rows arranged
// in dendrogram leaf order so clustered tracks sit together. Each strip is
// the track's series resampled to the image width.
func renderHeatmap(ct *tabular.CanonicalTable, den analysis.Dendrogram, w, h int) image.Image {
	if w < 1 {
		w = 640
	}
	if h < 1 {
		h = 480
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0x1e, 0x1e, 0x1e, 0xff}}, image.Point{}, draw.Src)

	if ct.NumRows() == 0 || len(den.Order) == 0 {
		return img
	}

	strips := make([][]float64, len(den.Order))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, id := range den.Order {
		strips[i] = analysis.Resample(ct.Series(id), w)
		for _, v := range strips[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if !(hi > lo) {
		return img
	}

	stripH := h / len(strips)
	if stripH < 1 {
		stripH = 1
	}
	for i, strip := range strips {
		y0 := i * stripH
		for x := 0; x < w; x++ {
			v := strip[x]
			var c color.RGBA
			if math.IsNaN(v) || math.IsInf(v, 0) {
				c = color.RGBA{0x40, 0x40, 0x40, 0xff}
			} else {
				c = heatColor((v - lo) / (hi - lo))
			}
			for y := y0; y < y0+stripH && y < h; y++ {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}

// heatColor maps t in [0,1] onto a dark-blue → green → yellow → red ramp.
func heatColor(t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	switch {
	case t < 0.33:
		f := t / 0.33
		return color.RGBA{0, uint8(60 + 160*f), uint8(180 * (1 - f)), 0xff}
	case t < 0.66:
		f := (t - 0.33) / 0.33
		return color.RGBA{uint8(255 * f), uint8(220 - 40*f), 0, 0xff}
	default:
		f := (t - 0.66) / 0.34
		return color.RGBA{255, uint8(180 * (1 - f)), 0, 0xff}
	}
}

// trackPalette cycles line colors for the outlier chart.
var trackPalette = []drawing.Color{
	{R: 0x26, G: 0xa6, B: 0x9a, A: 0xb0},
	{R: 0x42, G: 0xa5, B: 0xf5, A: 0xb0},
	{R: 0xab, G: 0x47, B: 0xbc, A: 0xb0},
	{R: 0xff, G: 0xa7, B: 0x26, A: 0xb0},
	{R: 0x8d, G: 0x6e, B: 0x63, A: 0xb0},
	{R: 0x78, G: 0x90, B: 0x9c, A: 0xb0},
}

// renderOutlierChart plots every track's (imputed) series plus the flagged
// points from the rolling-window detector.
func renderOutlierChart(ct *tabular.CanonicalTable, res analysis.OutlierResult, w, h int) image.Image {
	if w < 1 {
		w = 640
	}
	if h < 1 {
		h = 480
	}
	if ct.NumRows() == 0 {
		return blank(w, h)
	}

	var series []chart.Series
	for k, id := range ct.IDs() {
		var xs, ys []float64
		for i, r := range ct.Rows {
			if r.ID != id {
				continue
			}
			xs = append(xs, r.Time)
			ys = append(ys, res.Imputed[i])
		}
		series = append(series, chart.ContinuousSeries{
			Name:    id,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: trackPalette[k%len(trackPalette)],
				StrokeWidth: 1,
			},
		})
	}

	var ox, oy []float64
	for i, r := range ct.Rows {
		if res.Flags[i] {
			ox = append(ox, r.Time)
			oy = append(oy, res.Imputed[i])
		}
	}
	if len(ox) > 0 {
		series = append(series, chart.ContinuousSeries{
			Name:    "outliers",
			XValues: ox,
			YValues: oy,
			Style:   pointStyle(drawing.Color{R: 0xef, G: 0x53, B: 0x50, A: 0xff}),
		})
	}

	c := chart.Chart{
		Width:  w,
		Height: h,
		Background: chart.Style{
			FillColor: drawing.Color{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff},
		},
		Canvas: chart.Style{
			FillColor: drawing.Color{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff},
		},
		XAxis: chart.XAxis{
			Style: chart.Style{FontColor: drawing.Color{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: drawing.Color{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return blank(w, h)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return blank(w, h)
	}
	return img
}
