// Package charts renders dashboard views as PNG images.
package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"review_mirror/internal/domain"
)

const (
	width  = 10 * vg.Inch
	height = 7 * vg.Inch

	minRadius = vg.Length(4)
	maxRadius = vg.Length(28)
)

var noRatio = color.RGBA{R: 160, G: 160, B: 160, A: 255}

// ratio scale stops: red, yellow, green
var rdYlGn = [3]color.RGBA{
	{R: 215, G: 48, B: 39, A: 255},
	{R: 255, G: 255, B: 191, A: 255},
	{R: 26, G: 152, B: 80, A: 255},
}

// count scale stops: light to dark blue
var blues = [2]color.RGBA{
	{R: 198, G: 219, B: 239, A: 255},
	{R: 8, G: 81, B: 156, A: 255},
}

// RatioColor maps a positive ratio in [0,1] onto the red-yellow-green
// scale. nil is grey.
func RatioColor(ratio *float64) color.RGBA {
	if ratio == nil || math.IsNaN(*ratio) {
		return noRatio
	}
	t := clamp(*ratio)
	if t <= 0.5 {
		return lerp(rdYlGn[0], rdYlGn[1], t*2)
	}
	return lerp(rdYlGn[1], rdYlGn[2], (t-0.5)*2)
}

// BubbleMap draws one bubble per place at (lng, lat). Radius follows the
// review total and colour the positive ratio.
func BubbleMap(w io.Writer, points []domain.MapPoint) error {
	p := plot.New()
	p.Title.Text = "Sentiment by place"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(plotter.NewGrid())

	if len(points) == 0 {
		p.X.Min, p.X.Max = -180, 180
		p.Y.Min, p.Y.Max = -90, 90
		return render(w, p)
	}

	maxSize := 0
	for _, pt := range points {
		maxSize = max(maxSize, pt.Size)
	}

	xys := make(plotter.XYs, len(points))
	labels := make([]string, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.Lng, Y: pt.Lat}
		labels[i] = pt.Place

		bubble, err := plotter.NewScatter(plotter.XYs{xys[i]})
		if err != nil {
			return fmt.Errorf("bubble %s: %w", pt.Place, err)
		}
		bubble.GlyphStyle.Shape = draw.CircleGlyph{}
		bubble.GlyphStyle.Color = RatioColor(pt.Color)
		bubble.GlyphStyle.Radius = radius(pt.Size, maxSize)
		p.Add(bubble)
	}

	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return fmt.Errorf("labels: %w", err)
	}
	p.Add(lbl)

	pad(&p.X, xys, func(xy plotter.XY) float64 { return xy.X })
	pad(&p.Y, xys, func(xy plotter.XY) float64 { return xy.Y })
	return render(w, p)
}

// KeywordBars draws a horizontal bar per keyword with the highest count at
// the top. An empty list renders an empty chart.
func KeywordBars(w io.Writer, title string, bars []domain.KeywordCount) error {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Count"
	p.X.Min = 0

	if len(bars) == 0 {
		p.X.Max = 1
		p.Y.Min, p.Y.Max = 0, 1
		return render(w, p)
	}

	top := 0
	for _, b := range bars {
		top = max(top, b.Count)
	}

	// y=0 is the bottom row, so walk the list backwards
	names := make([]string, len(bars))
	for i := range bars {
		b := bars[len(bars)-1-i]
		names[i] = b.Word

		bc, err := plotter.NewBarChart(plotter.Values{float64(b.Count)}, vg.Points(18))
		if err != nil {
			return fmt.Errorf("bar %s: %w", b.Word, err)
		}
		bc.Horizontal = true
		bc.XMin = float64(i)
		bc.LineStyle.Width = vg.Length(0)
		bc.Color = countColor(b.Count, top)
		p.Add(bc)
	}
	p.NominalY(names...)
	p.X.Max = float64(top) * 1.1
	return render(w, p)
}

func render(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("png writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func radius(size, maxSize int) vg.Length {
	if maxSize <= 0 {
		return minRadius
	}
	return minRadius + (maxRadius-minRadius)*vg.Length(float64(size)/float64(maxSize))
}

func countColor(n, top int) color.RGBA {
	if top <= 0 {
		return blues[1]
	}
	return lerp(blues[0], blues[1], float64(n)/float64(top))
}

// pad widens an axis around the data so edge bubbles stay visible.
func pad(ax *plot.Axis, xys plotter.XYs, v func(plotter.XY) float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, xy := range xys {
		lo = math.Min(lo, v(xy))
		hi = math.Max(hi, v(xy))
	}
	m := (hi - lo) * 0.15
	if m == 0 {
		m = 0.05
	}
	ax.Min, ax.Max = lo-m, hi+m
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	t = clamp(t)
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t)) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func clamp(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
