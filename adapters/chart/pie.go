package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// pieChart draws a full pie with percentage labels inside each slice.
// Slices start at twelve o'clock and run clockwise.
type pieChart struct {
	values []float64
	labels []string
	colors []color.Color
	label  text.Style
}

func newPieChart(values []float64, labels []string, colors []color.Color) *pieChart {
	return &pieChart{
		values: values,
		labels: labels,
		colors: colors,
		label: text.Style{
			Color:   color.White,
			Font:    font.From(plot.DefaultFont, vg.Points(12)),
			XAlign:  draw.XCenter,
			YAlign:  draw.YCenter,
			Handler: plot.DefaultTextHandler,
		},
	}
}

func (p *pieChart) color(i int) color.Color {
	if len(p.colors) == 0 {
		return color.Black
	}
	return p.colors[i%len(p.colors)]
}

// Plot implements plot.Plotter
func (p *pieChart) Plot(c draw.Canvas, _ *plot.Plot) {
	total := 0.0
	for _, v := range p.values {
		total += v
	}
	if total <= 0 {
		return
	}

	size := c.Rectangle.Size()
	radius := vg.Length(math.Min(float64(size.X), float64(size.Y))) * 0.45
	center := c.Center()

	start := math.Pi / 2
	for i, v := range p.values {
		sweep := 2 * math.Pi * v / total
		c.FillPolygon(p.color(i), wedge(center, radius, start, start-sweep))

		mid := start - sweep/2
		at := vg.Point{
			X: center.X + radius*0.6*vg.Length(math.Cos(mid)),
			Y: center.Y + radius*0.6*vg.Length(math.Sin(mid)),
		}
		c.FillText(p.label, at, fmt.Sprintf("%.1f%%", 100*v/total))
		start -= sweep
	}
}

// wedge approximates a slice from angle a0 down to a1 with one vertex per degree
func wedge(center vg.Point, r vg.Length, a0, a1 float64) []vg.Point {
	steps := int(math.Ceil(math.Abs(a0-a1)*180/math.Pi)) + 1
	pts := make([]vg.Point, 0, steps+2)
	pts = append(pts, center)
	for s := 0; s <= steps; s++ {
		a := a0 + (a1-a0)*float64(s)/float64(steps)
		pts = append(pts, vg.Point{
			X: center.X + r*vg.Length(math.Cos(a)),
			Y: center.Y + r*vg.Length(math.Sin(a)),
		})
	}
	return pts
}

// swatch is a legend thumbnail filled with one slice color
type swatch struct {
	color color.Color
}

// Thumbnail implements plot.Thumbnailer
func (s swatch) Thumbnail(c *draw.Canvas) {
	r := c.Rectangle
	c.FillPolygon(s.color, []vg.Point{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	})
}
