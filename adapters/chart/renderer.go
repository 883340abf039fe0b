package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"surveykit/domain/survey"
	"surveykit/internal"
	"surveykit/internal/errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PieLimit is the largest category count drawn as a pie; larger distributions get bars
const PieLimit = 4

const (
	maxLabelRunes = 150
	wrapWidth     = 50
)

// Style holds chart colors
type Style struct {
	PieColors []color.Color
	BarColor  color.Color
}

// ParseStyle converts "#RRGGBB" strings into a Style
func ParseStyle(pie []string, bar string) (Style, error) {
	style := Style{}
	for _, hex := range pie {
		c, err := ParseHex(hex)
		if err != nil {
			return Style{}, err
		}
		style.PieColors = append(style.PieColors, c)
	}
	c, err := ParseHex(bar)
	if err != nil {
		return Style{}, err
	}
	style.BarColor = c
	return style, nil
}

// ParseHex parses "#RRGGBB"
func ParseHex(s string) (color.Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return nil, errors.ConfigInvalid(fmt.Sprintf("invalid color %q", s))
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, errors.ConfigInvalid(fmt.Sprintf("invalid color %q", s))
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Renderer writes one chart image per tabulated question
type Renderer struct {
	dir    string
	style  Style
	names  *FileNamer
	logger *internal.Logger
}

// NewRenderer creates a renderer writing <format> images into dir
func NewRenderer(dir, format string, style Style, logger *internal.Logger) *Renderer {
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &Renderer{dir: dir, style: style, names: NewFileNamer(format), logger: logger}
}

// Render draws shares for the question of one partition and returns the file path.
// Empty distributions produce no chart and an empty path.
func (r *Renderer) Render(partition int, label, columnLetter, title string, shares survey.Distribution) (string, error) {
	if len(shares) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create chart directory %s", r.dir)
	}
	path := filepath.Join(r.dir, r.names.Name(partition, label, columnLetter))

	var (
		p             *plot.Plot
		width, height vg.Length
		err           error
	)
	if len(shares) <= PieLimit {
		p, err = r.pie(title, shares)
		width, height = 7*vg.Inch, 6*vg.Inch
	} else {
		p, err = r.bars(title, shares)
		width = 10 * vg.Inch
		height = vg.Length(max(4.0, 0.55*float64(len(shares))+1.5)) * vg.Inch
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to build chart for %q", title)
	}
	if err := p.Save(width, height, path); err != nil {
		return "", errors.Wrapf(err, "failed to save chart %s", path)
	}
	r.logger.Debug("[ChartRenderer] Saved %s", path)
	return path, nil
}

func (r *Renderer) pie(title string, shares survey.Distribution) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = wrap(truncate(title, maxLabelRunes), wrapWidth*2)
	p.HideAxes()

	values := make([]float64, len(shares))
	labels := make([]string, len(shares))
	for i, e := range shares {
		values[i] = e.Percent
		labels[i] = e.Label
	}
	pc := newPieChart(values, labels, r.style.PieColors)
	p.Add(pc)
	for i, l := range labels {
		p.Legend.Add(truncate(l, wrapWidth), swatch{color: pc.color(i)})
	}
	p.Legend.Top = true
	return p, nil
}

// bars draws horizontal bars; the first entry sits at the top so the overflow
// bucket, always last in presentation order, ends up at the bottom
func (r *Renderer) bars(title string, shares survey.Distribution) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = wrap(truncate(title, maxLabelRunes), wrapWidth*2)
	p.X.Label.Text = "Percentage"

	n := len(shares)
	values := make(plotter.Values, n)
	names := make([]string, n)
	xys := make(plotter.XYs, n)
	texts := make([]string, n)
	top := 0.0
	for i, e := range shares {
		at := n - 1 - i
		values[at] = e.Percent
		names[at] = wrap(truncate(e.Label, maxLabelRunes), wrapWidth)
		xys[at] = plotter.XY{X: e.Percent, Y: float64(at)}
		texts[at] = fmt.Sprintf("%.1f%%", e.Percent)
		top = max(top, e.Percent)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = true
	bars.Color = r.style.BarColor
	bars.LineStyle.Width = 0
	p.Add(bars)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	labels.Offset = vg.Point{X: vg.Points(4)}
	for i := range labels.TextStyle {
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	p.NominalY(names...)
	p.X.Min = 0
	p.X.Max = top * 1.15
	return p, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// wrap breaks s into lines of at most width runes on word boundaries
func wrap(s string, width int) string {
	words := strings.Fields(s)
	var lines []string
	line := ""
	for _, w := range words {
		switch {
		case line == "":
			line = w
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) <= width:
			line += " " + w
		default:
			lines = append(lines, line)
			line = w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
