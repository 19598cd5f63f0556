// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	_ "gonum.org/v1/plot/vg/vgeps"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

// Figure size and resolution of saved images.
const (
	chartWidth  = 14 * vg.Inch
	chartHeight = 10 * vg.Inch
	chartDPI    = 150
)

// Formats lists the formats Render accepts.
var Formats = []string{"svg", "png", "pdf", "eps"}

// namedColors maps the palette names figures use to colors.
var namedColors = map[string]color.Color{
	"tab:blue":   rgb(0x1f77b4),
	"tab:orange": rgb(0xff7f0e),
	"tab:green":  rgb(0x2ca02c),
	"tab:red":    rgb(0xd62728),
	"tab:purple": rgb(0x9467bd),
	"tab:brown":  rgb(0x8c564b),
	"tab:pink":   rgb(0xe377c2),
	"tab:gray":   rgb(0x7f7f7f),
	"tab:olive":  rgb(0xbcbd22),
	"tab:cyan":   rgb(0x17becf),
	"black":      color.Black,
	"grey":       rgb(0x808080),
	"gray":       rgb(0x808080),
}

func rgb(v uint32) color.Color {
	return color.NRGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
}

// ParseColor returns the color named s, which is a palette name or
// "#rrggbb".
func ParseColor(s string) (color.Color, error) {
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return rgb(uint32(v)), nil
		}
	}
	return nil, fmt.Errorf("unknown color %q", s)
}

// Plot builds the gonum plot of f.
func Plot(f *Figure) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = f.Title
	pl.X.Label.Text = f.XLabel
	pl.Y.Label.Text = f.YLabel

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
	if f.GridYOnly {
		grid.Vertical.Color = nil
	}
	pl.Add(grid)

	if f.LegendTitle != "" {
		pl.Legend.Add(f.LegendTitle)
	}
	pl.Legend.Top = true
	pl.Legend.Left = f.Legend == UpperLeft

	logY := f.YScale == Log
	for i, s := range f.Series {
		if len(s.Points) == 0 {
			continue
		}
		clr := plotutil.Color(i)
		if s.Color != "" {
			c, err := ParseColor(s.Color)
			if err != nil {
				return nil, fmt.Errorf("series %s: %w", s.Label, err)
			}
			clr = c
		}

		xys := make(plotter.XYs, len(s.Points))
		var yerrs plotter.YErrors
		for j, p := range s.Points {
			xys[j].X, xys[j].Y = p.X, p.Y
			if p.Err != 0 {
				if yerrs == nil {
					yerrs = make(plotter.YErrors, len(s.Points))
				}
				low := p.Err
				// A log axis can't show non-positive values.
				if logY && p.Y-low <= 0 {
					low = p.Y / 2
				}
				yerrs[j].Low, yerrs[j].High = low, p.Err
			}
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Label, err)
		}
		line.Color = clr
		line.Width = vg.Points(2)
		line.Dashes = plotutil.Dashes(s.Style)
		pl.Add(line)
		thumbs := []plot.Thumbnailer{line}
		if f.Markers {
			points.Color = clr
			points.Shape = plotutil.Shape(s.Style)
			points.Radius = vg.Points(4)
			pl.Add(points)
			thumbs = append(thumbs, points)
		}
		if yerrs != nil {
			eb, err := plotter.NewYErrorBars(struct {
				plotter.XYs
				plotter.YErrors
			}{xys, yerrs})
			if err != nil {
				return nil, fmt.Errorf("series %s: %w", s.Label, err)
			}
			eb.Color = clr
			pl.Add(eb)
		}
		pl.Legend.Add(s.Label, thumbs...)
	}

	for _, l := range f.HLines {
		r, err := newRefLine(l, false)
		if err != nil {
			return nil, err
		}
		pl.Add(r)
	}
	for _, l := range f.VLines {
		r, err := newRefLine(l, true)
		if err != nil {
			return nil, err
		}
		pl.Add(r)
	}

	if logY {
		pl.Y.Scale = plot.LogScale{}
		pl.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	if f.YLim[1] > f.YLim[0] {
		pl.Y.Min, pl.Y.Max = f.YLim[0], f.YLim[1]
	}

	switch {
	case f.XLabels != nil:
		pl.NominalX(f.XLabels...)
		pos, labels := SliceTicks(f.XLabels, f.TickInterval)
		ticks := make([]plot.Tick, len(pos))
		for i := range pos {
			ticks[i] = plot.Tick{Value: float64(pos[i]), Label: labels[i]}
		}
		pl.X.Tick.Marker = plot.ConstantTicks(ticks)
		pl.X.Tick.Length = vg.Points(4)
		pl.X.Tick.Width = vg.Points(0.5)
		pl.X.Width = vg.Points(0.5)
	case f.XTicks != nil:
		ticks := make([]plot.Tick, len(f.XTicks))
		for i, x := range f.XTicks {
			ticks[i] = plot.Tick{Value: x, Label: strconv.FormatFloat(x, 'g', -1, 64)}
		}
		pl.X.Tick.Marker = plot.ConstantTicks(ticks)
	}
	return pl, nil
}

// Render draws f to w in format, one of Formats. An empty format
// means svg.
func Render(f *Figure, w io.Writer, format string) error {
	pl, err := Plot(f)
	if err != nil {
		return err
	}
	if format == "" {
		format = "svg"
	}

	var can vg.CanvasWriterTo
	switch format {
	case "png":
		can = vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(chartWidth, chartHeight),
			vgimg.UseDPI(chartDPI), vgimg.UseBackgroundColor(color.White))}
	case "svg", "pdf", "eps":
		can, err = draw.NewFormattedCanvas(chartWidth, chartHeight, format)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	pl.Draw(draw.New(can))
	_, err = can.WriteTo(w)
	return err
}

// A refLine is a reference line across the whole plot area.
type refLine struct {
	value    float64
	vertical bool
	draw.LineStyle
}

func newRefLine(l RefLine, vertical bool) (*refLine, error) {
	clr := color.Color(color.Black)
	if l.Color != "" {
		c, err := ParseColor(l.Color)
		if err != nil {
			return nil, fmt.Errorf("reference line at %g: %w", l.Value, err)
		}
		clr = c
	}
	r := &refLine{value: l.Value, vertical: vertical}
	r.Color = clr
	r.Width = vg.Points(2)
	if l.Dotted {
		r.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	}
	return r, nil
}

// Plot draws the line on Canvas c and Plot plt.
func (r *refLine) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	if r.vertical {
		x := trX(r.value)
		if c.ContainsX(x) {
			c.StrokeLine2(r.LineStyle, x, c.Min.Y, x, c.Max.Y)
		}
		return
	}
	y := trY(r.value)
	if c.ContainsY(y) {
		c.StrokeLine2(r.LineStyle, c.Min.X, y, c.Max.X, y)
	}
}

// DataRange forces the line's value onto its axis and leaves the
// other axis to the data.
func (r *refLine) DataRange() (xmin, xmax, ymin, ymax float64) {
	inf := math.Inf(1)
	if r.vertical {
		return r.value, r.value, inf, -inf
	}
	return inf, -inf, r.value, r.value
}
