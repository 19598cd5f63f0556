// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchseries builds the figures of the XHC broadcast study
// from benchmark tables and renders them.
//
// Each Kind of figure is a fixed pipeline over the benchproc
// operations: select the configurations to compare, aggregate
// repeated measurements, optionally normalize against a baseline,
// and split the result into one Series per plotted line.
package benchseries

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/aclements/go-gg/table"
)

// A Scale is the scale of a figure's Y axis.
type Scale string

const (
	Linear Scale = "linear"
	Log    Scale = "log"
)

// A Point is one observation of a Series.
type Point struct {
	// X is the position on the X axis. On a nominal X axis it is the
	// index of XLabel in Figure.XLabels.
	X      float64
	XLabel string

	Y float64

	// Err is the half-width of the point's error bar, or 0 for
	// none.
	Err float64
}

// A Series is one line of a figure.
type Series struct {
	Label string

	// Color is a color name ("tab:blue") or "#rrggbb". If empty,
	// the series gets the next color of the default palette.
	Color string

	// Style selects the dash pattern and glyph shape.
	Style int

	Points []Point
}

// A RefLine is a horizontal or vertical reference line.
type RefLine struct {
	Value  float64
	Color  string
	Dotted bool
}

// A LegendPos places a figure's legend.
type LegendPos int

const (
	UpperLeft LegendPos = iota
	UpperRight
)

// A Figure is a line chart ready to be rendered.
type Figure struct {
	// Name is the base name of the figure's output file.
	Name string

	Title          string
	XLabel, YLabel string
	YScale         Scale

	// YLim fixes the Y axis range. The zero value lets the range
	// follow the data.
	YLim [2]float64

	// XLabels, if non-nil, makes the X axis nominal: point X
	// values index XLabels.
	XLabels []string
	// TickInterval thins the ticks of a nominal X axis; see
	// SliceTicks.
	TickInterval int
	// XTicks places the ticks of a numeric X axis.
	XTicks []float64

	HLines, VLines []RefLine

	// GridYOnly draws only horizontal grid lines.
	GridYOnly bool

	// Markers draws a glyph at every point.
	Markers bool

	Legend      LegendPos
	LegendTitle string

	Series []*Series
}

// Table returns the points of f as a table with columns series, x,
// y and err, in series order.
func (f *Figure) Table() *table.Table {
	var (
		series, xs []string
		ys, errs   []float64
	)
	for _, s := range f.Series {
		for _, p := range s.Points {
			series = append(series, s.Label)
			xs = append(xs, p.label())
			ys = append(ys, p.Y)
			errs = append(errs, p.Err)
		}
	}
	if series == nil {
		series, xs, ys, errs = []string{}, []string{}, []float64{}, []float64{}
	}
	return new(table.Builder).
		Add("series", series).
		Add("x", xs).
		Add("y", ys).
		Add("err", errs).
		Done()
}

// Len returns the number of points in f.
func (f *Figure) Len() int {
	n := 0
	for _, s := range f.Series {
		n += len(s.Points)
	}
	return n
}

// Print writes the figure table of f to w.
func (f *Figure) Print(w io.Writer) error {
	return table.Fprint(w, f.Table(), "%s", "%s", "%.4g", "%.4g")
}

// WriteCSV writes the figure table of f to w as CSV, with a header
// row.
func (f *Figure) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"series", "x", "y", "err"})
	for _, s := range f.Series {
		for _, p := range s.Points {
			cw.Write([]string{s.Label, p.label(), strof(p.Y), strof(p.Err)})
		}
	}
	cw.Flush()
	return cw.Error()
}

func (p Point) label() string {
	if p.XLabel != "" {
		return p.XLabel
	}
	return strof(p.X)
}

func strof(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
