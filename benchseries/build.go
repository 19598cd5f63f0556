// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/xhc-coll/xhcplot/benchproc"
	"github.com/xhc-coll/xhcplot/benchunit"
	"github.com/xhc-coll/xhcplot/runname"
)

// Options parameterize Build.
type Options struct {
	// Host is the host of a single-host figure.
	Host string

	// Remedy is the remedy of a remedy figure.
	Remedy string

	// Strict rejects ratio partitions with more than one baseline
	// row.
	Strict bool

	Params *Params
}

// tab10 is the default series palette.
var tab10 = []string{
	"tab:blue", "tab:orange", "tab:green", "tab:red", "tab:purple",
	"tab:brown", "tab:pink", "tab:gray", "tab:olive", "tab:cyan",
}

// Build runs the pipeline of figure k over data, a table loaded by
// Load for k.
func Build(k Kind, data *table.Table, opts Options) (*Figure, error) {
	if opts.Params == nil {
		return nil, errors.New("no figure parameters")
	}
	if !k.AllHosts() && opts.Host == "" {
		return nil, fmt.Errorf("figure %s needs a host", k)
	}
	if k.NeedsRemedy() && opts.Remedy == "" {
		return nil, fmt.Errorf("figure %s needs a remedy", k)
	}

	var build func(table.Grouping, Options) (*Figure, error)
	switch k {
	case Remedies:
		build = buildRemedies
	case RemediesSpeedup:
		build = buildSpeedup
	case Effect:
		build = buildEffect
	case EffectLocality:
		build = buildLocality
	case EffectSlowdown:
		build = buildSlowdown
	default:
		return nil, fmt.Errorf("unknown figure %q", k)
	}
	fig, err := build(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}

	fig.Name = k.FileName(opts.Host, opts.Remedy)
	fig.Title = opts.Params.Title
	if !k.AllHosts() {
		fig.Title += "\nNode: " + opts.Host
	}
	return fig, nil
}

func remedyParams(o Options) (*RemedyParams, error) {
	rp, ok := o.Params.Remedies[o.Remedy]
	if !ok || o.Remedy == runname.Vanilla {
		return nil, fmt.Errorf("remedy %q: %w", o.Remedy, benchproc.ErrUnknownCategory)
	}
	return rp, nil
}

func buildRemedies(g table.Grouping, o Options) (*Figure, error) {
	p := o.Params
	rp, err := remedyParams(o)
	if err != nil {
		return nil, err
	}
	lo, hi, err := rp.SizeRange()
	if err != nil {
		return nil, err
	}

	g = benchproc.SortBy(g, benchproc.ColRemedy, benchproc.ColChunk, benchproc.ColMode, benchproc.ColSize)
	g = benchproc.FilterIn(g, benchproc.ColRemedy, runname.Vanilla, o.Remedy)
	sel := make(map[string]benchproc.Selection)
	for _, host := range benchproc.Strings(g, benchproc.ColHost) {
		sel[host] = rp.Selection(o.Host)
	}
	g = benchproc.SelectConfig(g, sel)
	g = benchproc.FilterRange(g, benchproc.ColSize, lo, hi)
	if err := benchproc.Require(g, benchproc.ColRemedy, runname.Vanilla, o.Remedy); err != nil {
		return nil, err
	}

	// Hue order: baseline, the remedy, then its variants by mode.
	codes := []string{runname.Vanilla, o.Remedy}
	if len(rp.Variants) > 0 {
		var modes []int
		for m := range rp.Variants {
			modes = append(modes, m)
		}
		sort.Ints(modes)
		for _, m := range modes {
			codes = append(codes, rp.Variants[m])
		}
		g = table.MapCols(g, func(remedy []string, mode []int, out []string) {
			for i, r := range remedy {
				out[i] = r
				if v, ok := rp.Variants[mode[i]]; ok && r == o.Remedy {
					out[i] = v
				}
			}
		}, benchproc.ColRemedy, benchproc.ColMode)(benchproc.ColRemedy)

		// Every selected mode must have runs, whether it is drawn as
		// the remedy or as one of its variants.
		want := []interface{}{runname.Vanilla}
		for _, m := range rp.ModesFor(o.Host) {
			code := o.Remedy
			if v, ok := rp.Variants[m]; ok {
				code = v
			}
			want = append(want, code)
		}
		if err := benchproc.Require(g, benchproc.ColRemedy, want...); err != nil {
			return nil, err
		}
	}

	g = benchproc.MeanStd(g, benchproc.ColRemedy, benchproc.ColSize)
	g, err = benchproc.Relabel(g, benchproc.ColRemedy, p.Labels)
	if err != nil {
		return nil, err
	}

	pos, labels := sizeAxis(g)
	fig := &Figure{
		XLabel:       "Message size",
		YLabel:       "Latency (us)",
		YScale:       scaleOr(rp.YScale),
		XLabels:      labels,
		TickInterval: rp.TickInterval,
		Markers:      true,
	}
	byLabel := make(map[string]line)
	for _, l := range splitLines(g, benchproc.ColSize, pos, benchproc.ColRemedy) {
		byLabel[l.key[0].(string)] = l
	}
	for _, code := range codes {
		l, ok := byLabel[p.Labels[code]]
		if !ok {
			continue
		}
		fig.Series = append(fig.Series, &Series{
			Label:  p.Labels[code],
			Color:  p.Colors[code],
			Style:  len(fig.Series),
			Points: l.points,
		})
	}
	return fig, nil
}

func buildSpeedup(g table.Grouping, o Options) (*Figure, error) {
	p := o.Params
	rp, err := remedyParams(o)
	if err != nil {
		return nil, err
	}

	g = benchproc.SortBy(g, benchproc.ColHost, benchproc.ColRemedy, benchproc.ColChunk, benchproc.ColMode, benchproc.ColSize)
	g = benchproc.FilterIn(g, benchproc.ColRemedy, runname.Vanilla, o.Remedy)
	sel := make(map[string]benchproc.Selection)
	for _, host := range benchproc.Strings(g, benchproc.ColHost) {
		sel[host] = benchproc.Selection{Chunk: rp.ChunkFor(host), Modes: []int{rp.PreferredMode(host)}}
	}
	g = benchproc.SelectConfig(g, sel)
	if err := benchproc.Require(g, benchproc.ColRemedy, runname.Vanilla, o.Remedy); err != nil {
		return nil, err
	}
	g, err = benchproc.Relabel(g, benchproc.ColRemedy, p.Labels)
	if err != nil {
		return nil, err
	}
	g, err = benchproc.Normalizer{
		Partition:    []string{benchproc.ColHost, benchproc.ColSize},
		Baseline:     benchproc.BaselineEq(benchproc.ColRemedy, p.Labels[runname.Vanilla]),
		Framing:      benchproc.Speedup,
		DropBaseline: true,
		Strict:       o.Strict,
	}.Apply(g)
	if err != nil {
		return nil, err
	}
	g = benchproc.Mean(g, benchproc.ColHost, benchproc.ColSize)

	pos, labels := sizeAxis(g)
	fig := &Figure{
		XLabel:       "Message size",
		YLabel:       "Speedup (x)",
		YScale:       Linear,
		XLabels:      labels,
		TickInterval: p.Speedup.TickInterval,
		HLines:       []RefLine{{Value: 1, Color: "black"}},
		GridYOnly:    true,
		Markers:      true,
	}
	if p.Speedup.YMax > p.Speedup.YMin {
		fig.YLim = [2]float64{p.Speedup.YMin, p.Speedup.YMax}
	}
	fig.Series = hostSeries(splitLines(g, benchproc.ColSize, pos, benchproc.ColHost))
	return fig, nil
}

func buildEffect(g table.Grouping, o Options) (*Figure, error) {
	sizes, err := o.Params.Effect.SizeValues()
	if err != nil {
		return nil, err
	}

	g = benchproc.SortBy(g, benchproc.ColNRanks, benchproc.ColSize)
	g = benchproc.FilterIn(g, benchproc.ColSize, sizes...)
	maxRanks, ok := benchproc.MaxInt(g, benchproc.ColNRanks)
	if !ok {
		return nil, fmt.Errorf("sizes %s: %w", strings.Join(o.Params.Effect.Sizes, ","), benchproc.ErrNoRows)
	}
	g = benchproc.MeanStd(g, benchproc.ColNRanks, benchproc.ColSize)

	fig := rankFigure(g, maxRanks, o.Params.Effect.TickEvery)
	fig.Legend = UpperLeft
	fig.LegendTitle = "Message size"
	for i, l := range splitLines(g, benchproc.ColNRanks, nil, benchproc.ColSize) {
		fig.Series = append(fig.Series, &Series{
			Label:  benchunit.Format(int64(l.key[0].(int))),
			Color:  tab10[i%len(tab10)],
			Points: l.points,
		})
	}
	return fig, nil
}

func buildLocality(g table.Grouping, o Options) (*Figure, error) {
	sizes, err := o.Params.Effect.SizeValues()
	if err != nil {
		return nil, err
	}
	maxRanks, ok := benchproc.MaxInt(g, benchproc.ColNRanks)
	if !ok {
		return nil, benchproc.ErrNoRows
	}

	g = benchproc.SortBy(g, benchproc.ColNRanks, benchproc.ColRank, benchproc.ColSize)
	g = benchproc.DropRoot(g)
	g = benchproc.Locality(g, maxRanks)
	g = benchproc.Mean(g, benchproc.ColNRanks, benchproc.ColLocality, benchproc.ColSize)
	g = benchproc.FilterIn(g, benchproc.ColSize, sizes...)
	if benchproc.Len(g) == 0 {
		return nil, fmt.Errorf("sizes %s: %w", strings.Join(o.Params.Effect.Sizes, ","), benchproc.ErrNoRows)
	}

	fig := rankFigure(g, maxRanks, o.Params.Effect.TickEvery)
	lines := splitLines(g, benchproc.ColNRanks, nil, benchproc.ColSize, benchproc.ColLocality)
	// Hue is the size, in increasing order; style is the locality.
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].key[0].(int) < lines[j].key[0].(int)
	})
	hue := make(map[int]int)
	for _, l := range lines {
		size, loc := l.key[0].(int), l.key[1].(string)
		if _, ok := hue[size]; !ok {
			hue[size] = len(hue)
		}
		style := 0
		if loc != "local" {
			style = 1
		}
		fig.Series = append(fig.Series, &Series{
			Label:  benchunit.Format(int64(size)) + ", " + loc,
			Color:  tab10[hue[size]%len(tab10)],
			Style:  style,
			Points: l.points,
		})
	}
	return fig, nil
}

func buildSlowdown(g table.Grouping, o Options) (*Figure, error) {
	p := o.Params

	g = benchproc.SortBy(g, benchproc.ColHost, benchproc.ColNRanks, benchproc.ColRank, benchproc.ColSize)
	g = benchproc.DropRoot(g)
	if benchproc.Len(g) == 0 {
		return nil, benchproc.ErrNoRows
	}
	maxRanks := maxByHost(g)
	// Per host, keep the local ranks of the half-size and full-size
	// runs.
	g = table.Filter(g, func(host string, n, rank int) bool {
		m := maxRanks[host]
		return (2*n == m || n == m) && 2*rank < m
	}, benchproc.ColHost, benchproc.ColNRanks, benchproc.ColRank)
	g = benchproc.Mean(g, benchproc.ColHost, benchproc.ColNRanks, benchproc.ColSize)
	if benchproc.Len(g) == 0 {
		return nil, benchproc.ErrNoRows
	}
	// The baseline of every size is the host's smallest kept run.
	minRanks := make(map[interface{}]interface{})
	for host, n := range rankBound(g, func(a, b int) bool { return a < b }) {
		minRanks[host] = n
	}
	g, err := benchproc.Normalizer{
		Partition: []string{benchproc.ColHost, benchproc.ColSize},
		Baseline:  benchproc.BaselineEqPer(benchproc.ColHost, benchproc.ColNRanks, minRanks),
		Framing:   benchproc.Slowdown,
		Strict:    o.Strict,
	}.Apply(g)
	if err != nil {
		return nil, err
	}
	g = table.Filter(g, func(host string, n int) bool {
		return n == maxRanks[host]
	}, benchproc.ColHost, benchproc.ColNRanks)

	pos, labels := sizeAxis(g)
	fig := &Figure{
		XLabel:       "Message size",
		YLabel:       "Slowdown (x)",
		YScale:       Linear,
		XLabels:      labels,
		TickInterval: p.Slowdown.TickInterval,
		HLines:       []RefLine{{Value: 1, Color: "black"}},
		Markers:      true,
		Legend:       UpperRight,
	}
	if p.Slowdown.YMax > p.Slowdown.YMin {
		fig.YLim = [2]float64{p.Slowdown.YMin, p.Slowdown.YMax}
	}
	fig.Series = hostSeries(splitLines(g, benchproc.ColSize, pos, benchproc.ColHost))
	return fig, nil
}

// rankFigure returns the common frame of the scaling figures.
func rankFigure(g table.Grouping, maxRanks, tickEvery int) *Figure {
	if tickEvery < 1 {
		tickEvery = 1
	}
	var ticks []float64
	for i, n := range benchproc.Ints(g, benchproc.ColNRanks) {
		if i%tickEvery == 0 {
			ticks = append(ticks, float64(n))
		}
	}
	return &Figure{
		XLabel: "Ranks (#)",
		YLabel: "Latency (us)",
		YScale: Log,
		XTicks: ticks,
		VLines: []RefLine{{Value: float64(maxRanks) / 2, Color: "grey", Dotted: true}},
	}
}

func hostSeries(lines []line) []*Series {
	var ss []*Series
	for i, l := range lines {
		ss = append(ss, &Series{
			Label:  l.key[0].(string),
			Color:  tab10[i%len(tab10)],
			Style:  i,
			Points: l.points,
		})
	}
	return ss
}

func scaleOr(s Scale) Scale {
	if s == "" {
		return Linear
	}
	return s
}

// sizeAxis returns the nominal message-size axis of g: the position
// of each size and the labels in increasing size order.
func sizeAxis(g table.Grouping) (map[int]int, []string) {
	sizes := append([]int(nil), benchproc.Ints(g, benchproc.ColSize)...)
	sort.Ints(sizes)
	pos := make(map[int]int, len(sizes))
	for i, s := range sizes {
		pos[s] = i
	}
	return pos, benchunit.FormatAll(sizes)
}

// maxByHost returns the largest rank count of each host in g.
func maxByHost(g table.Grouping) map[string]int {
	return rankBound(g, func(a, b int) bool { return a > b })
}

// rankBound returns, for each host in g, the rank count that better
// prefers over all others.
func rankBound(g table.Grouping, better func(a, b int) bool) map[string]int {
	t := table.Flatten(g)
	var hosts []string
	var ns []int
	slice.Convert(&hosts, column(t, benchproc.ColHost))
	slice.Convert(&ns, column(t, benchproc.ColNRanks))
	m := make(map[string]int)
	for i, h := range hosts {
		if cur, ok := m[h]; !ok || better(ns[i], cur) {
			m[h] = ns[i]
		}
	}
	return m
}

// A line is the rows of one series.
type line struct {
	key    []interface{}
	points []Point
}

// splitLines splits g into one line per distinct value of the key
// columns, in order of first appearance. Points are placed on the X
// axis by the int column xcol, through pos if it is non-nil, and
// sorted by X. The sd column, if any, gives the error bars.
func splitLines(g table.Grouping, xcol string, pos map[int]int, key ...string) []line {
	if len(g.Tables()) == 0 {
		return nil
	}
	g = table.GroupBy(table.Flatten(g), key...)

	var lines []line
	for _, gid := range g.Tables() {
		t := g.Table(gid)
		if t.Len() == 0 {
			continue
		}
		var l line
		for _, col := range key {
			v, _ := t.Const(col)
			l.key = append(l.key, v)
		}

		var xs []int
		var ys, errs []float64
		slice.Convert(&xs, column(t, xcol))
		slice.Convert(&ys, column(t, benchproc.ColLatency))
		if benchproc.HasColumn(t, benchproc.ColSD) {
			slice.Convert(&errs, column(t, benchproc.ColSD))
		}
		for i, x := range xs {
			p := Point{X: float64(x), Y: ys[i]}
			if pos != nil {
				p.X = float64(pos[x])
				p.XLabel = benchunit.Format(int64(x))
			}
			if errs != nil {
				p.Err = errs[i]
			}
			l.points = append(l.points, p)
		}
		sort.SliceStable(l.points, func(i, j int) bool {
			return l.points[i].X < l.points[j].X
		})
		lines = append(lines, l)
	}
	return lines
}

// column returns column col of t, expanding a constant column
// without caching it in t.
func column(t *table.Table, col string) table.Slice {
	if cv, ok := t.Const(col); ok {
		return slice.Repeat(cv, t.Len())
	}
	return t.MustColumn(col)
}
