// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// A Framing says which way round a ratio is taken.
type Framing int

const (
	// Slowdown is latency / baseline latency.
	Slowdown Framing = iota
	// Speedup is baseline latency / latency.
	Speedup
)

func (f Framing) String() string {
	if f == Speedup {
		return "speedup"
	}
	return "slowdown"
}

// A Baseline selects the baseline rows of one partition.
type Baseline interface {
	// rows returns the indexes of the baseline rows of t.
	rows(t *table.Table) []int
	String() string
}

type baselineEq struct {
	col string
	val interface{}
}

// BaselineEq selects the rows whose value in col equals val.
func BaselineEq(col string, val interface{}) Baseline {
	return baselineEq{col, val}
}

func (b baselineEq) rows(t *table.Table) []int {
	var rows []int
	seq := reflect.ValueOf(t.MustColumn(b.col))
	for i := 0; i < seq.Len(); i++ {
		if seq.Index(i).Interface() == b.val {
			rows = append(rows, i)
		}
	}
	return rows
}

func (b baselineEq) String() string {
	return fmt.Sprintf("%s == %v", b.col, b.val)
}

type baselineMin struct {
	col string
}

// BaselineMin selects the rows holding the smallest value of col in
// their partition.
func BaselineMin(col string) Baseline {
	return baselineMin{col}
}

func (b baselineMin) rows(t *table.Table) []int {
	if t.Len() == 0 {
		return nil
	}
	seq := t.MustColumn(b.col)
	return baselineEq{b.col, slice.Min(seq)}.rows(t)
}

func (b baselineMin) String() string {
	return fmt.Sprintf("%s == min", b.col)
}

type baselineEqPer struct {
	key, col string
	vals     map[interface{}]interface{}
}

// BaselineEqPer selects the rows whose value in col equals vals[k],
// where k is the row's value in key. A row whose key is not in vals
// is never a baseline.
func BaselineEqPer(key, col string, vals map[interface{}]interface{}) Baseline {
	return baselineEqPer{key, col, vals}
}

func (b baselineEqPer) rows(t *table.Table) []int {
	var rows []int
	keys := reflect.ValueOf(expand(t, b.key))
	seq := reflect.ValueOf(expand(t, b.col))
	for i := 0; i < seq.Len(); i++ {
		want, ok := b.vals[keys.Index(i).Interface()]
		if ok && seq.Index(i).Interface() == want {
			rows = append(rows, i)
		}
	}
	return rows
}

func (b baselineEqPer) String() string {
	return fmt.Sprintf("%s == per-%s value", b.col, b.key)
}

// A Normalizer replaces latencies with ratios against a baseline.
//
// The rows are split into partitions of equal Partition values. In
// each partition exactly one row should satisfy Baseline; the latency
// of every row of the partition, the baseline's included, is replaced
// by its ratio against the baseline's latency.
type Normalizer struct {
	Partition []string
	Baseline  Baseline
	Framing   Framing

	// DropBaseline removes the baseline rows from the output.
	DropBaseline bool

	// Strict makes a partition with more than one baseline row an
	// error. Otherwise the first baseline row in table order is
	// used.
	Strict bool
}

// Apply normalizes g. The result is a single table ordered by
// partition in order of first appearance. Per-row variability columns
// (stddev, sd) describe latencies, not ratios, and are removed.
//
// A partition without a baseline row fails with ErrMissingBaseline.
func (n Normalizer) Apply(g table.Grouping) (table.Grouping, error) {
	if n.Baseline == nil {
		panic("Normalizer has no Baseline")
	}
	g = dropEmpty(g)
	for _, col := range []string{ColStddev, ColSD} {
		if HasColumn(g, col) {
			g = table.Remove(g, col)
		}
	}
	parts := table.GroupBy(table.Flatten(g), n.Partition...)

	var out table.GroupingBuilder
	for _, gid := range parts.Tables() {
		t := parts.Table(gid)
		base := n.Baseline.rows(t)
		if len(base) == 0 {
			return nil, fmt.Errorf("partition %s (%s): %w", n.describe(t), n.Baseline, ErrMissingBaseline)
		}
		if len(base) > 1 && n.Strict {
			return nil, fmt.Errorf("partition %s (%s): %d rows: %w", n.describe(t), n.Baseline, len(base), ErrDuplicateBaseline)
		}

		var lats []float64
		slice.Convert(&lats, t.MustColumn(ColLatency))
		baseLat := lats[base[0]]
		ratios := make([]float64, len(lats))
		for i, l := range lats {
			if n.Framing == Speedup {
				ratios[i] = baseLat / l
			} else {
				ratios[i] = l / baseLat
			}
		}
		nt := table.NewBuilder(t).Add(ColLatency, ratios).Done()

		if n.DropBaseline {
			isBase := make(map[int]bool, len(base))
			for _, r := range base {
				isBase[r] = true
			}
			var keep []int
			for i := 0; i < nt.Len(); i++ {
				if !isBase[i] {
					keep = append(keep, i)
				}
			}
			nt = rebuild(nt, keep)
		}
		out.Add(gid, nt)
	}
	return table.Flatten(out.Done()), nil
}

// describe formats the partition key of t.
func (n Normalizer) describe(t *table.Table) string {
	var parts []string
	for _, col := range n.Partition {
		v, ok := t.Const(col)
		if !ok {
			v = reflect.ValueOf(t.MustColumn(col)).Index(0).Interface()
		}
		parts = append(parts, fmt.Sprintf("%s=%v", col, v))
	}
	return strings.Join(parts, " ")
}
