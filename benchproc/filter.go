// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"fmt"
	"reflect"

	"github.com/aclements/go-gg/generic"
	"github.com/aclements/go-gg/table"
	"github.com/xhc-coll/xhcplot/runname"
)

// DropRoot removes the rows reported by rank 0, the broadcast root.
// Tables without a rank column are returned unchanged.
func DropRoot(g table.Grouping) table.Grouping {
	if len(g.Tables()) == 0 || !HasColumn(g, ColRank) {
		return g
	}
	return table.Filter(g, func(rank int) bool { return rank != 0 }, ColRank)
}

// A Selection picks the runs of one host that a figure shows.
type Selection struct {
	Chunk string
	Modes []int
}

func (s Selection) match(chunk string, mode int) bool {
	if chunk != s.Chunk {
		return false
	}
	for _, m := range s.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// SelectConfig keeps, for each host in sel, only the rows whose chunk
// and mode match the host's Selection. Baseline rows and rows of
// hosts that have no Selection are always kept.
func SelectConfig(g table.Grouping, sel map[string]Selection) table.Grouping {
	if len(g.Tables()) == 0 {
		return g
	}
	return table.Filter(g, func(host, remedy, chunk string, mode int) bool {
		if remedy == runname.Vanilla {
			return true
		}
		s, ok := sel[host]
		return !ok || s.match(chunk, mode)
	}, ColHost, ColRemedy, ColChunk, ColMode)
}

// FilterIn keeps the rows whose value in col is one of vals. vals
// must have the column's type.
func FilterIn(g table.Grouping, col string, vals ...interface{}) table.Grouping {
	set := make(map[interface{}]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return filterCol(g, col, func(v reflect.Value) bool {
		return set[v.Interface()]
	})
}

// FilterRange keeps the rows whose value in col is within [min, max].
// min and max must have the column's type; either may be nil to leave
// that side open.
func FilterRange(g table.Grouping, col string, min, max interface{}) table.Grouping {
	var lo, hi reflect.Value
	if min != nil {
		lo = reflect.ValueOf(min)
	}
	if max != nil {
		hi = reflect.ValueOf(max)
	}
	return filterCol(g, col, func(v reflect.Value) bool {
		if lo.IsValid() && generic.OrderR(v, lo) < 0 {
			return false
		}
		if hi.IsValid() && generic.OrderR(v, hi) > 0 {
			return false
		}
		return true
	})
}

func filterCol(g table.Grouping, col string, keep func(v reflect.Value) bool) table.Grouping {
	match := make([]int, 0)
	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		if cv, ok := t.Const(col); ok {
			if keep(reflect.ValueOf(cv)) {
				return t
			}
			return rebuild(t, nil)
		}
		seq := reflect.ValueOf(t.MustColumn(col))
		match = match[:0]
		for i, n := 0, seq.Len(); i < n; i++ {
			if keep(seq.Index(i)) {
				match = append(match, i)
			}
		}
		if len(match) == t.Len() {
			return t
		}
		return rebuild(t, match)
	})
}

// Locality adds a locality column derived from the rank column: ranks
// in the lower half of an nRanks-rank run are "local" to the root's
// socket, the rest are "remote".
func Locality(g table.Grouping, nRanks int) table.Grouping {
	return table.MapCols(g, func(ranks []int, loc []string) {
		for i, r := range ranks {
			if 2*r < nRanks {
				loc[i] = "local"
			} else {
				loc[i] = "remote"
			}
		}
	}, ColRank)(ColLocality)
}

// Relabel replaces each value of string column col by its label. A
// value without a label fails with ErrUnknownCategory.
func Relabel(g table.Grouping, col string, labels map[string]string) (table.Grouping, error) {
	for _, v := range Strings(g, col) {
		if _, ok := labels[v]; !ok {
			return nil, fmt.Errorf("%s %q: %w", col, v, ErrUnknownCategory)
		}
	}
	return table.MapCols(g, func(in, out []string) {
		for i, v := range in {
			out[i] = labels[v]
		}
	}, col)(col), nil
}
