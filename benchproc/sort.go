// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"reflect"
	"sort"

	"github.com/aclements/go-gg/generic"
	"github.com/aclements/go-gg/table"
)

// SortBy sorts each table in g lexicographically by cols: rows are
// ordered by cols[0], rows with equal cols[0] by cols[1], and so on.
// The sort is stable, so rows that are equal in every column keep
// their relative order. Numbers sort numerically and strings
// byte-wise.
//
// Unlike table.SortBy, every column takes part in the comparison even
// if it is already sorted on its own.
func SortBy(g table.Grouping, cols ...string) table.Grouping {
	if len(cols) == 0 {
		return g
	}
	return table.MapTables(g, func(_ table.GroupID, t *table.Table) *table.Table {
		// Constant columns can't change the order.
		var keys []reflect.Value
		for _, col := range cols {
			if _, ok := t.Const(col); ok {
				continue
			}
			keys = append(keys, reflect.ValueOf(t.MustColumn(col)))
		}
		if len(keys) == 0 {
			return t
		}

		perm := make([]int, t.Len())
		for i := range perm {
			perm[i] = i
		}
		sort.SliceStable(perm, func(i, j int) bool {
			return less(keys, perm[i], perm[j])
		})
		for i, p := range perm {
			if i != p {
				return rebuild(t, perm)
			}
		}
		return t
	})
}

// less compares rows a and b of the key columns.
func less(keys []reflect.Value, a, b int) bool {
	for _, k := range keys {
		if c := generic.OrderR(k.Index(a), k.Index(b)); c != 0 {
			return c < 0
		}
	}
	return false
}
