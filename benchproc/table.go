// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"fmt"
	"reflect"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/xhc-coll/xhcplot/benchfmt"
	"github.com/xhc-coll/xhcplot/runname"
)

// Column names.
const (
	ColHost     = "host"
	ColRemedy   = "remedy"
	ColChunk    = "chunk"
	ColMode     = "mod"
	ColNRanks   = "n_ranks"
	ColRank     = "rank"
	ColLocality = "locality"
	ColSize     = "size"
	ColLatency  = "latency"
	ColStddev   = "stddev"
	ColSD       = "sd"
)

// allFields is used for Decoders that don't say which fields they
// decode.
var allFields = []string{ColHost, ColRemedy, ColChunk, ColMode, ColNRanks}

// FromRecords loads recs into a table. Each record's File is decoded
// with dec and replaced by the decoded fields; if dec is a
// *runname.Schema only the fields it lists become columns. The rank
// and stddev columns are present only if the records carry them, and
// all records must agree on that.
//
// A file name that dec cannot decode fails the whole load.
func FromRecords(recs []benchfmt.Record, dec runname.Decoder) (*table.Table, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("loading records: %w", ErrNoRows)
	}
	fields := allFields
	if s, ok := dec.(*runname.Schema); ok && s.Fields != nil {
		fields = s.Fields
	}

	meta := make([]reflect.Value, len(fields))
	var (
		sizes   = make([]int, len(recs))
		lats    = make([]float64, len(recs))
		ranks   []int
		stddevs []float64
	)
	if recs[0].HasRank {
		ranks = make([]int, len(recs))
	}
	if recs[0].HasStddev {
		stddevs = make([]float64, len(recs))
	}
	for i, rec := range recs {
		if rec.HasRank != (ranks != nil) || rec.HasStddev != (stddevs != nil) {
			return nil, fmt.Errorf("record %d (%s): columns differ from first record", i, rec.File)
		}
		run, err := dec.Decode(rec.File)
		if err != nil {
			return nil, err
		}
		for j, f := range fields {
			v, ok := run.FieldValue(f)
			if !ok {
				panic(fmt.Sprintf("unknown run field %q", f))
			}
			rv := reflect.ValueOf(v)
			if i == 0 {
				meta[j] = reflect.MakeSlice(reflect.SliceOf(rv.Type()), len(recs), len(recs))
			}
			meta[j].Index(i).Set(rv)
		}
		sizes[i], lats[i] = rec.Size, rec.Latency
		if ranks != nil {
			ranks[i] = rec.Rank
		}
		if stddevs != nil {
			stddevs[i] = rec.Stddev
		}
	}

	var b table.Builder
	for j, f := range fields {
		b.Add(f, meta[j].Interface())
	}
	if ranks != nil {
		b.Add(ColRank, ranks)
	}
	b.Add(ColSize, sizes).Add(ColLatency, lats)
	if stddevs != nil {
		b.Add(ColStddev, stddevs)
	}
	return b.Done(), nil
}

// HasColumn reports whether g has a column named col.
func HasColumn(g table.Grouping, col string) bool {
	for _, c := range g.Columns() {
		if c == col {
			return true
		}
	}
	return false
}

// Len returns the total number of rows in g.
func Len(g table.Grouping) int {
	n := 0
	for _, gid := range g.Tables() {
		n += g.Table(gid).Len()
	}
	return n
}

// Unique returns the distinct values of col in g in order of first
// appearance, as a slice of the column's type. It returns nil if g
// has no tables.
func Unique(g table.Grouping, col string) table.Slice {
	if len(g.Tables()) == 0 {
		return nil
	}
	return slice.Nub(table.Flatten(g).MustColumn(col))
}

// Strings is Unique for string columns.
func Strings(g table.Grouping, col string) []string {
	if len(g.Tables()) == 0 {
		return nil
	}
	return Unique(g, col).([]string)
}

// Ints is Unique for int columns.
func Ints(g table.Grouping, col string) []int {
	if len(g.Tables()) == 0 {
		return nil
	}
	return Unique(g, col).([]int)
}

// MaxInt returns the maximum of int column col over all of g, or 0
// and false if g has no rows.
func MaxInt(g table.Grouping, col string) (int, bool) {
	t := table.Flatten(g)
	if t.Len() == 0 {
		return 0, false
	}
	return slice.Max(t.MustColumn(col)).(int), true
}

// Require checks that g has at least one row for each of the given
// values of col. The error wraps ErrNoRows.
func Require(g table.Grouping, col string, vals ...interface{}) error {
	have := make(map[interface{}]bool)
	if len(g.Tables()) > 0 {
		cv := reflect.ValueOf(table.Flatten(g).MustColumn(col))
		for i := 0; i < cv.Len(); i++ {
			have[cv.Index(i).Interface()] = true
		}
	}
	for _, v := range vals {
		if !have[v] {
			return fmt.Errorf("%s %v: %w", col, v, ErrNoRows)
		}
	}
	if len(vals) == 0 && len(have) == 0 {
		return ErrNoRows
	}
	return nil
}

// expand returns column col of t, materializing a constant column.
func expand(t *table.Table, col string) table.Slice {
	if cv, ok := t.Const(col); ok {
		return slice.Repeat(cv, t.Len())
	}
	return t.MustColumn(col)
}

// dropEmpty removes tables with no rows from g.
func dropEmpty(g table.Grouping) table.Grouping {
	var out table.GroupingBuilder
	for _, gid := range g.Tables() {
		if t := g.Table(gid); t.Len() > 0 {
			out.Add(gid, t)
		}
	}
	return out.Done()
}

// rebuild returns the rows of t selected by rows, keeping constant
// columns constant.
func rebuild(t *table.Table, rows []int) *table.Table {
	var nt table.Builder
	for _, col := range t.Columns() {
		if cv, ok := t.Const(col); ok {
			nt.AddConst(col, cv)
		} else {
			nt.Add(col, slice.Select(t.Column(col), rows))
		}
	}
	return nt.Done()
}
