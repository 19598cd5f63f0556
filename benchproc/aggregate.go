// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
)

// Mean groups the rows of each table in g by the key columns and
// replaces each group by one row holding the arithmetic mean of its
// latency (and stddev, if present). Measurement columns keep their
// names. Columns that are constant within every group are kept; all
// others are dropped.
//
// Output rows are in order of first appearance of their keys.
func Mean(g table.Grouping, keys ...string) table.Grouping {
	return aggregate(g, keys, false)
}

// MeanStd is like Mean, but also adds an sd column holding the sample
// standard deviation of latency within each group.
func MeanStd(g table.Grouping, keys ...string) table.Grouping {
	return aggregate(g, keys, true)
}

func aggregate(g table.Grouping, keys []string, withSD bool) table.Grouping {
	// ggstat.Agg cannot aggregate a table with no rows.
	g = dropEmpty(g)
	if len(g.Tables()) == 0 {
		return g
	}

	cols := []string{ColLatency}
	if HasColumn(g, ColStddev) {
		cols = append(cols, ColStddev)
	}
	aggs := []ggstat.Aggregator{ggstat.AggMean(cols...)}
	if withSD {
		aggs = append(aggs, aggStdDev(ColLatency, ColSD))
	}
	out := ggstat.Agg(keys...)(aggs...).F(g)
	for _, col := range cols {
		out = table.Rename(out, "mean "+col, col)
	}
	return out
}

// aggStdDev returns an aggregate function that computes the sample
// standard deviation of col into column label.
func aggStdDev(col, label string) ggstat.Aggregator {
	return func(input table.Grouping, b *table.Builder) {
		sds := make([]float64, 0, len(input.Tables()))
		var xs []float64
		for _, gid := range input.Tables() {
			slice.Convert(&xs, input.Table(gid).MustColumn(col))
			sds = append(sds, stats.StdDev(xs))
		}
		b.Add(label, sds)
	}
}
