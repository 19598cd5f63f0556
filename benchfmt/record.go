// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchfmt reads OSU broadcast latency measurements.
//
// Measurements reach the analysis as whitespace-delimited text tables
// whose first line names the columns, for example
//
//	file size latency stddev
//	ICX-48_xhc_vanilla_tree_16K 4 1.52 0.03
//
// Such tables are produced by an external extraction helper (see
// Helper) or by parsing raw OSU output directly (see OSUDir).
package benchfmt

import (
	"context"
	"fmt"
	"strings"
)

// A Record is one row of raw measurement data.
type Record struct {
	// File identifies the benchmark run. Run metadata is encoded
	// in its name.
	File string

	// Size is the message size in bytes.
	Size int

	// Rank is the reporting rank, if HasRank is set.
	Rank    int
	HasRank bool

	// Latency is the measured latency in microseconds.
	Latency float64

	// Stddev is the variability of Latency, if HasStddev is set.
	Stddev    float64
	HasStddev bool
}

func (r Record) String() string {
	var b strings.Builder
	b.WriteString(r.File)
	if r.HasRank {
		fmt.Fprintf(&b, " %03d", r.Rank)
	}
	fmt.Fprintf(&b, " %d %g", r.Size, r.Latency)
	if r.HasStddev {
		fmt.Fprintf(&b, " %g", r.Stddev)
	}
	return b.String()
}

// A Layout selects the shape of the rows a Source produces.
type Layout int

const (
	// Summary has one row per (file, size) with the mean latency
	// over repetitions and its standard deviation.
	Summary Layout = iota
	// Full has one row per repetition of (file, size).
	Full
	// PerRank has one row per repetition of (file, rank, size),
	// from the per-rank latency lines.
	PerRank
)

var layoutNames = []string{"summary", "full", "per-rank"}

func (l Layout) String() string {
	if l < 0 || int(l) >= len(layoutNames) {
		return fmt.Sprintf("Layout(%d)", int(l))
	}
	return layoutNames[l]
}

// ParseLayout returns the layout named s.
func ParseLayout(s string) (Layout, error) {
	for i, name := range layoutNames {
		if s == name {
			return Layout(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layout %q", s)
}

// Columns returns the header of tables in layout l.
func (l Layout) Columns() []string {
	switch l {
	case Full:
		return []string{"file", "size", "latency"}
	case PerRank:
		return []string{"file", "rank", "size", "latency"}
	}
	return []string{"file", "size", "latency", "stddev"}
}

// Header returns the header line of tables in layout l.
func (l Layout) Header() string {
	return strings.Join(l.Columns(), " ")
}

// A Source loads the records of one host's data directory.
type Source interface {
	Load(ctx context.Context, host string, layout Layout) ([]Record, error)
}
