// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchproc provides tools for filtering, grouping, averaging,
// and normalizing broadcast latency measurements.
//
// Measurements are held in go-gg tables (see package
// github.com/aclements/go-gg/table). The typical steps are:
//
// 1. Read benchfmt.Records from a benchfmt.Source.
//
// 2. Convert them into a table with FromRecords, which decodes the run
// metadata encoded in each record's file name into columns (host,
// remedy, chunk, mod or n_ranks).
//
// 3. Select the rows of interest with DropRoot, SelectConfig, FilterIn
// and FilterRange, and derive columns with Locality and Relabel.
//
// 4. Average repeated measurements with Mean or MeanStd and order the
// result with SortBy.
//
// 5. Optionally replace latencies with ratios against a baseline
// using a Normalizer.
//
// Every operation takes and returns a table.Grouping and never
// modifies its input. Unknown column names are programmer errors and
// panic, as they do in package table; data errors are returned.
package benchproc
