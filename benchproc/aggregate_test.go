// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"math"
	"reflect"
	"testing"

	"github.com/aclements/go-gg/table"
)

func TestMean(t *testing.T) {
	var b table.Builder
	b.Add("host", []string{"a", "a", "b"})
	b.Add("size", []int{4, 4, 4})
	b.Add("rank", []int{1, 2, 1})
	b.Add("latency", []float64{10, 20, 7})
	g := Mean(b.Done(), "host", "size")

	if got, want := col(g, "latency"), []float64{15, 7}; !reflect.DeepEqual(got, want) {
		t.Errorf("latency = %v, want %v", got, want)
	}
	if got, want := col(g, "host"), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("host = %v, want %v", got, want)
	}
	// rank varies within a group and is dropped.
	if HasColumn(g, "rank") {
		t.Errorf("rank column survived: %v", g.Columns())
	}
	if HasColumn(g, "mean latency") {
		t.Errorf("mean column was not renamed: %v", g.Columns())
	}
}

func TestMeanStddev(t *testing.T) {
	var b table.Builder
	b.Add("size", []int{4, 4, 8})
	b.Add("latency", []float64{1, 3, 5})
	b.Add("stddev", []float64{0.5, 1.5, 0})
	g := Mean(b.Done(), "size")
	if got, want := col(g, "stddev"), []float64{1, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("stddev = %v, want %v", got, want)
	}
}

func TestMeanStd(t *testing.T) {
	var b table.Builder
	b.Add("n_ranks", []int{2, 2, 2, 4})
	b.Add("size", []int{4, 4, 4, 4})
	b.Add("latency", []float64{1, 2, 3, 9})
	g := MeanStd(b.Done(), "n_ranks", "size")

	if got, want := col(g, "latency"), []float64{2, 9}; !reflect.DeepEqual(got, want) {
		t.Errorf("latency = %v, want %v", got, want)
	}
	sd := col(g, "sd").([]float64)
	if len(sd) != 2 || math.Abs(sd[0]-1) > 1e-12 || sd[1] != 0 {
		t.Errorf("sd = %v, want [1 0]", sd)
	}
}

func TestMeanEmpty(t *testing.T) {
	var b table.Builder
	b.Add("size", []int{4}).Add("latency", []float64{1})
	g := FilterIn(b.Done(), "size", 8)
	if got := Mean(g, "size"); len(got.Tables()) != 0 {
		t.Errorf("Mean of no rows has %d tables", len(got.Tables()))
	}
}
