// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratioTable() *table.Table {
	var b table.Builder
	b.Add("host", []string{"a", "a", "a", "a", "b", "b"})
	b.Add("remedy", []string{"baseline", "opt", "baseline", "opt", "baseline", "opt"})
	b.Add("size", []int{4, 4, 8, 8, 4, 4})
	b.Add("latency", []float64{100, 50, 10, 20, 8, 2})
	b.Add("stddev", []float64{1, 1, 1, 1, 1, 1})
	return b.Done()
}

func TestSlowdown(t *testing.T) {
	n := Normalizer{
		Partition: []string{"host", "size"},
		Baseline:  BaselineEq("remedy", "baseline"),
		Framing:   Slowdown,
	}
	g, err := n.Apply(ratioTable())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.5, 1, 2, 1, 0.25}, col(g, "latency"))
	assert.False(t, HasColumn(g, "stddev"), "stddev survived normalization")
}

func TestSpeedup(t *testing.T) {
	n := Normalizer{
		Partition:    []string{"host", "size"},
		Baseline:     BaselineEq("remedy", "baseline"),
		Framing:      Speedup,
		DropBaseline: true,
	}
	g, err := n.Apply(ratioTable())
	require.NoError(t, err)
	assert.Equal(t, []float64{2.0, 0.5, 4}, col(g, "latency"))
	assert.Equal(t, []string{"opt", "opt", "opt"}, col(g, "remedy"))
	assert.Equal(t, []string{"a", "a", "b"}, col(g, "host"))
}

func TestMissingBaseline(t *testing.T) {
	n := Normalizer{
		Partition: []string{"host", "size"},
		Baseline:  BaselineEq("remedy", "baseline"),
	}
	g := FilterRange(ratioTable(), "latency", 15.0, nil)
	_, err := n.Apply(g)
	if !errors.Is(err, ErrMissingBaseline) {
		t.Fatalf("got %v, want ErrMissingBaseline", err)
	}
	// The failing partition is named.
	if !strings.Contains(err.Error(), "host=a size=8") {
		t.Errorf("error %q does not name the partition", err)
	}
}

func TestBaselineEqPer(t *testing.T) {
	var b table.Builder
	b.Add("host", []string{"a", "a", "a", "b", "b"})
	b.Add("size", []int{4, 4, 8, 4, 4})
	b.Add("n_ranks", []int{24, 48, 48, 12, 24})
	b.Add("latency", []float64{2, 3, 6, 4, 10})
	n := Normalizer{
		Partition: []string{"host", "size"},
		Baseline:  BaselineEqPer("host", "n_ranks", map[interface{}]interface{}{"a": 24, "b": 12}),
	}
	tbl := b.Done()
	// Size 8 of host a has only the full-size run.
	_, err := n.Apply(tbl)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingBaseline), "err = %v", err)
	assert.Contains(t, err.Error(), "host=a size=8")

	g, err := n.Apply(FilterIn(tbl, "size", 4))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1.5, 1, 2.5}, col(g, "latency"))
}

func duplicateTable() *table.Table {
	var b table.Builder
	b.Add("size", []int{4, 4, 4})
	b.Add("remedy", []string{"baseline", "baseline", "opt"})
	b.Add("latency", []float64{10, 20, 5})
	return b.Done()
}

func TestDuplicateBaseline(t *testing.T) {
	n := Normalizer{
		Partition: []string{"size"},
		Baseline:  BaselineEq("remedy", "baseline"),
		Framing:   Speedup,
	}
	// The first baseline row wins.
	g, err := n.Apply(duplicateTable())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.5, 2}, col(g, "latency"))

	n.Strict = true
	_, err = n.Apply(duplicateTable())
	assert.ErrorIs(t, err, ErrDuplicateBaseline)
}

func TestBaselineMin(t *testing.T) {
	var b table.Builder
	b.Add("host", []string{"a", "a", "b", "b"})
	b.Add("n_ranks", []int{24, 48, 12, 24})
	b.Add("latency", []float64{2, 3, 4, 10})
	n := Normalizer{
		Partition: []string{"host"},
		Baseline:  BaselineMin("n_ranks"),
	}
	g, err := n.Apply(b.Done())
	require.NoError(t, err)
	if got, want := col(g, "latency"), []float64{1, 1.5, 1, 2.5}; !reflect.DeepEqual(got, want) {
		t.Errorf("latency = %v, want %v", got, want)
	}
	// Keep only the full-size runs.
	g = FilterIn(g, "n_ranks", 48, 24)
	assert.Equal(t, []float64{1, 1.5, 2.5}, col(g, "latency"))
}
