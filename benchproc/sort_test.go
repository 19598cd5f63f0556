// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"reflect"
	"testing"

	"github.com/aclements/go-gg/table"
)

func TestSortBy(t *testing.T) {
	var b table.Builder
	b.Add("remedy", []string{"wait", "vanilla", "wait", "vanilla", "wait"})
	b.Add("chunk", []string{"2K", "16K", "2K", "16K", "16K"})
	b.Add("size", []int{1024, 1024, 4, 4, 4})
	b.Add("id", []int{0, 1, 2, 3, 4})
	tab := b.Done()

	g := SortBy(tab, "remedy", "chunk", "size")
	if got, want := col(g, "id"), []int{3, 1, 4, 2, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	// A first key that is already sorted still defers to the later
	// keys.
	b.Add("host", []string{"a", "a", "a", "a", "a"})
	b.Add("x", []int{1, 1, 2, 2, 3})
	b.Add("y", []int{2, 1, 2, 1, 0})
	g = SortBy(b.Done(), "host", "x", "y")
	if got, want := col(g, "y"), []int{1, 2, 1, 2, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("y = %v, want %v", got, want)
	}
}

func TestSortByStable(t *testing.T) {
	var b table.Builder
	b.Add("k", []int{2, 1, 2, 1})
	b.Add("id", []int{0, 1, 2, 3})
	g := SortBy(b.Done(), "k")
	if got, want := col(g, "id"), []int{1, 3, 0, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSortByConst(t *testing.T) {
	var b table.Builder
	b.Add("host", []string{"b", "a", "b"})
	b.Add("size", []int{8, 4, 4})
	g := SortBy(table.GroupBy(b.Done(), "host"), "host", "size")
	// Groups keep their order; rows are sorted within groups.
	if got, want := col(g, "size"), []int{4, 8, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("size = %v, want %v", got, want)
	}
}
