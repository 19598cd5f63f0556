// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import (
	"testing"
)

func TestFormat(t *testing.T) {
	test := func(num int64, want string) {
		t.Helper()
		got := Format(num)
		if got != want {
			t.Errorf("for %v, got %s, want %s", num, got, want)
		}
	}

	// Below the smallest scale.
	test(0, "0")
	test(4, "4")
	test(512, "512")
	test(1023, "1023")

	// Exact multiples.
	test(1024, "1K")
	test(2048, "2K")
	test(16384, "16K")
	test(10240, "10K")
	test(1048576, "1M")
	test(1<<30, "1G")
	test(1<<40, "1T")
	test(1<<50, "1024T")

	// Fractions.
	test(1536, "1.5K")
	test(1572864, "1.5M")
	test(3<<29, "1.5G")
	test(1025, "1.0009765625K")

	// Crux between two scales.
	test(1<<20-1024, "1023K")
	test(1<<20-1, "1023.9990234375K")
}

func TestScaleOf(t *testing.T) {
	for _, test := range []struct {
		val  int64
		want Scaler
	}{
		{0, NoOpScaler},
		{1023, NoOpScaler},
		{1024, Scaler{10, "K"}},
		{1<<20 - 1, Scaler{10, "K"}},
		{1 << 20, Scaler{20, "M"}},
		{1 << 30, Scaler{30, "G"}},
		{1 << 41, Scaler{40, "T"}},
	} {
		if got := ScaleOf(test.val); got != test.want {
			t.Errorf("ScaleOf(%d) = %+v, want %+v", test.val, got, test.want)
		}
	}
}

func TestFormatAll(t *testing.T) {
	got := FormatAll([]int{4, 1024, 65536})
	want := []string{"4", "1K", "64K"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FormatAll[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
