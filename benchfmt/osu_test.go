// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

const osuRun = "ICX-48_xhc_flat_16K_4"

func TestOSUDir(t *testing.T) {
	src := OSUDir{DataDir: "testdata/osu"}
	ctx := context.Background()

	recs, err := src.Load(ctx, "ICX-48", Summary)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d summary records, want 2: %v", len(recs), recs)
	}
	if r := recs[0]; r.File != osuRun || r.Size != 4 || r.Latency != 3.5 || math.Abs(r.Stddev-math.Sqrt2) > 1e-9 || !r.HasStddev {
		t.Errorf("got %v, want %s 4 3.5 %v", r, osuRun, math.Sqrt2)
	}
	if r := recs[1]; r.Size != 1024 || r.Latency != 6.5 || r.Stddev != 0 {
		t.Errorf("got %v, want %s 1024 6.5 0", r, osuRun)
	}

	recs, err = src.Load(ctx, "ICX-48", Full)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, r := range recs {
		got = append(got, r.String())
	}
	want := []string{
		osuRun + " 4 2.5",
		osuRun + " 1024 6.5",
		osuRun + " 4 4.5",
		osuRun + " 1024 6.5",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("full layout: got\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}

	recs, err = src.Load(ctx, "ICX-48", PerRank)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 16 {
		t.Fatalf("got %d per-rank records, want 16", len(recs))
	}
	if r := recs[3]; r.String() != osuRun+" 003 4 4" {
		t.Errorf("recs[3] = %v", r)
	}

	if _, err := src.Load(ctx, "SKX-24", Summary); err == nil {
		t.Errorf("loading a missing host succeeded")
	}
}

func TestParseOSUErrors(t *testing.T) {
	for _, test := range []struct {
		input string
		msg   string
	}{
		{"4\n", "x:1: missing latency"},
		{"# header\n4 slow\n", `x:2: bad latency "slow"`},
		{"001: -4 1\n", `x:1: bad size "-4"`},
	} {
		_, err := ParseOSU(strings.NewReader(test.input), "x", PerRank)
		var serr *SyntaxError
		if !errors.As(err, &serr) || serr.Error() != test.msg {
			t.Errorf("%q: got %v, want %s", test.input, err, test.msg)
		}
	}

	// Noise from the launcher is skipped.
	recs, err := ParseOSU(strings.NewReader("Warning: something\nrank: x\n8 1.0\n"), "dir/run", Full)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].File != "run" {
		t.Errorf("got %v, want one record of run", recs)
	}
}
