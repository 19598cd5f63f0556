// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestFiles(t *testing.T) {
	// Switch to testdata/files directory.
	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldDir)
	if err := os.Chdir("testdata/files"); err != nil {
		t.Fatal(err)
	}

	check := func(f *Files, want ...string) {
		t.Helper()
		for f.Scan() {
			if len(want) == 0 {
				t.Errorf("got record, want end of stream")
				return
			}
			rec := f.Record()
			if got := rec.String(); got != want[0] {
				t.Errorf("got %q, want %q", got, want[0])
			}
			want = want[1:]
		}

		err := f.Err()
		wantErr := ""
		if len(want) == 1 && strings.HasPrefix(want[0], "err ") {
			wantErr = want[0][len("err "):]
			want = want[1:]
		}
		if err == nil && wantErr != "" {
			t.Errorf("got success, want error %s", wantErr)
		} else if err != nil && wantErr == "" {
			t.Errorf("got error %s", err)
		} else if err != nil && err.Error() != wantErr {
			t.Errorf("got error %s, want error %s", err, wantErr)
		}
		if len(want) != 0 {
			t.Errorf("got end of stream, want %v", want)
		}
	}

	// Basic sequence of files.
	check(
		&Files{Paths: []string{"a.txt", "b.txt"}},
		"ICX-48_xhc_vanilla_tree_16K 4 1.5 0.1",
		"ICX-48_xhc_wait_tree_2K_2 4 1.25 0.05",
		"ICX-48_xhc_vanilla_tree_16K 1024 3 0.2",
	)

	// Each file has its own header.
	check(
		&Files{Paths: []string{"rank.txt", "a.txt"}},
		"ICX-48_xhc_flat_16K_32 001 4 2.5",
		"ICX-48_xhc_vanilla_tree_16K 4 1.5 0.1",
		"ICX-48_xhc_wait_tree_2K_2 4 1.25 0.05",
	)

	// Header check.
	check(
		&Files{Paths: []string{"a.txt", "rank.txt"}, Columns: Summary.Columns()},
		"ICX-48_xhc_vanilla_tree_16K 4 1.5 0.1",
		"ICX-48_xhc_wait_tree_2K_2 4 1.25 0.05",
		"err rank.txt:1: header is file rank size latency, want file size latency stddev",
	)

	// Syntax errors stop the stream.
	check(
		&Files{Paths: []string{"short.txt", "a.txt"}},
		"err short.txt:2: got 2 fields, want 4 (file size latency stddev)",
	)

	// Missing file.
	check(
		&Files{Paths: []string{"a.txt", "does-not-exist"}},
		"ICX-48_xhc_vanilla_tree_16K 4 1.5 0.1",
		"ICX-48_xhc_wait_tree_2K_2 4 1.25 0.05",
		"err open does-not-exist: no such file or directory",
	)
}

func TestTables(t *testing.T) {
	src := Tables{Pattern: "testdata/files/{layout}-{host}.txt"}
	if got, want := src.Path("ICX-48", PerRank), "testdata/files/per-rank-ICX-48.txt"; got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}

	src = Tables{Pattern: "testdata/files/[ab].txt"}
	recs, err := src.Load(context.Background(), "ICX-48", Summary)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Errorf("got %d records, want 3", len(recs))
	}

	_, err = src.Load(context.Background(), "ICX-48", Full)
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Errorf("loading with wrong layout: got %v, want SyntaxError", err)
	}

	src = Tables{Pattern: "testdata/files/{host}.txt"}
	if _, err := src.Load(context.Background(), "SKX-24", Summary); err == nil {
		t.Errorf("loading missing tables succeeded")
	}
}
