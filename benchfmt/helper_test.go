// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const fakeHelper = `#!/bin/sh
case "$PROC" in
"") echo "$1 4 1.5 0.1" ;;
proc-df-full.awk) echo "$1 4 1.5"; echo "$1 4 2.5" ;;
*) echo "unknown PROC $PROC" >&2; exit 2 ;;
esac
`

func writeHelper(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh available")
	}
	path := filepath.Join(t.TempDir(), "cproc-df.sh")
	if err := os.WriteFile(path, []byte(fakeHelper), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestHelper(t *testing.T) {
	h := &Helper{Command: writeHelper(t), DataDir: "data"}
	ctx := context.Background()

	recs, err := h.Load(ctx, "ICX-48", Summary)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].String() != "data/ICX-48 4 1.5 0.1" {
		t.Errorf("summary: got %v", recs)
	}

	recs, err = h.Load(ctx, "ICX-48", Full)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 || recs[1].Latency != 2.5 {
		t.Errorf("full: got %v", recs)
	}

	// The helper's own failures are reported with its stderr.
	h.Proc = map[Layout]string{PerRank: "bogus.awk"}
	_, err = h.Load(ctx, "ICX-48", PerRank)
	if err == nil || !strings.Contains(err.Error(), "unknown PROC bogus.awk") {
		t.Errorf("got %v, want helper failure", err)
	}
}

func TestHelperMissing(t *testing.T) {
	h := &Helper{Command: filepath.Join(t.TempDir(), "missing.sh")}
	if _, err := h.Load(context.Background(), "ICX-48", Summary); err == nil {
		t.Errorf("running a missing helper succeeded")
	}
}
