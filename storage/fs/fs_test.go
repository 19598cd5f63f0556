// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestMemFS(t *testing.T) {
	ctx := context.Background()
	fs := NewMemFS()

	w, err := fs.NewWriter(ctx, "effect_ICX-48.svg", map[string]string{"figure": "effect"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, "<svg/>"); err != nil {
		t.Fatal(err)
	}
	if files := fs.Files(); len(files) != 0 {
		t.Errorf("Files before Close = %v, want none", files)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err == nil {
		t.Error("second Close succeeded")
	}

	content, meta, ok := fs.Content("effect_ICX-48.svg")
	if !ok {
		t.Fatalf("file missing; have %v", fs.Files())
	}
	if string(content) != "<svg/>" || meta["figure"] != "effect" {
		t.Errorf("Content = %q, %v", content, meta)
	}
}

func TestMemFSCloseWithError(t *testing.T) {
	fs := NewMemFS()
	w, err := fs.NewWriter(context.Background(), "broken.svg", nil)
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(w, "<sv")
	if err := w.CloseWithError(errors.New("render failed")); err != nil {
		t.Fatal(err)
	}
	if files := fs.Files(); len(files) != 0 {
		t.Errorf("Files = %v, want none", files)
	}
}
