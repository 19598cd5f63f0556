// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultProc maps each layout to the awk program the extraction
// helper runs to produce it. The summary layout is the helper's
// default and needs none.
var DefaultProc = map[Layout]string{
	Full:    "proc-df-full.awk",
	PerRank: "proc-df-full-lat-all.awk",
}

// A Helper is a Source that runs the external row-extraction helper
// over a host's data directory.
//
// The helper is invoked as "<Command> <DataDir>/<host>" with the
// layout's awk program in the PROC environment variable. It writes
// table rows without a header to stdout; the Helper supplies the
// header itself.
type Helper struct {
	// Command is the helper executable, e.g. "../utils/cproc-df.sh".
	Command string

	// Proc overrides DefaultProc per layout.
	Proc map[Layout]string

	// DataDir is the directory holding one subdirectory per host.
	DataDir string

	// Dir is the working directory of the helper. If empty, the
	// helper runs in the current directory.
	Dir string
}

func (h *Helper) proc(layout Layout) string {
	if p, ok := h.Proc[layout]; ok {
		return p
	}
	return DefaultProc[layout]
}

// Load runs the helper for host and reads its output in full.
// A non-zero exit status is an error even if the output parsed.
func (h *Helper) Load(ctx context.Context, host string, layout Layout) ([]Record, error) {
	cmd := exec.CommandContext(ctx, h.Command, filepath.Join(h.DataDir, host))
	cmd.Dir = h.Dir
	cmd.Env = os.Environ()
	if proc := h.proc(layout); proc != "" {
		cmd.Env = append(cmd.Env, "PROC="+proc)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", h.Command, err)
	}

	in := io.MultiReader(strings.NewReader(layout.Header()+"\n"), stdout)
	recs, rerr := ReadAll(in, h.Command, layout)
	if rerr != nil {
		// Drain so the helper doesn't block on a full pipe.
		io.Copy(io.Discard, stdout)
	}
	if err := cmd.Wait(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", h.Command, host, err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", h.Command, host, err)
	}
	if rerr != nil {
		return nil, rerr
	}
	return recs, nil
}
