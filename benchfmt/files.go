// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// A Files reads measurement records from a sequence of table files.
// Every file starts with its own header line.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// Columns, if non-nil, is the header every file must have.
	Columns []string

	// inputs is the sequence of remaining inputs, or nil if this
	// Files has not started yet. Note that this distinguishes nil
	// from length 0.
	inputs []string

	reader Reader
	file   *os.File
	err    error

	headerChecked bool
}

func (f *Files) checkHeader() error {
	f.headerChecked = true
	if f.Columns == nil {
		return nil
	}
	got, want := strings.Join(f.reader.Header(), " "), strings.Join(f.Columns, " ")
	if got == want {
		return nil
	}
	if got == "" {
		got = "none"
	}
	return &SyntaxError{f.reader.fileName, 1, fmt.Sprintf("header is %s, want %s", got, want)}
}

func (f *Files) init() {
	f.inputs = append([]string{}, f.Paths...)
}

// Scan advances the reader to the next record in the sequence of
// files and reports whether a record was read. The caller should use
// the Record method to get the record. If Scan reaches the end of the
// file sequence, or if an I/O or syntax error occurs, it returns
// false. In this case, the caller should use the Err method to check
// for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}

	if f.inputs == nil {
		f.init()
	}

	for {
		if f.file == nil {
			if len(f.inputs) == 0 {
				return false
			}
			path := f.inputs[0]
			f.inputs = f.inputs[1:]

			file, err := os.Open(path)
			if err != nil {
				f.err = err
				return false
			}
			f.file = file
			f.reader.Reset(f.file, path)
		}

		if f.reader.Scan() {
			if !f.headerChecked {
				if err := f.checkHeader(); err != nil {
					f.close()
					f.err = err
					return false
				}
			}
			return true
		}
		err := f.reader.Err()
		if err == nil && !f.headerChecked {
			err = f.checkHeader()
		}
		f.close()
		if err != nil {
			f.err = err
			return false
		}
	}
}

func (f *Files) close() {
	f.file.Close()
	f.file = nil
	f.headerChecked = false
}

// Record returns the record that was just read by Scan.
// See Reader.Record.
func (f *Files) Record() *Record {
	return f.reader.Record()
}

// Err returns the error that stopped Scan, if any.
// If Scan stopped because it read each file to completion,
// or if Scan has not yet returned false, Err returns nil.
func (f *Files) Err() error {
	return f.err
}

// Tables is a Source that reads tables that were extracted ahead of
// time. Pattern is a file path in which "{host}" and "{layout}" are
// replaced by the requested host and layout name.
type Tables struct {
	Pattern string
}

// Path returns the table file for host and layout.
func (t Tables) Path(host string, layout Layout) string {
	return strings.NewReplacer("{host}", host, "{layout}", layout.String()).Replace(t.Pattern)
}

// Load reads every table matching the pattern for host, in lexical
// order. The pattern may contain glob metacharacters.
func (t Tables) Load(ctx context.Context, host string, layout Layout) ([]Record, error) {
	pattern := t.Path(host, layout)
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no tables match %s", pattern)
	}
	f := &Files{Paths: paths, Columns: layout.Columns()}
	var recs []Record
	for f.Scan() {
		recs = append(recs, *f.Record())
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("loading %s tables: %w", host, err)
	}
	return recs, ctx.Err()
}
