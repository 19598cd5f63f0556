// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xhc-coll/xhcplot/benchunit"
)

// A Reader reads a measurement table.
//
// Its API is modeled on bufio.Scanner. The Reader retains ownership
// of the Record it returns; a caller should copy it to retain it.
//
// To construct a new Reader, either call NewReader, or call Reset on
// a zeroed Reader.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	line     int
	err      error // current I/O or syntax error

	header []string
	// fields maps each field position to the Record setter for
	// its column.
	fields []func(*Record, string) error
	rec    Record
}

// A SyntaxError represents a syntax error on a particular line of a
// measurement table.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", s.FileName, s.Line, s.Msg)
}

// NewReader constructs a reader to parse a measurement table from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input,
// starting with its header line.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.s = bufio.NewScanner(ior)
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.line = 0
	r.err = nil
	r.header = r.header[:0]
	r.fields = r.fields[:0]
	r.rec = Record{}
}

func (r *Reader) newSyntaxError(msg string) *SyntaxError {
	return &SyntaxError{r.fileName, r.line, msg}
}

var columnSetters = map[string]func(*Record, string) error{
	"file": func(rec *Record, f string) error {
		rec.File = f
		return nil
	},
	"size": func(rec *Record, f string) error {
		// Sizes are plain byte counts, but SI labels like "16K"
		// are accepted too.
		v, err := benchunit.Parse(f)
		if err != nil {
			return fmt.Errorf("bad size %q", f)
		}
		rec.Size = int(v)
		return nil
	},
	"rank": func(rec *Record, f string) error {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return fmt.Errorf("bad rank %q", f)
		}
		rec.Rank, rec.HasRank = v, true
		return nil
	},
	"latency": func(rec *Record, f string) error {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("bad latency %q", f)
		}
		rec.Latency = v
		return nil
	},
	"stddev": func(rec *Record, f string) error {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("bad stddev %q", f)
		}
		rec.Stddev, rec.HasStddev = v, true
		return nil
	},
}

var requiredColumns = []string{"file", "size", "latency"}

func (r *Reader) parseHeader(fields []string) error {
	seen := make(map[string]bool)
	for _, name := range fields {
		set, ok := columnSetters[name]
		if !ok {
			return r.newSyntaxError(fmt.Sprintf("unknown column %q", name))
		}
		if seen[name] {
			return r.newSyntaxError(fmt.Sprintf("duplicate column %q", name))
		}
		seen[name] = true
		r.header = append(r.header, name)
		r.fields = append(r.fields, set)
	}
	for _, name := range requiredColumns {
		if !seen[name] {
			return r.newSyntaxError(fmt.Sprintf("missing column %q", name))
		}
	}
	return nil
}

// Scan advances the reader to the next record and reports whether a
// record was read. The caller should use the Record method to get the
// record. If Scan reaches EOF, or if an I/O or syntax error occurs, it
// returns false, in which case the caller should use the Err method
// to check for errors. Syntax errors are not recoverable.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.line++
		fields := strings.Fields(r.s.Text())
		if len(fields) == 0 {
			continue
		}
		if len(r.header) == 0 {
			if err := r.parseHeader(fields); err != nil {
				r.err = err
				return false
			}
			continue
		}
		if len(fields) != len(r.fields) {
			r.err = r.newSyntaxError(fmt.Sprintf("got %d fields, want %d (%s)", len(fields), len(r.fields), strings.Join(r.header, " ")))
			return false
		}
		r.rec = Record{}
		for i, f := range fields {
			if err := r.fields[i](&r.rec, f); err != nil {
				r.err = r.newSyntaxError(err.Error())
				return false
			}
		}
		return true
	}
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
	}
	return false
}

// Record returns the record that was just read by Scan. It is only
// valid until the next call to Scan.
func (r *Reader) Record() *Record {
	return &r.rec
}

// Header returns the column names of the table, or nil if the header
// has not been read yet.
func (r *Reader) Header() []string {
	if len(r.header) == 0 {
		return nil
	}
	return r.header
}

// Err returns the first error that stopped Scan, if any. If Scan
// stopped because it read the input to completion, or if Scan has not
// yet returned false, Err returns nil.
func (r *Reader) Err() error {
	return r.err
}

// ReadAll reads every record of a table from ior and checks that its
// header matches layout.
func ReadAll(ior io.Reader, fileName string, layout Layout) ([]Record, error) {
	r := NewReader(ior, fileName)
	var recs []Record
	for r.Scan() {
		recs = append(recs, *r.Record())
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if got, want := strings.Join(r.Header(), " "), layout.Header(); got != want {
		if got == "" {
			got = "none"
		}
		return nil, &SyntaxError{r.fileName, 1, fmt.Sprintf("header is %s, want %s", got, want)}
	}
	return recs, nil
}
