// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runname decodes the metadata that the XHC broadcast study
// encodes in benchmark output file names.
//
// Each file-naming convention is a named, versioned Schema. The
// "remedies" family names runs as
//
//	<host>_xhc_<remedy><variant>_<topology>_<chunk>[_<mode>]
//
// and the "effect" (scaling) family as
//
//	<host>_xhc_flat_<size>_<n_ranks>
//
// A file name that does not match its schema is malformed. There is
// no partial matching: callers are expected to stop, not skip the row.
package runname

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Remedy codes. Any "opt" variant ("opt3", "optx") decodes as Opt.
const (
	Vanilla = "vanilla"
	Wait    = "wait"
	Opt     = "opt"
	Dual    = "dual"
	CLWB    = "clwb"
)

// Remedies is the known remedy vocabulary, baseline first.
var Remedies = []string{Vanilla, Wait, Opt, Dual, CLWB}

// KnownRemedy reports whether r is in the remedy vocabulary.
func KnownRemedy(r string) bool {
	for _, k := range Remedies {
		if r == k {
			return true
		}
	}
	return false
}

// A Run is the metadata decoded from one benchmark file name. Fields
// a schema does not carry are left at their zero value.
type Run struct {
	Host   string
	Remedy string
	Topo   string
	Chunk  string // SI-encoded, e.g. "8K"
	Mode   int    // only meaningful for the wait and opt remedies
	NRanks int
}

// A Decoder extracts a Run from a file name.
type Decoder interface {
	Decode(file string) (Run, error)
}

// FieldValue returns the value of r's field named by column name, as
// listed in Schema.Fields.
func (r Run) FieldValue(name string) (interface{}, bool) {
	switch name {
	case "host":
		return r.Host, true
	case "remedy":
		return r.Remedy, true
	case "chunk":
		return r.Chunk, true
	case "mod":
		return r.Mode, true
	case "n_ranks":
		return r.NRanks, true
	}
	return nil, false
}

// ErrMalformed is the error class of file names that do not match
// their schema.
var ErrMalformed = errors.New("malformed run name")

// A MalformedError reports a file name that could not be decoded.
type MalformedError struct {
	Schema string
	File   string
	Msg    string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %q: %s", e.Schema, e.File, e.Msg)
}

func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

// A Schema is one version of a file-naming convention.
type Schema struct {
	Family  string
	Version int

	// Pattern is searched for in the file name; the first match is
	// decoded.
	Pattern *regexp.Regexp

	// Fields lists the Run fields this schema fills in, by their
	// lower-case column names ("host", "remedy", "chunk", "mod",
	// "n_ranks"). Topology is decoded but never reported.
	Fields []string

	// decode converts the submatches of Pattern into a Run.
	decode func(groups []string) (Run, error)
}

// Name returns the schema's registry name, "<family>/v<version>".
func (s *Schema) Name() string {
	return fmt.Sprintf("%s/v%d", s.Family, s.Version)
}

func (s *Schema) String() string {
	return s.Name()
}

// Decode decodes file according to s.
func (s *Schema) Decode(file string) (Run, error) {
	m := s.Pattern.FindStringSubmatch(file)
	if m == nil {
		return Run{}, &MalformedError{s.Name(), file, "does not match " + s.Pattern.String()}
	}
	run, err := s.decode(m[1:])
	if err != nil {
		return Run{}, &MalformedError{s.Name(), file, err.Error()}
	}
	return run, nil
}

var schemas = map[string]*Schema{}

// latest maps a family to its newest schema.
var latest = map[string]*Schema{}

// Register adds s to the schema registry. It panics if a schema with
// the same name is already registered. It must be called from an init
// function.
func Register(s *Schema) {
	name := s.Name()
	if _, ok := schemas[name]; ok {
		panic("runname: duplicate schema " + name)
	}
	schemas[name] = s
	if l := latest[s.Family]; l == nil || l.Version < s.Version {
		latest[s.Family] = s
	}
}

// Lookup returns the schema registered as name. name is either
// "<family>/v<version>" or a bare family, which selects the newest
// version of that family.
func Lookup(name string) (*Schema, error) {
	if s, ok := schemas[name]; ok {
		return s, nil
	}
	if !strings.Contains(name, "/") {
		if s, ok := latest[name]; ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown run name schema %q (have %s)", name, strings.Join(Names(), ", "))
}

// Names returns the sorted names of all registered schemas.
func Names() []string {
	var names []string
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
