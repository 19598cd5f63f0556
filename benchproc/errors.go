// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import "errors"

var (
	// ErrMissingBaseline is returned when a ratio partition has no
	// baseline row.
	ErrMissingBaseline = errors.New("missing baseline")

	// ErrDuplicateBaseline is returned by a strict Normalizer when
	// a ratio partition has more than one baseline row.
	ErrDuplicateBaseline = errors.New("duplicate baseline")

	// ErrUnknownCategory is returned when a value has no display
	// label.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrNoRows is returned when a required selection is empty.
	ErrNoRows = errors.New("no rows")
)
