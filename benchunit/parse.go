// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit converts message and chunk sizes to and from
// compact labels with binary-scale suffixes, such as "16K" for 16384
// bytes.
package benchunit

import (
	"fmt"
	"strconv"
)

var suffixShift = map[byte]uint{
	'K': 10,
	'M': 20,
	'G': 30,
	'T': 40,
}

// Parse is the inverse of Format. It parses an integer with an
// optional trailing "K", "M", "G" or "T" suffix and shifts it left by
// 10, 20, 30 or 40 bits, respectively. A label without a suffix is
// returned as is.
//
// Only integer prefixes are accepted, so fractional labels produced
// by Format for values that are not a multiple of their scale ("1.5M")
// do not parse.
func Parse(label string) (int64, error) {
	if label == "" {
		return 0, fmt.Errorf("empty size label")
	}
	num, shift := label, uint(0)
	if s, ok := suffixShift[label[len(label)-1]]; ok {
		num, shift = label[:len(label)-1], s
	}
	v, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad size label %q: %w", label, err)
	}
	if shift > 0 && (v > (1<<63-1)>>shift || v < -(1<<63)>>shift) {
		return 0, fmt.Errorf("size label %q overflows int64", label)
	}
	return v << shift, nil
}

// MustParse is like Parse but panics if label cannot be parsed. It
// is intended for labels that are constants in the program or were
// already validated.
func MustParse(label string) int64 {
	v, err := Parse(label)
	if err != nil {
		panic(err)
	}
	return v
}
