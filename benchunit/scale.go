// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import (
	"strconv"
)

// A Scaler represents a binary scaling factor for a byte count and
// the suffix that labels it.
type Scaler struct {
	Shift  uint   // log2 of the factor (e.g., 10 => 1K = 1024)
	Suffix string // Unit suffix ("K", "M", "G", "T", or "")
}

// Factor returns the unscaled value of 1 Suffix.
func (s Scaler) Factor() int64 {
	return 1 << s.Shift
}

// Format formats val according to the given scale and appends the
// suffix. The scaled value is printed with the fewest digits that
// represent it exactly, so Format never prints trailing zeroes.
//
// A value that is not a multiple of the factor is printed as a
// fraction (1536 with a K scale is "1.5K"), which Parse will not
// accept; the label is for display.
func (s Scaler) Format(val int64) string {
	if s.Shift == 0 {
		return strconv.FormatInt(val, 10)
	}
	buf := make([]byte, 0, 20)
	if val%s.Factor() == 0 {
		buf = strconv.AppendInt(buf, val>>s.Shift, 10)
	} else {
		buf = strconv.AppendFloat(buf, float64(val)/float64(s.Factor()), 'f', -1, 64)
	}
	buf = append(buf, s.Suffix...)
	return string(buf)
}

// NoOpScaler formats numbers as plain decimal integers.
var NoOpScaler = Scaler{0, ""}

// binaryScalers is ordered from the largest factor down.
var binaryScalers = []Scaler{
	{40, "T"},
	{30, "G"},
	{20, "M"},
	{10, "K"},
}

// ScaleOf returns the largest Scaler whose factor is less than or
// equal to val, or NoOpScaler if val is below 1K.
func ScaleOf(val int64) Scaler {
	for _, s := range binaryScalers {
		if val >= s.Factor() {
			return s
		}
	}
	return NoOpScaler
}

// Format formats a byte count with a binary-scale suffix. For
// example, Format(16384) returns "16K" and Format(1572864) returns
// "1.5M". Values below 1024 are returned without a suffix.
func Format(val int64) string {
	return ScaleOf(val).Format(val)
}

// FormatAll formats each of vals. It's a convenience for building
// axis labels.
func FormatAll(vals []int) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = Format(int64(v))
	}
	return out
}
