// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

// SliceTicks picks every interval-th of labels as a tick, plus the
// first and last label if they were not picked. It returns the tick
// positions (indexes into labels) and their labels.
func SliceTicks(labels []string, interval int) ([]int, []string) {
	if len(labels) == 0 {
		return nil, nil
	}
	if interval < 1 {
		interval = 1
	}
	var pos []int
	var out []string
	for i := 0; i < len(labels); i += interval {
		pos = append(pos, i)
		out = append(out, labels[i])
	}
	if last := len(labels) - 1; pos[len(pos)-1] != last {
		pos = append(pos, last)
		out = append(out, labels[last])
	}
	return pos, out
}
