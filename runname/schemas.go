// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runname

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RemediesV1 decodes "<host>_xhc_<remedy><variant>_<topo>_<chunk>[_<mode>]".
//
// The mode group is only parsed for the wait and opt remedies. When
// it is absent the mode is 0, for every remedy.
var RemediesV1 = &Schema{
	Family:  "remedies",
	Version: 1,
	Pattern: regexp.MustCompile(`([\w-]+)_xhc_([a-zA-Z0-9]+)_([^_]+)_([0-9]+[KM]?)(?:_([\d-]+))?`),
	Fields:  []string{"host", "remedy", "chunk", "mod"},
	decode: func(g []string) (Run, error) {
		run := Run{
			Host:   g[0],
			Remedy: normalizeRemedy(g[1]),
			Topo:   g[2],
			Chunk:  g[3],
		}
		if (run.Remedy == Wait || run.Remedy == Opt) && g[4] != "" {
			mode, err := strconv.Atoi(g[4])
			if err != nil {
				return Run{}, fmt.Errorf("bad mode %q", g[4])
			}
			run.Mode = mode
		}
		return run, nil
	},
}

// EffectV1 decodes "<host>_xhc_flat_<size>_<n_ranks>".
var EffectV1 = &Schema{
	Family:  "effect",
	Version: 1,
	Pattern: regexp.MustCompile(`([a-zA-Z0-9-]+)_xhc_flat_([0-9]+[KM]?)_(\d+)`),
	Fields:  []string{"host", "n_ranks"},
	decode: func(g []string) (Run, error) {
		n, err := strconv.Atoi(g[2])
		if err != nil {
			return Run{}, fmt.Errorf("bad rank count %q", g[2])
		}
		if n <= 0 {
			return Run{}, fmt.Errorf("rank count %d is not positive", n)
		}
		return Run{Host: g[0], Topo: "flat", Chunk: g[1], NRanks: n}, nil
	},
}

func init() {
	Register(RemediesV1)
	Register(EffectV1)
}

func normalizeRemedy(r string) string {
	if strings.HasPrefix(r, Opt) {
		return Opt
	}
	return r
}
