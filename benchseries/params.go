// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"fmt"

	"github.com/xhc-coll/xhcplot/benchproc"
	"github.com/xhc-coll/xhcplot/benchunit"
	"github.com/xhc-coll/xhcplot/runname"
)

// Params are the per-study constants of the figures: which
// configuration of each remedy to show on each host, and how to
// label and draw it.
type Params struct {
	// Title is the figure title. Single-host figures add the host
	// on a second line.
	Title string `yaml:"title"`

	// Labels maps remedy codes, including variant codes, to their
	// display names.
	Labels map[string]string `yaml:"labels"`

	// Colors maps remedy codes to series colors.
	Colors map[string]string `yaml:"colors"`

	// Schemas maps a run name family to the registered schema its
	// file names are decoded with, such as "remedies/v1". A family
	// without an entry uses its newest schema.
	Schemas map[string]string `yaml:"schemas"`

	Remedies map[string]*RemedyParams `yaml:"remedies"`
	Speedup  RatioParams              `yaml:"speedup"`
	Slowdown RatioParams              `yaml:"slowdown"`
	Effect   EffectParams             `yaml:"effect"`
}

// Schema returns the run name schema of family.
func (p *Params) Schema(family string) (*runname.Schema, error) {
	name := p.Schemas[family]
	if name == "" {
		name = family
	}
	s, err := runname.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("schemas %s: %w", family, err)
	}
	if s.Family != family {
		return nil, fmt.Errorf("schemas %s: %s decodes %s runs", family, name, s.Family)
	}
	return s, nil
}

// RemedyParams select and draw the runs of one remedy.
type RemedyParams struct {
	// Chunk is the chunk size to show, unless HostChunk has an
	// entry for the host.
	Chunk     string            `yaml:"chunk"`
	HostChunk map[string]string `yaml:"host_chunk"`

	// Modes are the modes to show, unless HostModes has an entry
	// for the host. Figures that show a single mode per host use
	// the last one.
	Modes     []int            `yaml:"modes"`
	HostModes map[string][]int `yaml:"host_modes"`

	// Variants gives modes that are drawn as a separate remedy the
	// code of that remedy.
	Variants map[int]string `yaml:"variants"`

	// MinSize and MaxSize bound the message sizes shown, as SI
	// sizes. Empty means unbounded.
	MinSize string `yaml:"min_size"`
	MaxSize string `yaml:"max_size"`

	YScale       Scale `yaml:"yscale"`
	TickInterval int   `yaml:"tick_interval"`
}

// ChunkFor returns the chunk size to show for host.
func (r *RemedyParams) ChunkFor(host string) string {
	if c, ok := r.HostChunk[host]; ok {
		return c
	}
	return r.Chunk
}

// ModesFor returns the modes to show for host.
func (r *RemedyParams) ModesFor(host string) []int {
	if m, ok := r.HostModes[host]; ok {
		return m
	}
	if len(r.Modes) == 0 {
		return []int{0}
	}
	return r.Modes
}

// PreferredMode returns the single mode to show for host.
func (r *RemedyParams) PreferredMode(host string) int {
	m := r.ModesFor(host)
	return m[len(m)-1]
}

// Selection returns the runs to show for host.
func (r *RemedyParams) Selection(host string) benchproc.Selection {
	return benchproc.Selection{Chunk: r.ChunkFor(host), Modes: r.ModesFor(host)}
}

// SizeRange returns the bounds of the message sizes to show, as
// FilterRange arguments.
func (r *RemedyParams) SizeRange() (lo, hi interface{}, err error) {
	parse := func(s string) (interface{}, error) {
		if s == "" {
			return nil, nil
		}
		n, err := benchunit.Parse(s)
		if err != nil {
			return nil, err
		}
		return int(n), nil
	}
	if lo, err = parse(r.MinSize); err != nil {
		return nil, nil, fmt.Errorf("min_size: %w", err)
	}
	if hi, err = parse(r.MaxSize); err != nil {
		return nil, nil, fmt.Errorf("max_size: %w", err)
	}
	return lo, hi, nil
}

// RatioParams draw a speedup or slowdown figure.
type RatioParams struct {
	// YMin and YMax fix the Y axis range if YMax > YMin.
	YMin         float64 `yaml:"ymin"`
	YMax         float64 `yaml:"ymax"`
	TickInterval int     `yaml:"tick_interval"`
}

// EffectParams draw the scaling figures.
type EffectParams struct {
	// Sizes are the message sizes shown, as SI sizes.
	Sizes []string `yaml:"sizes"`

	// TickEvery thins the rank-count ticks.
	TickEvery int `yaml:"tick_every"`
}

// SizeValues returns Sizes in bytes, as FilterIn arguments.
func (e *EffectParams) SizeValues() ([]interface{}, error) {
	vals := make([]interface{}, len(e.Sizes))
	for i, s := range e.Sizes {
		n, err := benchunit.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("effect size %q: %w", s, err)
		}
		vals[i] = int(n)
	}
	return vals, nil
}
