// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"context"
	"fmt"

	"github.com/aclements/go-gg/table"
	"github.com/xhc-coll/xhcplot/benchfmt"
	"github.com/xhc-coll/xhcplot/benchproc"
	"github.com/xhc-coll/xhcplot/runname"
)

// A Kind is one of the study's figures.
type Kind string

const (
	// Remedies compares one remedy against the baseline on one
	// host.
	Remedies Kind = "remedies"
	// RemediesSpeedup shows the speedup of one remedy over the
	// baseline on every host.
	RemediesSpeedup Kind = "remedies-speedup"
	// Effect shows broadcast latency against the rank count on one
	// host.
	Effect Kind = "effect"
	// EffectLocality is Effect split by the locality of the
	// receiving rank.
	EffectLocality Kind = "effect-locality"
	// EffectSlowdown shows the slowdown of local ranks when the
	// broadcast spans both sockets, on every host.
	EffectSlowdown Kind = "effect-slowdown"
)

// Kinds lists every Kind.
var Kinds = []Kind{Remedies, RemediesSpeedup, Effect, EffectLocality, EffectSlowdown}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown figure %q", s)
}

// Layout returns the layout of the tables k is built from.
func (k Kind) Layout() benchfmt.Layout {
	switch k {
	case Effect:
		return benchfmt.Full
	case EffectLocality, EffectSlowdown:
		return benchfmt.PerRank
	}
	return benchfmt.Summary
}

// Family returns the run name schema family of k's input.
func (k Kind) Family() string {
	switch k {
	case Remedies, RemediesSpeedup:
		return runname.RemediesV1.Family
	}
	return runname.EffectV1.Family
}

// AllHosts reports whether k combines the data of every host.
func (k Kind) AllHosts() bool {
	return k == RemediesSpeedup || k == EffectSlowdown
}

// NeedsRemedy reports whether k is drawn for one remedy.
func (k Kind) NeedsRemedy() bool {
	return k == Remedies || k == RemediesSpeedup
}

// FileName returns the base name of the output file of k.
func (k Kind) FileName(host, remedy string) string {
	switch k {
	case Remedies:
		return fmt.Sprintf("remedy_%s_%s", remedy, host)
	case RemediesSpeedup:
		return fmt.Sprintf("remedy_%s_speedup_all", remedy)
	case Effect:
		return "effect_" + host
	case EffectLocality:
		return "effect_locality_" + host
	case EffectSlowdown:
		return "effect_locality_slowdown_all"
	}
	panic("unknown figure " + string(k))
}

// Load reads the records of hosts from src in k's layout and decodes
// them into one table with the run name schema p selects for k.
func Load(ctx context.Context, src benchfmt.Source, k Kind, hosts []string, p *Params) (*table.Table, error) {
	schema, err := p.Schema(k.Family())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}
	var recs []benchfmt.Record
	for _, host := range hosts {
		rs, err := src.Load(ctx, host, k.Layout())
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", host, err)
		}
		recs = append(recs, rs...)
	}
	t, err := benchproc.FromRecords(recs, schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}
	return t, nil
}
