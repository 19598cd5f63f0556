// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// OSUDir is a Source that parses raw osu_bcast output directly,
// without the extraction helper. Each regular file in
// <DataDir>/<host> is one benchmark run, named after the run.
//
// Two kinds of lines are recognized:
//
//	<size> <avg latency> [...]     summary line of one repetition
//	NNN: <size> <latency>          latency of rank NNN (LAT_ALL=1)
//
// Comments ("#") and lines that do not start with a number are
// skipped.
type OSUDir struct {
	DataDir string
}

func (d OSUDir) Load(ctx context.Context, host string, layout Layout) ([]Record, error) {
	dir := filepath.Join(d.DataDir, host)
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var recs []Record
	for _, ent := range ents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !ent.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, ent.Name())
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		frecs, err := ParseOSU(f, path, layout)
		f.Close()
		if err != nil {
			return nil, err
		}
		recs = append(recs, frecs...)
	}
	return recs, nil
}

// ParseOSU parses the output of one osu_bcast run into records of
// the given layout. The File of every record is the base name of
// fileName.
//
// In the summary layout, repetitions of the same message size are
// collapsed into their mean latency and sample standard deviation, in
// order of first appearance.
func ParseOSU(r io.Reader, fileName string, layout Layout) ([]Record, error) {
	run := filepath.Base(fileName)
	s := bufio.NewScanner(r)
	var recs []Record
	samples := make(map[int]*stats.Sample)
	var sizes []int
	line := 0
	for s.Scan() {
		line++
		fields := strings.Fields(s.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		rec := Record{File: run}
		if rankStr, ok := strings.CutSuffix(fields[0], ":"); ok {
			rank, err := strconv.Atoi(rankStr)
			if err != nil {
				continue
			}
			rec.Rank, rec.HasRank = rank, true
			fields = fields[1:]
		} else if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}
		if len(fields) < 2 {
			return nil, &SyntaxError{fileName, line, "missing latency"}
		}
		size, err := strconv.Atoi(fields[0])
		if err != nil || size < 0 {
			return nil, &SyntaxError{fileName, line, fmt.Sprintf("bad size %q", fields[0])}
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, &SyntaxError{fileName, line, fmt.Sprintf("bad latency %q", fields[1])}
		}
		rec.Size, rec.Latency = size, lat

		switch {
		case layout == PerRank && rec.HasRank:
			recs = append(recs, rec)
		case layout == Full && !rec.HasRank:
			recs = append(recs, rec)
		case layout == Summary && !rec.HasRank:
			sample := samples[size]
			if sample == nil {
				sample = new(stats.Sample)
				samples[size] = sample
				sizes = append(sizes, size)
			}
			sample.Xs = append(sample.Xs, lat)
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%s:%d: %w", fileName, line, err)
	}
	for _, size := range sizes {
		sample := samples[size]
		recs = append(recs, Record{
			File:      run,
			Size:      size,
			Latency:   sample.Mean(),
			Stddev:    sample.StdDev(),
			HasStddev: true,
		})
	}
	return recs, nil
}
