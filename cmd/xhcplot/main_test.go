// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhc-coll/xhcplot/benchseries"
	"github.com/xhc-coll/xhcplot/storage/db"
	"github.com/xhc-coll/xhcplot/storage/fs"
)

const icxSummary = `file size latency stddev
ICX-48_xhc_vanilla_flat_16K 16384 10 0.1
ICX-48_xhc_vanilla_flat_16K 32768 20 0.1
ICX-48_xhc_wait_flat_2K_2 16384 8 0.1
ICX-48_xhc_wait_flat_2K_2 32768 15 0.1
ICX-48_xhc_wait_flat_2K_0 16384 9 0.1
ICX-48_xhc_wait_flat_2K_0 32768 18 0.1
`

const skxSummary = `file size latency stddev
SKX-24_xhc_vanilla_flat_16K 16384 12 0.1
SKX-24_xhc_vanilla_flat_16K 32768 30 0.1
SKX-24_xhc_wait_flat_8K_2 16384 8 0.1
SKX-24_xhc_wait_flat_8K_2 32768 20 0.1
`

// testData writes the extracted tables of two hosts and a data
// directory listing them. It returns the data directory and the
// tables pattern.
func testData(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	for host, table := range map[string]string{"ICX-48": icxSummary, "SKX-24": skxSummary} {
		require.NoError(t, os.MkdirAll(filepath.Join(data, host), 0o777))
		require.NoError(t, os.WriteFile(filepath.Join(dir, host+".summary"), []byte(table), 0o666))
	}
	return data, filepath.Join(dir, "{host}.{layout}")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPrintTable(t *testing.T) {
	data, tables := testData(t)
	out, err := execute(t, "remedies", "--data", data, "--tables", tables, "-h", "ICX-48", "-r", "wait")
	require.NoError(t, err)
	for _, want := range []string{"baseline", "delay-flag-strict", "16K", "32K"} {
		assert.Contains(t, out, want)
	}
}

func TestSave(t *testing.T) {
	data, tables := testData(t)
	dest := filepath.Join(t.TempDir(), "figures")
	csvPath := filepath.Join(t.TempDir(), "speedup.csv")
	dbPath := filepath.Join(t.TempDir(), "figures.db")

	out, err := execute(t, "remedies-speedup", "--data", data, "--tables", tables,
		"-r", "wait", "-s", "-d", dest, "--format", "png",
		"--csv", csvPath, "--export", "sqlite3:"+dbPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	img, err := os.ReadFile(filepath.Join(dest, "remedy_wait_speedup_all.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))

	csv, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "series,x,y,err\nICX-48,16K,1.25,0\nICX-48,32K,1.3333333333333333,0\nSKX-24,16K,1.5,0\nSKX-24,32K,1.5,0\n", string(csv))

	d, err := db.OpenSQL("sqlite3", dbPath)
	require.NoError(t, err)
	defer d.Close()
	n, err := d.CountFigures(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestHostsFromConfig(t *testing.T) {
	data, tables := testData(t)
	cfg := filepath.Join(t.TempDir(), "xhcplot.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("hosts: [SKX-24]\n"), 0o666))

	out, err := execute(t, "remedies-speedup", "--config", cfg, "--data", data, "--tables", tables, "-r", "wait", "--csv", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "SKX-24,16K,1.5,0")
	assert.NotContains(t, out, "ICX-48")
}

func TestErrors(t *testing.T) {
	data, tables := testData(t)
	for _, test := range []struct {
		name string
		args []string
		want string
	}{
		{"no host", []string{"remedies", "-r", "wait"}, "host"},
		{"no remedy", []string{"remedies", "-h", "ICX-48"}, "remedy"},
		{"unknown remedy", []string{"remedies", "-h", "ICX-48", "-r", "turbo"}, "unknown category"},
		{"unknown host", []string{"remedies", "-h", "CSX-48", "-r", "wait"}, "CSX-48"},
		{"format", []string{"remedies", "-h", "ICX-48", "-r", "wait", "--format", "gif"}, "gif"},
		{"export", []string{"remedies", "-h", "ICX-48", "-r", "wait", "--export", "mysql:not a dsn"}, "export"},
		{"figure args", []string{"effect", "-h", "ICX-48", "extra"}, "extra"},
		{"log level", []string{"--log-level", "loud", "effect", "-h", "ICX-48"}, "log level"},
		{"no hosts", []string{"remedies-speedup", "-r", "wait", "--data", filepath.Join(data, "ICX-48")}, "no hosts"},
	} {
		t.Run(test.name, func(t *testing.T) {
			args := append([]string{"--data", data, "--tables", tables}, test.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.want)
		})
	}
}

func TestHelp(t *testing.T) {
	out, err := execute(t, "remedies", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "--host")
	assert.True(t, strings.Contains(out, "-h, --host"), "help output:\n%s", out)
}

func TestWriteImageFailure(t *testing.T) {
	sink := fs.NewMemFS()
	fig := &benchseries.Figure{Name: "effect_ICX-48"}
	err := writeImage(context.Background(), sink, fig, "gif", "mem")
	require.Error(t, err)
	assert.Empty(t, sink.Files())

	require.NoError(t, writeImage(context.Background(), sink, fig, "", "mem"))
	assert.Equal(t, []string{"effect_ICX-48.svg"}, sink.Files())
}
