// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the settings of xhcplot.
//
// Settings are YAML. ${VAR} references are replaced by the value of
// the environment variable VAR, if it is set. A settings file only
// needs to name what it changes: it is applied on top of the built-in
// defaults.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/xhc-coll/xhcplot/benchfmt"
	"github.com/xhc-coll/xhcplot/benchseries"
	"github.com/xhc-coll/xhcplot/benchunit"
	"github.com/xhc-coll/xhcplot/internal/logging"
	"github.com/xhc-coll/xhcplot/runname"
)

//go:embed default.yaml
var defaultYAML string

type Config struct {
	// DataDir holds one directory of benchmark output per host.
	DataDir string `yaml:"data_dir"`

	// Hosts are the hosts of the all-host figures. If empty, every
	// directory in DataDir is a host.
	Hosts []string `yaml:"hosts"`

	// Format is the default image format.
	Format string `yaml:"format"`

	Helper HelperConfig `yaml:"helper"`

	// Export is a "driver:dsn" database the figure tables are
	// written to.
	Export string `yaml:"export"`

	// Credentials is a service account key file for gs://
	// destinations.
	Credentials string `yaml:"credentials"`

	Figures benchseries.Params `yaml:"figures"`
}

// HelperConfig configures the row-extraction helper.
type HelperConfig struct {
	Command string `yaml:"command"`
	Dir     string `yaml:"dir"`

	// Proc maps layout names to the helper's awk programs.
	Proc map[string]string `yaml:"proc"`
}

// Source returns the helper as a record source over dataDir.
func (h *HelperConfig) Source(dataDir string) (*benchfmt.Helper, error) {
	src := &benchfmt.Helper{
		Command: h.Command,
		DataDir: dataDir,
		Dir:     h.Dir,
		Proc:    make(map[benchfmt.Layout]string),
	}
	for name, proc := range h.Proc {
		l, err := benchfmt.ParseLayout(name)
		if err != nil {
			return nil, fmt.Errorf("helper proc: %w", err)
		}
		src.Proc[l] = proc
	}
	return src, nil
}

// Default returns the built-in settings.
func Default() (*Config, error) {
	var c Config
	if err := yaml.Unmarshal([]byte(defaultYAML), &c); err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}
	return &c, nil
}

// Load reads the settings file at path over the defaults and
// validates the result. An empty path means the defaults alone.
func Load(path string) (*Config, error) {
	logger := logging.GetLogger()

	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.WithField("filepath", path).WithError(err).Error("Failed to read config file")
			return nil, err
		}
		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), c); err != nil {
			logger.WithField("filepath", path).WithError(err).Error("Failed to parse config file")
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// LoadEnv loads the first of files that exists into the environment.
// Variables that are already set are kept.
func LoadEnv(files ...string) {
	logger := logging.GetLogger()
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			logger.WithField("file", f).WithError(err).Warn("Error loading .env file")
			continue
		}
		logger.WithField("file", f).Debug("Loaded environment variables")
		return
	}
}

// DefaultEnvFiles are the .env files LoadEnv looks for: the current
// directory's, then the one next to the executable.
func DefaultEnvFiles() []string {
	files := []string{".env"}
	if exe, err := os.Executable(); err == nil {
		files = append(files, filepath.Join(filepath.Dir(exe), ".env"))
	}
	return files
}

var envRe = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(content string) string {
	return envRe.ReplaceAllStringFunc(content, func(match string) string {
		envVar := strings.Trim(match, "${}")
		if value := os.Getenv(envVar); value != "" {
			return value
		}
		return match
	})
}

// Validate checks that c names only known remedies, sizes, colors
// and formats.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Format != "" && !validFormat(c.Format) {
		return fmt.Errorf("format %q: must be one of %s", c.Format, strings.Join(benchseries.Formats, ", "))
	}
	for name := range c.Helper.Proc {
		if _, err := benchfmt.ParseLayout(name); err != nil {
			return fmt.Errorf("helper proc: %w", err)
		}
	}
	if c.Export != "" && !strings.Contains(c.Export, ":") {
		return fmt.Errorf("export %q: want driver:dsn", c.Export)
	}

	p := &c.Figures
	label := func(code string) error {
		if _, ok := p.Labels[code]; !ok {
			return fmt.Errorf("remedy %q has no label", code)
		}
		return nil
	}
	if err := label(runname.Vanilla); err != nil {
		return err
	}
	for _, k := range benchseries.Kinds {
		if _, err := p.Schema(k.Family()); err != nil {
			return err
		}
	}
	for family := range p.Schemas {
		if family != runname.RemediesV1.Family && family != runname.EffectV1.Family {
			return fmt.Errorf("schemas: unknown family %q", family)
		}
	}
	for name, rp := range p.Remedies {
		if !runname.KnownRemedy(name) || name == runname.Vanilla {
			return fmt.Errorf("remedies: unknown remedy %q", name)
		}
		if rp == nil {
			return fmt.Errorf("remedy %s: no settings", name)
		}
		if err := label(name); err != nil {
			return err
		}
		for _, code := range rp.Variants {
			if err := label(code); err != nil {
				return fmt.Errorf("remedy %s variant: %w", name, err)
			}
		}
		chunks := []string{rp.Chunk}
		for _, ch := range rp.HostChunk {
			chunks = append(chunks, ch)
		}
		for _, ch := range chunks {
			if _, err := benchunit.Parse(ch); err != nil {
				return fmt.Errorf("remedy %s chunk: %w", name, err)
			}
		}
		if _, _, err := rp.SizeRange(); err != nil {
			return fmt.Errorf("remedy %s: %w", name, err)
		}
		switch rp.YScale {
		case "", benchseries.Linear, benchseries.Log:
		default:
			return fmt.Errorf("remedy %s: unknown yscale %q", name, rp.YScale)
		}
	}
	for code, col := range p.Colors {
		if _, err := benchseries.ParseColor(col); err != nil {
			return fmt.Errorf("colors %s: %w", code, err)
		}
	}
	if _, err := p.Effect.SizeValues(); err != nil {
		return err
	}
	return nil
}

func validFormat(f string) bool {
	for _, v := range benchseries.Formats {
		if f == v {
			return true
		}
	}
	return false
}
