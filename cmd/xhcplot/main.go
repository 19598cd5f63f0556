// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command xhcplot draws the figures of the XHC broadcast study.
//
// Usage:
//
//	xhcplot <figure> [flags]
//
// The figures are remedies, remedies-speedup, effect, effect-locality
// and effect-slowdown. Without -s, the figure is printed as a table
// on standard output; with -s it is rendered to <dest>/<name>.<format>.
// A gs://bucket/prefix destination writes to Google Cloud Storage.
//
// Measurements are read from <data>/<host> by the extraction helper
// named in the configuration, by the built-in OSU parser (--native),
// or from tables extracted ahead of time (--tables).
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/xhc-coll/xhcplot/benchfmt"
	"github.com/xhc-coll/xhcplot/benchseries"
	"github.com/xhc-coll/xhcplot/internal/config"
	"github.com/xhc-coll/xhcplot/internal/logging"
	"github.com/xhc-coll/xhcplot/storage/db"
	_ "github.com/xhc-coll/xhcplot/storage/db/sqlite3"
	"github.com/xhc-coll/xhcplot/storage/fs"
	"github.com/xhc-coll/xhcplot/storage/fs/gcs"
	"github.com/xhc-coll/xhcplot/storage/fs/local"
)

type flags struct {
	configFile string
	logLevel   string
	dataDir    string
	format     string
	native     bool
	tables     string
	csvPath    string
	export     string
	strict     bool

	host   string
	remedy string
	dest   string
	save   bool
}

func main() {
	logger := logging.GetLogger()

	config.LoadEnv(config.DefaultEnvFiles()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.WithError(err).Error("xhcplot failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:   "xhcplot",
		Short: "Draw the figures of the XHC broadcast study",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if f.logLevel != "" {
				if err := logging.SetLogLevel(f.logLevel); err != nil {
					return fmt.Errorf("invalid log level: %w", err)
				}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "Path to a settings file applied over the defaults")
	pf.StringVar(&f.logLevel, "log-level", "", "Set log level (trace, debug, info, warn, error)")
	pf.StringVar(&f.dataDir, "data", "", "Directory with one subdirectory of results per host (overrides data_dir)")
	pf.StringVar(&f.format, "format", "", "Image format: "+strings.Join(benchseries.Formats, ", ")+" (overrides format)")
	pf.BoolVar(&f.native, "native", false, "Parse OSU output directly instead of running the extraction helper")
	pf.StringVar(&f.tables, "tables", "", "Read extracted tables matching `pattern` ({host} and {layout} are replaced)")
	pf.StringVar(&f.csvPath, "csv", "", "Also write the figure table as CSV to `file` (- for stdout)")
	pf.StringVar(&f.export, "export", "", "Also store the figure table in the `driver:dsn` database (overrides export)")
	pf.BoolVar(&f.strict, "strict", false, "Reject ratio partitions with more than one baseline row")

	for _, k := range benchseries.Kinds {
		root.AddCommand(newFigureCmd(k, &f))
	}
	return root
}

func newFigureCmd(k benchseries.Kind, f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(k),
		Short: "Draw the " + string(k) + " figure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), k, f, cmd.OutOrStdout())
		},
	}
	fl := cmd.Flags()
	// -h is the host.
	fl.Bool("help", false, "help for "+string(k))
	if !k.AllHosts() {
		fl.StringVarP(&f.host, "host", "h", "", "Host whose results are drawn")
		cmd.MarkFlagRequired("host")
	}
	if k.NeedsRemedy() {
		fl.StringVarP(&f.remedy, "remedy", "r", "", "Remedy to draw")
		cmd.MarkFlagRequired("remedy")
	}
	fl.StringVarP(&f.dest, "dest", "d", ".", "Directory or gs://bucket/prefix the image is saved to")
	fl.BoolVarP(&f.save, "save", "s", false, "Save the image instead of printing the figure table")
	return cmd
}

func run(ctx context.Context, k benchseries.Kind, f *flags, stdout io.Writer) error {
	logger := logging.GetLogger()

	cfg, err := config.Load(f.configFile)
	if err != nil {
		return err
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if f.format != "" {
		cfg.Format = f.format
	}
	if f.export != "" {
		cfg.Export = f.export
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	src, err := source(cfg, f)
	if err != nil {
		return err
	}
	hosts := []string{f.host}
	if k.AllHosts() {
		if hosts, err = allHosts(cfg); err != nil {
			return err
		}
	}
	log := logger.WithFields(logrus.Fields{"figure": k, "hosts": hosts})
	log.Debug("Loading records")
	data, err := benchseries.Load(ctx, src, k, hosts, &cfg.Figures)
	if err != nil {
		return err
	}
	log.WithField("rows", data.Len()).Debug("Loaded records")

	fig, err := benchseries.Build(k, data, benchseries.Options{
		Host:   f.host,
		Remedy: f.remedy,
		Strict: f.strict,
		Params: &cfg.Figures,
	})
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"name": fig.Name, "series": len(fig.Series), "points": fig.Len()}).Info("Built figure")

	if f.csvPath != "" {
		if err := writeCSV(fig, f.csvPath, stdout); err != nil {
			return err
		}
	}
	if cfg.Export != "" {
		if err := export(ctx, cfg.Export, fig); err != nil {
			return err
		}
	}
	if !f.save {
		return fig.Print(stdout)
	}
	return save(ctx, fig, f.dest, cfg.Format, cfg.Credentials)
}

// source returns the record source selected by f.
func source(cfg *config.Config, f *flags) (benchfmt.Source, error) {
	switch {
	case f.tables != "":
		return benchfmt.Tables{Pattern: f.tables}, nil
	case f.native:
		return benchfmt.OSUDir{DataDir: cfg.DataDir}, nil
	}
	return cfg.Helper.Source(cfg.DataDir)
}

// allHosts returns the configured hosts, or else every directory in
// the data directory.
func allHosts(cfg *config.Config) ([]string, error) {
	if len(cfg.Hosts) > 0 {
		return cfg.Hosts, nil
	}
	ents, err := os.ReadDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("listing hosts: %w", err)
	}
	var hosts []string
	for _, ent := range ents {
		if ent.IsDir() && !strings.HasPrefix(ent.Name(), ".") {
			hosts = append(hosts, ent.Name())
		}
	}
	if len(hosts) == 0 {
		return nil, fmt.Errorf("no hosts in %s", cfg.DataDir)
	}
	return hosts, nil
}

func writeCSV(fig *benchseries.Figure, path string, stdout io.Writer) error {
	if path == "-" {
		return fig.WriteCSV(stdout)
	}
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fig.WriteCSV(w); err != nil {
		w.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return w.Close()
}

// export stores fig in the database named by target, "driver:dsn".
func export(ctx context.Context, target string, fig *benchseries.Figure) error {
	driver, dsn, _ := strings.Cut(target, ":")
	if driver == "mysql" {
		if _, err := mysql.ParseDSN(dsn); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	d, err := db.OpenSQL(driver, dsn)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer d.Close()
	id, err := d.InsertFigure(ctx, fig)
	if err != nil {
		return fmt.Errorf("export %s: %w", fig.Name, err)
	}
	logging.GetLogger().WithFields(logrus.Fields{"figure": fig.Name, "driver": driver, "id": id}).Info("Exported figure table")
	return nil
}

// openDest returns the sink for dest, a directory or a gs:// URL.
func openDest(ctx context.Context, dest, credentials string) (fs.FS, error) {
	if strings.HasPrefix(dest, "gs://") {
		var opts []option.ClientOption
		if credentials != "" {
			opts = append(opts, option.WithCredentialsFile(credentials))
		}
		return gcs.NewFSFromURL(ctx, dest, opts...)
	}
	return local.NewFS(dest)
}

func save(ctx context.Context, fig *benchseries.Figure, dest, format, credentials string) error {
	sink, err := openDest(ctx, dest, credentials)
	if err != nil {
		return err
	}
	return writeImage(ctx, sink, fig, format, dest)
}

// writeImage renders fig into sink as <name>.<format>.
func writeImage(ctx context.Context, sink fs.FS, fig *benchseries.Figure, format, dest string) error {
	if format == "" {
		format = "svg"
	}
	name := fig.Name + "." + format
	w, err := sink.NewWriter(ctx, name, map[string]string{"figure": fig.Name})
	if err != nil {
		return err
	}
	if err := benchseries.Render(fig, w, format); err != nil {
		w.CloseWithError(err)
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	logging.GetLogger().WithFields(logrus.Fields{"figure": fig.Name, "dest": strings.TrimSuffix(dest, "/") + "/" + name}).Info("Saved figure")
	return nil
}
