package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/nao1215/stopverifage/internal/config"
	"github.com/nao1215/stopverifage/internal/database"
	"github.com/nao1215/stopverifage/internal/dataset"
	"github.com/nao1215/stopverifage/internal/log"
	"github.com/nao1215/stopverifage/internal/report"
)

// loadConfig builds the configuration of cmd: defaults, then the
// configuration file, then the environment, then the flags given on the
// command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = path

	// An explicit path must exist; otherwise a missing file is fine.
	found := config.FindConfigFile(path)
	if path != "" && found == "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, path)
	}
	if found != "" {
		cf, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, err
		}
		cf.Apply(cfg)
	}

	if err := config.ApplyEnv(cfg, nil); err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// applyFlags copies the flags set on the command line onto cfg. Flags a
// command does not declare are skipped.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	var err error
	str := func(name string, dst *string) {
		if err == nil && changed(name) {
			*dst, err = flags.GetString(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if err == nil && changed(name) {
			*dst, err = flags.GetBool(name)
		}
	}
	integer := func(name string, dst *int) {
		if err == nil && changed(name) {
			*dst, err = flags.GetInt(name)
		}
	}

	boolean("verbose", &cfg.Verbose)
	str("log-format", &cfg.LogFormat)
	str("data", &cfg.DataFile)
	str("data-url", &cfg.DataURL)
	str("locale", &cfg.Locale)
	str("addr", &cfg.Addr)
	boolean("watch", &cfg.Watch)
	integer("suggest-rate-limit", &cfg.SuggestRateLimit)
	str("output-dir", &cfg.OutputDir)
	integer("concurrency", &cfg.Concurrency)
	integer("recent", &cfg.RecentCount)
	str("user-agent", &cfg.UserAgent)
	boolean("json", &cfg.JSONReport)
	boolean("markdown", &cfg.MarkdownReport)
	str("output", &cfg.ReportFile)
	if err == nil && changed("timeout") {
		cfg.Timeout, err = flags.GetDuration("timeout")
	}
	return err
}

// newLogger returns the logger of a command and makes it the default.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
	slog.SetDefault(logger)
	return logger
}

// newSources returns the dataset sources in the order they are tried: the
// configured file or the built-in dataset, then the remote fetch.
func newSources(cfg *config.Config) []dataset.Source {
	var sources []dataset.Source
	switch {
	case cfg.DataFile == "":
		sources = append(sources, dataset.Embedded(dataset.DefaultDocument()))
	case database.IsDatabasePath(cfg.DataFile):
		sources = append(sources, database.NewSource(cfg.DataFile))
	default:
		sources = append(sources, dataset.File(cfg.DataFile))
	}

	if cfg.DataURL != "" {
		sources = append(sources, dataset.HTTP(cfg.DataURL,
			dataset.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			dataset.WithUserAgent(cfg.UserAgent),
		))
	}
	return sources
}

// newAccessor returns the dataset accessor of a command.
func newAccessor(cfg *config.Config, logger *slog.Logger) *dataset.Accessor {
	return dataset.NewAccessor(newSources(cfg), dataset.WithLogger(logger))
}

// addReportFlags declares the output format flags shared by list, show and check.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false, "Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "", "Write the output to a file instead of stdout")
}

// output is where a command writes its report.
type output struct {
	io.Writer

	pending *renameio.PendingFile
}

// openOutput returns stdout, or a file that replaces cfg.ReportFile
// atomically when closed.
func openOutput(cmd *cobra.Command, cfg *config.Config) (*output, error) {
	if cfg.ReportFile == "" {
		return &output{Writer: cmd.OutOrStdout()}, nil
	}

	if dir := filepath.Dir(cfg.ReportFile); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	pending, err := renameio.NewPendingFile(cfg.ReportFile, renameio.WithPermissions(0o600))
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &output{Writer: pending, pending: pending}, nil
}

// Close publishes the file when the write succeeded and discards it otherwise.
func (o *output) Close(writeErr error) error {
	if o.pending == nil {
		return writeErr
	}
	if writeErr != nil {
		return errors.Join(writeErr, o.pending.Cleanup())
	}
	if err := o.pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// newReportWriter returns the writer for the configured format.
func newReportWriter(cfg *config.Config, w io.Writer, detailed bool) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(detailed))
	}
}
