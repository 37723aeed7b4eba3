package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/stopverifage/internal/config"
	"github.com/nao1215/stopverifage/internal/web"
)

// ErrDatasetUnavailable is returned by build --strict when no dataset
// source answered.
var ErrDatasetUnavailable = errors.New("dataset unavailable")

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the directory as a static site",
		Long: `Build pre-renders every page into a directory that any static file host
can serve: the landing page, the full list, one list per category and per
country, one page per site, the suggestion form, the stylesheet and script,
data/sites.json and manifest.json.

Free-text searches and combined filters are applied in the browser on the
list page. Files are replaced atomically, so a server reading the output
directory never sees a partial page.

Examples:
  # Build into ./public
  stopverifage build

  # Build a local dataset into ./site
  stopverifage build --data sites.json -o site

  # Fail instead of publishing an empty directory
  stopverifage build --strict`,
		Args: cobra.NoArgs,
		RunE: runBuildCmd,
	}

	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir, "Directory the site is written to")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency, "Number of files written in parallel")
	cmd.Flags().Int("recent", config.DefaultRecentCount, "Number of entries on the landing page")
	cmd.Flags().Bool("strict", false, "Fail when the dataset cannot be loaded")

	return cmd
}

// runBuildCmd executes the build command.
func runBuildCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return err
	}

	snap := newAccessor(cfg, logger).Load(cmd.Context())
	if snap.Failed() {
		if strict {
			return fmt.Errorf("%w: %w", ErrDatasetUnavailable, snap.Err)
		}
		logger.Warn("no dataset source answered, building an empty directory", "error", snap.Err)
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}
	builder := web.NewStaticBuilder(web.ExportConfig{
		OutputDir:   cfg.OutputDir,
		Concurrency: cfg.Concurrency,
		Locale:      cfg.Locale,
		RecentCount: cfg.RecentCount,
	}, renderer, logger)

	m, err := builder.Build(cmd.Context(), snap)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages for %d sites in %s\n", len(m.ExportedPages()), m.Sites, cfg.OutputDir)
	fmt.Fprintf(cmd.OutOrStdout(), "Dataset digest: %s\n", m.Digest)
	return nil
}
