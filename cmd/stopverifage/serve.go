package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/stopverifage/internal/config"
	"github.com/nao1215/stopverifage/internal/page"
	"github.com/nao1215/stopverifage/internal/web"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the directory from a local HTTP server",
		Long: `Serve renders every page on request from the memoized dataset.

The dataset is loaded once when the server starts. With --watch, the
dataset file given with --data is reloaded whenever it changes on disk.

Routes:
  /                 landing page
  /list             filterable list (?q=, ?category=, ?country=)
  /sites/{id}       detail page
  /suggest          suggestion form (submissions are not stored)
  /data/sites.json  the dataset
  /healthz          liveness probe
  /metrics          Prometheus metrics

Examples:
  # Serve the built-in directory on 127.0.0.1:8080
  stopverifage serve

  # Serve a local dataset and reload it on change
  stopverifage serve --data sites.json --watch

  # Listen on every interface
  stopverifage serve --addr :8080`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultAddr, "Listen address")
	cmd.Flags().BoolP("watch", "w", false, "Reload the dataset file when it changes")
	cmd.Flags().Int("suggest-rate-limit", config.DefaultSuggestRateLimit,
		"Suggestions accepted per client IP and minute (0 disables the limit)")
	cmd.Flags().Int("recent", config.DefaultRecentCount, "Number of entries on the landing page")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}
	acc := newAccessor(cfg, logger)
	builder := page.NewBuilder(web.DynamicLinks{},
		page.WithLocale(cfg.Locale),
		page.WithRecentCount(cfg.RecentCount),
	)
	srv := web.NewServer(web.ServerConfig{
		Addr:             cfg.Addr,
		SuggestRateLimit: cfg.SuggestRateLimit,
		ShutdownTimeout:  cfg.ShutdownTimeout,
	}, acc, renderer, builder, logger)

	// Load before listening so the first request does not pay for it.
	snap := acc.Load(ctx)
	logger.Info("dataset loaded", "source", snap.Source, "sites", len(snap.Sites()), "digest", snap.Digest)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	switch {
	case cfg.Watch && cfg.DataFile != "":
		g.Go(func() error {
			return acc.Watch(ctx, cfg.DataFile)
		})
	case cfg.Watch:
		logger.Warn("--watch needs --data, the built-in dataset never changes")
	}

	return g.Wait()
}
