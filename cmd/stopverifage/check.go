package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/stopverifage/internal/config"
	"github.com/nao1215/stopverifage/internal/linkcheck"
)

// ErrBrokenLinks is returned by check --fail when a link did not answer.
var ErrBrokenLinks = errors.New("broken links found")

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that every site and alternative URL still answers",
		Long: `Check sends a HEAD request to the URL of every site and alternative of the
dataset, falling back to GET when the server refuses HEAD. A link fails
when the request errors or answers with a 4xx or 5xx status.

The dataset is never modified. Only failures are listed unless --verbose
is given.

Examples:
  # Check the built-in directory
  stopverifage check

  # Check a local dataset and fail the CI job on a broken link
  stopverifage check --data sites.json --fail

  # Slower, more patient run
  stopverifage check --concurrency 2 --timeout 30s`,
		Args: cobra.NoArgs,
		RunE: runCheckCmd,
	}

	cmd.Flags().Int("concurrency", config.DefaultConcurrency, "Number of links checked in parallel")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each link")
	cmd.Flags().String("user-agent", config.DefaultUserAgent, "User-Agent header sent with each request")
	cmd.Flags().Bool("fail", false, "Exit with an error when a link is broken")
	addReportFlags(cmd)

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, _ []string) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	failOnBroken, err := cmd.Flags().GetBool("fail")
	if err != nil {
		return err
	}

	sites := newAccessor(cfg, logger).Sites(cmd.Context())
	checker := linkcheck.NewChecker(
		linkcheck.WithConcurrency(cfg.Concurrency),
		linkcheck.WithTimeout(cfg.Timeout),
		linkcheck.WithUserAgent(cfg.UserAgent),
		linkcheck.WithLogger(logger),
		linkcheck.WithProgress(func(r linkcheck.Result, done, total int) {
			logger.Debug("link checked", "url", r.Link.URL, "status", r.Status, "done", done, "total", total)
		}),
	)
	results, err := checker.CheckSites(cmd.Context(), sites)
	if err != nil {
		return err
	}

	out, err := openOutput(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { err = out.Close(err) }()

	if _, err := newReportWriter(cfg, out, cfg.Verbose).WriteLinks(results); err != nil {
		return err
	}
	if failed := linkcheck.Failed(results); failOnBroken && len(failed) > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBrokenLinks, len(failed), len(results))
	}
	return nil
}
