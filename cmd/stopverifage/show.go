package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/stopverifage/internal/directory"
	"github.com/nao1215/stopverifage/internal/page"
)

// ErrSiteNotFound is returned by show for identifiers missing from the dataset.
var ErrSiteNotFound = errors.New("site not found")

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show every detail of one site",
		Long: `Show prints one entry of the directory: its verification method, status,
context, sources and the alternatives that do not require verification.

Examples:
  stopverifage show 1
  stopverifage show 1 --json`,
		Args: cobra.ExactArgs(1),
		RunE: runShowCmd,
	}
	addReportFlags(cmd)

	return cmd
}

// runShowCmd executes the show command.
func runShowCmd(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	id, ok := page.ParseSiteID(args[0])
	if !ok {
		return fmt.Errorf("%w: %q", ErrSiteNotFound, args[0])
	}
	site, ok := directory.Find(newAccessor(cfg, logger).Sites(cmd.Context()), id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrSiteNotFound, id)
	}

	out, err := openOutput(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { err = out.Close(err) }()

	_, err = newReportWriter(cfg, out, true).WriteSite(site)
	return err
}
