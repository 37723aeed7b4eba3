package main

import (
	"github.com/spf13/cobra"

	"github.com/nao1215/stopverifage/internal/directory"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the sites matching a search and filters",
		Long: `List prints the sites of the directory sorted by name.

--query matches names case-insensitively; --category and --country keep
sites whose lists contain exactly the given value. --verification may be
repeated and keeps sites whose verification type mentions any of the
keywords. Combined filters keep the sites that match all of them.

Examples:
  # Every site
  stopverifage list

  # Social networks in France
  stopverifage list --category "Réseaux sociaux" --country FR

  # Sites verified through Yoti or a bank card
  stopverifage list --verification Yoti --verification "carte bancaire"

  # Name search, as Markdown
  stopverifage list -q porn --markdown -o report.md`,
		Args: cobra.NoArgs,
		RunE: runListCmd,
	}

	cmd.Flags().StringP("query", "q", "", "Case-insensitive search on the site name")
	cmd.Flags().String("category", "", "Keep sites in this category (exact match)")
	cmd.Flags().String("country", "", "Keep sites that apply in this country (exact match)")
	cmd.Flags().StringSlice("verification", nil, "Keep sites whose verification type mentions any of these keywords")
	cmd.Flags().BoolP("long", "l", false, "Show the verification type and status columns")
	addReportFlags(cmd)

	return cmd
}

// runListCmd executes the list command.
func runListCmd(cmd *cobra.Command, _ []string) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	var f directory.Filter
	if f.Query, err = cmd.Flags().GetString("query"); err != nil {
		return err
	}
	if f.Category, err = cmd.Flags().GetString("category"); err != nil {
		return err
	}
	if f.Country, err = cmd.Flags().GetString("country"); err != nil {
		return err
	}
	if f.Verification, err = cmd.Flags().GetStringSlice("verification"); err != nil {
		return err
	}
	long, err := cmd.Flags().GetBool("long")
	if err != nil {
		return err
	}

	sites := directory.Search(newAccessor(cfg, logger).Sites(cmd.Context()), f, cfg.Locale)

	out, err := openOutput(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { err = out.Close(err) }()

	_, err = newReportWriter(cfg, out, long).WriteSites(sites)
	return err
}
