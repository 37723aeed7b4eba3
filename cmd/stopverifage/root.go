package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for stopverifage.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stopverifage",
		Short: "Directory of websites that require age verification",
		Long: `stopverifage renders a directory of websites that impose age or identity
verification: a landing page, a searchable list, one page per site and a
suggestion form.

The directory is compiled into the binary. Use --data to render another
dataset file (JSON, or the SQLite database of the former server), and
--data-url to fetch data/sites.json from a web server when the local
dataset cannot be read.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "Configuration file path (default: .stopverifage in current or home directory)")
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.String("log-format", "", "Log format: text or json")
	flags.StringP("data", "d", "", "Dataset file used instead of the built-in one (.json, .db, .sqlite)")
	flags.String("data-url", "", "Base URL data/sites.json is fetched from when the local dataset fails")
	flags.String("locale", "", "BCP 47 locale used to sort names (default \"fr\")")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
