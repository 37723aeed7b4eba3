package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/nao1215/stopverifage/internal/database"
)

// defaultImportFile is where import writes the converted dataset.
const defaultImportFile = "sites.json"

// NewImportCmd creates the import command.
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <database>",
		Short: "Convert a SQLite database of the former server to a dataset file",
		Long: `Import reads the sites and alternatives tables of a SQLite database written
by the former server and writes them as a JSON dataset that --data, build
and serve accept. The database is opened read-only. Pending suggestions are
not imported.

Examples:
  # Write sites.json in the current directory
  stopverifage import stopverifage.db

  # Replace an existing dataset
  stopverifage import stopverifage.db -o data/sites.json -f`,
		Args: cobra.ExactArgs(1),
		RunE: runImportCmd,
	}

	cmd.Flags().StringP("output", "o", defaultImportFile, "Output dataset file")
	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing dataset file")

	return cmd
}

// runImportCmd executes the import command.
func runImportCmd(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("dataset file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	db, err := database.Open(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ds, err := db.Dataset(cmd.Context())
	if err != nil {
		return err
	}
	data, err := ds.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := renameio.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset file: %w", err)
	}
	logger.Debug("dataset imported", "database", db.Path(), "digest", ds.Digest())

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sites from %s to %s\n", len(ds.Sites), args[0], outputPath)
	return nil
}
