package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/careerpilot/internal/catalog"
)

var importCatalogCmd = &cobra.Command{
	Use:   "import-catalog",
	Short: "Import a JSON catalog directory into SQLite or PostgreSQL",
	Long:  "Reads jobs.json, courses.json and roles.json from a directory, validates every record, and writes them to the configured SQLite snapshot or PostgreSQL database.",
	RunE:  runImportCatalog,
}

var importCatalogFrom string

func init() {
	importCatalogCmd.Flags().StringVarP(&importCatalogFrom, "from", "f", "", "Directory holding the JSON catalog files (required)")
	markRequired(importCatalogCmd, "from")

	rootCmd.AddCommand(importCatalogCmd)
}

func runImportCatalog(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	source := catalog.NewFileStore(importCatalogFrom, a.log)
	snap, err := catalog.Load(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to load catalog from %s: %w", importCatalogFrom, err)
	}

	switch {
	case a.cfg.SQLitePath != "":
		store, err := catalog.OpenSQLite(ctx, a.cfg.SQLitePath, a.log)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Import(ctx, snap); err != nil {
			return err
		}
	case a.cfg.DatabaseURL != "":
		store, err := catalog.ConnectPostgres(ctx, a.cfg.DatabaseURL, a.log)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := store.Import(ctx, snap); err != nil {
			return err
		}
	default:
		return fmt.Errorf("import needs a destination: set --sqlite or --database-url")
	}

	a.log.Info("imported catalog",
		zap.Int("jobs", len(snap.Jobs)),
		zap.Int("courses", len(snap.Courses)),
		zap.Int("roles", len(snap.Roles)))
	_, _ = fmt.Fprintf(a.stdout, "Imported %d jobs, %d courses and %d roles\n", len(snap.Jobs), len(snap.Courses), len(snap.Roles))
	return nil
}
