// Command pos_import loads a product sheet (CSV) into the catalog from the
// command line, with the same matching rules as the HTTP import.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/paleteria/paleteria-pos/internal/catalog/repository"
	"github.com/paleteria/paleteria-pos/internal/catalog/service"
	"github.com/paleteria/paleteria-pos/internal/platform/config"
	"github.com/paleteria/paleteria-pos/internal/platform/database"
	"github.com/paleteria/paleteria-pos/internal/platform/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		skipRows []int
		preview  bool
		encoding string
	)

	cmd := &cobra.Command{
		Use:   "pos_import <file.csv>",
		Short: "Add or update catalog products from a CSV sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()
			cfg := config.Load()
			if err := logger.Init(logger.Options{Mode: cfg.Logger.Mode, Level: cfg.Logger.Level, Filename: cfg.Logger.File}); err != nil {
				return err
			}
			defer logger.Sync()
			if encoding != "" {
				cfg.Import.Encoding = encoding
			}
			return runImport(cmd.Context(), cfg, args[0], skipRows, preview, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntSliceVar(&skipRows, "skip", nil, "data rows (1-based) to leave out, e.g. --skip 3,7")
	cmd.Flags().BoolVar(&preview, "preview", false, "only show what would be added or updated")
	cmd.Flags().StringVar(&encoding, "encoding", "", "input encoding (latin-1 or utf-8), defaults to IMPORT_ENCODING")
	return cmd
}

func runImport(ctx context.Context, cfg config.Config, path string, skipRows []int, preview bool, out io.Writer) error {
	store, closeStore, err := openCatalogStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	catalog := service.NewCatalogService(store, cfg.Import.Encoding)
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if preview {
		rows, err := catalog.PreviewImport(ctx, f)
		if err != nil {
			return err
		}
		return enc.Encode(rows)
	}

	result, err := catalog.ImportProducts(ctx, f, skipRows)
	if err != nil {
		return err
	}
	logger.Info("Import finished", "file", path, "added", result.Added, "updated", result.Updated, "skipped", result.Skipped)
	return enc.Encode(result)
}

func openCatalogStore(ctx context.Context, cfg config.Config) (repository.CatalogStore, func(), error) {
	if cfg.Store.Backend == config.BackendCSV {
		return repository.NewCSVCatalogStore(cfg.Store.CatalogFile), func() {}, nil
	}
	db, err := database.Connect(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repository.NewPostgresCatalogStore(db), func() { db.Close() }, nil
}
