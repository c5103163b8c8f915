package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bekirdag/vdcdash/internal/catalog"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Export or seed the static catalog",
	}
	cmd.AddCommand(newCatalogExportCmd(opts))
	cmd.AddCommand(newCatalogSeedCmd(opts))
	return cmd
}

func newCatalogExportCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.settings()
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd.Context(), cfg, opts.logger)
			if err != nil {
				return err
			}
			if out == "" {
				return catalog.Encode(cmd.OutOrStdout(), cat)
			}
			if err := catalog.WriteFile(out, cat); err != nil {
				return fmt.Errorf("export catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	return cmd
}

func newCatalogSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace the --catalog-db store with the file or demo catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.settings()
			if err != nil {
				return err
			}
			if cfg.CatalogDB == "" {
				return errors.New("catalog seed needs --catalog-db")
			}
			cat, err := catalogSource(cfg).Load(cmd.Context())
			if err != nil {
				return err
			}
			store, err := catalog.OpenStore(cfg.CatalogDB)
			if err != nil {
				return fmt.Errorf("open catalog store: %w", err)
			}
			defer store.Close()
			if err := store.Seed(cmd.Context(), cat); err != nil {
				return fmt.Errorf("seed catalog store: %w", err)
			}
			opts.logger.Info("catalog seeded",
				zap.String("path", store.Path()),
				zap.Int("test_lines", len(cat.TestLines())),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s: %d projects, %d steps, %d test lines\n",
				store.Path(), len(cat.Projects()), len(cat.Steps()), len(cat.TestLines()))
			return nil
		},
	}
}
