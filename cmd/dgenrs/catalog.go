package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/evilstubb/dgenrs/internal/catalog"
	"github.com/evilstubb/dgenrs/internal/utils"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Build a SQLite inventory of every resolvable asset",
	Long: `Catalog walks every registered source and writes one row per resolvable
asset into a SQLite database: its name, which source carries it, the source's
priority, and for archive entries the compression method and sizes. Copies
shadowed by a higher-priority source are marked as such.

Use the query subcommand to run SQL against the result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		start := time.Now()

		sp, err := buildSearchPath()
		if err != nil {
			return err
		}
		defer sp.Close()

		records, err := catalog.Scan(sp)
		if err != nil {
			return fmt.Errorf("scanning sources: %w", err)
		}

		cat, err := catalog.Open(catalog.DefaultOptions(cfg.Catalog))
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer cat.Close()

		if err := cat.Reset(ctx); err != nil {
			return fmt.Errorf("resetting catalog: %w", err)
		}
		if err := cat.InsertRecords(ctx, records); err != nil {
			return fmt.Errorf("writing inventory: %w", err)
		}

		slog.Info("Catalog built",
			"database", cfg.Catalog,
			"records", utils.Number(int64(len(records))),
			"duration", utils.Duration(time.Since(start)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
