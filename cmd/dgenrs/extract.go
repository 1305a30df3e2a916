package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/evilstubb/dgenrs/internal/export"
	"github.com/evilstubb/dgenrs/internal/utils"
	"github.com/spf13/cobra"
)

var extractAll bool

var extractCmd = &cobra.Command{
	Use:   "extract [name...]",
	Short: "Resolve assets through the search path and write them to disk",
	Long: `Extract resolves each named asset through the configured search path and
writes the winning copy under the output directory, decompressing archive
entries as needed.

With --all, every name any registered source can resolve is extracted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		sp, err := buildSearchPath()
		if err != nil {
			return err
		}
		defer sp.Close()

		names := args
		if extractAll {
			names = allNames(sp)
		}
		if len(names) == 0 {
			return fmt.Errorf("nothing to extract: pass asset names or --all")
		}

		slog.Info("Starting extract", "assets", len(names), "output", cfg.Output)

		progress := utils.NewProgress(len(names), !noProgress)
		exporter := export.NewExporter(sp, cfg.Output)
		written, missing, err := exporter.ExportFiles(names, func(current, total int, description string) {
			progress.Update(current, description)
		})
		progress.Finish()
		if err != nil {
			return fmt.Errorf("extracting assets: %w", err)
		}

		slog.Info("Extract complete",
			"written", utils.Number(int64(written)),
			"missing", missing,
			"duration", utils.Duration(time.Since(start)))
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractAll, "all", false, "extract every resolvable asset")
	rootCmd.AddCommand(extractCmd)
}
