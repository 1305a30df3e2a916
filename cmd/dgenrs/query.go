package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/evilstubb/dgenrs/internal/catalog"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [sql]",
	Short: "Query the asset catalog database from the command line",
	Long: `Query runs SQL against the catalog built by the catalog command, or lists
assets shadowed by higher-priority sources with --shadowed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		shadowed, err := cmd.Flags().GetBool("shadowed")
		if err != nil {
			return fmt.Errorf("failed to get shadowed flag: %w", err)
		}

		slog.Debug("Query parameters", "catalog", cfg.Catalog, "shadowed", shadowed)

		cat, err := catalog.Open(catalog.DefaultOptions(cfg.Catalog))
		if err != nil {
			return fmt.Errorf("opening catalog: %w", err)
		}
		defer cat.Close()

		query := ""
		switch {
		case shadowed:
			query = `
				SELECT name, source_origin, priority FROM assets
				WHERE shadowed = 1 ORDER BY name, priority
			`
		case len(args) == 1:
			query = args[0]
		default:
			return fmt.Errorf("pass a SQL statement or --shadowed")
		}

		rows, err := cat.Query(ctx, query)
		if err != nil {
			return fmt.Errorf("running query: %w", err)
		}
		defer rows.Close()

		columns, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("reading result columns: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, strings.ToUpper(strings.Join(columns, "\t")))

		values := make([]interface{}, len(columns))
		scan := make([]interface{}, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}

		count := 0
		for rows.Next() {
			if err := rows.Scan(scan...); err != nil {
				return fmt.Errorf("scanning row: %w", err)
			}
			cells := make([]string, len(values))
			for i, v := range values {
				if v == nil {
					cells[i] = "-"
				} else {
					cells[i] = fmt.Sprintf("%v", v)
				}
			}
			fmt.Fprintln(w, strings.Join(cells, "\t"))
			count++
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating rows: %w", err)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		slog.Debug("Query complete", "rows", count)
		return nil
	},
}

func init() {
	queryCmd.Flags().Bool("shadowed", false, "list assets shadowed by a higher-priority source")
	rootCmd.AddCommand(queryCmd)
}
