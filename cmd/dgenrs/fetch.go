package main

import (
	"fmt"
	"log/slog"

	"github.com/evilstubb/dgenrs/internal/cache"
	"github.com/evilstubb/dgenrs/internal/remote"
	"github.com/spf13/cobra"
)

var forceFetch bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>...",
	Short: "Download remote asset packs into the local cache",
	Long: `Fetch downloads zip asset packs over HTTP into the local cache directory
and verifies their central directories parse. Cached packs are reused unless
--force is given. The printed paths can be registered as zip sources.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := cache.Manager()

		for _, url := range args {
			path, err := remote.FetchPack(store, url, forceFetch)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", url, err)
			}
			fmt.Println(path)
		}

		slog.Info("Fetch complete", "packs", len(args))
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&forceFetch, "force", false, "re-download packs even when cached")
	rootCmd.AddCommand(fetchCmd)
}
