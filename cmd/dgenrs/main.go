package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/evilstubb/dgenrs/internal/asset"
	"github.com/evilstubb/dgenrs/internal/config"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	cfgFile string

	dirSources []string
	zipSources []string
	outputDir  string
	dbPath     string
	logLevel   string
	logFormat  string
	noProgress bool
)

var rootCmd = &cobra.Command{
	Use:   "dgenrs",
	Short: "Game asset resolution and extraction tool",
	Long: `dgenrs assembles a virtual asset namespace from prioritized backing
sources (directories and zip archives) and resolves asset names through it.

Sources are configured in dgenrs.yaml or passed on the command line; lower
priority values are probed first. Deflate-compressed archive entries are
decompressed transparently on read.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("output") {
			cfg.Output = outputDir
		}
		if cmd.Flags().Changed("catalog") {
			cfg.Catalog = dbPath
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}

		var level slog.Level
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		var handler slog.Handler
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
		} else {
			handler = tint.NewHandler(os.Stderr, &tint.Options{
				Level: level,
			})
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)

		slog.Debug("Configuration",
			"sources", len(cfg.Sources),
			"output", cfg.Output,
			"catalog", cfg.Catalog,
			"log_level", cfg.LogLevel,
			"log_format", cfg.LogFormat)

		return nil
	},
}

// buildSearchPath assembles the search path from the config file plus any
// --dir/--zip flags. Flag sources are appended after config sources with
// priorities continuing where the config left off.
func buildSearchPath() (*asset.SearchPath, error) {
	sp := asset.NewSearchPath()

	var maxPriority uint
	for _, src := range cfg.Sources {
		var err error
		switch src.Type {
		case "dir":
			err = sp.AddDirectory(src.Priority, src.Path)
		case "zip":
			err = sp.AddArchive(src.Priority, src.Path)
		}
		if err != nil {
			sp.Close()
			return nil, fmt.Errorf("registering source %s: %w", src.Path, err)
		}
		if src.Priority > maxPriority {
			maxPriority = src.Priority
		}
	}

	for _, path := range dirSources {
		maxPriority++
		if err := sp.AddDirectory(maxPriority, path); err != nil {
			sp.Close()
			return nil, fmt.Errorf("registering directory %s: %w", path, err)
		}
	}
	for _, path := range zipSources {
		maxPriority++
		if err := sp.AddArchive(maxPriority, path); err != nil {
			sp.Close()
			return nil, fmt.Errorf("registering archive %s: %w", path, err)
		}
	}

	if len(sp.Sources()) == 0 {
		sp.Close()
		return nil, fmt.Errorf("no asset sources configured (use --dir/--zip or dgenrs.yaml)")
	}

	return sp, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is dgenrs.yaml in pwd)")
	rootCmd.PersistentFlags().StringSliceVar(&dirSources, "dir", []string{}, "directory source to append to the search path")
	rootCmd.PersistentFlags().StringSliceVar(&zipSources, "zip", []string{}, "zip archive source to append to the search path")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory for extracted assets")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "catalog", "d", "", "catalog database file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bars")
}
