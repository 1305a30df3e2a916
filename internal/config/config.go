package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// SourceConfig describes one entry of the asset search path.
type SourceConfig struct {
	// Priority orders the search path; lower values are probed first.
	Priority uint `mapstructure:"priority"`
	// Type is "dir" for a directory on disk or "zip" for an archive.
	Type string `mapstructure:"type"`
	Path string `mapstructure:"path"`
}

type Config struct {
	Sources   []SourceConfig `mapstructure:"sources"`
	Output    string         `mapstructure:"output"`
	Catalog   string         `mapstructure:"catalog"`
	LogLevel  string         `mapstructure:"log_level"`
	LogFormat string         `mapstructure:"log_format"`
}

// Load initializes and loads configuration from file
func Load(cfgFile string) (*Config, error) {
	// Set defaults
	viper.SetDefault("output", "out")
	viper.SetDefault("catalog", "assets.db")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")

	// Config file handling
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName("dgenrs")
		viper.SetConfigType("yaml")
	}

	// Read config file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configured sources if provided
	if err := validateSources(cfg.Sources); err != nil {
		return nil, fmt.Errorf("invalid source configuration: %w", err)
	}

	return &cfg, nil
}

func validateSources(sources []SourceConfig) error {
	for i, src := range sources {
		if src.Path == "" {
			return fmt.Errorf("source %d has no path", i)
		}
		switch src.Type {
		case "dir", "zip":
		default:
			return fmt.Errorf("source %d has unknown type %q (want dir or zip)", i, src.Type)
		}
	}
	return nil
}
