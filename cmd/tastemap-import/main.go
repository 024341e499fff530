// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the tastemap-import CLI. Running the
// binary with no arguments converts the configured IMDb ratings and
// watchlist exports into a single document.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tastemap-import/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// envFile is loaded into the environment before configuration is resolved.
const envFile = ".env"

// rootCmd is the base command. Without a subcommand it runs convert.
var rootCmd = &cobra.Command{
	Use:   "tastemap-import",
	Short: "Convert IMDb ratings and watchlist exports into one movie document",
	Long: `tastemap-import reads an IMDb ratings export and a watchlist export,
normalizes column types, merges them by title identifier (ratings win over
the watchlist), keeps only movie title types, and writes a single JSON (or
YAML) document. Summary statistics are printed to stderr.

Settings come from flags, TASTEMAP_* environment variables (a .env file is
honored), or tastemap-import.yaml.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
		return nil
	},
	RunE: runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./tastemap-import.yaml or ~/.config/tastemap-import/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tastemap-import")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tastemap-import"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("TASTEMAP")
	viper.SetEnvKeyReplacer(replacer())
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// replacer maps nested keys such as library.path to TASTEMAP_LIBRARY_PATH.
func replacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// setDefaults registers every configuration key so that environment
// variables are picked up by Unmarshal even without a config file.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConvertConfig()
	v.SetDefault("ratings", d.RatingsPath)
	v.SetDefault("watchlist", d.WatchlistPath)
	v.SetDefault("output", d.OutputPath)
	v.SetDefault("format", string(d.Format))
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("key_field", d.KeyField)
	v.SetDefault("category_field", d.CategoryField)
	v.SetDefault("allowed_types", d.AllowedTypes)
	v.SetDefault("top_genres", d.TopGenres)
	v.SetDefault("fields.retained", d.Schema.Retained)
	v.SetDefault("fields.integer", d.Schema.Integer)
	v.SetDefault("fields.decimal", d.Schema.Decimal)
	v.SetDefault("library.path", d.Library.Path)
}

// loadConfig resolves the conversion settings from v. Every key has a
// default registered by setDefaults, so decoding starts from the zero value;
// decoding onto populated slices would leave stale trailing elements.
func loadConfig(v *viper.Viper) (types.ConvertConfig, error) {
	var cfg types.ConvertConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
