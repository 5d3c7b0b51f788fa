// Package cmd implements the CLI commands for plucktv.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/plucktv/plucktv/internal/config"
	"github.com/plucktv/plucktv/internal/version"
)

// cfgFile holds the config file path from CLI flag.
var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "plucktv",
	Short:   "Xtream catalog aggregation and M3U playlist service",
	Version: version.Short(),
	Long: `plucktv connects to Xtream-Codes-style IPTV accounts, discovers the
live, VOD and series catalog, and materializes category selections into
portable M3U playlists served over HTTP.

Playlists are stored under opaque ids, so a saved playlist URL can be
handed to any player without exposing how it was assembled.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	// Global flags. These are NOT bound to viper; loadConfig checks
	// Changed() and only then overrides config/env values, preserving the
	// priority: CLI flag > env var > config file > default.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., ./configs, /etc/plucktv, $HOME/.plucktv)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")
}

// flagString returns a string flag's value and whether the user set it
// explicitly. Flags only override config/env when explicitly set.
func flagString(flags *pflag.FlagSet, name string) (string, bool) {
	if !flags.Changed(name) {
		return "", false
	}
	v, _ := flags.GetString(name)
	return v, true
}

// loadConfig reads the configuration and applies explicit CLI overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	flags := rootCmd.PersistentFlags()
	if level, ok := flagString(flags, "log-level"); ok {
		level = strings.ToLower(level)
		if level == "warning" {
			level = "warn"
		}
		cfg.Logging.Level = level
	}
	if format, ok := flagString(flags, "log-format"); ok {
		cfg.Logging.Format = strings.ToLower(format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
