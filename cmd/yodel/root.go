package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vmunix/yodel/internal/config"
)

var version = "dev"

var (
	serverURL  string
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "yodel",
	Short: "CLI client for the yodel video downloader",
	Long: `yodel - CLI client for the yodel video downloader

Submit video URLs for download, list pending and completed jobs,
and follow live job updates from the server.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Server URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.yodel/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("yodel {{.Version}}\n")
}

// loadConfig resolves the effective configuration. An explicitly given
// --config path must exist; the default path falls back to built-in
// defaults when absent. --server wins over the file either way.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("resolve home dir: %w", homeErr)
		}
		cfg, err = config.LoadOrDefault(filepath.Join(home, ".yodel", "config.toml"))
	}
	if err != nil {
		return nil, err
	}

	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	return cfg, nil
}
