package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astro-web3/album-api/internal/config"
)

//nolint:gochecknoglobals // cobra command tree
var rootCmd = &cobra.Command{
	Use:   "albumapi",
	Short: "Album catalog API tools",
	Long: `albumapi runs the album REST API locally behind an emulated API Gateway
and seeds the album table. Configuration is read from config.yaml and
ALBUM_API_* environment variables.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("driver") {
		cfg.Store.Driver, _ = flags.GetString("driver")
	}
	return cfg, cfg.Validate()
}
