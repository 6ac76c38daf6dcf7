package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/astro-web3/album-api/internal/bootstrap"
	"github.com/astro-web3/album-api/internal/seed"
)

const seedServiceName = "album-api-seed"

//nolint:gochecknoglobals // cobra command tree
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the catalog albums to the album store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := bootstrap.Observability(cfg, seedServiceName); err != nil {
			return err
		}

		verifier, err := bootstrap.NewVerifier(cfg)
		if err != nil {
			return err
		}

		repo, closeStore, err := bootstrap.NewRepository(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore() //nolint:errcheck // best effort on exit

		albums := seed.Albums()
		if err := bootstrap.NewAlbums(repo, verifier, cfg).Commands.Seed(cmd.Context(), albums); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d albums into %s\n", len(albums), cfg.Store.Driver)
		return nil
	},
}

func init() {
	seedCmd.Flags().String("driver", "", "album store driver: dynamodb or redis")
}
