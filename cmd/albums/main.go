package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/astro-web3/album-api/internal/bootstrap"
	"github.com/astro-web3/album-api/internal/config"
)

const serviceName = "album-api-albums"

func main() {
	cfg := config.MustLoad()

	if err := bootstrap.Observability(cfg, serviceName); err != nil {
		log.Fatalf("Failed to initialize observability: %v", err)
	}

	verifier, err := bootstrap.NewVerifier(cfg)
	if err != nil {
		log.Fatalf("Failed to create verifier: %v", err)
	}

	repo, closeStore, err := bootstrap.NewRepository(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to open album store: %v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("Failed to close album store: %v", err)
		}
	}()

	albums := bootstrap.NewAlbums(repo, verifier, cfg)
	lambda.Start(albums.Handler.Handle)
}
