package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/astro-web3/album-api/internal/bootstrap"
	"github.com/astro-web3/album-api/internal/config"
)

const serviceName = "album-api-authorizer"

func main() {
	cfg := config.MustLoad()

	if err := bootstrap.Observability(cfg, serviceName); err != nil {
		log.Fatalf("Failed to initialize observability: %v", err)
	}

	// The verifier and its key set cache outlive single invocations.
	verifier, err := bootstrap.NewVerifier(cfg)
	if err != nil {
		log.Fatalf("Failed to create verifier: %v", err)
	}

	lambda.Start(bootstrap.NewAuthorizer(verifier, cfg).Handle)
}
