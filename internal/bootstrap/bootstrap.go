// Package bootstrap wires configuration into the services each entry point runs.
package bootstrap

import (
	"context"
	"fmt"

	albumapp "github.com/astro-web3/album-api/internal/app/album"
	authzapp "github.com/astro-web3/album-api/internal/app/authz"
	"github.com/astro-web3/album-api/internal/config"
	"github.com/astro-web3/album-api/internal/domain/album"
	"github.com/astro-web3/album-api/internal/domain/authz"
	"github.com/astro-web3/album-api/internal/infra/cache"
	"github.com/astro-web3/album-api/internal/infra/cognito"
	"github.com/astro-web3/album-api/internal/infra/store"
	lambdatransport "github.com/astro-web3/album-api/internal/transport/lambda"
	httpclient "github.com/astro-web3/album-api/pkg/http"
	"github.com/astro-web3/album-api/pkg/logger"
	"github.com/astro-web3/album-api/pkg/otel"
	"github.com/astro-web3/album-api/pkg/tracer"
)

// Version is stamped at build time with -ldflags.
//
//nolint:gochecknoglobals // set by the linker
var Version = "dev"

// Observability initialises the process logger and tracer.
func Observability(cfg *config.Config, serviceName string) error {
	logger.InitLogger(cfg.Observability.LogLevel, cfg.Observability.Format, cfg.Observability.LogSource)

	otelCfg := otel.DefaultConfig()
	otelCfg.ServiceVersion = Version
	otelCfg.EndpointURL = cfg.Observability.TracingEndpointURL
	otelCfg.Enabled = cfg.Observability.TraceEnabled
	otelCfg.ResourceAttributes["cloud.region"] = cfg.AWS.Region

	if err := tracer.InitTracer(serviceName, otelCfg); err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	return nil
}

// NewVerifier builds the token verifier with a key set cache that lives as
// long as the process.
func NewVerifier(cfg *config.Config) (*cognito.Verifier, error) {
	httpclient.Configure(cfg.Auth.JWKSTimeout, cfg.Auth.JWKSRetryCount)

	keySets, err := cache.NewKeySetCache(cfg.Auth.KeySetCacheSize)
	if err != nil {
		return nil, err
	}

	verifier, err := cognito.NewVerifier(cognito.Config{
		Region:     cfg.AWS.Region,
		UserPoolID: cfg.Auth.UserPoolID,
		IssuerURL:  cfg.Auth.IssuerURL,
		ClientID:   cfg.Auth.ClientID,
		Leeway:     cfg.Auth.ClockSkew,
	}, cognito.NewClient(), keySets)
	if err != nil {
		return nil, fmt.Errorf("failed to create token verifier: %w", err)
	}
	return verifier, nil
}

func NewAuthorizer(verifier *cognito.Verifier, cfg *config.Config) *lambdatransport.AuthorizerHandler {
	domainService := authz.NewService(verifier, cfg.Auth.CookieName)
	return lambdatransport.NewAuthorizerHandler(authzapp.NewService(domainService))
}

// NewRepository opens the configured album store. The returned func releases it.
func NewRepository(ctx context.Context, cfg *config.Config) (album.Repository, func() error, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		client, err := store.NewRedisClient(ctx, cfg.Store.Redis.URL, cfg.Store.Redis.PoolSize)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		return store.NewRedisRepository(client), client.Close, nil
	default:
		client, err := store.NewDynamoDBClient(ctx, cfg.AWS.Region, cfg.AWS.Endpoint)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create dynamodb client: %w", err)
		}
		return store.NewDynamoRepository(client, cfg.Store.TableName), func() error { return nil }, nil
	}
}

// Albums holds the album application services over one repository.
type Albums struct {
	Commands *albumapp.CommandService
	Queries  *albumapp.QueryService
	Handler  *lambdatransport.AlbumsHandler
}

func NewAlbums(repo album.Repository, verifier *cognito.Verifier, cfg *config.Config) *Albums {
	domainService := album.NewService(repo, verifier, cfg.Auth.CookieName)
	commands := albumapp.NewCommandService(domainService)
	queries := albumapp.NewQueryService(domainService)
	return &Albums{
		Commands: commands,
		Queries:  queries,
		Handler:  lambdatransport.NewAlbumsHandler(commands, queries),
	}
}
