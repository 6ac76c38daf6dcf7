package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/astro-web3/album-api/internal/bootstrap"
	"github.com/astro-web3/album-api/internal/config"
)

type Server struct {
	httpServer *http.Server
	closeStore func() error
}

const (
	idleTimeoutMultiplier = 2
	serviceName           = "album-api"
)

// NewServer assembles the local gateway: both functions behind a gin router.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	if err := bootstrap.Observability(cfg, serviceName); err != nil {
		return nil, err
	}

	verifier, err := bootstrap.NewVerifier(cfg)
	if err != nil {
		return nil, err
	}

	repo, closeStore, err := bootstrap.NewRepository(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open album store: %w", err)
	}

	authorizer := bootstrap.NewAuthorizer(verifier, cfg)
	albums := bootstrap.NewAlbums(repo, verifier, cfg)

	gateway := NewGateway(authorizer, cfg)
	handler := NewHandler(albums.Handler, authorizer, gateway)
	router := NewRouter(handler, gateway, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * idleTimeoutMultiplier,
	}

	return &Server{
		httpServer: httpServer,
		closeStore: closeStore,
	}, nil
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if closeErr := s.closeStore(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close album store: %w", closeErr)
	}
	return err
}
