package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httptransport "github.com/astro-web3/album-api/internal/transport/http"
	"github.com/astro-web3/album-api/pkg/otel"
)

const shutdownTimeoutSeconds = 10

//nolint:gochecknoglobals // cobra command tree
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the album API behind a local gateway",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		srv, err := httptransport.NewServer(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		serverErrChan := make(chan error, 1)
		go func() {
			log.Printf("Starting HTTP server on %s (mode: %s, store: %s)", cfg.Server.Addr, cfg.Server.Mode, cfg.Store.Driver)
			if listenErr := srv.ListenAndServe(); listenErr != nil &&
				!errors.Is(listenErr, http.ErrServerClosed) {
				log.Printf("Server failed: %v", listenErr)
				serverErrChan <- listenErr
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		var runErr error
		select {
		case <-quit:
			log.Println("Shutting down server...")
		case runErr = <-serverErrChan:
			log.Printf("Server error, shutting down: %v", runErr)
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(
			context.Background(),
			shutdownTimeoutSeconds*time.Second,
		)
		defer shutdownCancel()

		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Printf("Server forced to shutdown: %v", shutdownErr)
		} else {
			log.Println("Server stopped gracefully")
		}

		if shutdownErr := otel.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Printf("Failed to shutdown tracer provider: %v", shutdownErr)
		} else {
			log.Println("Tracer provider stopped gracefully")
		}

		return runErr
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().String("driver", "", "album store driver: dynamodb or redis")
}
