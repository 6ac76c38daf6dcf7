package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/astro-web3/album-api/internal/config"
	lambdatransport "github.com/astro-web3/album-api/internal/transport/lambda"
)

func NewRouter(handler *Handler, gateway *Gateway, cfg *config.Config) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	if cfg.Observability.TraceEnabled {
		router.Use(otelgin.Middleware(serviceName))
	}
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	router.POST("/authorizer", handler.InvokeAuthorizer)

	albums := lambdatransport.ResourceAlbums
	album := lambdatransport.ResourceAlbum
	router.GET("/albums", handler.Proxy(albums))
	router.POST("/albums", gateway.Authorize(albums), handler.Proxy(albums))
	router.GET("/albums/:albumId", handler.Proxy(album))
	router.PUT("/albums/:albumId", gateway.Authorize(album), handler.Proxy(album))

	protected := lambdatransport.ResourceProtected
	router.GET("/protected", gateway.Authorize(protected), handler.Proxy(protected))
	router.GET("/public", handler.Proxy(lambdatransport.ResourcePublic))

	return router
}
