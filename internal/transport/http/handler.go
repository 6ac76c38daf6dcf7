package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"

	"github.com/astro-web3/album-api/pkg/logger"
	"github.com/astro-web3/album-api/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

// ProxyHandler is the Lambda proxy integration behind the local routes.
type ProxyHandler interface {
	Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

type Handler struct {
	albums     ProxyHandler
	authorizer Authorizer
	gateway    *Gateway
}

func NewHandler(albums ProxyHandler, authorizer Authorizer, gateway *Gateway) *Handler {
	return &Handler{
		albums:     albums,
		authorizer: authorizer,
		gateway:    gateway,
	}
}

// Proxy forwards the request to the albums function as a proxy event for resource.
func (h *Handler) Proxy(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "transport.http.Proxy")
		defer span.End()

		span.SetAttributes(attribute.String("http.route", resource))

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "failed to read request body"})
			return
		}

		headers, multiHeaders := splitHeaders(c.Request.Header)
		query, multiQuery := splitHeaders(c.Request.URL.Query())
		if len(query) == 0 {
			query, multiQuery = nil, nil
		}

		var authorizer map[string]any
		if v, ok := c.Get(authorizerContextKey); ok {
			authorizer, _ = v.(map[string]any)
		}

		resp, err := h.albums.Handle(ctx, events.APIGatewayProxyRequest{
			Resource:                        resource,
			Path:                            c.Request.URL.Path,
			HTTPMethod:                      c.Request.Method,
			Headers:                         headers,
			MultiValueHeaders:               multiHeaders,
			QueryStringParameters:           query,
			MultiValueQueryStringParameters: multiQuery,
			PathParameters:                  pathParameters(c),
			Body:                            string(body),
			RequestContext: events.APIGatewayProxyRequestContext{
				AccountID:    h.gateway.accountID,
				ResourcePath: resource,
				Stage:        h.gateway.stage,
				RequestID:    requestID(c),
				APIID:        h.gateway.apiID,
				HTTPMethod:   c.Request.Method,
				Authorizer:   authorizer,
				Identity:     events.APIGatewayRequestIdentity{SourceIP: c.ClientIP()},
			},
		})
		if err != nil {
			tracer.Fail(span, err)
			logger.ErrorContext(ctx, "integration error", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"message": "Internal server error"})
			return
		}

		contentType := "application/json"
		for k, v := range resp.Headers {
			if http.CanonicalHeaderKey(k) == "Content-Type" {
				contentType = v
				continue
			}
			c.Header(k, v)
		}
		c.Data(resp.StatusCode, contentType, []byte(resp.Body))
	}
}

// InvokeAuthorizer runs the authorizer on a raw REQUEST authorizer event, the
// way `sam local invoke` would.
func (h *Handler) InvokeAuthorizer(c *gin.Context) {
	ctx := c.Request.Context()

	var event events.APIGatewayCustomAuthorizerRequestTypeRequest
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	resp, err := h.authorizer.Handle(ctx, event)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"errorMessage": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
