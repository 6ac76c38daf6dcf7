package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/astro-web3/album-api/internal/config"
	"github.com/astro-web3/album-api/internal/domain/authz"
	lambdatransport "github.com/astro-web3/album-api/internal/transport/lambda"
	"github.com/astro-web3/album-api/pkg/logger"
)

const authorizerContextKey = "gateway.authorizer"

// Authorizer is the Lambda authorizer the gateway calls for protected routes.
type Authorizer interface {
	Handle(
		ctx context.Context,
		event events.APIGatewayCustomAuthorizerRequestTypeRequest,
	) (events.APIGatewayCustomAuthorizerResponse, error)
}

// Gateway stands in for API Gateway in front of the album handlers: it builds
// method ARNs, invokes the authorizer and caches its policies per identity.
type Gateway struct {
	authorizer Authorizer
	// decisions is nil when the decision cache TTL is zero.
	decisions *expirable.LRU[string, *authz.AuthorizerResponse]
	region    string
	accountID string
	apiID     string
	stage     string
}

func NewGateway(authorizer Authorizer, cfg *config.Config) *Gateway {
	g := &Gateway{
		authorizer: authorizer,
		region:     cfg.AWS.Region,
		accountID:  cfg.Gateway.AccountID,
		apiID:      cfg.Gateway.APIID,
		stage:      cfg.Gateway.Stage,
	}
	if cfg.Gateway.DecisionCacheTTL > 0 {
		g.decisions = expirable.NewLRU[string, *authz.AuthorizerResponse](
			cfg.Gateway.DecisionCacheSize,
			nil,
			cfg.Gateway.DecisionCacheTTL,
		)
	}
	return g
}

// MethodARN is the execute-api ARN of method on path.
func (g *Gateway) MethodARN(method, path string) string {
	return fmt.Sprintf("arn:aws:execute-api:%s:%s:%s/%s/%s/%s",
		g.region, g.accountID, g.apiID, g.stage, method, strings.TrimPrefix(path, "/"))
}

// Authorize guards resource with the authorizer. The cookie header is the
// identity source: without it the request is rejected before the authorizer runs.
func (g *Gateway) Authorize(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		cookie := c.GetHeader("Cookie")
		if cookie == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		arn := g.MethodARN(c.Request.Method, c.Request.URL.Path)

		policy, cached := g.cached(cookie)
		if !cached {
			resp, err := g.authorizer.Handle(ctx, g.authorizerEvent(c, resource, arn))
			if err != nil {
				logger.ErrorContext(ctx, "authorizer error", slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
				return
			}
			policy = lambdatransport.FromEvent(resp)
			g.remember(cookie, policy)
		}

		if !policy.Permits(arn) {
			logger.InfoContext(ctx, "request denied by policy",
				slog.String("method_arn", arn),
				slog.String("principal_id", policy.PrincipalID),
				slog.Bool("cached", cached),
			)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"Message": "User is not authorized to access this resource with an explicit deny",
			})
			return
		}

		authorizer := map[string]any{"principalId": policy.PrincipalID}
		for k, v := range policy.Context {
			authorizer[k] = v
		}
		c.Set(authorizerContextKey, authorizer)
		c.Next()
	}
}

func (g *Gateway) cached(identity string) (*authz.AuthorizerResponse, bool) {
	if g.decisions == nil {
		return nil, false
	}
	return g.decisions.Get(identity)
}

func (g *Gateway) remember(identity string, policy *authz.AuthorizerResponse) {
	if g.decisions == nil {
		return
	}
	g.decisions.Add(identity, policy)
}

func (g *Gateway) authorizerEvent(
	c *gin.Context,
	resource, arn string,
) events.APIGatewayCustomAuthorizerRequestTypeRequest {
	headers, multiHeaders := splitHeaders(c.Request.Header)
	query, multiQuery := splitHeaders(c.Request.URL.Query())

	return events.APIGatewayCustomAuthorizerRequestTypeRequest{
		Type:                            "REQUEST",
		MethodArn:                       arn,
		Resource:                        resource,
		Path:                            c.Request.URL.Path,
		HTTPMethod:                      c.Request.Method,
		Headers:                         headers,
		MultiValueHeaders:               multiHeaders,
		QueryStringParameters:           query,
		MultiValueQueryStringParameters: multiQuery,
		PathParameters:                  pathParameters(c),
		RequestContext: events.APIGatewayCustomAuthorizerRequestTypeRequestContext{
			AccountID:    g.accountID,
			ResourceID:   resource,
			Stage:        g.stage,
			RequestID:    requestID(c),
			ResourcePath: resource,
			HTTPMethod:   c.Request.Method,
			APIID:        g.apiID,
			Identity: events.APIGatewayCustomAuthorizerRequestTypeRequestIdentity{
				SourceIP: c.ClientIP(),
			},
		},
	}
}

// splitHeaders flattens to the last value, as API Gateway does for the
// single-value maps.
func splitHeaders(in map[string][]string) (map[string]string, map[string][]string) {
	single := make(map[string]string, len(in))
	multi := make(map[string][]string, len(in))
	for k, vs := range in {
		if len(vs) == 0 {
			continue
		}
		single[k] = vs[len(vs)-1]
		multi[k] = vs
	}
	return single, multi
}

func pathParameters(c *gin.Context) map[string]string {
	if len(c.Params) == 0 {
		return nil
	}
	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}
	return params
}
