package lambda

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	authzapp "github.com/astro-web3/album-api/internal/app/authz"
	"github.com/astro-web3/album-api/internal/domain/authz"
	"github.com/astro-web3/album-api/pkg/logger"
	"github.com/astro-web3/album-api/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

// AuthorizerHandler serves API Gateway REQUEST authorizer events.
type AuthorizerHandler struct {
	appService authzapp.Service
}

func NewAuthorizerHandler(appService authzapp.Service) *AuthorizerHandler {
	return &AuthorizerHandler{appService: appService}
}

// Handle always answers with a policy unless the issuer's key set could not be
// loaded, in which case the error makes the gateway respond 500.
func (h *AuthorizerHandler) Handle(
	ctx context.Context,
	event events.APIGatewayCustomAuthorizerRequestTypeRequest,
) (events.APIGatewayCustomAuthorizerResponse, error) {
	defer flushTraces(ctx)

	ctx, span := tracer.Start(ctx, "transport.lambda.Authorize")
	defer span.End()

	span.SetAttributes(
		attribute.String("http.method", event.HTTPMethod),
		attribute.String("http.route", event.Resource),
	)

	logger.InfoContext(ctx, "authorizer event",
		slog.String("type", event.Type),
		slog.String("method_arn", event.MethodArn),
		slog.String("http_method", event.HTTPMethod),
		slog.String("path", event.Path),
		slog.String("source_ip", event.RequestContext.Identity.SourceIP),
	)

	resp, err := h.appService.Authorize(ctx, authz.Request{
		CookieHeader: authorizerCookie(event),
		MethodARN:    event.MethodArn,
	})
	if err != nil {
		tracer.Fail(span, err)
		logger.ErrorContext(ctx, "authorizer failed", slog.String("error", err.Error()))
		return events.APIGatewayCustomAuthorizerResponse{}, err
	}

	return ToEvent(resp), nil
}

// ToEvent converts a policy into the aws-lambda-go response type.
func ToEvent(resp *authz.AuthorizerResponse) events.APIGatewayCustomAuthorizerResponse {
	statements := make([]events.IAMPolicyStatement, 0, len(resp.PolicyDocument.Statement))
	for _, st := range resp.PolicyDocument.Statement {
		statements = append(statements, events.IAMPolicyStatement{
			Action:   []string{st.Action},
			Effect:   string(st.Effect),
			Resource: []string{st.Resource},
		})
	}

	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: resp.PrincipalID,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version:   resp.PolicyDocument.Version,
			Statement: statements,
		},
		Context: resp.Context,
	}
}

// FromEvent is the inverse of ToEvent. Multi-valued statements are flattened.
func FromEvent(resp events.APIGatewayCustomAuthorizerResponse) *authz.AuthorizerResponse {
	out := &authz.AuthorizerResponse{
		PrincipalID: resp.PrincipalID,
		PolicyDocument: authz.PolicyDocument{
			Version: resp.PolicyDocument.Version,
		},
		Context: resp.Context,
	}
	for _, st := range resp.PolicyDocument.Statement {
		for _, action := range st.Action {
			for _, resource := range st.Resource {
				out.PolicyDocument.Statement = append(out.PolicyDocument.Statement, authz.Statement{
					Action:   action,
					Effect:   authz.Effect(st.Effect),
					Resource: resource,
				})
			}
		}
	}
	return out
}

func authorizerCookie(event events.APIGatewayCustomAuthorizerRequestTypeRequest) string {
	return cookieHeader(event.Headers, event.MultiValueHeaders)
}

func cookieHeader(headers map[string]string, multi map[string][]string) string {
	if v, ok := authz.CookieHeader(headers); ok {
		return v
	}
	for k, vs := range multi {
		if strings.EqualFold(k, "cookie") {
			return strings.Join(vs, "; ")
		}
	}
	return ""
}
