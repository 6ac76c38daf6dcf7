package authz

import (
	"context"

	"github.com/astro-web3/album-api/internal/domain/authz"
	"github.com/astro-web3/album-api/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

type Service interface {
	Authorize(ctx context.Context, req authz.Request) (*authz.AuthorizerResponse, error)
}

type service struct {
	domainService authz.Service
}

func NewService(domainService authz.Service) Service {
	return &service{
		domainService: domainService,
	}
}

// Authorize returns the policy for req. The error is non-nil only when the
// caller's identity could not be checked at all.
func (s *service) Authorize(ctx context.Context, req authz.Request) (*authz.AuthorizerResponse, error) {
	ctx, span := tracer.Start(ctx, "app.authz.Authorize")
	defer span.End()

	span.SetAttributes(
		attribute.String("authz.method_arn", req.MethodARN),
		attribute.Bool("authz.cookie_present", req.CookieHeader != ""),
	)

	decision, err := s.domainService.Authorize(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if decision.Allowed() {
		span.SetAttributes(
			attribute.Bool("authz.allowed", true),
			attribute.String("authz.principal_id", decision.PrincipalID),
		)
	} else {
		span.SetAttributes(
			attribute.Bool("authz.allowed", false),
			attribute.String("authz.reason", decision.Reason),
		)
	}

	return decision.Policy(req.MethodARN), nil
}
