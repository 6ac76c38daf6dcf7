package authz

import (
	"context"
	"log/slog"

	"github.com/astro-web3/album-api/internal/infra/cognito"
	"github.com/astro-web3/album-api/pkg/logger"
)

type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*cognito.Token, error)
}

type Service interface {
	Authorize(ctx context.Context, req Request) (*Decision, error)
}

type service struct {
	verifier   TokenVerifier
	cookieName string
}

func NewService(verifier TokenVerifier, cookieName string) Service {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &service{
		verifier:   verifier,
		cookieName: cookieName,
	}
}

func (s *service) Authorize(ctx context.Context, req Request) (*Decision, error) {
	cookies := ParseCookies(req.CookieHeader)
	if cookies == nil {
		return Deny("no cookies"), nil
	}

	raw, ok := cookies.Get(s.cookieName)
	if !ok || raw == "" {
		return Deny("no " + s.cookieName + " cookie"), nil
	}

	token, err := s.verifier.Verify(ctx, raw)
	decision, err := Decide(token, err)
	if err != nil {
		logger.ErrorContext(ctx, "key set unavailable",
			slog.String("method_arn", req.MethodARN),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if !decision.Allowed() {
		logger.WarnContext(ctx, "token rejected",
			slog.String("method_arn", req.MethodARN),
			slog.String("reason", decision.Reason),
		)
		return decision, nil
	}

	attrs := []slog.Attr{
		slog.String("sub", decision.PrincipalID),
		slog.String("username", decision.Claims.Username),
		slog.String("token_use", decision.Claims.TokenUse),
	}
	if exp := decision.Claims.ExpiresAt; exp != nil {
		attrs = append(attrs, slog.Time("expires_at", exp.Time))
	}
	logger.InfoContext(ctx, "token verified", attrs...)
	return decision, nil
}
