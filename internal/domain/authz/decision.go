package authz

import (
	"errors"

	"github.com/astro-web3/album-api/internal/infra/cognito"
)

// Decide maps a verification outcome onto Allow or Deny. A rejected or missing
// token is a Deny; an unavailable key set is returned as an error because it
// says nothing about the caller.
func Decide(token *cognito.Token, verifyErr error) (*Decision, error) {
	if verifyErr != nil {
		if errors.Is(verifyErr, cognito.ErrKeySetUnavailable) {
			return nil, verifyErr
		}
		return Deny(verifyErr.Error()), nil
	}
	if token == nil || token.Subject() == "" {
		return Deny("no verified subject"), nil
	}

	claims := token.Claims
	return &Decision{
		Effect:      EffectAllow,
		PrincipalID: token.Subject(),
		Claims:      &claims,
	}, nil
}

func Deny(reason string) *Decision {
	return &Decision{
		Effect:      EffectDeny,
		PrincipalID: DenyPrincipal,
		Reason:      reason,
	}
}

func (d *Decision) Allowed() bool {
	return d != nil && d.Effect == EffectAllow
}

func (d *Decision) Policy(methodARN string) *AuthorizerResponse {
	resp := BuildPolicy(d.PrincipalID, d.Effect, methodARN)
	if d.Allowed() && d.Claims != nil {
		resp.Context = map[string]any{"sub": d.Claims.Subject}
		if d.Claims.Username != "" {
			resp.Context["username"] = d.Claims.Username
		}
		if d.Claims.Email != "" {
			resp.Context["email"] = d.Claims.Email
		}
	}
	return resp
}
