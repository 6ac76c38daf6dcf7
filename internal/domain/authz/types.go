package authz

import "github.com/astro-web3/album-api/internal/infra/cognito"

type Effect string

const (
	EffectAllow Effect = "Allow"
	EffectDeny  Effect = "Deny"
)

const (
	PolicyVersion = "2012-10-17"
	InvokeAction  = "execute-api:Invoke"
	// DenyPrincipal is reported for callers that presented no trusted identity.
	DenyPrincipal     = "user"
	DefaultCookieName = "token"
)

type Statement struct {
	Action   string `json:"Action"`
	Effect   Effect `json:"Effect"`
	Resource string `json:"Resource"`
}

type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// AuthorizerResponse is what the gateway expects back from a custom authorizer.
type AuthorizerResponse struct {
	PrincipalID    string         `json:"principalId"`
	PolicyDocument PolicyDocument `json:"policyDocument"`
	Context        map[string]any `json:"context,omitempty"`
}

// Decision is the outcome of authorizing one request. Claims is only set on Allow.
type Decision struct {
	Effect      Effect
	PrincipalID string
	Reason      string
	Claims      *cognito.Claims
}

// Request carries what the authorizer reads from the incoming gateway event.
type Request struct {
	CookieHeader string
	MethodARN    string
}
