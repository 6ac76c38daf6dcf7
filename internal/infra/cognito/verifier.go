package cognito

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the claim set of a Cognito ID or access token.
type Claims struct {
	jwt.RegisteredClaims
	TokenUse string `json:"token_use,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Username string `json:"cognito:username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Token is a verified bearer token. It belongs to the request that verified it.
type Token struct {
	Raw       string
	KeyID     string
	Algorithm string
	Claims    Claims
}

func (t *Token) Subject() string {
	if t == nil {
		return ""
	}
	return t.Claims.Subject
}

type Config struct {
	Region     string
	UserPoolID string
	// IssuerURL replaces the issuer derived from Region and UserPoolID.
	IssuerURL string
	// ClientID, when set, must appear in aud (ID tokens) or client_id (access tokens).
	ClientID string
	Leeway   time.Duration
}

// Verifier checks tokens against the issuer's published key set.
// Key sets are fetched on first use and kept in the injected store.
type Verifier struct {
	issuer   string
	jwksURL  string
	clientID string
	fetcher  KeySetFetcher
	keySets  KeySetStore
	parser   *jwt.Parser
}

func NewVerifier(cfg Config, fetcher KeySetFetcher, keySets KeySetStore) (*Verifier, error) {
	issuer := cfg.IssuerURL
	if issuer == "" {
		if cfg.Region == "" || cfg.UserPoolID == "" {
			return nil, ErrMissingIssuer
		}
		issuer = IssuerURL(cfg.Region, cfg.UserPoolID)
	}
	issuer = strings.TrimSuffix(issuer, "/")

	if fetcher == nil || keySets == nil {
		return nil, errors.New("cognito: key set fetcher and store are required")
	}

	return &Verifier{
		issuer:   issuer,
		jwksURL:  JWKSURL(issuer),
		clientID: cfg.ClientID,
		fetcher:  fetcher,
		keySets:  keySets,
		parser: jwt.NewParser(
			jwt.WithIssuer(issuer),
			jwt.WithIssuedAt(),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(cfg.Leeway),
		),
	}, nil
}

func (v *Verifier) Issuer() string {
	return v.issuer
}

// Verify returns the token's claims when its signature and claims check out.
// A rejected token yields *AuthenticationError; an unreachable key set yields
// *KeySetFetchError.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Token, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, authFailure("token is empty", nil)
	}

	claims := &Claims{}
	var keyID string
	parsed, err := v.parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		keyID, _ = t.Header["kid"].(string)
		return v.keyFor(ctx, keyID, t.Method.Alg())
	})
	if err != nil {
		var fetchErr *KeySetFetchError
		if errors.As(err, &fetchErr) {
			return nil, fetchErr
		}
		var authErr *AuthenticationError
		if errors.As(err, &authErr) {
			return nil, authErr
		}
		return nil, authFailure("invalid token", err)
	}

	if claims.Subject == "" {
		return nil, authFailure("token has no sub claim", nil)
	}
	if v.clientID != "" && !claims.issuedFor(v.clientID) {
		return nil, authFailure("token was not issued for this client", nil)
	}

	return &Token{
		Raw:       raw,
		KeyID:     keyID,
		Algorithm: parsed.Method.Alg(),
		Claims:    *claims,
	}, nil
}

func (v *Verifier) keyFor(ctx context.Context, kid, alg string) (any, error) {
	if kid == "" {
		return nil, authFailure("token header has no kid", nil)
	}

	set, err := v.keySet(ctx)
	if err != nil {
		return nil, err
	}

	key, ok := set.Key(kid)
	if !ok {
		return nil, authFailure("unknown kid "+kid, nil)
	}

	return verificationKey(key, alg)
}

func (v *Verifier) keySet(ctx context.Context) (*KeySet, error) {
	if set, ok := v.keySets.Get(ctx, v.jwksURL); ok {
		return set, nil
	}

	// Concurrent cold starts may both fetch; the last one stored wins.
	set, err := v.fetcher.FetchKeySet(ctx, v.jwksURL)
	if err != nil {
		return nil, asFetchError(v.jwksURL, err)
	}

	v.keySets.Set(ctx, v.jwksURL, set)
	return set, nil
}

func (c *Claims) issuedFor(clientID string) bool {
	return c.ClientID == clientID || slices.Contains(c.Audience, clientID)
}
