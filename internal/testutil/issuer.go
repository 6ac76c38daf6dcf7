// Package testutil provides a fake token issuer for tests.
package testutil

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/astro-web3/album-api/internal/infra/cognito"
)

const DefaultKeyID = "test-key-1"

// Issuer serves a JWKS document from an httptest server and signs tokens
// with the matching private key.
type Issuer struct {
	URL   string
	KeyID string

	key     *rsa.PrivateKey
	fetches atomic.Int32
	status  atomic.Int32
}

func NewIssuer(t testing.TB) *Issuer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	iss := &Issuer{KeyID: DefaultKeyID, key: key}
	iss.status.Store(http.StatusOK)

	body, err := json.Marshal(jose.JSONWebKeySet{Keys: []jose.JSONWebKey{iss.PublicKey()}})
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/jwks.json", func(w http.ResponseWriter, _ *http.Request) {
		iss.fetches.Add(1)
		status := int(iss.status.Load())
		if status != http.StatusOK {
			http.Error(w, "unavailable", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	iss.URL = srv.URL

	return iss
}

// PublicKey is the JWK the issuer publishes.
func (i *Issuer) PublicKey() jose.JSONWebKey {
	return jose.JSONWebKey{
		Key:       &i.key.PublicKey,
		KeyID:     i.KeyID,
		Algorithm: string(jose.RS256),
		Use:       "sig",
	}
}

// Fetches is the number of JWKS requests served so far.
func (i *Issuer) Fetches() int {
	return int(i.fetches.Load())
}

// FailWith makes the JWKS endpoint answer with status from now on.
func (i *Issuer) FailWith(status int) {
	i.status.Store(int32(status))
}

// Claims returns a valid claim set for sub issued by this issuer.
func (i *Issuer) Claims(sub string) cognito.Claims {
	now := time.Now()
	return cognito.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.URL,
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		TokenUse: "id",
		Username: sub,
	}
}

// Token signs a valid token for sub.
func (i *Issuer) Token(t testing.TB, sub string) string {
	t.Helper()
	return i.Sign(t, i.Claims(sub))
}

// Sign signs claims with the issuer key under its published kid.
func (i *Issuer) Sign(t testing.TB, claims cognito.Claims) string {
	t.Helper()
	return SignRS256(t, i.key, i.KeyID, claims)
}

// SignRS256 signs claims with an arbitrary key and kid.
func SignRS256(t testing.TB, key *rsa.PrivateKey, kid string, claims cognito.Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

// Verifier returns a verifier for this issuer backed by store.
func (i *Issuer) Verifier(t testing.TB, store cognito.KeySetStore) *cognito.Verifier {
	t.Helper()

	v, err := cognito.NewVerifier(cognito.Config{IssuerURL: i.URL}, cognito.NewClient(), store)
	require.NoError(t, err)
	return v
}

// MapStore is a plain map KeySetStore for tests that need to inspect or
// pre-populate the cache.
type MapStore map[string]*cognito.KeySet

func (m MapStore) Get(_ context.Context, jwksURL string) (*cognito.KeySet, bool) {
	set, ok := m[jwksURL]
	return set, ok
}

func (m MapStore) Set(_ context.Context, jwksURL string, set *cognito.KeySet) {
	m[jwksURL] = set
}
