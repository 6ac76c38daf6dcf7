package authz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astro-web3/album-api/internal/domain/authz"
	"github.com/astro-web3/album-api/internal/infra/cognito"
	"github.com/astro-web3/album-api/internal/testutil"
)

type mockVerifier struct {
	calls  int
	verify func(raw string) (*cognito.Token, error)
}

func (m *mockVerifier) Verify(_ context.Context, raw string) (*cognito.Token, error) {
	m.calls++
	return m.verify(raw)
}

func TestDecide(t *testing.T) {
	token := &cognito.Token{Claims: cognito.Claims{}}
	token.Claims.Subject = "user-42"

	d, err := authz.Decide(token, nil)
	require.NoError(t, err)
	assert.True(t, d.Allowed())
	assert.Equal(t, "user-42", d.PrincipalID)

	d, err = authz.Decide(nil, &cognito.AuthenticationError{Reason: "expired"})
	require.NoError(t, err)
	assert.False(t, d.Allowed())
	assert.Equal(t, authz.DenyPrincipal, d.PrincipalID)

	d, err = authz.Decide(&cognito.Token{}, nil)
	require.NoError(t, err)
	assert.False(t, d.Allowed(), "a token without sub never allows")

	fetchErr := &cognito.KeySetFetchError{URL: "https://issuer/.well-known/jwks.json", Err: errors.New("timeout")}
	d, err = authz.Decide(nil, fetchErr)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, cognito.ErrKeySetUnavailable)
}

func TestAuthorize_NoCookieDenies(t *testing.T) {
	verifier := &mockVerifier{verify: func(string) (*cognito.Token, error) {
		t.Fatal("verifier must not be called without a token")
		return nil, nil
	}}
	svc := authz.NewService(verifier, "")

	arns := []string{getAlbumsARN, "arn:aws:execute-api:us-east-1:1:x/prod/POST/albums", ""}
	headers := []string{"", "lang=en", "token=", "garbage"}
	for _, arn := range arns {
		for _, h := range headers {
			d, err := svc.Authorize(context.Background(), authz.Request{CookieHeader: h, MethodARN: arn})
			require.NoError(t, err)
			assert.Equal(t, authz.EffectDeny, d.Effect, "header %q", h)
			assert.Equal(t, authz.DenyPrincipal, d.PrincipalID)
		}
	}
	assert.Zero(t, verifier.calls)
}

func TestAuthorize_CustomCookieName(t *testing.T) {
	verifier := &mockVerifier{verify: func(raw string) (*cognito.Token, error) {
		tok := &cognito.Token{Raw: raw}
		tok.Claims.Subject = "sub-" + raw
		return tok, nil
	}}
	svc := authz.NewService(verifier, "session")

	d, err := svc.Authorize(context.Background(), authz.Request{CookieHeader: "token=x; session=abc"})
	require.NoError(t, err)
	assert.True(t, d.Allowed())
	assert.Equal(t, "sub-abc", d.PrincipalID)
}

func TestAuthorize_VerifiedTokenWithoutExpiry(t *testing.T) {
	verifier := &mockVerifier{verify: func(string) (*cognito.Token, error) {
		tok := &cognito.Token{}
		tok.Claims.Subject = "user-42"
		return tok, nil
	}}
	svc := authz.NewService(verifier, "")

	var (
		d   *authz.Decision
		err error
	)
	require.NotPanics(t, func() {
		d, err = svc.Authorize(context.Background(), authz.Request{
			CookieHeader: "token=abc",
			MethodARN:    getAlbumsARN,
		})
	})
	require.NoError(t, err)
	assert.True(t, d.Allowed())
	assert.Equal(t, "user-42", d.PrincipalID)

	policy := d.Policy(getAlbumsARN)
	assert.Equal(t, authz.EffectAllow, policy.Effect())
	assert.True(t, policy.Permits(getAlbumsARN))
}

func TestAuthorize_FetchFailurePropagates(t *testing.T) {
	verifier := &mockVerifier{verify: func(string) (*cognito.Token, error) {
		return nil, &cognito.KeySetFetchError{URL: "u", Err: errors.New("connection refused")}
	}}
	svc := authz.NewService(verifier, "token")

	d, err := svc.Authorize(context.Background(), authz.Request{CookieHeader: "token=abc"})
	assert.Nil(t, d)
	assert.ErrorIs(t, err, cognito.ErrKeySetUnavailable)
}

func TestAuthorize_ValidTokenAllows(t *testing.T) {
	iss := testutil.NewIssuer(t)
	svc := authz.NewService(iss.Verifier(t, testutil.MapStore{}), "token")

	d, err := svc.Authorize(context.Background(), authz.Request{
		CookieHeader: "token=" + iss.Token(t, "user-42"),
		MethodARN:    getAlbumsARN,
	})
	require.NoError(t, err)

	policy := d.Policy(getAlbumsARN)
	assert.Equal(t, "user-42", policy.PrincipalID)
	require.Len(t, policy.PolicyDocument.Statement, 1)
	assert.Equal(t, authz.EffectAllow, policy.PolicyDocument.Statement[0].Effect)
	assert.Equal(t, "arn:aws:execute-api:eu-west-1:123456789012:abc123/dev/*", policy.PolicyDocument.Statement[0].Resource)
	assert.Equal(t, "user-42", policy.Context["sub"])
}

func TestAuthorize_GarbageTokenDenies(t *testing.T) {
	iss := testutil.NewIssuer(t)
	svc := authz.NewService(iss.Verifier(t, testutil.MapStore{}), "token")

	d, err := svc.Authorize(context.Background(), authz.Request{
		CookieHeader: "token=garbage",
		MethodARN:    getAlbumsARN,
	})
	require.NoError(t, err)

	policy := d.Policy(getAlbumsARN)
	assert.Equal(t, "user", policy.PrincipalID)
	assert.Equal(t, authz.EffectDeny, policy.PolicyDocument.Statement[0].Effect)
	assert.Equal(t, "arn:aws:execute-api:eu-west-1:123456789012:abc123/dev/*", policy.PolicyDocument.Statement[0].Resource)
	assert.Nil(t, policy.Context)
}

func TestAuthorize_TokenSignedByOtherIssuerDenies(t *testing.T) {
	trusted := testutil.NewIssuer(t)
	other := testutil.NewIssuer(t)
	svc := authz.NewService(trusted.Verifier(t, testutil.MapStore{}), "token")

	claims := trusted.Claims("user-42")
	d, err := svc.Authorize(context.Background(), authz.Request{
		CookieHeader: "token=" + other.Sign(t, claims),
		MethodARN:    getAlbumsARN,
	})
	require.NoError(t, err)
	assert.Equal(t, authz.EffectDeny, d.Effect)
}
