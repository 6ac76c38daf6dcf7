package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astro-web3/album-api/internal/bootstrap"
	"github.com/astro-web3/album-api/internal/config"
	"github.com/astro-web3/album-api/internal/domain/album"
	"github.com/astro-web3/album-api/internal/testutil"
	httptransport "github.com/astro-web3/album-api/internal/transport/http"
)

type countingAuthorizer struct {
	next  httptransport.Authorizer
	calls atomic.Int32
	err   error
}

func (a *countingAuthorizer) Handle(
	ctx context.Context,
	event events.APIGatewayCustomAuthorizerRequestTypeRequest,
) (events.APIGatewayCustomAuthorizerResponse, error) {
	a.calls.Add(1)
	if a.err != nil {
		return events.APIGatewayCustomAuthorizerResponse{}, a.err
	}
	return a.next.Handle(ctx, event)
}

func createTestConfig(ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.AWS.Region = "eu-west-1"
	cfg.Auth.CookieName = "token"
	cfg.Gateway.AccountID = "123456789012"
	cfg.Gateway.APIID = "local"
	cfg.Gateway.Stage = "dev"
	cfg.Gateway.DecisionCacheTTL = ttl
	cfg.Gateway.DecisionCacheSize = 16
	return cfg
}

type gatewayFixture struct {
	iss        *testutil.Issuer
	repo       *testutil.AlbumRepo
	authorizer *countingAuthorizer
	router     *gin.Engine
}

func newGatewayFixture(t *testing.T, ttl time.Duration, albums ...*album.Album) *gatewayFixture {
	t.Helper()

	iss := testutil.NewIssuer(t)
	cfg := createTestConfig(ttl)
	cfg.Auth.IssuerURL = iss.URL

	verifier := iss.Verifier(t, testutil.MapStore{})
	repo := testutil.NewAlbumRepo(albums...)
	authorizer := &countingAuthorizer{next: bootstrap.NewAuthorizer(verifier, cfg)}
	albumsApp := bootstrap.NewAlbums(repo, verifier, cfg)

	gateway := httptransport.NewGateway(authorizer, cfg)
	handler := httptransport.NewHandler(albumsApp.Handler, authorizer, gateway)

	return &gatewayFixture{
		iss:        iss,
		repo:       repo,
		authorizer: authorizer,
		router:     httptransport.NewRouter(handler, gateway, cfg),
	}
}

func (f *gatewayFixture) serve(method, target, cookie, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

const newAlbumBody = `{"id":1009,"artist":"IDLES","title":"Joy as an Act of Resistance","genres":["Punk rock"],"release_date":"31-08-2018"}`

func TestGateway_MethodARN(t *testing.T) {
	g := httptransport.NewGateway(&countingAuthorizer{}, createTestConfig(0))
	assert.Equal(t,
		"arn:aws:execute-api:eu-west-1:123456789012:local/dev/PUT/albums/1000",
		g.MethodARN(http.MethodPut, "/albums/1000"),
	)
}

func TestGateway_OpenRoutes(t *testing.T) {
	f := newGatewayFixture(t, 0)

	for _, target := range []string{"/albums", "/public", "/healthz"} {
		w := f.serve(http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusOK, w.Code, target)
	}
	assert.Zero(t, f.authorizer.calls.Load())
}

func TestGateway_MissingIdentitySource(t *testing.T) {
	f := newGatewayFixture(t, 0)

	w := f.serve(http.MethodPost, "/albums", "", newAlbumBody)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, f.authorizer.calls.Load(), "authorizer is not invoked without a cookie header")
}

func TestGateway_DeniedToken(t *testing.T) {
	f := newGatewayFixture(t, 0)

	w := f.serve(http.MethodPost, "/albums", "token=garbage", newAlbumBody)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, int32(1), f.authorizer.calls.Load())
	assert.Zero(t, f.repo.Len())
}

func TestGateway_AllowedTokenReachesHandler(t *testing.T) {
	f := newGatewayFixture(t, 0)
	cookie := "token=" + f.iss.Token(t, "user-42")

	w := f.serve(http.MethodPost, "/albums", cookie, newAlbumBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	stored, err := f.repo.Get(context.Background(), 1009, "IDLES")
	require.NoError(t, err)
	assert.Equal(t, "user-42", stored.UserID)

	w = f.serve(http.MethodGet, "/albums/1009?artist=IDLES", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []album.Album `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Joy as an Act of Resistance", body.Data[0].Title)
}

func TestGateway_ProtectedSeesPrincipal(t *testing.T) {
	f := newGatewayFixture(t, 0)

	w := f.serve(http.MethodGet, "/protected", "token="+f.iss.Token(t, "user-42"), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"principalId":"user-42"`)
}

func TestGateway_DecisionCache(t *testing.T) {
	tests := []struct {
		name      string
		ttl       time.Duration
		wantCalls int32
	}{
		{name: "disabled", ttl: 0, wantCalls: 3},
		{name: "enabled", ttl: time.Minute, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGatewayFixture(t, tt.ttl)
			cookie := "token=" + f.iss.Token(t, "user-42")

			assert.Equal(t, http.StatusOK, f.serve(http.MethodGet, "/protected", cookie, "").Code)
			assert.Equal(t, http.StatusOK, f.serve(http.MethodGet, "/protected", cookie, "").Code)
			// A different route of the same API is covered by the cached wildcard policy.
			w := f.serve(http.MethodPost, "/albums", cookie, newAlbumBody)
			assert.Equal(t, http.StatusCreated, w.Code)

			assert.Equal(t, tt.wantCalls, f.authorizer.calls.Load())
		})
	}
}

func TestGateway_AuthorizerError(t *testing.T) {
	f := newGatewayFixture(t, time.Minute)
	f.authorizer.err = errors.New("key set unavailable")

	w := f.serve(http.MethodGet, "/protected", "token=anything", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	f.authorizer.err = nil
	w = f.serve(http.MethodGet, "/protected", "token="+f.iss.Token(t, "user-1"), "")
	assert.Equal(t, http.StatusOK, w.Code, "errors are not cached")
}

func TestGateway_UpdateOwnership(t *testing.T) {
	f := newGatewayFixture(t, 0, &album.Album{ID: 1000, Artist: "The Joy Formidable", Title: "The Big Roar", UserID: "owner"})
	body := `{"title":"The Big Roar (Deluxe)"}`

	w := f.serve(http.MethodPut, "/albums/1000?artist=The%20Joy%20Formidable", "token="+f.iss.Token(t, "someone"), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.serve(http.MethodPut, "/albums/1000?artist=The%20Joy%20Formidable", "token="+f.iss.Token(t, "owner"), body)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.serve(http.MethodPut, "/albums/1000", "token="+f.iss.Token(t, "owner"), body)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Missing artist name")
}

func TestHandler_InvokeAuthorizer(t *testing.T) {
	f := newGatewayFixture(t, 0)

	event := events.APIGatewayCustomAuthorizerRequestTypeRequest{
		Type:      "REQUEST",
		MethodArn: "arn:aws:execute-api:eu-west-1:123456789012:local/dev/GET/albums",
		Headers:   map[string]string{"cookie": "token=" + f.iss.Token(t, "user-42")},
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)

	w := f.serve(http.MethodPost, "/authorizer", "", string(data))
	require.Equal(t, http.StatusOK, w.Code)

	var resp events.APIGatewayCustomAuthorizerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user-42", resp.PrincipalID)
	assert.Equal(t, "Allow", resp.PolicyDocument.Statement[0].Effect)
}
