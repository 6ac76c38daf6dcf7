package lambda_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	albumapp "github.com/astro-web3/album-api/internal/app/album"
	authzapp "github.com/astro-web3/album-api/internal/app/authz"
	"github.com/astro-web3/album-api/internal/domain/album"
	"github.com/astro-web3/album-api/internal/domain/authz"
	"github.com/astro-web3/album-api/internal/infra/cognito"
	"github.com/astro-web3/album-api/internal/testutil"
	lambdatransport "github.com/astro-web3/album-api/internal/transport/lambda"
)

const methodARN = "arn:aws:execute-api:eu-west-1:123456789012:abc123/dev/GET/albums"

func newAuthorizer(t *testing.T, iss *testutil.Issuer) *lambdatransport.AuthorizerHandler {
	t.Helper()
	domain := authz.NewService(iss.Verifier(t, testutil.MapStore{}), "token")
	return lambdatransport.NewAuthorizerHandler(authzapp.NewService(domain))
}

func authorizerEvent(headers map[string]string) events.APIGatewayCustomAuthorizerRequestTypeRequest {
	return events.APIGatewayCustomAuthorizerRequestTypeRequest{
		Type:       "REQUEST",
		MethodArn:  methodARN,
		Resource:   "/albums",
		Path:       "/albums",
		HTTPMethod: http.MethodGet,
		Headers:    headers,
	}
}

func TestAuthorizerHandler_Allow(t *testing.T) {
	iss := testutil.NewIssuer(t)
	h := newAuthorizer(t, iss)

	resp, err := h.Handle(context.Background(), authorizerEvent(map[string]string{
		"Cookie": "token=" + iss.Token(t, "user-42"),
	}))
	require.NoError(t, err)

	assert.Equal(t, "user-42", resp.PrincipalID)
	assert.Equal(t, "2012-10-17", resp.PolicyDocument.Version)
	require.Len(t, resp.PolicyDocument.Statement, 1)
	st := resp.PolicyDocument.Statement[0]
	assert.Equal(t, "Allow", st.Effect)
	assert.Equal(t, []string{"execute-api:Invoke"}, st.Action)
	assert.Equal(t, []string{"arn:aws:execute-api:eu-west-1:123456789012:abc123/dev/*"}, st.Resource)
	assert.Equal(t, "user-42", resp.Context["sub"])
}

func TestAuthorizerHandler_Deny(t *testing.T) {
	iss := testutil.NewIssuer(t)
	h := newAuthorizer(t, iss)

	for name, headers := range map[string]map[string]string{
		"no headers":    nil,
		"no token":      {"cookie": "lang=en"},
		"garbage token": {"cookie": "token=garbage"},
	} {
		t.Run(name, func(t *testing.T) {
			resp, err := h.Handle(context.Background(), authorizerEvent(headers))
			require.NoError(t, err)
			assert.Equal(t, "user", resp.PrincipalID)
			assert.Equal(t, "Deny", resp.PolicyDocument.Statement[0].Effect)
			assert.Equal(t, []string{"arn:aws:execute-api:eu-west-1:123456789012:abc123/dev/*"}, resp.PolicyDocument.Statement[0].Resource)
		})
	}
}

func TestAuthorizerHandler_MultiValueCookie(t *testing.T) {
	iss := testutil.NewIssuer(t)
	h := newAuthorizer(t, iss)

	event := authorizerEvent(nil)
	event.MultiValueHeaders = map[string][]string{
		"Cookie": {"lang=en", "token=" + iss.Token(t, "user-7")},
	}

	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "user-7", resp.PrincipalID)
}

func TestAuthorizerHandler_KeySetUnavailable(t *testing.T) {
	iss := testutil.NewIssuer(t)
	h := newAuthorizer(t, iss)
	cookie := "token=" + iss.Token(t, "user-42")
	iss.FailWith(http.StatusInternalServerError)

	_, err := h.Handle(context.Background(), authorizerEvent(map[string]string{"cookie": cookie}))
	assert.ErrorIs(t, err, cognito.ErrKeySetUnavailable)
}

func TestFromEvent_Permits(t *testing.T) {
	policy := authz.BuildPolicy("user-42", authz.EffectAllow, methodARN)
	back := lambdatransport.FromEvent(lambdatransport.ToEvent(policy))

	assert.Equal(t, policy.PrincipalID, back.PrincipalID)
	assert.True(t, back.Permits("arn:aws:execute-api:eu-west-1:123456789012:abc123/dev/PUT/albums/1000"))
}

type albumsFixture struct {
	iss     *testutil.Issuer
	repo    *testutil.AlbumRepo
	handler *lambdatransport.AlbumsHandler
}

func newAlbumsFixture(t *testing.T, albums ...*album.Album) *albumsFixture {
	t.Helper()
	iss := testutil.NewIssuer(t)
	repo := testutil.NewAlbumRepo(albums...)
	domain := album.NewService(repo, iss.Verifier(t, testutil.MapStore{}), "token")
	return &albumsFixture{
		iss:  iss,
		repo: repo,
		handler: lambdatransport.NewAlbumsHandler(
			albumapp.NewCommandService(domain),
			albumapp.NewQueryService(domain),
		),
	}
}

func (f *albumsFixture) do(t *testing.T, req events.APIGatewayProxyRequest) (int, map[string]any) {
	t.Helper()
	resp, err := f.handler.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	return resp.StatusCode, body
}

func loveless() *album.Album {
	return &album.Album{
		ID:          1002,
		Artist:      "my bloody valentine",
		Title:       "loveless",
		Genres:      []string{"Shoegaze"},
		ReleaseDate: "04-11-1991",
		UserID:      "owner",
	}
}

func TestAlbumsHandler_List(t *testing.T) {
	f := newAlbumsFixture(t, loveless())

	status, body := f.do(t, events.APIGatewayProxyRequest{Resource: "/albums", HTTPMethod: http.MethodGet})
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, body["data"], 1)
}

func TestAlbumsHandler_Get(t *testing.T) {
	f := newAlbumsFixture(t, loveless())

	tests := []struct {
		name    string
		path    map[string]string
		query   map[string]string
		status  int
		message string
	}{
		{"found", map[string]string{"albumId": "1002"}, map[string]string{"artist": "my bloody valentine"}, http.StatusOK, ""},
		{"missing id", nil, map[string]string{"artist": "my bloody valentine"}, http.StatusNotFound, "Missing album Id"},
		{"missing artist", map[string]string{"albumId": "1002"}, nil, http.StatusNotFound, "Missing artist name"},
		{"unknown", map[string]string{"albumId": "1"}, map[string]string{"artist": "x"}, http.StatusNotFound, "Album not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := f.do(t, events.APIGatewayProxyRequest{
				Resource:              "/albums/{albumId}",
				HTTPMethod:            http.MethodGet,
				PathParameters:        tt.path,
				QueryStringParameters: tt.query,
			})
			assert.Equal(t, tt.status, status)
			if tt.message != "" {
				assert.Equal(t, tt.message, body["Message"])
			}
		})
	}
}

func TestAlbumsHandler_Add(t *testing.T) {
	f := newAlbumsFixture(t)
	body := `{"id":1011,"artist":"Jane Remover","title":"Census Designated","genres":["Shoegaze"],"release_date":"20-10-2023"}`

	status, resp := f.do(t, events.APIGatewayProxyRequest{
		Resource:   "/albums",
		HTTPMethod: http.MethodPost,
		Headers:    map[string]string{"Cookie": "token=" + f.iss.Token(t, "user-42")},
		Body:       body,
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Album added", resp["message"])
	assert.Equal(t, "user-42", resp["body"].(map[string]any)["userId"])
	assert.Equal(t, 1, f.repo.Len())
}

func TestAlbumsHandler_AddRejects(t *testing.T) {
	f := newAlbumsFixture(t)
	cookie := map[string]string{"Cookie": "token=" + f.iss.Token(t, "user-42")}

	tests := []struct {
		name    string
		headers map[string]string
		body    string
		status  int
	}{
		{"no cookie", nil, `{"id":1,"artist":"a","title":"t"}`, http.StatusUnauthorized},
		{"garbage token", map[string]string{"Cookie": "token=garbage"}, `{"id":1,"artist":"a","title":"t"}`, http.StatusUnauthorized},
		{"empty body", cookie, "", http.StatusBadRequest},
		{"not json", cookie, "{", http.StatusBadRequest},
		{"wrong type", cookie, `{"id":"one","artist":"a","title":"t"}`, http.StatusBadRequest},
		{"schema violation", cookie, `{"id":1,"artist":"a"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := f.do(t, events.APIGatewayProxyRequest{
				Resource:   "/albums",
				HTTPMethod: http.MethodPost,
				Headers:    tt.headers,
				Body:       tt.body,
			})
			assert.Equal(t, tt.status, status)
		})
	}
	assert.Zero(t, f.repo.Len())
}

func TestAlbumsHandler_Update(t *testing.T) {
	f := newAlbumsFixture(t, loveless())
	req := func(sub string) events.APIGatewayProxyRequest {
		return events.APIGatewayProxyRequest{
			Resource:              "/albums/{albumId}",
			HTTPMethod:            http.MethodPut,
			PathParameters:        map[string]string{"albumId": "1002"},
			QueryStringParameters: map[string]string{"artist": "my bloody valentine"},
			Headers:               map[string]string{"cookie": "token=" + f.iss.Token(t, sub)},
			Body:                  `{"title":"loveless (remastered)","genres":["Shoegaze","Dream pop"],"release_date":"04-05-2012"}`,
		}
	}

	status, _ := f.do(t, req("intruder"))
	assert.Equal(t, http.StatusForbidden, status)

	status, body := f.do(t, req("owner"))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Album updated", body["message"])
	assert.Equal(t, "loveless (remastered)", body["updatedAttributes"].(map[string]any)["title"])
	assert.Equal(t, 1, f.repo.Updates)
}

func TestAlbumsHandler_Protected(t *testing.T) {
	f := newAlbumsFixture(t)

	status, body := f.do(t, events.APIGatewayProxyRequest{
		Resource:   "/protected",
		HTTPMethod: http.MethodGet,
		RequestContext: events.APIGatewayProxyRequestContext{
			Authorizer: map[string]any{"principalId": "user-42"},
		},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user-42", body["principalId"])
}

func TestAlbumsHandler_UnknownRoute(t *testing.T) {
	f := newAlbumsFixture(t)

	status, _ := f.do(t, events.APIGatewayProxyRequest{Resource: "/nope", HTTPMethod: http.MethodGet})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.do(t, events.APIGatewayProxyRequest{Resource: "/albums", HTTPMethod: http.MethodDelete})
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestAlbumsHandler_StoreFailureIs500(t *testing.T) {
	f := newAlbumsFixture(t)
	f.repo.Err = assert.AnError

	status, body := f.do(t, events.APIGatewayProxyRequest{Resource: "/albums", HTTPMethod: http.MethodGet})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body["error"])
}
