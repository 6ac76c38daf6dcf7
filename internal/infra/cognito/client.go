package cognito

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	httpclient "github.com/astro-web3/album-api/pkg/http"
	"github.com/astro-web3/album-api/pkg/logger"
)

const (
	jwksPath  = "/.well-known/jwks.json"
	userAgent = "album-api-authorizer"
)

// KeySetFetcher loads an issuer's signing keys over the network.
type KeySetFetcher interface {
	FetchKeySet(ctx context.Context, jwksURL string) (*KeySet, error)
}

type client struct{}

func NewClient() KeySetFetcher {
	return &client{}
}

// IssuerURL is the token issuer of a Cognito user pool.
func IssuerURL(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
}

// JWKSURL is where an issuer publishes its signing keys.
func JWKSURL(issuer string) string {
	return strings.TrimSuffix(issuer, "/") + jwksPath
}

func (c *client) FetchKeySet(ctx context.Context, jwksURL string) (*KeySet, error) {
	resp, err := httpclient.Get(ctx, jwksURL, httpclient.WithHeader("User-Agent", userAgent))
	if err != nil {
		return nil, &KeySetFetchError{URL: jwksURL, Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &KeySetFetchError{
			URL: jwksURL,
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode()),
		}
	}

	set, err := ParseKeySet(resp.Body())
	if err != nil {
		return nil, &KeySetFetchError{URL: jwksURL, Err: err}
	}

	logger.InfoContext(ctx, "key set fetched",
		slog.String("jwks_url", jwksURL),
		slog.Any("key_ids", set.KeyIDs()),
	)

	return set, nil
}

func asFetchError(jwksURL string, err error) *KeySetFetchError {
	var fetchErr *KeySetFetchError
	if errors.As(err, &fetchErr) {
		return fetchErr
	}
	return &KeySetFetchError{URL: jwksURL, Err: err}
}
