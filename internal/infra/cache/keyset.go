package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/astro-web3/album-api/internal/infra/cognito"
)

const DefaultKeySetCacheSize = 8

// KeySetCache keeps issuer key sets for the life of the execution environment.
// Entries are never refreshed; a new process starts empty.
type KeySetCache struct {
	entries *lru.Cache[string, *cognito.KeySet]
}

var _ cognito.KeySetStore = (*KeySetCache)(nil)

func NewKeySetCache(size int) (*KeySetCache, error) {
	if size <= 0 {
		size = DefaultKeySetCacheSize
	}

	entries, err := lru.New[string, *cognito.KeySet](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create key set cache: %w", err)
	}

	return &KeySetCache{entries: entries}, nil
}

func (c *KeySetCache) Get(_ context.Context, jwksURL string) (*cognito.KeySet, bool) {
	return c.entries.Get(jwksURL)
}

func (c *KeySetCache) Set(_ context.Context, jwksURL string, set *cognito.KeySet) {
	if set == nil {
		return
	}
	c.entries.Add(jwksURL, set)
}

func (c *KeySetCache) Len() int {
	return c.entries.Len()
}
