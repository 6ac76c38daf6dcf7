package seed_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astro-web3/album-api/internal/domain/album"
	"github.com/astro-web3/album-api/internal/seed"
	"github.com/astro-web3/album-api/internal/testutil"
)

func TestAlbums_Valid(t *testing.T) {
	albums := seed.Albums()
	require.Len(t, albums, 12)

	keys := make(map[string]struct{}, len(albums))
	for _, a := range albums {
		require.NoError(t, album.Validate(a), "album %d", a.ID)
		assert.Empty(t, a.UserID, "seeded albums have no owner")

		key := fmt.Sprintf("%d/%s", a.ID, a.Artist)
		_, dup := keys[key]
		assert.False(t, dup, "duplicate key %s", key)
		keys[key] = struct{}{}
	}
}

func TestAlbums_FreshCopy(t *testing.T) {
	first := seed.Albums()
	first[0].Title = "changed"

	assert.Equal(t, "The Big Roar", seed.Albums()[0].Title)
}

func TestAlbums_SeedIntoRepository(t *testing.T) {
	repo := testutil.NewAlbumRepo()
	svc := album.NewService(repo, nil, "")

	require.NoError(t, svc.Seed(context.Background(), seed.Albums()))
	assert.Equal(t, 12, repo.Len())

	got, err := svc.GetAlbum(context.Background(), 1005, "Wolf Alice")
	require.NoError(t, err)
	assert.Equal(t, "Blue Weekend", got.Title)
}
