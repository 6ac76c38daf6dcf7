package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/astro-web3/album-api/internal/domain/album"
)

type albumKey struct {
	id     int
	artist string
}

// AlbumRepo is an in-memory album.Repository.
type AlbumRepo struct {
	mu      sync.Mutex
	items   map[albumKey]album.Album
	Updates int
	// Err, when set, is returned by every call.
	Err error
}

var _ album.Repository = (*AlbumRepo)(nil)

func NewAlbumRepo(albums ...*album.Album) *AlbumRepo {
	r := &AlbumRepo{items: map[albumKey]album.Album{}}
	for _, a := range albums {
		r.items[albumKey{a.ID, a.Artist}] = *a
	}
	return r
}

func (r *AlbumRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *AlbumRepo) Put(_ context.Context, a *album.Album) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.items[albumKey{a.ID, a.Artist}] = *a
	return nil
}

func (r *AlbumRepo) Get(_ context.Context, id int, artist string) (*album.Album, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	a, ok := r.items[albumKey{id, artist}]
	if !ok {
		return nil, album.ErrAlbumNotFound
	}
	return &a, nil
}

// List returns albums ordered by id.
func (r *AlbumRepo) List(context.Context) ([]*album.Album, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*album.Album, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AlbumRepo) Update(
	_ context.Context,
	id int,
	artist, owner string,
	u album.Update,
) (*album.Album, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	a, ok := r.items[albumKey{id, artist}]
	if !ok {
		return nil, album.ErrAlbumNotFound
	}
	if !a.OwnedBy(owner) {
		return nil, album.ErrForbidden
	}
	a.Apply(u)
	r.items[albumKey{id, artist}] = a
	r.Updates++
	return &a, nil
}

func (r *AlbumRepo) BatchPut(ctx context.Context, albums []*album.Album) error {
	for _, a := range albums {
		if err := r.Put(ctx, a); err != nil {
			return err
		}
	}
	return nil
}
