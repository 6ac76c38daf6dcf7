package album

import "context"

type CommandRepository interface {
	Put(ctx context.Context, a *Album) error
	// Update applies u only when the album is owned by owner, checked in the
	// same write. It fails with ErrAlbumNotFound when no album has the key and
	// with ErrForbidden when the album belongs to someone else.
	Update(ctx context.Context, id int, artist, owner string, u Update) (*Album, error)
	BatchPut(ctx context.Context, albums []*Album) error
}

type QueryRepository interface {
	// Get fails with ErrAlbumNotFound when no album has the key.
	Get(ctx context.Context, id int, artist string) (*Album, error)
	List(ctx context.Context) ([]*Album, error)
}

type Repository interface {
	CommandRepository
	QueryRepository
}
