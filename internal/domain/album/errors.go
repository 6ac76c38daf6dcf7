package album

import "errors"

var (
	ErrAlbumNotFound   = errors.New("album not found")
	ErrMissingAlbumID  = errors.New("missing album id")
	ErrMissingArtist   = errors.New("missing artist name")
	ErrMissingBody     = errors.New("missing request body")
	ErrInvalidAlbum    = errors.New("album does not match schema")
	ErrUnauthenticated = errors.New("unauthenticated request")
	ErrMissingSubject  = errors.New("user id is missing from token")
	ErrForbidden       = errors.New("only the creator may update this album")
)
