package album

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/astro-web3/album-api/internal/domain/authz"
	"github.com/astro-web3/album-api/internal/infra/cognito"
	"github.com/astro-web3/album-api/pkg/logger"
)

// Authenticator re-verifies the caller's token inside the handlers. The
// gateway decision alone does not prove ownership.
type Authenticator interface {
	Verify(ctx context.Context, raw string) (*cognito.Token, error)
}

type Service interface {
	AddAlbum(ctx context.Context, cookieHeader string, a *Album) (*Album, error)
	GetAlbum(ctx context.Context, id int, artist string) (*Album, error)
	ListAlbums(ctx context.Context) ([]*Album, error)
	UpdateAlbum(ctx context.Context, cookieHeader string, id int, artist string, u Update) (*Album, error)
	Seed(ctx context.Context, albums []*Album) error
}

type service struct {
	repo       Repository
	auth       Authenticator
	cookieName string
}

func NewService(repo Repository, auth Authenticator, cookieName string) Service {
	if cookieName == "" {
		cookieName = authz.DefaultCookieName
	}
	return &service{
		repo:       repo,
		auth:       auth,
		cookieName: cookieName,
	}
}

func (s *service) AddAlbum(ctx context.Context, cookieHeader string, a *Album) (*Album, error) {
	sub, err := s.subject(ctx, cookieHeader)
	if err != nil {
		return nil, err
	}

	if a == nil {
		return nil, ErrMissingBody
	}
	if err := Validate(a); err != nil {
		return nil, err
	}

	item := *a
	item.UserID = sub

	if err := s.repo.Put(ctx, &item); err != nil {
		return nil, fmt.Errorf("failed to put album: %w", err)
	}

	logger.InfoContext(ctx, "album added",
		slog.Int("album_id", item.ID),
		slog.String("artist", item.Artist),
		slog.String("user_id", sub),
	)
	return &item, nil
}

func (s *service) GetAlbum(ctx context.Context, id int, artist string) (*Album, error) {
	if id <= 0 {
		return nil, ErrMissingAlbumID
	}
	if artist == "" {
		return nil, ErrMissingArtist
	}
	return s.repo.Get(ctx, id, artist)
}

func (s *service) ListAlbums(ctx context.Context) ([]*Album, error) {
	albums, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	if albums == nil {
		albums = []*Album{}
	}
	return albums, nil
}

func (s *service) UpdateAlbum(
	ctx context.Context,
	cookieHeader string,
	id int,
	artist string,
	u Update,
) (*Album, error) {
	if id <= 0 {
		return nil, ErrMissingAlbumID
	}
	if artist == "" {
		return nil, ErrMissingArtist
	}

	sub, err := s.subject(ctx, cookieHeader)
	if err != nil {
		return nil, err
	}

	if err := Validate(u); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, artist, sub, u)
	if errors.Is(err, ErrForbidden) {
		logger.WarnContext(ctx, "album update refused",
			slog.Int("album_id", id),
			slog.String("artist", artist),
			slog.String("user_id", sub),
		)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "album updated",
		slog.Int("album_id", id),
		slog.String("artist", artist),
	)
	return updated, nil
}

func (s *service) Seed(ctx context.Context, albums []*Album) error {
	for _, a := range albums {
		if err := Validate(a); err != nil {
			return fmt.Errorf("album %d: %w", a.ID, err)
		}
	}
	if err := s.repo.BatchPut(ctx, albums); err != nil {
		return fmt.Errorf("failed to seed albums: %w", err)
	}
	return nil
}

// subject returns the verified sub of the token cookie.
func (s *service) subject(ctx context.Context, cookieHeader string) (string, error) {
	raw, ok := authz.ParseCookies(cookieHeader).Get(s.cookieName)
	if !ok || raw == "" {
		return "", ErrUnauthenticated
	}

	token, err := s.auth.Verify(ctx, raw)
	if err != nil {
		if errors.Is(err, cognito.ErrKeySetUnavailable) {
			return "", err
		}
		logger.WarnContext(ctx, "token rejected", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if token.Subject() == "" {
		return "", ErrMissingSubject
	}
	return token.Subject(), nil
}
