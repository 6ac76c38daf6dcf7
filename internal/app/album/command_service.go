package album

import (
	"context"
	"log/slog"

	albumdomain "github.com/astro-web3/album-api/internal/domain/album"
	"github.com/astro-web3/album-api/pkg/logger"
	"github.com/astro-web3/album-api/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

type CommandService struct {
	domainService albumdomain.Service
}

func NewCommandService(domainService albumdomain.Service) *CommandService {
	return &CommandService{
		domainService: domainService,
	}
}

func (s *CommandService) AddAlbum(
	ctx context.Context,
	cookieHeader string,
	a *albumdomain.Album,
) (*albumdomain.Album, error) {
	ctx, span := tracer.Start(ctx, "app.album.AddAlbum")
	defer span.End()

	if a != nil {
		span.SetAttributes(
			attribute.Int("album.id", a.ID),
			attribute.String("album.artist", a.Artist),
		)
	}

	created, err := s.domainService.AddAlbum(ctx, cookieHeader, a)
	if err != nil {
		tracer.Fail(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("album.user_id", created.UserID))
	return created, nil
}

func (s *CommandService) UpdateAlbum(
	ctx context.Context,
	cookieHeader string,
	id int,
	artist string,
	u albumdomain.Update,
) (*albumdomain.Album, error) {
	ctx, span := tracer.Start(ctx, "app.album.UpdateAlbum")
	defer span.End()

	span.SetAttributes(
		attribute.Int("album.id", id),
		attribute.String("album.artist", artist),
	)

	updated, err := s.domainService.UpdateAlbum(ctx, cookieHeader, id, artist, u)
	if err != nil {
		tracer.Fail(span, err)
		return nil, err
	}

	return updated, nil
}

func (s *CommandService) Seed(ctx context.Context, albums []*albumdomain.Album) error {
	ctx, span := tracer.Start(ctx, "app.album.Seed")
	defer span.End()

	span.SetAttributes(attribute.Int("album.count", len(albums)))
	logger.InfoContext(ctx, "seeding albums", slog.Int("count", len(albums)))

	if err := s.domainService.Seed(ctx, albums); err != nil {
		tracer.Fail(span, err)
		return err
	}

	logger.InfoContext(ctx, "albums seeded", slog.Int("count", len(albums)))
	return nil
}
