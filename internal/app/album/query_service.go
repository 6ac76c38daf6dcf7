package album

import (
	"context"

	albumdomain "github.com/astro-web3/album-api/internal/domain/album"
	"github.com/astro-web3/album-api/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

type QueryService struct {
	domainService albumdomain.Service
}

func NewQueryService(domainService albumdomain.Service) *QueryService {
	return &QueryService{
		domainService: domainService,
	}
}

func (s *QueryService) GetAlbum(ctx context.Context, id int, artist string) (*albumdomain.Album, error) {
	ctx, span := tracer.Start(ctx, "app.album.GetAlbum")
	defer span.End()

	span.SetAttributes(
		attribute.Int("album.id", id),
		attribute.String("album.artist", artist),
	)

	a, err := s.domainService.GetAlbum(ctx, id, artist)
	if err != nil {
		tracer.Fail(span, err)
		return nil, err
	}
	return a, nil
}

func (s *QueryService) ListAlbums(ctx context.Context) ([]*albumdomain.Album, error) {
	ctx, span := tracer.Start(ctx, "app.album.ListAlbums")
	defer span.End()

	albums, err := s.domainService.ListAlbums(ctx)
	if err != nil {
		tracer.Fail(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("album.count", len(albums)))
	return albums, nil
}
