package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	albumapp "github.com/astro-web3/album-api/internal/app/album"
	"github.com/astro-web3/album-api/internal/domain/album"
	"github.com/astro-web3/album-api/internal/transport/response"
	"github.com/astro-web3/album-api/pkg/logger"
	"github.com/astro-web3/album-api/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

// Resource paths as declared on the REST API.
const (
	ResourceAlbums    = "/albums"
	ResourceAlbum     = "/albums/{albumId}"
	ResourceProtected = "/protected"
	ResourcePublic    = "/public"
)

// AlbumsHandler serves the album REST API behind a Lambda proxy integration.
type AlbumsHandler struct {
	commandService *albumapp.CommandService
	queryService   *albumapp.QueryService
}

func NewAlbumsHandler(
	commandService *albumapp.CommandService,
	queryService *albumapp.QueryService,
) *AlbumsHandler {
	return &AlbumsHandler{
		commandService: commandService,
		queryService:   queryService,
	}
}

// Handle never returns an error: every outcome, failures included, is an HTTP
// response.
func (h *AlbumsHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	defer flushTraces(ctx)

	ctx, span := tracer.Start(ctx, "transport.lambda.Albums")
	defer span.End()

	span.SetAttributes(
		attribute.String("http.method", req.HTTPMethod),
		attribute.String("http.route", req.Resource),
	)

	logger.InfoContext(ctx, "proxy event",
		slog.String("http_method", req.HTTPMethod),
		slog.String("resource", req.Resource),
		slog.String("path", req.Path),
		slog.Any("path_parameters", req.PathParameters),
		slog.Any("query", req.QueryStringParameters),
	)

	resp := h.route(ctx, req)
	if resp.Status >= http.StatusInternalServerError {
		span.SetAttributes(attribute.Int("http.status_code", resp.Status))
	}
	return toProxyResponse(resp), nil
}

func (h *AlbumsHandler) route(ctx context.Context, req events.APIGatewayProxyRequest) response.Response {
	switch req.Resource {
	case ResourceAlbums:
		switch req.HTTPMethod {
		case http.MethodGet:
			return h.listAlbums(ctx)
		case http.MethodPost:
			return h.addAlbum(ctx, req)
		}
	case ResourceAlbum:
		switch req.HTTPMethod {
		case http.MethodGet:
			return h.getAlbum(ctx, req)
		case http.MethodPut:
			return h.updateAlbum(ctx, req)
		}
	case ResourceProtected:
		if req.HTTPMethod == http.MethodGet {
			return protected(req)
		}
	case ResourcePublic:
		if req.HTTPMethod == http.MethodGet {
			return response.Text(http.StatusOK, "This is a public resource")
		}
	default:
		return response.Text(http.StatusNotFound, "Not found")
	}
	return response.Text(http.StatusMethodNotAllowed, "Method not allowed")
}

func (h *AlbumsHandler) listAlbums(ctx context.Context) response.Response {
	albums, err := h.queryService.ListAlbums(ctx)
	if err != nil {
		return failure(ctx, err)
	}
	return response.OK(albums...)
}

func (h *AlbumsHandler) getAlbum(ctx context.Context, req events.APIGatewayProxyRequest) response.Response {
	id, artist, err := albumKey(req)
	if err != nil {
		return failure(ctx, err)
	}

	a, err := h.queryService.GetAlbum(ctx, id, artist)
	if err != nil {
		return failure(ctx, err)
	}
	return response.OK(a)
}

func (h *AlbumsHandler) addAlbum(ctx context.Context, req events.APIGatewayProxyRequest) response.Response {
	var in album.Album
	if resp, ok := decodeBody(req, &in); !ok {
		return resp
	}

	created, err := h.commandService.AddAlbum(ctx, requestCookie(req), &in)
	if err != nil {
		return failure(ctx, err)
	}
	return response.Created(created)
}

func (h *AlbumsHandler) updateAlbum(ctx context.Context, req events.APIGatewayProxyRequest) response.Response {
	id, artist, err := albumKey(req)
	if err != nil {
		return failure(ctx, err)
	}

	var u album.Update
	if resp, ok := decodeBody(req, &u); !ok {
		return resp
	}

	updated, err := h.commandService.UpdateAlbum(ctx, requestCookie(req), id, artist, u)
	if err != nil {
		return failure(ctx, err)
	}
	return response.AlbumUpdated(updated)
}

// protected echoes the principal the authorizer let through.
func protected(req events.APIGatewayProxyRequest) response.Response {
	principal, _ := req.RequestContext.Authorizer["principalId"].(string)
	return response.Response{
		Status: http.StatusOK,
		Body: response.Principal{
			Message:     "You are authorized",
			PrincipalID: principal,
		},
	}
}

func albumKey(req events.APIGatewayProxyRequest) (int, string, error) {
	id, err := album.ParseID(req.PathParameters["albumId"])
	if err != nil {
		return 0, "", err
	}
	artist := strings.TrimSpace(req.QueryStringParameters["artist"])
	if artist == "" {
		return 0, "", album.ErrMissingArtist
	}
	return id, artist, nil
}

func decodeBody(req events.APIGatewayProxyRequest, v any) (response.Response, bool) {
	body := req.Body
	if req.IsBase64Encoded && body != "" {
		raw, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return response.InvalidBody(err), false
		}
		body = string(raw)
	}

	if strings.TrimSpace(body) == "" {
		return response.FromError(album.ErrMissingBody), false
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return response.InvalidBody(err), false
	}
	return response.Response{}, true
}

func requestCookie(req events.APIGatewayProxyRequest) string {
	return cookieHeader(req.Headers, req.MultiValueHeaders)
}

func failure(ctx context.Context, err error) response.Response {
	resp := response.FromError(err)
	if resp.Status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed", slog.String("error", err.Error()))
	} else {
		logger.InfoContext(ctx, "request rejected",
			slog.Int("status", resp.Status),
			slog.String("reason", err.Error()),
		)
	}
	return resp
}

func toProxyResponse(resp response.Response) events.APIGatewayProxyResponse {
	body, err := json.Marshal(resp.Body)
	if err != nil {
		resp = response.FromError(fmt.Errorf("failed to encode response: %w", err))
		body, _ = json.Marshal(resp.Body)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: resp.Status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}
}
