// Package response shapes album results and errors into the JSON bodies and
// status codes both the Lambda and the local HTTP transports return.
package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/astro-web3/album-api/internal/domain/album"
)

// Response is a status code plus a JSON-serialisable body.
type Response struct {
	Status int
	Body   any
}

type Message struct {
	Message string `json:"message"`
}

// NotFound bodies keep the capitalised key existing clients read.
type NotFound struct {
	Message string `json:"Message"`
}

type Error struct {
	Error string `json:"error"`
}

type Data struct {
	Data []*album.Album `json:"data"`
}

type Added struct {
	Message string       `json:"message"`
	Body    *album.Album `json:"body"`
}

type Updated struct {
	Message           string         `json:"message"`
	UpdatedAttributes map[string]any `json:"updatedAttributes"`
}

type Principal struct {
	Message     string `json:"message"`
	PrincipalID string `json:"principalId"`
}

func OK(albums ...*album.Album) Response {
	if albums == nil {
		albums = []*album.Album{}
	}
	return Response{Status: http.StatusOK, Body: Data{Data: albums}}
}

func Created(a *album.Album) Response {
	return Response{Status: http.StatusCreated, Body: Added{Message: "Album added", Body: a}}
}

func AlbumUpdated(a *album.Album) Response {
	return Response{Status: http.StatusOK, Body: Updated{Message: "Album updated", UpdatedAttributes: a.Mutable().Attributes()}}
}

func Text(status int, msg string) Response {
	return Response{Status: status, Body: Message{Message: msg}}
}

// FromError maps a handler error onto its status code. Anything unrecognised
// is a 500 whose body does not echo internal detail.
func FromError(err error) Response {
	switch {
	case errors.Is(err, album.ErrMissingAlbumID):
		return Response{Status: http.StatusNotFound, Body: NotFound{Message: "Missing album Id"}}
	case errors.Is(err, album.ErrMissingArtist):
		return Response{Status: http.StatusNotFound, Body: NotFound{Message: "Missing artist name"}}
	case errors.Is(err, album.ErrAlbumNotFound):
		return Response{Status: http.StatusNotFound, Body: NotFound{Message: "Album not found"}}
	case errors.Is(err, album.ErrMissingBody):
		return Text(http.StatusBadRequest, "Missing request body")
	case errors.Is(err, album.ErrInvalidAlbum):
		return Text(http.StatusBadRequest, schemaMessage(err))
	case errors.Is(err, album.ErrMissingSubject):
		return Text(http.StatusBadRequest, "User ID is missing from token")
	case errors.Is(err, album.ErrUnauthenticated):
		return Text(http.StatusUnauthorized, "Unauthorised request")
	case errors.Is(err, album.ErrForbidden):
		return Text(http.StatusForbidden, "Only the creator may update this album")
	default:
		return Response{Status: http.StatusInternalServerError, Body: Error{Error: "internal server error"}}
	}
}

// InvalidBody is returned when the request body is not JSON at all.
func InvalidBody(err error) Response {
	return Text(http.StatusBadRequest, "Incorrect type. Must match album schema: "+err.Error())
}

func schemaMessage(err error) string {
	detail := strings.TrimPrefix(err.Error(), album.ErrInvalidAlbum.Error())
	detail = strings.TrimPrefix(detail, ": ")
	if detail == "" {
		return "Incorrect type. Must match album schema."
	}
	return "Incorrect type. Must match album schema: " + detail
}
