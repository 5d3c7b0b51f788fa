package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/plucktv/plucktv/internal/models"
	"github.com/plucktv/plucktv/internal/service"
)

// PlaylistHandler handles playlist persistence and M3U rendering.
type PlaylistHandler struct {
	service *service.PlaylistService
	logger  *slog.Logger
}

// NewPlaylistHandler creates a new playlist handler.
func NewPlaylistHandler(svc *service.PlaylistService, logger *slog.Logger) *PlaylistHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaylistHandler{service: svc, logger: logger}
}

// Register registers the playlist management routes with the API.
func (h *PlaylistHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "createPlaylist",
		Method:        "POST",
		Path:          "/api/v1/playlists",
		Summary:       "Save a playlist",
		Description:   "Persists a stream selection under a new opaque id",
		Tags:          []string{"Playlists"},
		DefaultStatus: 201,
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "listPlaylists",
		Method:      "GET",
		Path:        "/api/v1/playlists",
		Summary:     "List playlists",
		Tags:        []string{"Playlists"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "getPlaylist",
		Method:      "GET",
		Path:        "/api/v1/playlists/{id}",
		Summary:     "Get a playlist",
		Tags:        []string{"Playlists"},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID:   "deletePlaylist",
		Method:        "DELETE",
		Path:          "/api/v1/playlists/{id}",
		Summary:       "Delete a playlist",
		Tags:          []string{"Playlists"},
		DefaultStatus: 204,
	}, h.Delete)
}

// RegisterRoutes registers the raw (non-API) playlist routes with the router.
func (h *PlaylistHandler) RegisterRoutes(r chi.Router) {
	r.Get("/playlist/{id}.m3u", h.ServeM3U)
}

// CreatePlaylistInput is the input for saving a playlist.
type CreatePlaylistInput struct {
	Body struct {
		Name        string             `json:"name,omitempty" doc:"Playlist name (defaults to a timestamped name)" maxLength:"255"`
		Credentials models.Credentials `json:"credentials" doc:"Upstream account credentials"`
		Streams     []models.Stream    `json:"streams" doc:"Streams to include, in render order"`
	}
}

// CreatePlaylistOutput is the output for saving a playlist.
type CreatePlaylistOutput struct {
	Body PlaylistResponse
}

// Create saves a playlist.
func (h *PlaylistHandler) Create(ctx context.Context, input *CreatePlaylistInput) (*CreatePlaylistOutput, error) {
	playlist, err := h.service.Save(ctx, input.Body.Name, input.Body.Credentials, input.Body.Streams)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMissingCredentials), errors.Is(err, models.ErrNoStreams):
			return nil, huma.Error400BadRequest(err.Error())
		default:
			return nil, huma.Error500InternalServerError("failed to save playlist", err)
		}
	}
	return &CreatePlaylistOutput{Body: PlaylistFromModel(playlist)}, nil
}

// ListPlaylistsInput is the input for listing playlists.
type ListPlaylistsInput struct{}

// ListPlaylistsOutput is the output for listing playlists.
type ListPlaylistsOutput struct {
	Body struct {
		Playlists []PlaylistResponse `json:"playlists"`
	}
}

// List returns all saved playlists.
func (h *PlaylistHandler) List(ctx context.Context, _ *ListPlaylistsInput) (*ListPlaylistsOutput, error) {
	playlists, err := h.service.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list playlists", err)
	}

	out := &ListPlaylistsOutput{}
	out.Body.Playlists = make([]PlaylistResponse, 0, len(playlists))
	for _, p := range playlists {
		out.Body.Playlists = append(out.Body.Playlists, PlaylistFromModel(p))
	}
	return out, nil
}

// GetPlaylistInput is the input for fetching one playlist.
type GetPlaylistInput struct {
	ID string `path:"id" doc:"Playlist ID (ULID)"`
}

// GetPlaylistOutput is the output for fetching one playlist.
type GetPlaylistOutput struct {
	Body PlaylistResponse
}

// Get returns a playlist's metadata.
func (h *PlaylistHandler) Get(ctx context.Context, input *GetPlaylistInput) (*GetPlaylistOutput, error) {
	playlist, err := h.service.Get(ctx, input.ID)
	if err != nil {
		if errors.Is(err, models.ErrPlaylistNotFound) {
			return nil, huma.Error404NotFound("playlist not found")
		}
		return nil, huma.Error500InternalServerError("failed to load playlist", err)
	}
	return &GetPlaylistOutput{Body: PlaylistFromModel(playlist)}, nil
}

// DeletePlaylistInput is the input for deleting a playlist.
type DeletePlaylistInput struct {
	ID string `path:"id" doc:"Playlist ID (ULID)"`
}

// DeletePlaylistOutput is the output for deleting a playlist.
type DeletePlaylistOutput struct{}

// Delete removes a playlist.
func (h *PlaylistHandler) Delete(ctx context.Context, input *DeletePlaylistInput) (*DeletePlaylistOutput, error) {
	if err := h.service.Delete(ctx, input.ID); err != nil {
		if errors.Is(err, models.ErrPlaylistNotFound) {
			return nil, huma.Error404NotFound("playlist not found")
		}
		return nil, huma.Error500InternalServerError("failed to delete playlist", err)
	}
	return &DeletePlaylistOutput{}, nil
}

// ServeM3U renders a playlist as an M3U attachment. The hit counter is
// bumped in the background by the service and never delays the response.
func (h *PlaylistHandler) ServeM3U(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	playlist, content, err := h.service.Render(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrPlaylistNotFound) {
			http.Error(w, "playlist not found", http.StatusNotFound)
			return
		}
		h.logger.Error("playlist render failed",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-mpegurl")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "playlist-"+playlist.ID.String()+".m3u"))
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(content))
}
