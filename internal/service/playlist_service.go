// Package service contains the business logic between the HTTP layer
// and the repositories.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/plucktv/plucktv/internal/codec"
	"github.com/plucktv/plucktv/internal/models"
	"github.com/plucktv/plucktv/internal/repository"
)

// hitCountTimeout bounds the background hit-count update.
const hitCountTimeout = 5 * time.Second

// PlaylistService manages saved playlists and their M3U rendering.
type PlaylistService struct {
	repo   repository.PlaylistRepository
	logger *slog.Logger
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(repo repository.PlaylistRepository, logger *slog.Logger) *PlaylistService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaylistService{repo: repo, logger: logger}
}

// Save persists a stream selection under a new opaque id. An empty name
// gets a timestamped default.
func (s *PlaylistService) Save(ctx context.Context, name string, creds models.Credentials, streams []models.Stream) (*models.Playlist, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	normalized, err := creds.Normalize()
	if err != nil {
		return nil, err
	}
	if len(streams) == 0 {
		return nil, models.ErrNoStreams
	}
	if name == "" {
		name = "Playlist " + time.Now().Format(time.RFC3339)
	}

	playlist := &models.Playlist{
		Name:        name,
		Credentials: normalized,
		Streams:     streams,
	}
	if err := s.repo.Create(ctx, playlist); err != nil {
		return nil, fmt.Errorf("saving playlist: %w", err)
	}

	s.logger.Info("playlist saved",
		slog.String("id", playlist.ID.String()),
		slog.Int("streams", len(streams)),
	)
	return playlist, nil
}

// Get returns a playlist by its id string.
func (s *PlaylistService) Get(ctx context.Context, id string) (*models.Playlist, error) {
	ulid, err := models.ParseULID(id)
	if err != nil {
		return nil, models.ErrPlaylistNotFound
	}
	playlist, err := s.repo.GetByID(ctx, ulid)
	if err != nil {
		return nil, fmt.Errorf("loading playlist: %w", err)
	}
	if playlist == nil {
		return nil, models.ErrPlaylistNotFound
	}
	return playlist, nil
}

// List returns all playlists, most recent first.
func (s *PlaylistService) List(ctx context.Context) ([]*models.Playlist, error) {
	return s.repo.GetAll(ctx)
}

// Delete removes a playlist.
func (s *PlaylistService) Delete(ctx context.Context, id string) error {
	playlist, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, playlist.ID); err != nil {
		return fmt.Errorf("deleting playlist: %w", err)
	}
	s.logger.Info("playlist deleted", slog.String("id", id))
	return nil
}

// Render returns the playlist and its M3U text, and bumps the hit
// counter in the background. The render never waits on, or fails
// because of, the counter update.
func (s *PlaylistService) Render(ctx context.Context, id string) (*models.Playlist, string, error) {
	playlist, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), hitCountTimeout)
		defer cancel()
		if err := s.repo.IncrementHitCount(bgCtx, playlist.ID); err != nil {
			s.logger.Warn("hit count update failed",
				slog.String("id", playlist.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}()

	return playlist, codec.Serialize(playlist.Credentials, playlist.Streams), nil
}
