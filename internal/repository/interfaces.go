// Package repository provides data access interfaces and GORM
// implementations for plucktv entities.
package repository

import (
	"context"
	"time"

	"github.com/plucktv/plucktv/internal/models"
)

// PlaylistRepository manages saved playlists.
type PlaylistRepository interface {
	// Create persists a new playlist and fills in its id.
	Create(ctx context.Context, playlist *models.Playlist) error

	// GetByID returns the playlist, or (nil, nil) when it does not exist.
	GetByID(ctx context.Context, id models.ULID) (*models.Playlist, error)

	// GetAll returns all playlists, most recent first.
	GetAll(ctx context.Context) ([]*models.Playlist, error)

	// Delete permanently removes a playlist.
	Delete(ctx context.Context, id models.ULID) error

	// IncrementHitCount bumps the hit counter and access time without
	// reading the row first.
	IncrementHitCount(ctx context.Context, id models.ULID) error

	// DeleteStaleBefore permanently removes playlists not accessed
	// since cutoff, returning how many were removed.
	DeleteStaleBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
