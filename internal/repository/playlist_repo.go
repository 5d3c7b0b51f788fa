package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/plucktv/plucktv/internal/models"
)

// playlistRepo implements PlaylistRepository using GORM.
type playlistRepo struct {
	db *gorm.DB
}

// NewPlaylistRepository creates a new PlaylistRepository.
func NewPlaylistRepository(db *gorm.DB) *playlistRepo {
	return &playlistRepo{db: db}
}

// Create persists a new playlist.
func (r *playlistRepo) Create(ctx context.Context, playlist *models.Playlist) error {
	if err := r.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return fmt.Errorf("creating playlist: %w", err)
	}
	return nil
}

// GetByID retrieves a playlist by ID.
func (r *playlistRepo) GetByID(ctx context.Context, id models.ULID) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&playlist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting playlist by ID: %w", err)
	}
	return &playlist, nil
}

// GetAll retrieves all playlists, most recent first.
func (r *playlistRepo) GetAll(ctx context.Context) ([]*models.Playlist, error) {
	var playlists []*models.Playlist
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&playlists).Error; err != nil {
		return nil, fmt.Errorf("getting all playlists: %w", err)
	}
	return playlists, nil
}

// Delete hard-deletes a playlist by ID.
func (r *playlistRepo) Delete(ctx context.Context, id models.ULID) error {
	if err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&models.Playlist{}).Error; err != nil {
		return fmt.Errorf("deleting playlist: %w", err)
	}
	return nil
}

// IncrementHitCount bumps the hit counter atomically in the database,
// so concurrent renders never lose an increment.
func (r *playlistRepo) IncrementHitCount(ctx context.Context, id models.ULID) error {
	updates := map[string]any{
		"hit_count":        gorm.Expr("hit_count + ?", 1),
		"last_accessed_at": time.Now(),
	}
	if err := r.db.WithContext(ctx).Model(&models.Playlist{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("incrementing hit count: %w", err)
	}
	return nil
}

// DeleteStaleBefore removes playlists whose last access (or creation,
// when never accessed) is older than cutoff.
func (r *playlistRepo) DeleteStaleBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Unscoped().
		Where("(last_accessed_at IS NULL AND created_at < ?) OR last_accessed_at < ?", cutoff, cutoff).
		Delete(&models.Playlist{})
	if result.Error != nil {
		return 0, fmt.Errorf("deleting stale playlists: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Ensure playlistRepo implements PlaylistRepository at compile time.
var _ PlaylistRepository = (*playlistRepo)(nil)
