// Package handlers provides HTTP API handlers for plucktv.
package handlers

import (
	"time"

	"github.com/plucktv/plucktv/internal/models"
)

// Common response types

// PlaylistResponse represents a saved playlist in API responses. The
// stored credentials are deliberately not echoed back.
type PlaylistResponse struct {
	ID             models.ULID `json:"id"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Name           string      `json:"name"`
	StreamCount    int         `json:"stream_count"`
	HitCount       int64       `json:"hit_count"`
	LastAccessedAt *time.Time  `json:"last_accessed_at,omitempty"`
	URL            string      `json:"url"`
}

// PlaylistFromModel converts a model to a response.
func PlaylistFromModel(p *models.Playlist) PlaylistResponse {
	return PlaylistResponse{
		ID:             p.ID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Name:           p.Name,
		StreamCount:    p.StreamCount(),
		HitCount:       p.HitCount,
		LastAccessedAt: p.LastAccessedAt,
		URL:            "/playlist/" + p.ID.String() + ".m3u",
	}
}

// Health types

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks,omitempty"`
}
