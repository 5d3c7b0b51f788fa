package models

import "time"

// Playlist is a saved selection of streams together with the upstream
// credentials needed to play them.
type Playlist struct {
	BaseModel

	// Name is a human label, defaulted at save time when empty.
	Name string `gorm:"not null" json:"name"`

	// Credentials is the normalized upstream account the streams
	// belong to.
	Credentials Credentials `gorm:"serializer:json" json:"credentials"`

	// Streams is the ordered channel list.
	Streams []Stream `gorm:"serializer:json" json:"streams"`

	// HitCount counts playlist renders. Updated asynchronously; reads
	// may lag.
	HitCount int64 `gorm:"default:0" json:"hit_count"`

	// LastAccessedAt records the most recent render.
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
}

// TableName overrides the table name.
func (Playlist) TableName() string {
	return "playlists"
}

// StreamCount returns the number of streams in the playlist.
func (p *Playlist) StreamCount() int {
	return len(p.Streams)
}
