package models

import (
	"fmt"
	"strings"

	"github.com/plucktv/plucktv/pkg/xtream"
)

// ContentKind classifies a catalog entry as live TV, video on demand,
// or a series episode.
type ContentKind string

const (
	ContentKindLive   ContentKind = "live"
	ContentKindVOD    ContentKind = "vod"
	ContentKindSeries ContentKind = "series"
)

// Valid reports whether the kind is one of the three known values.
func (k ContentKind) Valid() bool {
	switch k {
	case ContentKindLive, ContentKindVOD, ContentKindSeries:
		return true
	}
	return false
}

// URLSegment returns the path segment used in Xtream stream URLs.
func (k ContentKind) URLSegment() string {
	switch k {
	case ContentKindVOD:
		return "movie"
	case ContentKindSeries:
		return "series"
	default:
		return "live"
	}
}

// KindFromURLSegment maps a stream URL path segment back to a kind.
func KindFromURLSegment(segment string) (ContentKind, error) {
	switch segment {
	case "live":
		return ContentKindLive, nil
	case "movie":
		return ContentKindVOD, nil
	case "series":
		return ContentKindSeries, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, segment)
}

// ToProtocolKind converts a ContentKind to the protocol client's kind.
func (k ContentKind) ToProtocolKind() xtream.Kind {
	switch k {
	case ContentKindVOD:
		return xtream.KindVOD
	case ContentKindSeries:
		return xtream.KindSeries
	default:
		return xtream.KindLive
	}
}

// Credentials is the server/username/password triple identifying an
// upstream Xtream account. Server is stored normalized.
type Credentials struct {
	Server   string `json:"server"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the triple is complete.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Server) == "" ||
		strings.TrimSpace(c.Username) == "" ||
		strings.TrimSpace(c.Password) == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Normalize returns a copy with the server URL normalized.
func (c Credentials) Normalize() (Credentials, error) {
	server, err := xtream.NormalizeServer(c.Server)
	if err != nil {
		return Credentials{}, err
	}
	c.Server = server
	return c, nil
}

// Category is a content grouping as reported by the upstream provider.
type Category struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Kind ContentKind `json:"kind"`
}

// Stream is the canonical representation of one playable item,
// independent of how it was fetched.
type Stream struct {
	// ID is the upstream stream or episode identifier.
	ID int64 `json:"id"`

	// Name is the display name. For episodes it carries the
	// "<series> - SxxEyy" form.
	Name string `json:"name"`

	// Icon is the logo/cover URL, empty when the upstream value is not
	// an http(s) URL.
	Icon string `json:"icon,omitempty"`

	CategoryID   string      `json:"category_id,omitempty"`
	CategoryName string      `json:"category_name,omitempty"`
	Kind         ContentKind `json:"kind"`

	// ContainerExt is the container extension for the stream URL
	// (ts/mp4/mkv and friends).
	ContainerExt string `json:"container_ext,omitempty"`

	// Season and Episode are set for series episodes only.
	Season  int `json:"season,omitempty"`
	Episode int `json:"episode,omitempty"`
}

// EpisodeDisplayName builds the canonical episode name:
// "<series> - S01E02" with an optional " - <title>" suffix. Quote
// characters are stripped so the name survives M3U serialization.
func EpisodeDisplayName(seriesName string, season, episode int, title string) string {
	name := fmt.Sprintf("%s - S%02dE%02d", seriesName, season, episode)
	if title != "" {
		name += " - " + title
	}
	return strings.ReplaceAll(name, `"`, "")
}

// SanitizeIcon keeps only http(s) icon URLs, matching playlist output
// rules.
func SanitizeIcon(icon string) string {
	if strings.HasPrefix(icon, "http") {
		return icon
	}
	return ""
}
