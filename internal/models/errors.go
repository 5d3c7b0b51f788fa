package models

import "errors"

// Domain errors shared across the catalog and playlist layers.
var (
	// ErrMissingCredentials indicates the server/username/password triple
	// is incomplete.
	ErrMissingCredentials = errors.New("server, username and password are required")

	// ErrNoSelections indicates a materialization request named no
	// categories.
	ErrNoSelections = errors.New("at least one category selection is required")

	// ErrNoStreams indicates a playlist save request carried no streams.
	ErrNoStreams = errors.New("at least one stream is required")

	// ErrPlaylistNotFound indicates no playlist exists under the given id.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrInvalidKind indicates an unknown content kind.
	ErrInvalidKind = errors.New("invalid content kind: must be 'live', 'vod' or 'series'")
)
