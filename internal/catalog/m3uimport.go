package catalog

import (
	"context"
	"fmt"

	"github.com/plucktv/plucktv/internal/codec"
	"github.com/plucktv/plucktv/internal/models"
)

// M3UImportFetch derives the whole catalog from the provider's get.php
// bulk M3U export instead of the player_api listing surface. Category
// identifiers are the playlist group titles. Credentials are still
// verified against player_api before the export is fetched, so rejected
// logins surface as ErrAuthFailed like the other strategies.
type M3UImportFetch struct {
	opts Options
}

// Discover implements Fetcher. Categories are the distinct group
// titles of the export, per kind, in first-seen order.
func (f *M3UImportFetch) Discover(ctx context.Context, creds models.Credentials) (*DiscoverResult, error) {
	streams, normalized, err := f.fetchAll(ctx, creds)
	if err != nil {
		return nil, err
	}

	result := &DiscoverResult{Credentials: normalized}
	seen := make(map[string]bool)
	for _, s := range streams {
		if s.CategoryName == "" {
			continue
		}
		key := string(s.Kind) + "\x00" + s.CategoryName
		if seen[key] {
			continue
		}
		seen[key] = true
		cat := models.Category{ID: s.CategoryName, Name: s.CategoryName, Kind: s.Kind}
		switch s.Kind {
		case models.ContentKindVOD:
			result.VOD = append(result.VOD, cat)
		case models.ContentKindSeries:
			result.Series = append(result.Series, cat)
		default:
			result.Live = append(result.Live, cat)
		}
	}
	return result, nil
}

// Materialize implements Fetcher. Selections match on group title.
func (f *M3UImportFetch) Materialize(ctx context.Context, creds models.Credentials, selections []Selection) ([]models.Stream, error) {
	if len(selections) == 0 {
		return nil, models.ErrNoSelections
	}
	all, _, err := f.fetchAll(ctx, creds)
	if err != nil {
		return nil, err
	}

	live, vod, series := partition(selections)

	var streams []models.Stream
	streams = append(streams, filterByGroup(all, models.ContentKindLive, live)...)
	streams = append(streams, filterByGroup(all, models.ContentKindVOD, vod)...)
	streams = append(streams, filterByGroup(all, models.ContentKindSeries, series)...)
	return streams, nil
}

func (f *M3UImportFetch) fetchAll(ctx context.Context, creds models.Credentials) ([]models.Stream, models.Credentials, error) {
	client, normalized, err := connect(creds, f.opts)
	if err != nil {
		return nil, models.Credentials{}, err
	}
	if err := authenticate(ctx, client); err != nil {
		return nil, models.Credentials{}, err
	}

	body, err := client.GetM3UPlaylist(ctx)
	if err != nil {
		return nil, models.Credentials{}, err
	}
	defer body.Close()

	streams, err := codec.ParseReader(body)
	if err != nil {
		return nil, models.Credentials{}, fmt.Errorf("parsing M3U export: %w", err)
	}
	return streams, normalized, nil
}

func filterByGroup(all []models.Stream, kind models.ContentKind, selections []Selection) []models.Stream {
	if len(selections) == 0 {
		return nil
	}
	wanted := make(map[string]bool, len(selections))
	for _, sel := range selections {
		wanted[sel.CategoryID] = true
	}
	var out []models.Stream
	for _, s := range all {
		if s.Kind == kind && wanted[s.CategoryName] {
			s.CategoryID = s.CategoryName
			out = append(out, s)
		}
	}
	return out
}
