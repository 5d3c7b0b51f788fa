package catalog

import (
	"context"

	"github.com/plucktv/plucktv/internal/models"
	"github.com/plucktv/plucktv/pkg/xtream"
)

// BulkFetch lists the entire live and VOD catalog in two calls and
// filters locally by category. Series expansion needs per-series calls,
// so series selections are skipped with a warning.
type BulkFetch struct {
	opts Options
}

// Discover implements Fetcher.
func (f *BulkFetch) Discover(ctx context.Context, creds models.Credentials) (*DiscoverResult, error) {
	// Category discovery is identical to the per-category strategy.
	per := &PerCategoryFetch{opts: f.opts}
	return per.Discover(ctx, creds)
}

// Materialize implements Fetcher.
func (f *BulkFetch) Materialize(ctx context.Context, creds models.Credentials, selections []Selection) ([]models.Stream, error) {
	if len(selections) == 0 {
		return nil, models.ErrNoSelections
	}
	client, _, err := connect(creds, f.opts)
	if err != nil {
		return nil, err
	}
	if err := authenticate(ctx, client); err != nil {
		return nil, err
	}

	live, vod, series := partition(selections)
	for _, sel := range series {
		f.opts.Logger.Warn("bulk strategy cannot expand series; selection skipped",
			"category_id", sel.CategoryID)
	}

	var streams []models.Stream
	if len(live) > 0 {
		streams = append(streams, f.liveStreams(ctx, client, live)...)
	}
	if len(vod) > 0 {
		streams = append(streams, f.vodStreams(ctx, client, vod)...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return streams, nil
}

func (f *BulkFetch) liveStreams(ctx context.Context, client *xtream.Client, selections []Selection) []models.Stream {
	upstream, err := client.GetLiveStreams(ctx, "")
	if err != nil {
		f.opts.Logger.Warn("bulk live listing failed", "error", err)
		return nil
	}

	wanted := selectionIndex(selections)
	var out []models.Stream
	for _, s := range upstream {
		sel, ok := wanted[s.CategoryID.String()]
		if !ok {
			continue
		}
		out = append(out, models.Stream{
			ID:           s.StreamID.Int(),
			Name:         s.Name,
			Icon:         models.SanitizeIcon(s.StreamIcon),
			CategoryID:   sel.CategoryID,
			CategoryName: sel.CategoryName,
			Kind:         models.ContentKindLive,
			ContainerExt: "ts",
		})
	}
	return out
}

func (f *BulkFetch) vodStreams(ctx context.Context, client *xtream.Client, selections []Selection) []models.Stream {
	upstream, err := client.GetVODStreams(ctx, "")
	if err != nil {
		f.opts.Logger.Warn("bulk vod listing failed", "error", err)
		return nil
	}
	if len(upstream) > f.opts.VODLimit {
		f.opts.Logger.Warn("bulk vod listing truncated",
			"listed", len(upstream), "limit", f.opts.VODLimit)
		upstream = upstream[:f.opts.VODLimit]
	}

	wanted := selectionIndex(selections)
	var out []models.Stream
	for _, s := range upstream {
		sel, ok := wanted[s.CategoryID.String()]
		if !ok {
			continue
		}
		ext := s.ContainerExtension
		if ext == "" {
			ext = "mp4"
		}
		out = append(out, models.Stream{
			ID:           s.StreamID.Int(),
			Name:         s.Name,
			Icon:         models.SanitizeIcon(s.StreamIcon),
			CategoryID:   sel.CategoryID,
			CategoryName: sel.CategoryName,
			Kind:         models.ContentKindVOD,
			ContainerExt: ext,
		})
	}
	return out
}

func selectionIndex(selections []Selection) map[string]Selection {
	idx := make(map[string]Selection, len(selections))
	for _, sel := range selections {
		idx[sel.CategoryID] = sel
	}
	return idx
}
