package catalog

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/plucktv/plucktv/internal/models"
	"github.com/plucktv/plucktv/pkg/xtream"
)

// PerCategoryFetch lists streams one category at a time and expands
// series into individual episodes.
type PerCategoryFetch struct {
	opts Options
}

// Discover implements Fetcher.
func (f *PerCategoryFetch) Discover(ctx context.Context, creds models.Credentials) (*DiscoverResult, error) {
	client, normalized, err := connect(creds, f.opts)
	if err != nil {
		return nil, err
	}
	if err := authenticate(ctx, client); err != nil {
		return nil, err
	}

	result := &DiscoverResult{Credentials: normalized}

	// The three listings are independent; a failing one degrades to an
	// empty slice.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Live = f.listCategories(gctx, client, models.ContentKindLive)
		return nil
	})
	g.Go(func() error {
		result.VOD = f.listCategories(gctx, client, models.ContentKindVOD)
		return nil
	})
	g.Go(func() error {
		result.Series = f.listCategories(gctx, client, models.ContentKindSeries)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (f *PerCategoryFetch) listCategories(ctx context.Context, client *xtream.Client, kind models.ContentKind) []models.Category {
	cats, err := client.GetCategories(ctx, kind.ToProtocolKind())
	if err != nil {
		f.opts.Logger.Warn("category listing failed", "kind", kind, "error", err)
		return []models.Category{}
	}
	return toCategories(kind, cats)
}

// Materialize implements Fetcher. Output order is live, vod, series;
// within each kind, selection order, then upstream listing order.
func (f *PerCategoryFetch) Materialize(ctx context.Context, creds models.Credentials, selections []Selection) ([]models.Stream, error) {
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

	var streams []models.Stream
	for _, sel := range live {
		streams = append(streams, f.liveStreams(ctx, client, sel)...)
	}
	for _, sel := range vod {
		streams = append(streams, f.vodStreams(ctx, client, sel)...)
	}
	if len(series) > 0 {
		episodes, err := f.seriesStreams(ctx, client, series)
		if err != nil {
			return nil, err
		}
		streams = append(streams, episodes...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return streams, nil
}

func (f *PerCategoryFetch) liveStreams(ctx context.Context, client *xtream.Client, sel Selection) []models.Stream {
	upstream, err := client.GetLiveStreams(ctx, sel.CategoryID)
	if err != nil {
		f.opts.Logger.Warn("live stream listing failed", "category_id", sel.CategoryID, "error", err)
		return nil
	}
	out := make([]models.Stream, 0, len(upstream))
	for _, s := range upstream {
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

func (f *PerCategoryFetch) vodStreams(ctx context.Context, client *xtream.Client, sel Selection) []models.Stream {
	upstream, err := client.GetVODStreams(ctx, sel.CategoryID)
	if err != nil {
		f.opts.Logger.Warn("vod stream listing failed", "category_id", sel.CategoryID, "error", err)
		return nil
	}
	out := make([]models.Stream, 0, len(upstream))
	for _, s := range upstream {
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

// seriesJob is one series queued for episode expansion.
type seriesJob struct {
	series    xtream.Series
	selection Selection
}

// seriesStreams expands selected series categories into episode
// streams. Series are expanded in fixed-size parallel batches; batches
// run sequentially. One failing series loses only its own episodes.
func (f *PerCategoryFetch) seriesStreams(ctx context.Context, client *xtream.Client, selections []Selection) ([]models.Stream, error) {
	var jobs []seriesJob
	for _, sel := range selections {
		upstream, err := client.GetSeries(ctx, sel.CategoryID)
		if err != nil {
			f.opts.Logger.Warn("series listing failed", "category_id", sel.CategoryID, "error", err)
			continue
		}
		for _, s := range upstream {
			jobs = append(jobs, seriesJob{series: s, selection: sel})
		}
	}

	if len(jobs) > f.opts.MaxSeries {
		f.opts.Logger.Warn("series selection truncated",
			"selected", len(jobs), "max", f.opts.MaxSeries)
		jobs = jobs[:f.opts.MaxSeries]
	}

	results := make([][]models.Stream, len(jobs))
	for start := 0; start < len(jobs); start += f.opts.SeriesBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + f.opts.SeriesBatchSize
		if end > len(jobs) {
			end = len(jobs)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = f.expandSeries(ctx, client, jobs[i])
			}(i)
		}
		wg.Wait()
	}

	var streams []models.Stream
	for _, r := range results {
		streams = append(streams, r...)
	}
	return streams, nil
}

func (f *PerCategoryFetch) expandSeries(ctx context.Context, client *xtream.Client, job seriesJob) []models.Stream {
	seriesID := job.series.SeriesID.Int()
	seasons, err := client.GetSeriesEpisodes(ctx, seriesID)
	if err != nil {
		f.opts.Logger.Warn("series episode fetch failed",
			"series_id", seriesID, "series", job.series.Name, "error", err)
		return nil
	}

	// The season map is unordered JSON; sort keys numerically so
	// output is deterministic.
	keys := make([]string, 0, len(seasons))
	for k := range seasons {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})

	var streams []models.Stream
	for _, key := range keys {
		keySeason, _ := strconv.Atoi(key)
		for _, ep := range seasons[key] {
			// An episode without an id has no playable URL.
			if ep.ID.Int() == 0 {
				continue
			}
			season := int(ep.Season.Int())
			if season == 0 {
				season = keySeason
			}
			ext := ep.ContainerExtension
			if ext == "" {
				ext = "mkv"
			}
			streams = append(streams, models.Stream{
				ID:           ep.ID.Int(),
				Name:         models.EpisodeDisplayName(job.series.Name, season, int(ep.EpisodeNum.Int()), ep.Title),
				Icon:         models.SanitizeIcon(job.series.Cover),
				CategoryID:   job.selection.CategoryID,
				CategoryName: job.selection.CategoryName,
				Kind:         models.ContentKindSeries,
				ContainerExt: ext,
				Season:       season,
				Episode:      int(ep.EpisodeNum.Int()),
			})
		}
	}
	return streams
}
