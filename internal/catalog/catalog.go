// Package catalog aggregates upstream Xtream content into canonical
// stream records.
//
// It has two modes: Discover enumerates the category tree of an
// account, Materialize expands a category selection into playable
// streams. Authentication failures abort; every other upstream problem
// degrades that slice of the catalog to zero records and is only
// logged.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/plucktv/plucktv/internal/models"
	"github.com/plucktv/plucktv/pkg/xtream"
)

// Strategy selects how the upstream catalog is fetched.
type Strategy string

const (
	// StrategyPerCategory lists streams category by category and
	// expands series episodes. The default.
	StrategyPerCategory Strategy = "per_category"

	// StrategyBulk lists the whole live and VOD catalog in two calls
	// and filters locally. Cheaper on providers that throttle
	// per-category calls; cannot expand series.
	StrategyBulk Strategy = "bulk"

	// StrategyM3UImport fetches the provider's get.php bulk M3U export
	// and derives everything from it. For providers with a broken
	// player_api listing surface.
	StrategyM3UImport Strategy = "m3u_import"
)

// Valid reports whether the strategy is known.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyPerCategory, StrategyBulk, StrategyM3UImport:
		return true
	}
	return false
}

// Selection names one category the caller wants materialized.
type Selection struct {
	CategoryID   string             `json:"category_id"`
	Kind         models.ContentKind `json:"kind"`
	CategoryName string             `json:"category_name,omitempty"`
}

// DiscoverResult is the category tree of an account, with the
// credentials echoed back in normalized form.
type DiscoverResult struct {
	Credentials models.Credentials `json:"credentials"`
	Live        []models.Category  `json:"live"`
	VOD         []models.Category  `json:"vod"`
	Series      []models.Category  `json:"series"`
}

// Fetcher aggregates upstream content. Implementations are safe for
// concurrent use.
type Fetcher interface {
	// Discover authenticates and lists the live/vod/series categories.
	Discover(ctx context.Context, creds models.Credentials) (*DiscoverResult, error)

	// Materialize expands category selections into canonical streams,
	// ordered live, then vod, then series, each in upstream listing
	// order.
	Materialize(ctx context.Context, creds models.Credentials, selections []Selection) ([]models.Stream, error)
}

// Defaults for Options fields left zero.
const (
	DefaultSeriesBatchSize = 10
	DefaultMaxSeries       = 200
	DefaultVODLimit        = 3000
)

// Options configures a Fetcher.
type Options struct {
	Logger     *slog.Logger
	HTTPClient *http.Client
	UserAgent  string

	// SeriesBatchSize is how many series are expanded in parallel per
	// batch.
	SeriesBatchSize int

	// MaxSeries caps how many series one materialization expands.
	MaxSeries int

	// VODLimit caps the bulk VOD listing.
	VODLimit int
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.SeriesBatchSize <= 0 {
		o.SeriesBatchSize = DefaultSeriesBatchSize
	}
	if o.MaxSeries <= 0 {
		o.MaxSeries = DefaultMaxSeries
	}
	if o.VODLimit <= 0 {
		o.VODLimit = DefaultVODLimit
	}
	return o
}

// New builds the Fetcher for a strategy.
func New(strategy Strategy, opts Options) (Fetcher, error) {
	opts = opts.withDefaults()
	switch strategy {
	case StrategyPerCategory, "":
		return &PerCategoryFetch{opts: opts}, nil
	case StrategyBulk:
		return &BulkFetch{opts: opts}, nil
	case StrategyM3UImport:
		return &M3UImportFetch{opts: opts}, nil
	}
	return nil, fmt.Errorf("unknown catalog strategy %q", strategy)
}

// connect validates and normalizes credentials and returns a protocol
// client for them.
func connect(creds models.Credentials, opts Options) (*xtream.Client, models.Credentials, error) {
	if err := creds.Validate(); err != nil {
		return nil, models.Credentials{}, err
	}
	normalized, err := creds.Normalize()
	if err != nil {
		return nil, models.Credentials{}, err
	}

	var clientOpts []xtream.Option
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, xtream.WithHTTPClient(opts.HTTPClient))
	}
	if opts.UserAgent != "" {
		clientOpts = append(clientOpts, xtream.WithUserAgent(opts.UserAgent))
	}
	client := xtream.NewClient(normalized.Server, normalized.Username, normalized.Password, clientOpts...)
	return client, normalized, nil
}

// authenticate runs the upstream credential check. Auth failures and
// unreachable servers are fatal here; listing calls later degrade.
func authenticate(ctx context.Context, client *xtream.Client) error {
	if _, err := client.Authenticate(ctx); err != nil {
		if errors.Is(err, xtream.ErrAuthFailed) || errors.Is(err, xtream.ErrUnreachable) {
			return err
		}
		return fmt.Errorf("authenticating: %w", err)
	}
	return nil
}

// partition splits selections by kind, preserving input order within
// each kind.
func partition(selections []Selection) (live, vod, series []Selection) {
	for _, sel := range selections {
		switch sel.Kind {
		case models.ContentKindVOD:
			vod = append(vod, sel)
		case models.ContentKindSeries:
			series = append(series, sel)
		default:
			live = append(live, sel)
		}
	}
	return live, vod, series
}

func toCategories(kind models.ContentKind, cats []xtream.Category) []models.Category {
	out := make([]models.Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, models.Category{
			ID:   c.CategoryID.String(),
			Name: c.CategoryName,
			Kind: kind,
		})
	}
	return out
}
