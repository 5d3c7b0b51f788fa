package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/plucktv/plucktv/internal/catalog"
	"github.com/plucktv/plucktv/internal/models"
	"github.com/plucktv/plucktv/pkg/xtream"
)

// fakeFetcher implements catalog.Fetcher with canned results.
type fakeFetcher struct {
	discoverResult *catalog.DiscoverResult
	discoverErr    error
	streams        []models.Stream
	materializeErr error

	gotSelections []catalog.Selection
}

func (f *fakeFetcher) Discover(_ context.Context, creds models.Credentials) (*catalog.DiscoverResult, error) {
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	result := *f.discoverResult
	result.Credentials = creds
	return &result, nil
}

func (f *fakeFetcher) Materialize(_ context.Context, _ models.Credentials, selections []catalog.Selection) ([]models.Stream, error) {
	f.gotSelections = selections
	if f.materializeErr != nil {
		return nil, f.materializeErr
	}
	return f.streams, nil
}

func newCatalogHandler(fetcher catalog.Fetcher) *CatalogHandler {
	return NewCatalogHandler(fetcher, time.Minute, nil)
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", want)
	}
	var se huma.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected huma status error, got %T: %v", err, err)
	}
	if se.GetStatus() != want {
		t.Errorf("expected status %d, got %d", want, se.GetStatus())
	}
}

func TestCatalogHandler_Discover(t *testing.T) {
	fetcher := &fakeFetcher{
		discoverResult: &catalog.DiscoverResult{
			Live:   []models.Category{{ID: "1", Name: "News", Kind: models.ContentKindLive}},
			Series: []models.Category{{ID: "9", Name: "Drama", Kind: models.ContentKindSeries}},
		},
	}
	handler := newCatalogHandler(fetcher)

	input := &DiscoverInput{}
	input.Body.Server = "example.com"
	input.Body.Username = "u"
	input.Body.Password = "p"

	output, err := handler.Discover(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(output.Body.Live) != 1 || output.Body.Live[0].Name != "News" {
		t.Errorf("unexpected live categories: %+v", output.Body.Live)
	}
	if len(output.Body.Series) != 1 {
		t.Errorf("expected one series category, got %d", len(output.Body.Series))
	}
	if output.Body.Credentials.Username != "u" {
		t.Errorf("expected credentials echoed back, got %+v", output.Body.Credentials)
	}
}

func TestCatalogHandler_Discover_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"auth rejected", xtream.ErrAuthFailed, 401},
		{"unreachable", xtream.ErrUnreachable, 502},
		{"invalid server", xtream.ErrInvalidServer, 400},
		{"missing credentials", models.ErrMissingCredentials, 400},
		{"timeout", context.DeadlineExceeded, 504},
		{"unknown", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newCatalogHandler(&fakeFetcher{discoverErr: tt.err})

			input := &DiscoverInput{}
			input.Body.Server = "example.com"
			input.Body.Username = "u"
			input.Body.Password = "p"

			_, err := handler.Discover(context.Background(), input)
			assertStatus(t, err, tt.want)
		})
	}
}

func TestCatalogHandler_Materialize(t *testing.T) {
	fetcher := &fakeFetcher{
		streams: []models.Stream{
			{ID: 1, Name: "Channel One", Kind: models.ContentKindLive, ContainerExt: "ts"},
			{ID: 2, Name: "A Movie", Kind: models.ContentKindVOD, ContainerExt: "mp4"},
		},
	}
	handler := newCatalogHandler(fetcher)

	input := &MaterializeInput{}
	input.Body.Credentials = models.Credentials{Server: "example.com", Username: "u", Password: "p"}
	input.Body.Selections = []catalog.Selection{{CategoryID: "1", Kind: models.ContentKindLive}}

	output, err := handler.Materialize(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.Body.Count != 2 {
		t.Errorf("expected count 2, got %d", output.Body.Count)
	}
	if len(output.Body.Streams) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(output.Body.Streams))
	}
	if len(fetcher.gotSelections) != 1 {
		t.Errorf("expected selections forwarded, got %+v", fetcher.gotSelections)
	}
}

func TestCatalogHandler_Materialize_NoSelections(t *testing.T) {
	handler := newCatalogHandler(&fakeFetcher{materializeErr: models.ErrNoSelections})

	input := &MaterializeInput{}
	input.Body.Credentials = models.Credentials{Server: "example.com", Username: "u", Password: "p"}

	_, err := handler.Materialize(context.Background(), input)
	assertStatus(t, err, 400)
}
