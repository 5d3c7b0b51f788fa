package xtream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNormalizeServer(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare host", input: "example.com", want: "http://example.com"},
		{name: "host with port", input: "example.com:8080", want: "http://example.com:8080"},
		{name: "whitespace trimmed", input: "  example.com  ", want: "http://example.com"},
		{name: "trailing slash removed", input: "http://example.com/", want: "http://example.com"},
		{name: "http scheme preserved", input: "http://example.com", want: "http://example.com"},
		{name: "https scheme preserved", input: "https://example.com", want: "https://example.com"},
		{name: "no double prefix", input: "http://example.com:8080", want: "http://example.com:8080"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "scheme without host", input: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeServer(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidServer) {
					t.Fatalf("expected ErrInvalidServer, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewClient_TrailingSlash(t *testing.T) {
	client := NewClient("http://example.com:8080/", "user", "pass")
	if client.BaseURL != "http://example.com:8080" {
		t.Errorf("expected trailing slash to be removed, got %q", client.BaseURL)
	}
}

func TestClient_Authenticate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/player_api.php" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("action") != "get_user_info" {
			t.Errorf("unexpected action: %s", r.URL.Query().Get("action"))
		}
		if r.URL.Query().Get("username") != "user" {
			t.Errorf("unexpected username: %s", r.URL.Query().Get("username"))
		}

		response := AuthInfo{
			UserInfo: &UserInfo{
				Username: "user",
				Status:   "Active",
				Auth:     1,
				ExpDate:  FlexInt(time.Now().Add(30 * 24 * time.Hour).Unix()),
			},
			ServerInfo: ServerInfo{URL: "example.com", Port: 8080},
		}
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "pass")
	info, err := client.Authenticate(context.Background())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.UserInfo.Username != "user" {
		t.Errorf("expected username 'user', got %q", info.UserInfo.Username)
	}
}

func TestClient_Authenticate_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Reachable server, well-formed body, but no user_info payload.
		w.Write([]byte(`{"server_info":{"url":"example.com"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "wrong")
	_, err := client.Authenticate(context.Background())

	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}
}

func TestClient_Authenticate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "pass")
	_, err := client.Authenticate(context.Background())

	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestClient_Authenticate_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	client := NewClient(server.URL, "user", "pass")
	_, err := client.Authenticate(context.Background())

	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestClient_GetCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "get_live_categories" {
			t.Errorf("unexpected action: %s", r.URL.Query().Get("action"))
		}
		categories := []Category{
			{CategoryID: "1", CategoryName: "News"},
			{CategoryID: "2", CategoryName: "Sports"},
		}
		json.NewEncoder(w).Encode(categories)
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "pass")
	categories, err := client.GetCategories(context.Background(), KindLive)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].CategoryName != "News" {
		t.Errorf("expected first category 'News', got %q", categories[0].CategoryName)
	}
}

func TestClient_GetCategories_UnknownKind(t *testing.T) {
	client := NewClient("http://example.com", "user", "pass")
	if _, err := client.GetCategories(context.Background(), Kind("radio")); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestClient_GetLiveStreams_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Some providers answer listings with an error object instead of
		// an array. This must degrade to an empty result, not an error.
		w.Write([]byte(`{"error":"something went wrong"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "pass")
	streams, err := client.GetLiveStreams(context.Background(), "")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(streams) != 0 {
		t.Errorf("expected empty result, got %d streams", len(streams))
	}
}

func TestClient_GetLiveStreams_WithCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("category_id") != "5" {
			t.Errorf("unexpected category_id: %s", r.URL.Query().Get("category_id"))
		}
		json.NewEncoder(w).Encode([]Stream{{StreamID: 7, Name: "BBC One"}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "pass")
	streams, err := client.GetLiveStreams(context.Background(), "5")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(streams) != 1 || streams[0].StreamID.Int() != 7 {
		t.Errorf("unexpected streams: %+v", streams)
	}
}

func TestClient_GetSeriesEpisodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "get_series_info" {
			t.Errorf("unexpected action: %s", r.URL.Query().Get("action"))
		}
		if r.URL.Query().Get("series_id") != "42" {
			t.Errorf("unexpected series_id: %s", r.URL.Query().Get("series_id"))
		}
		w.Write([]byte(`{"episodes":{"1":[{"id":"1001","episode_num":1,"title":"Pilot","container_extension":"mkv","season":1}]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "pass")
	episodes, err := client.GetSeriesEpisodes(context.Background(), 42)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(episodes["1"]) != 1 {
		t.Fatalf("expected 1 episode in season 1, got %d", len(episodes["1"]))
	}
	ep := episodes["1"][0]
	if ep.ID.Int() != 1001 || ep.Title != "Pilot" {
		t.Errorf("unexpected episode: %+v", ep)
	}
}

func TestClient_GetSeriesEpisodes_Malformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "pass")
	episodes, err := client.GetSeriesEpisodes(context.Background(), 42)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(episodes) != 0 {
		t.Errorf("expected empty episode map, got %v", episodes)
	}
}

func TestClient_StreamURLs(t *testing.T) {
	client := NewClient("http://example.com", "u", "p")

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "live stream",
			got:      client.LiveStreamURL(42, ""),
			expected: "http://example.com/live/u/p/42.ts",
		},
		{
			name:     "vod stream default ext",
			got:      client.VODStreamURL(456, ""),
			expected: "http://example.com/movie/u/p/456.mp4",
		},
		{
			name:     "vod stream explicit ext",
			got:      client.VODStreamURL(456, "avi"),
			expected: "http://example.com/movie/u/p/456.avi",
		},
		{
			name:     "series episode",
			got:      client.SeriesStreamURL(789, ""),
			expected: "http://example.com/series/u/p/789.mkv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.got)
			}
		})
	}
}

func TestClient_M3UPlaylistURL(t *testing.T) {
	client := NewClient("http://example.com:8080", "user", "pass")
	want := "http://example.com:8080/get.php?output=ts&password=pass&type=m3u_plus&username=user"
	if got := client.M3UPlaylistURL(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		json.NewEncoder(w).Encode(AuthInfo{})
	}))
	defer server.Close()

	client := NewClient(server.URL, "user", "pass")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Authenticate(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}
