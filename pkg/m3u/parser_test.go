package m3u

import (
	"bytes"
	"compress/gzip"
	"errors"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"
)

func TestParser_BasicParsing(t *testing.T) {
	content := `#EXTM3U
#EXTINF:-1 tvg-id="channel1" tvg-name="Channel One" tvg-logo="http://example.com/logo.png" group-title="News",Channel 1 HD
http://example.com/stream1.m3u8
#EXTINF:-1 tvg-id="channel2" tvg-name="Channel Two" group-title="Sports",Channel 2
http://example.com/stream2.m3u8
`

	entries, err := ParseAll(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	e1 := entries[0]
	if e1.TvgID != "channel1" {
		t.Errorf("expected tvg-id 'channel1', got '%s'", e1.TvgID)
	}
	if e1.TvgName != "Channel One" {
		t.Errorf("expected tvg-name 'Channel One', got '%s'", e1.TvgName)
	}
	if e1.TvgLogo != "http://example.com/logo.png" {
		t.Errorf("expected tvg-logo 'http://example.com/logo.png', got '%s'", e1.TvgLogo)
	}
	if e1.GroupTitle != "News" {
		t.Errorf("expected group-title 'News', got '%s'", e1.GroupTitle)
	}
	if e1.Title != "Channel 1 HD" {
		t.Errorf("expected title 'Channel 1 HD', got '%s'", e1.Title)
	}
	if e1.URL != "http://example.com/stream1.m3u8" {
		t.Errorf("expected URL 'http://example.com/stream1.m3u8', got '%s'", e1.URL)
	}
	if e1.Duration != -1 {
		t.Errorf("expected duration -1, got %d", e1.Duration)
	}
	if e1.NoExtinf {
		t.Error("expected EXTINF-backed entry not flagged NoExtinf")
	}

	if entries[1].GroupTitle != "Sports" {
		t.Errorf("expected group-title 'Sports', got '%s'", entries[1].GroupTitle)
	}
}

func TestParser_ExtraAttributes(t *testing.T) {
	content := `#EXTM3U
#EXTINF:-1 tvg-id="ch1" custom-attr="custom-value" another="test",Channel
http://example.com/stream.m3u8
`

	entries, err := ParseAll(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Extra["custom-attr"] != "custom-value" {
		t.Errorf("expected custom-attr 'custom-value', got '%s'", e.Extra["custom-attr"])
	}
	if e.Extra["another"] != "test" {
		t.Errorf("expected another 'test', got '%s'", e.Extra["another"])
	}
}

func TestParser_PositiveDuration(t *testing.T) {
	content := `#EXTM3U
#EXTINF:180 tvg-id="song1",Song Title
http://example.com/song.mp3
`

	entries, err := ParseAll(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Duration != 180 {
		t.Errorf("expected duration 180, got %d", entries[0].Duration)
	}
}

func TestParser_URLWithoutExtinf(t *testing.T) {
	content := `#EXTM3U
http://example.com/stream.m3u8
`

	entries, err := ParseAll(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].URL != "http://example.com/stream.m3u8" {
		t.Errorf("expected URL, got '%s'", entries[0].URL)
	}
	if entries[0].Duration != -1 {
		t.Errorf("expected duration -1, got %d", entries[0].Duration)
	}
	if entries[0].Title != "stream" {
		t.Errorf("expected title 'stream', got '%s'", entries[0].Title)
	}
	if !entries[0].NoExtinf {
		t.Error("expected orphan entry to be flagged NoExtinf")
	}
}

func TestParser_CommasInQuotes(t *testing.T) {
	content := `#EXTM3U
#EXTINF:-1 tvg-id="ch1" tvg-name="Channel, with comma" group-title="News, Sports",Title with Comma Inside
http://example.com/stream.m3u8
`

	entries, err := ParseAll(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.TvgName != "Channel, with comma" {
		t.Errorf("expected tvg-name 'Channel, with comma', got '%s'", e.TvgName)
	}
	if e.GroupTitle != "News, Sports" {
		t.Errorf("expected group-title 'News, Sports', got '%s'", e.GroupTitle)
	}
	if e.Title != "Title with Comma Inside" {
		t.Errorf("expected title 'Title with Comma Inside', got '%s'", e.Title)
	}
}

func TestParser_EmptyLines(t *testing.T) {
	content := `#EXTM3U

#EXTINF:-1 tvg-id="ch1",Channel 1
http://example.com/stream1.m3u8

#EXTINF:-1 tvg-id="ch2",Channel 2

http://example.com/stream2.m3u8
`

	entries, err := ParseAll(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestParser_SkipsOtherComments(t *testing.T) {
	content := `#EXTM3U
#EXTVLCOPT:network-caching=1000
#EXTINF:-1 tvg-id="ch1",Channel 1
http://example.com/stream.m3u8
#Some other comment
`

	entries, err := ParseAll(strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestParser_CallbackError(t *testing.T) {
	content := `#EXTM3U
#EXTINF:-1 tvg-id="ch1",Channel 1
http://example.com/stream.m3u8
`

	expectedErr := errors.New("callback failed")
	p := &Parser{
		OnEntry: func(entry *Entry) error {
			return expectedErr
		},
	}

	err := p.Parse(strings.NewReader(content))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "callback error") {
		t.Errorf("expected callback error, got: %v", err)
	}
}

func TestParser_NilOnEntry(t *testing.T) {
	p := &Parser{}
	err := p.Parse(strings.NewReader("#EXTM3U\n"))
	if err == nil {
		t.Fatal("expected error for nil OnEntry")
	}
	if !strings.Contains(err.Error(), "OnEntry callback is required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParser_InvalidExtinfFormat(t *testing.T) {
	content := `#EXTM3U
#EXTINF:invalid format
http://example.com/stream1.m3u8
#EXTINF:-1,Valid Channel
http://example.com/stream2.m3u8
`

	var entries []*Entry
	var parseErrors []string
	p := &Parser{
		OnEntry: func(entry *Entry) error {
			entries = append(entries, entry)
			return nil
		},
		OnError: func(lineNum int, err error) {
			parseErrors = append(parseErrors, err.Error())
		},
	}

	if err := p.Parse(strings.NewReader(content)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The invalid EXTINF is skipped; its URL becomes a minimal orphan
	// entry since the playlist is extended M3U.
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if len(parseErrors) != 1 {
		t.Fatalf("expected 1 parse error, got %d", len(parseErrors))
	}
	if entries[1].Title != "Valid Channel" {
		t.Errorf("expected second entry title 'Valid Channel', got '%s'", entries[1].Title)
	}
}

func TestParser_ParseString(t *testing.T) {
	content := `#EXTM3U
#EXTINF:-1 tvg-id="ch1",Channel 1
http://example.com/stream.m3u8
`

	var entries []*Entry
	err := ParseString(content, func(entry *Entry) error {
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestParser_ParseCompressed_Gzip(t *testing.T) {
	content := `#EXTM3U
#EXTINF:-1 tvg-id="ch1",Channel 1
http://example.com/stream.m3u8
`

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write gzip: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("failed to close gzip: %v", err)
	}

	var entries []*Entry
	p := &Parser{OnEntry: func(entry *Entry) error {
		entries = append(entries, entry)
		return nil
	}}

	if err := p.ParseCompressed(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].TvgID != "ch1" {
		t.Errorf("expected tvg-id 'ch1', got '%s'", entries[0].TvgID)
	}
}

func TestParser_ParseCompressed_XZ(t *testing.T) {
	content := `#EXTM3U
#EXTINF:-1 tvg-id="ch1",Channel 1
http://example.com/stream.m3u8
`

	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("failed to create xz writer: %v", err)
	}
	if _, err := xw.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write xz: %v", err)
	}
	if err := xw.Close(); err != nil {
		t.Fatalf("failed to close xz: %v", err)
	}

	var entries []*Entry
	p := &Parser{OnEntry: func(entry *Entry) error {
		entries = append(entries, entry)
		return nil
	}}

	if err := p.ParseCompressed(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].TvgID != "ch1" {
		t.Errorf("expected tvg-id 'ch1', got '%s'", entries[0].TvgID)
	}
}

func TestParser_ParseCompressed_Uncompressed(t *testing.T) {
	content := `#EXTM3U
#EXTINF:-1 tvg-id="ch1",Channel 1
http://example.com/stream.m3u8
`

	var entries []*Entry
	p := &Parser{OnEntry: func(entry *Entry) error {
		entries = append(entries, entry)
		return nil
	}}

	if err := p.ParseCompressed(strings.NewReader(content)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestTitleFromURL(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"http://example.com/channel.m3u8", "channel"},
		{"http://example.com/path/to/stream.ts", "stream"},
		{"http://example.com/live?token=abc", "live"},
		{"http://example.com/", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := titleFromURL(tt.url); got != tt.expected {
				t.Errorf("titleFromURL(%s) = %s, want %s", tt.url, got, tt.expected)
			}
		})
	}
}

func TestFindTitleStart(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{`tvg-id="ch1",Title`, 12},
		{`tvg-name="Name, with comma",Title`, 27},
		{`no comma here`, -1},
		{`"quoted,comma",Title`, 14},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := findTitleStart(tt.input); got != tt.expected {
				t.Errorf("findTitleStart(%s) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func BenchmarkParser_Parse(b *testing.B) {
	var builder strings.Builder
	builder.WriteString("#EXTM3U\n")
	for i := 0; i < 1000; i++ {
		builder.WriteString("#EXTINF:-1 tvg-id=\"ch1\" tvg-name=\"Channel Name\" tvg-logo=\"http://logo.com/logo.png\" group-title=\"Category\",Channel Title\n")
		builder.WriteString("http://example.com/stream.m3u8\n")
	}
	content := builder.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := &Parser{OnEntry: func(entry *Entry) error { return nil }}
		_ = p.Parse(strings.NewReader(content))
	}
}
