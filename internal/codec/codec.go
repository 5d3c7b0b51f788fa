// Package codec converts between canonical stream records and M3U
// playlist text.
//
// Serialization and parsing obey a round-trip law: parsing a serialized
// playlist yields the same id/kind/extension/name/category/icon fields,
// and re-serializing parsed text reproduces it byte for byte.
package codec

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/plucktv/plucktv/internal/models"
	"github.com/plucktv/plucktv/pkg/m3u"
)

// streamURLRegex matches the tail of an Xtream stream URL:
// /{live|movie|series}/<user>/<pass>/<id>.<ext>
var streamURLRegex = regexp.MustCompile(`/(live|movie|series)/([^/]+)/([^/]+)/(\d+)\.([A-Za-z0-9]+)$`)

// StreamURL builds the playable URL for one stream. Empty container
// extensions fall back to the per-kind default (ts/mp4/mkv).
func StreamURL(creds models.Credentials, s models.Stream) string {
	ext := s.ContainerExt
	if ext == "" {
		switch s.Kind {
		case models.ContentKindVOD:
			ext = "mp4"
		case models.ContentKindSeries:
			ext = "mkv"
		default:
			ext = "ts"
		}
	}
	var sb strings.Builder
	sb.WriteString(creds.Server)
	sb.WriteString("/")
	sb.WriteString(s.Kind.URLSegment())
	sb.WriteString("/")
	sb.WriteString(creds.Username)
	sb.WriteString("/")
	sb.WriteString(creds.Password)
	sb.WriteString("/")
	sb.WriteString(strconv.FormatInt(s.ID, 10))
	sb.WriteString(".")
	sb.WriteString(ext)
	return sb.String()
}

// Serialize renders streams as an extended M3U playlist. Icons are
// emitted only when they are http(s) URLs; quote characters never
// survive into attribute values or titles.
func Serialize(creds models.Credentials, streams []models.Stream) string {
	var sb strings.Builder
	w := m3u.NewWriter(&sb)
	// An empty playlist still carries the header.
	_ = w.WriteHeader()

	for _, s := range streams {
		entry := &m3u.Entry{
			Duration:   -1,
			TvgLogo:    models.SanitizeIcon(s.Icon),
			GroupTitle: s.CategoryName,
			Title:      s.Name,
			URL:        StreamURL(creds, s),
		}
		_ = w.WriteEntry(entry)
	}
	return sb.String()
}

// Parse decodes playlist text into canonical streams. Entries whose URL
// does not match the Xtream stream grammar are silently dropped, as are
// entries without a display name and bare URL lines that had no EXTINF
// directive.
func Parse(text string) []models.Stream {
	var streams []models.Stream
	_ = m3u.ParseString(text, func(entry *m3u.Entry) error {
		if s, ok := fromEntry(entry); ok {
			streams = append(streams, s)
		}
		return nil
	})
	return streams
}

// ParseReader decodes a playlist from a reader, transparently handling
// gzip/bzip2/xz compressed payloads.
func ParseReader(r io.Reader) ([]models.Stream, error) {
	var streams []models.Stream
	p := &m3u.Parser{OnEntry: func(entry *m3u.Entry) error {
		if s, ok := fromEntry(entry); ok {
			streams = append(streams, s)
		}
		return nil
	}}
	if err := p.ParseCompressed(r); err != nil {
		return nil, err
	}
	return streams, nil
}

func fromEntry(entry *m3u.Entry) (models.Stream, bool) {
	if entry.NoExtinf {
		return models.Stream{}, false
	}
	matches := streamURLRegex.FindStringSubmatch(entry.URL)
	if matches == nil {
		return models.Stream{}, false
	}

	kind, err := models.KindFromURLSegment(matches[1])
	if err != nil {
		return models.Stream{}, false
	}
	id, err := strconv.ParseInt(matches[4], 10, 64)
	if err != nil {
		return models.Stream{}, false
	}

	name := entry.Title
	if name == "" {
		name = entry.TvgName
	}
	name = strings.TrimSpace(strings.ReplaceAll(name, `"`, ""))
	if name == "" {
		return models.Stream{}, false
	}

	return models.Stream{
		ID:           id,
		Name:         name,
		Icon:         models.SanitizeIcon(entry.TvgLogo),
		CategoryName: entry.GroupTitle,
		Kind:         kind,
		ContainerExt: matches[5],
	}, true
}
