package m3u

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Writer provides streaming M3U playlist writing.
//
// Attribute values are sanitized by stripping double quotes, so a
// written playlist always parses back to the same values.
type Writer struct {
	w             io.Writer
	headerWritten bool
}

// NewWriter creates a new M3U writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteHeader writes the #EXTM3U header. WriteEntry calls it
// automatically on first use.
func (w *Writer) WriteHeader() error {
	if w.headerWritten {
		return nil
	}
	if _, err := fmt.Fprintln(w.w, "#EXTM3U"); err != nil {
		return fmt.Errorf("writing M3U header: %w", err)
	}
	w.headerWritten = true
	return nil
}

// WriteEntry writes one channel entry. Named attributes are emitted in
// a fixed order so output is deterministic.
func (w *Writer) WriteEntry(entry *Entry) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}

	var attrs []string

	if entry.TvgID != "" {
		attrs = append(attrs, fmt.Sprintf(`tvg-id="%s"`, sanitizeAttr(entry.TvgID)))
	}
	if entry.TvgName != "" {
		attrs = append(attrs, fmt.Sprintf(`tvg-name="%s"`, sanitizeAttr(entry.TvgName)))
	}
	if entry.TvgLogo != "" {
		attrs = append(attrs, fmt.Sprintf(`tvg-logo="%s"`, sanitizeAttr(entry.TvgLogo)))
	}
	if entry.GroupTitle != "" {
		attrs = append(attrs, fmt.Sprintf(`group-title="%s"`, sanitizeAttr(entry.GroupTitle)))
	}

	if len(entry.Extra) > 0 {
		keys := make([]string, 0, len(entry.Extra))
		for k := range entry.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			attrs = append(attrs, fmt.Sprintf(`%s="%s"`, k, sanitizeAttr(entry.Extra[k])))
		}
	}

	duration := entry.Duration
	if duration == 0 {
		duration = -1
	}

	var extinf string
	if len(attrs) > 0 {
		extinf = fmt.Sprintf("#EXTINF:%d %s,%s", duration, strings.Join(attrs, " "), sanitizeTitle(entry.Title))
	} else {
		extinf = fmt.Sprintf("#EXTINF:%d,%s", duration, sanitizeTitle(entry.Title))
	}

	if _, err := fmt.Fprintln(w.w, extinf); err != nil {
		return fmt.Errorf("writing EXTINF: %w", err)
	}
	if _, err := fmt.Fprintln(w.w, entry.URL); err != nil {
		return fmt.Errorf("writing URL: %w", err)
	}

	return nil
}

// sanitizeAttr strips double quotes, which the EXTINF attribute grammar
// cannot represent inside a quoted value.
func sanitizeAttr(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

func sanitizeTitle(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}
