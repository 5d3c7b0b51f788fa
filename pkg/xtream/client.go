package xtream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sentinel errors returned by the client.
var (
	// ErrInvalidServer indicates the server input does not normalize to a
	// valid absolute URL.
	ErrInvalidServer = errors.New("invalid server URL")

	// ErrUnreachable indicates the transport call failed or the server
	// answered with a non-success status.
	ErrUnreachable = errors.New("server unreachable")

	// ErrAuthFailed indicates the server is reachable but rejected the
	// credentials (no user_info payload in the auth response).
	ErrAuthFailed = errors.New("authentication rejected")
)

// Default configuration values.
const (
	DefaultTimeout = 2 * time.Minute

	pathPlayerAPI = "/player_api.php"
	pathGetM3U    = "/get.php"
	pathLive      = "/live"
	pathMovie     = "/movie"
	pathSeries    = "/series"

	actionGetUserInfo         = "get_user_info"
	actionGetLiveCategories   = "get_live_categories"
	actionGetVODCategories    = "get_vod_categories"
	actionGetSeriesCategories = "get_series_categories"
	actionGetLiveStreams      = "get_live_streams"
	actionGetVODStreams       = "get_vod_streams"
	actionGetSeries           = "get_series"
	actionGetSeriesInfo       = "get_series_info"

	paramUsername   = "username"
	paramPassword   = "password"
	paramAction     = "action"
	paramCategoryID = "category_id"
	paramSeriesID   = "series_id"
	paramType       = "type"
	paramOutput     = "output"

	// DefaultExtensionTS is the container extension for live streams.
	DefaultExtensionTS = "ts"
	// DefaultExtensionMP4 is the container extension for VOD streams.
	DefaultExtensionMP4 = "mp4"
	// DefaultExtensionMKV is the container extension for series episodes.
	DefaultExtensionMKV = "mkv"

	defaultPlaylistType = "m3u_plus"
	defaultOutputFormat = "ts"

	maxErrorBodyReadSize = 1024
)

// NormalizeServer canonicalizes a user-supplied server address: whitespace
// is trimmed, "http://" is prefixed when no scheme is present, and a
// trailing slash is removed. The scheme is never rewritten, so "https://"
// inputs stay https. Returns ErrInvalidServer when the result is not a
// syntactically valid absolute URL.
func NormalizeServer(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty server", ErrInvalidServer)
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "http://" + s
	}
	s = strings.TrimSuffix(s, "/")

	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidServer, raw)
	}
	return s, nil
}

// Client is an Xtream Codes API client bound to one server and account.
type Client struct {
	// BaseURL is the normalized server base URL (e.g. "http://example.com:8080").
	BaseURL string

	// Username is the account username.
	Username string

	// Password is the account password.
	Password string

	// HTTPClient performs the requests. If nil, a default client with
	// DefaultTimeout is used.
	HTTPClient *http.Client

	// UserAgent is sent with every request when non-empty.
	UserAgent string
}

// Option configures a Client.
type Option func(*Client)

// NewClient creates a client for the given server and account. The base URL
// should already be normalized (see NormalizeServer); a trailing slash is
// tolerated and stripped.
func NewClient(baseURL, username, password string, opts ...Option) *Client {
	c := &Client{
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		Username: username,
		Password: password,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPClient sets a custom *http.Client, allowing injection of clients
// with custom timeouts or transport middleware.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = client
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.UserAgent = ua
	}
}

// apiURL builds a player_api.php URL for the given action and parameters.
func (c *Client) apiURL(action string, params map[string]string) string {
	q := url.Values{}
	q.Set(paramUsername, c.Username)
	q.Set(paramPassword, c.Password)
	if action != "" {
		q.Set(paramAction, action)
	}
	for k, v := range params {
		q.Set(k, v)
	}
	return c.BaseURL + pathPlayerAPI + "?" + q.Encode()
}

// get performs an HTTP GET and returns the raw response body.
// Transport failures and non-2xx statuses are reported as ErrUnreachable.
func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyReadSize))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnreachable, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnreachable, err)
	}
	return body, nil
}

// getList performs a GET and decodes a JSON array leniently: anything that
// does not decode into target leaves it untouched and returns nil. This is
// the degrade-to-empty policy; one malformed listing must never abort a
// larger aggregation.
func (c *Client) getList(ctx context.Context, requestURL string, target any) error {
	body, err := c.get(ctx, requestURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return nil
	}
	return nil
}

// Authenticate issues the user-info action and verifies the credentials.
// A reachable server that answers without a user_info payload yields
// ErrAuthFailed; transport failures yield ErrUnreachable.
func (c *Client) Authenticate(ctx context.Context) (*AuthInfo, error) {
	body, err := c.get(ctx, c.apiURL(actionGetUserInfo, nil))
	if err != nil {
		return nil, err
	}

	var info AuthInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: malformed auth response", ErrAuthFailed)
	}
	if info.UserInfo == nil {
		return nil, ErrAuthFailed
	}
	return &info, nil
}

// GetCategories retrieves the categories for one content kind.
func (c *Client) GetCategories(ctx context.Context, kind Kind) ([]Category, error) {
	var action string
	switch kind {
	case KindLive:
		action = actionGetLiveCategories
	case KindVOD:
		action = actionGetVODCategories
	case KindSeries:
		action = actionGetSeriesCategories
	default:
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}

	var categories []Category
	if err := c.getList(ctx, c.apiURL(action, nil), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetLiveStreams retrieves live streams, optionally filtered by category.
func (c *Client) GetLiveStreams(ctx context.Context, categoryID string) ([]Stream, error) {
	var streams []Stream
	if err := c.getList(ctx, c.apiURL(actionGetLiveStreams, categoryParams(categoryID)), &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// GetVODStreams retrieves VOD titles, optionally filtered by category.
func (c *Client) GetVODStreams(ctx context.Context, categoryID string) ([]VODStream, error) {
	var streams []VODStream
	if err := c.getList(ctx, c.apiURL(actionGetVODStreams, categoryParams(categoryID)), &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// GetSeries retrieves series entries, optionally filtered by category.
func (c *Client) GetSeries(ctx context.Context, categoryID string) ([]Series, error) {
	var series []Series
	if err := c.getList(ctx, c.apiURL(actionGetSeries, categoryParams(categoryID)), &series); err != nil {
		return nil, err
	}
	return series, nil
}

// GetSeriesEpisodes retrieves the season-to-episodes mapping for a series.
// A malformed response yields an empty map, not an error.
func (c *Client) GetSeriesEpisodes(ctx context.Context, seriesID int64) (map[string][]Episode, error) {
	params := map[string]string{paramSeriesID: fmt.Sprintf("%d", seriesID)}

	var info SeriesInfo
	if err := c.getList(ctx, c.apiURL(actionGetSeriesInfo, params), &info); err != nil {
		return nil, err
	}
	return info.Episodes, nil
}

// categoryParams returns the optional category_id parameter map.
func categoryParams(categoryID string) map[string]string {
	if categoryID == "" {
		return nil
	}
	return map[string]string{paramCategoryID: categoryID}
}

// LiveStreamURL returns the media URL for a live stream.
func (c *Client) LiveStreamURL(streamID int64, extension string) string {
	if extension == "" {
		extension = DefaultExtensionTS
	}
	return fmt.Sprintf("%s%s/%s/%s/%d.%s", c.BaseURL, pathLive, c.Username, c.Password, streamID, extension)
}

// VODStreamURL returns the media URL for a VOD title. The extension should
// match the container_extension from the listing.
func (c *Client) VODStreamURL(streamID int64, extension string) string {
	if extension == "" {
		extension = DefaultExtensionMP4
	}
	return fmt.Sprintf("%s%s/%s/%s/%d.%s", c.BaseURL, pathMovie, c.Username, c.Password, streamID, extension)
}

// SeriesStreamURL returns the media URL for a series episode.
func (c *Client) SeriesStreamURL(episodeID int64, extension string) string {
	if extension == "" {
		extension = DefaultExtensionMKV
	}
	return fmt.Sprintf("%s%s/%s/%s/%d.%s", c.BaseURL, pathSeries, c.Username, c.Password, episodeID, extension)
}

// M3UPlaylistURL returns the legacy bulk-export URL (get.php) that yields
// the whole account as one M3U document.
func (c *Client) M3UPlaylistURL() string {
	q := url.Values{}
	q.Set(paramUsername, c.Username)
	q.Set(paramPassword, c.Password)
	q.Set(paramType, defaultPlaylistType)
	q.Set(paramOutput, defaultOutputFormat)
	return c.BaseURL + pathGetM3U + "?" + q.Encode()
}

// GetM3UPlaylist fetches the legacy bulk export as a streaming reader.
// The caller is responsible for closing the returned ReadCloser.
func (c *Client) GetM3UPlaylist(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.M3UPlaylistURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}
	return resp.Body, nil
}
