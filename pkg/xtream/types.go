package xtream

import (
	"encoding/json"
	"strconv"
	"time"
)

// Kind identifies one of the three content kinds the control API exposes.
type Kind string

const (
	// KindLive is live television.
	KindLive Kind = "live"
	// KindVOD is video on demand.
	KindVOD Kind = "vod"
	// KindSeries is episodic content.
	KindSeries Kind = "series"
)

// AuthInfo is the response to the user-info action. UserInfo is a pointer
// because its absence is how the API signals rejected credentials.
type AuthInfo struct {
	UserInfo   *UserInfo  `json:"user_info"`
	ServerInfo ServerInfo `json:"server_info"`
}

// UserInfo contains account information.
type UserInfo struct {
	Username          string  `json:"username"`
	Message           string  `json:"message"`
	Auth              FlexInt `json:"auth"`
	Status            string  `json:"status"`
	ExpDate           FlexInt `json:"exp_date"`
	IsTrial           FlexInt `json:"is_trial"`
	ActiveConnections FlexInt `json:"active_cons"`
	MaxConnections    FlexInt `json:"max_connections"`
}

// ExpirationTime returns the account expiration time, zero when unset.
func (u *UserInfo) ExpirationTime() time.Time {
	if u.ExpDate.Int() == 0 {
		return time.Time{}
	}
	return time.Unix(u.ExpDate.Int(), 0)
}

// ServerInfo contains server configuration information.
type ServerInfo struct {
	URL            string  `json:"url"`
	Port           FlexInt `json:"port"`
	HTTPSPort      FlexInt `json:"https_port"`
	ServerProtocol string  `json:"server_protocol"`
	Timezone       string  `json:"timezone"`
}

// Category represents one content category.
type Category struct {
	CategoryID   FlexString `json:"category_id"`
	CategoryName string     `json:"category_name"`
	ParentID     FlexInt    `json:"parent_id"`
}

// Stream represents a live channel listing entry.
type Stream struct {
	Num          FlexInt    `json:"num"`
	Name         string     `json:"name"`
	StreamType   string     `json:"stream_type"`
	StreamID     FlexInt    `json:"stream_id"`
	StreamIcon   string     `json:"stream_icon"`
	EPGChannelID string     `json:"epg_channel_id"`
	CategoryID   FlexString `json:"category_id"`
	IsAdult      FlexInt    `json:"is_adult"`
	DirectSource string     `json:"direct_source"`
}

// VODStream represents a video-on-demand listing entry.
type VODStream struct {
	Num                FlexInt    `json:"num"`
	Name               string     `json:"name"`
	StreamType         string     `json:"stream_type"`
	StreamID           FlexInt    `json:"stream_id"`
	StreamIcon         string     `json:"stream_icon"`
	CategoryID         FlexString `json:"category_id"`
	ContainerExtension string     `json:"container_extension"`
	IsAdult            FlexInt    `json:"is_adult"`
}

// Series represents a series listing entry.
type Series struct {
	Num        FlexInt    `json:"num"`
	Name       string     `json:"name"`
	SeriesID   FlexInt    `json:"series_id"`
	Cover      string     `json:"cover"`
	Plot       string     `json:"plot"`
	Genre      string     `json:"genre"`
	CategoryID FlexString `json:"category_id"`
}

// SeriesInfo is the response to the series-info action. Only the episode
// map matters to playlist construction.
type SeriesInfo struct {
	Episodes map[string][]Episode `json:"episodes"`
}

// Episode represents a single episode inside a series-info response.
type Episode struct {
	ID                 FlexInt `json:"id"`
	EpisodeNum         FlexInt `json:"episode_num"`
	Title              string  `json:"title"`
	ContainerExtension string  `json:"container_extension"`
	Season             FlexInt `json:"season"`
}

// FlexInt handles JSON numbers that providers send as either strings or
// integers. Unparseable values decode to zero.
type FlexInt int64

// Int returns the integer value.
func (f FlexInt) Int() int64 {
	return int64(f)
}

// UnmarshalJSON handles both string and number JSON values.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt(n)
		return nil
	}

	*f = 0
	return nil
}

// FlexString handles JSON values that providers send as either strings or
// numbers.
type FlexString string

// String returns the string value.
func (f FlexString) String() string {
	return string(f)
}

// UnmarshalJSON handles both string and number JSON values.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	*f = ""
	return nil
}
