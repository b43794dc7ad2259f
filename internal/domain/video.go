package domain

// QualityOption is one candidate stream variant (resolution, container,
// audio/video presence) for a resolved video.
type QualityOption struct {
	Label     string   `json:"label"`
	Container string   `json:"container"`
	SizeMB    *float64 `json:"sizeMB,omitempty"`
	HasAudio  bool     `json:"hasAudio"`
	HasVideo  bool     `json:"hasVideo"`
	Itag      int      `json:"itag,omitempty"`
	URL       string   `json:"directUrl,omitempty"`
}

// VideoInfo is the metadata resolved from a video page URL. It lives for a
// single request/response cycle and is never persisted.
type VideoInfo struct {
	Title           string
	Thumbnail       string
	DurationSeconds int
	Author          string
	Qualities       []QualityOption
}

// ResolvedStream is a direct media URL selected for relaying, together with
// the metadata needed to build response headers.
type ResolvedStream struct {
	URL      string
	Title    string
	MimeType string
}
