package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kkdai/youtube/v2"

	"github.com/iconidentify/vidrelay/internal/domain"
)

// YouTube resolves YouTube watch URLs through the kkdai/youtube client.
type YouTube struct {
	client *youtube.Client
}

// NewYouTube creates a YouTube extractor. httpClient may be nil, in which
// case the library uses its own default.
func NewYouTube(httpClient *http.Client) *YouTube {
	return &YouTube{
		client: &youtube.Client{HTTPClient: httpClient},
	}
}

// IsYouTubeURL reports whether a string is a plausible YouTube video page URL.
func IsYouTubeURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		return strings.HasPrefix(u.Path, "/watch") ||
			strings.HasPrefix(u.Path, "/shorts/") ||
			strings.HasPrefix(u.Path, "/embed/") ||
			strings.HasPrefix(u.Path, "/live/")
	case "youtu.be":
		return len(strings.Trim(u.Path, "/")) > 0
	}
	return false
}

// Extract resolves a watch URL to video metadata and the full set of
// candidate formats.
func (e *YouTube) Extract(ctx context.Context, pageURL string) (*domain.VideoInfo, error) {
	video, err := e.client.GetVideoContext(ctx, pageURL)
	if err != nil {
		return nil, wrapYouTubeError(err)
	}
	return mapVideo(video), nil
}

// ResolveStream selects a format and resolves its direct media URL. An itag
// of zero selects the best mp4 format that carries both audio and video.
func (e *YouTube) ResolveStream(ctx context.Context, pageURL string, itag int) (*domain.ResolvedStream, error) {
	video, err := e.client.GetVideoContext(ctx, pageURL)
	if err != nil {
		return nil, wrapYouTubeError(err)
	}

	format := selectFormat(video.Formats, itag)
	if format == nil {
		return nil, domain.ErrNoStreams
	}

	streamURL, err := e.client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve stream URL: %v", domain.ErrExtractFailed, err)
	}

	return &domain.ResolvedStream{
		URL:      streamURL,
		Title:    video.Title,
		MimeType: format.MimeType,
	}, nil
}

// mapVideo shapes a library video into the uniform response model. Keeping
// this a standalone function makes the provider-specific quirks testable
// without network access.
func mapVideo(video *youtube.Video) *domain.VideoInfo {
	info := &domain.VideoInfo{
		Title:           video.Title,
		Author:          video.Author,
		DurationSeconds: int(video.Duration.Seconds()),
		Qualities:       mapFormats(video.Formats),
	}
	if len(video.Thumbnails) > 0 {
		// Thumbnails are ordered smallest first.
		info.Thumbnail = video.Thumbnails[len(video.Thumbnails)-1].URL
	}
	return info
}

// mapFormats converts library formats to quality options. Formats without a
// quality label (audio-only streams among them) keep an empty label and are
// sorted last by the normalizer.
func mapFormats(formats youtube.FormatList) []domain.QualityOption {
	opts := make([]domain.QualityOption, 0, len(formats))
	for _, f := range formats {
		opt := domain.QualityOption{
			Label:     f.QualityLabel,
			Container: containerOf(f.MimeType),
			HasAudio:  f.AudioChannels > 0,
			HasVideo:  f.QualityLabel != "",
			Itag:      f.ItagNo,
		}
		if f.ContentLength > 0 {
			mb := float64(f.ContentLength) / (1024 * 1024)
			opt.SizeMB = &mb
		}
		opts = append(opts, opt)
	}
	return opts
}

// selectFormat picks the format for a requested itag, or the best muxed mp4
// when no itag is given. Preference order for the default: highest resolution
// mp4 with audio, then any mp4, then whatever the library returned first.
func selectFormat(formats youtube.FormatList, itag int) *youtube.Format {
	if len(formats) == 0 {
		return nil
	}

	if itag != 0 {
		if matched := formats.Itag(itag); len(matched) > 0 {
			return &matched[0]
		}
		return nil
	}

	var best *youtube.Format
	bestRes := -1
	for i := range formats {
		f := &formats[i]
		if !strings.Contains(f.MimeType, "video/mp4") || f.AudioChannels == 0 {
			continue
		}
		res, _ := domain.Resolution(f.QualityLabel)
		if res > bestRes {
			best = f
			bestRes = res
		}
	}
	if best != nil {
		return best
	}

	for i := range formats {
		if strings.Contains(formats[i].MimeType, "video/mp4") {
			return &formats[i]
		}
	}
	return &formats[0]
}

// containerOf extracts the container name from a MIME type string like
// `video/mp4; codecs="avc1.640028, mp4a.40.2"`.
func containerOf(mimeType string) string {
	mt := mimeType
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	if i := strings.Index(mt, "/"); i >= 0 {
		mt = mt[i+1:]
	}
	return strings.TrimSpace(mt)
}

func wrapYouTubeError(err error) error {
	var playErr *youtube.ErrPlayabiltyStatus
	if errors.As(err, &playErr) {
		return fmt.Errorf("%w: %s", domain.ErrVideoNotFound, playErr.Reason)
	}
	return fmt.Errorf("%w: %v", domain.ErrExtractFailed, err)
}
