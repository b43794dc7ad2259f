package service

import (
	"context"
	"log/slog"

	"github.com/iconidentify/vidrelay/internal/domain"
	"github.com/iconidentify/vidrelay/internal/extractor"
	"github.com/iconidentify/vidrelay/internal/httputil"
)

const youtubeReferer = "https://www.youtube.com/"

// YouTubeResolver is the extraction surface the YouTube service depends on.
type YouTubeResolver interface {
	Extract(ctx context.Context, pageURL string) (*domain.VideoInfo, error)
	ResolveStream(ctx context.Context, pageURL string, itag int) (*domain.ResolvedStream, error)
}

// YouTubeService resolves YouTube page URLs to metadata and relayable streams.
type YouTubeService struct {
	resolver YouTubeResolver
	opener   Opener
	logger   *slog.Logger
}

// NewYouTubeService creates a YouTube service.
func NewYouTubeService(resolver YouTubeResolver, opener Opener, logger *slog.Logger) *YouTubeService {
	return &YouTubeService{
		resolver: resolver,
		opener:   opener,
		logger:   logger,
	}
}

// Info resolves video metadata with deduplicated, resolution-sorted quality
// options.
func (s *YouTubeService) Info(ctx context.Context, rawURL string) (*domain.VideoInfo, error) {
	if !extractor.IsYouTubeURL(rawURL) {
		return nil, domain.ErrInvalidURL
	}

	info, err := s.resolver.Extract(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	info.Qualities = domain.NormalizeQualities(info.Qualities)
	if len(info.Qualities) == 0 {
		return nil, domain.ErrNoStreams
	}

	s.logger.Info("youtube info resolved",
		"title", info.Title,
		"qualities", len(info.Qualities),
	)
	return info, nil
}

// Download resolves the requested format (best muxed mp4 when itag is zero)
// and opens its media stream.
func (s *YouTubeService) Download(ctx context.Context, rawURL string, itag int) (*DownloadStream, error) {
	if !extractor.IsYouTubeURL(rawURL) {
		return nil, domain.ErrInvalidURL
	}

	resolved, err := s.resolver.ResolveStream(ctx, rawURL, itag)
	if err != nil {
		return nil, err
	}

	if err := checkStream(ctx, s.opener, resolved.URL, youtubeReferer); err != nil {
		return nil, err
	}

	stream, err := s.opener.Open(ctx, resolved.URL, youtubeReferer)
	if err != nil {
		return nil, err
	}

	s.logger.Info("youtube download started",
		"title", resolved.Title,
		"itag", itag,
		"size", stream.Size,
	)

	return &DownloadStream{
		Body:        stream.Body,
		Size:        stream.Size,
		ContentType: "video/mp4",
		Filename:    httputil.SanitizeFilename(resolved.Title) + ".mp4",
	}, nil
}
