package service

import (
	"context"
	"log/slog"

	"github.com/iconidentify/vidrelay/internal/domain"
	"github.com/iconidentify/vidrelay/internal/extractor"
	"github.com/iconidentify/vidrelay/internal/httputil"
)

const (
	instagramReferer  = "https://www.instagram.com/"
	instagramFilename = "instagram_video.mp4"
)

// InstagramService resolves Instagram post and reel URLs.
type InstagramService struct {
	extractor extractor.Extractor
	opener    Opener
	logger    *slog.Logger
}

// NewInstagramService creates an Instagram service.
func NewInstagramService(ex extractor.Extractor, opener Opener, logger *slog.Logger) *InstagramService {
	return &InstagramService{
		extractor: ex,
		opener:    opener,
		logger:    logger,
	}
}

// Info resolves the post's thumbnail and stream candidates.
func (s *InstagramService) Info(ctx context.Context, rawURL string) (*domain.VideoInfo, error) {
	if !extractor.IsInstagramURL(rawURL) {
		return nil, domain.ErrInvalidURL
	}

	info, err := s.extractor.Extract(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	info.Qualities = domain.NormalizeQualities(info.Qualities)

	s.logger.Info("instagram info resolved", "qualities", len(info.Qualities))
	return info, nil
}

// Download opens the media stream for a post. When qualityURL is empty the
// post is re-extracted and its first stream candidate is used.
func (s *InstagramService) Download(ctx context.Context, rawURL, qualityURL string) (*DownloadStream, error) {
	if !extractor.IsInstagramURL(rawURL) {
		return nil, domain.ErrInvalidURL
	}

	if qualityURL == "" {
		info, err := s.extractor.Extract(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		if len(info.Qualities) == 0 || info.Qualities[0].URL == "" {
			return nil, domain.ErrNoStreams
		}
		qualityURL = info.Qualities[0].URL
	} else if err := httputil.ValidateURL(qualityURL); err != nil {
		return nil, domain.ErrInvalidURL
	}

	if err := checkStream(ctx, s.opener, qualityURL, instagramReferer); err != nil {
		return nil, err
	}

	stream, err := s.opener.Open(ctx, qualityURL, instagramReferer)
	if err != nil {
		return nil, err
	}

	s.logger.Info("instagram download started", "size", stream.Size)

	return &DownloadStream{
		Body:        stream.Body,
		Size:        stream.Size,
		ContentType: "video/mp4",
		Filename:    instagramFilename,
	}, nil
}
