package handler

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/iconidentify/vidrelay/internal/domain"
	"github.com/iconidentify/vidrelay/internal/service"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockYouTubeService is a test implementation of YouTubeService.
type mockYouTubeService struct {
	info        *domain.VideoInfo
	infoErr     error
	download    *service.DownloadStream
	downloadErr error
	lastURL     string
	lastItag    int
}

func (m *mockYouTubeService) Info(ctx context.Context, rawURL string) (*domain.VideoInfo, error) {
	m.lastURL = rawURL
	if m.infoErr != nil {
		return nil, m.infoErr
	}
	return m.info, nil
}

func (m *mockYouTubeService) Download(ctx context.Context, rawURL string, itag int) (*service.DownloadStream, error) {
	m.lastURL = rawURL
	m.lastItag = itag
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	return m.download, nil
}

// mockInstagramService is a test implementation of InstagramService.
type mockInstagramService struct {
	info           *domain.VideoInfo
	infoErr        error
	download       *service.DownloadStream
	downloadErr    error
	lastQualityURL string
}

func (m *mockInstagramService) Info(ctx context.Context, rawURL string) (*domain.VideoInfo, error) {
	if m.infoErr != nil {
		return nil, m.infoErr
	}
	return m.info, nil
}

func (m *mockInstagramService) Download(ctx context.Context, rawURL, qualityURL string) (*service.DownloadStream, error) {
	m.lastQualityURL = qualityURL
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	return m.download, nil
}

// fakeStream builds a DownloadStream over an in-memory body.
func fakeStream(filename, content string) *service.DownloadStream {
	return &service.DownloadStream{
		Body:        io.NopCloser(strings.NewReader(content)),
		Size:        int64(len(content)),
		ContentType: "video/mp4",
		Filename:    filename,
	}
}
