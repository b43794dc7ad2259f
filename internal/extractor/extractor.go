// Package extractor resolves platform page URLs to direct media URLs and
// metadata. Each platform has its own adapter; the actual page parsing is
// delegated to third-party libraries.
package extractor

import (
	"context"

	"github.com/iconidentify/vidrelay/internal/domain"
)

// Extractor resolves a video page URL to metadata and candidate streams.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (*domain.VideoInfo, error)
}
