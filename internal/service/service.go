// Package service orchestrates the per-provider flow: validate the page URL,
// delegate extraction, normalize qualities, and open streams for relaying.
package service

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/iconidentify/vidrelay/internal/domain"
	"github.com/iconidentify/vidrelay/internal/relay"
)

// DownloadStream carries an open media stream plus the values handlers need
// for response headers.
type DownloadStream struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
	Filename    string
}

// Opener opens resolved media URLs for relaying.
type Opener interface {
	Probe(ctx context.Context, mediaURL, referer string) (*relay.ProbeResult, error)
	Open(ctx context.Context, mediaURL, referer string) (*relay.Stream, error)
}

// checkStream probes a resolved URL before the relay starts so a dead stream
// fails as JSON instead of an aborted download. Some CDNs reject HEAD
// outright; that is inconclusive, not a failure.
func checkStream(ctx context.Context, opener Opener, mediaURL, referer string) error {
	res, err := opener.Probe(ctx, mediaURL, referer)
	if err != nil {
		return fmt.Errorf("%w: probe stream: %v", domain.ErrExtractFailed, err)
	}
	if res.Accessible || res.StatusCode == http.StatusMethodNotAllowed {
		return nil
	}

	switch res.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrURLExpired
	case http.StatusNotFound, http.StatusGone:
		return fmt.Errorf("%w: media stream gone", domain.ErrVideoNotFound)
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	}
	return fmt.Errorf("%w: media stream inaccessible: %s", domain.ErrExtractFailed, res.Error)
}
