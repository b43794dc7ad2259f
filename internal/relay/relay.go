// Package relay fetches resolved media URLs and exposes their bytes for
// forwarding to the original caller.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/iconidentify/vidrelay/internal/config"
	"github.com/iconidentify/vidrelay/internal/domain"
)

// Stream is an open media stream ready to be copied to a client.
type Stream struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Relay opens outbound connections to media CDNs.
type Relay struct {
	// probeClient is used for short requests (HEAD probes) with an overall
	// timeout. streamClient serves long downloads and only bounds the time
	// to response headers.
	probeClient  *http.Client
	streamClient *http.Client
	userAgent    string
	retry        RetryConfig
	logger       *slog.Logger
}

// ProbeResult describes the accessibility of a media URL.
type ProbeResult struct {
	StatusCode    int
	ContentType   string
	ContentLength int64
	Accessible    bool
	Error         string
}

// upstreamStatusError is a non-sentinel upstream response; the status code
// decides whether another attempt is worthwhile.
type upstreamStatusError struct {
	StatusCode int
}

func (e *upstreamStatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// New creates a relay from fetch configuration.
func New(cfg config.FetchConfig, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		probeClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		streamClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: cfg.HeaderTimeout,
			},
		},
		userAgent: cfg.UserAgent,
		retry: RetryConfig{
			MaxAttempts:   cfg.RetryAttempts,
			InitialDelay:  cfg.RetryDelay,
			MaxDelay:      cfg.MaxRetryDelay,
			BackoffFactor: 2.0,
		},
		logger: logger,
	}
}

// Open fetches a media URL for relaying. Retryable upstream failures are
// retried with backoff; expired URLs are not. The caller owns the returned
// body.
func (r *Relay) Open(ctx context.Context, mediaURL, referer string) (*Stream, error) {
	sessionID := uuid.NewString()
	logger := r.logger.With("relay_id", sessionID)

	stream, err := Retry(ctx, r.retry, func() (*Stream, error) {
		return r.openOnce(ctx, mediaURL, referer, logger)
	}, isRetryable)
	if err != nil {
		return nil, fmt.Errorf("open media stream: %w", err)
	}

	logger.Info("media stream opened",
		"size", stream.Size,
		"content_type", stream.ContentType,
	)
	return stream, nil
}

func (r *Relay) openOnce(ctx context.Context, mediaURL, referer string, logger *slog.Logger) (*Stream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// Browser-like headers; some CDNs refuse bare clients.
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "video/mp4,video/*;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := r.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		resp.Body.Close()
		return nil, domain.ErrURLExpired
	case resp.StatusCode == http.StatusTooManyRequests:
		resp.Body.Close()
		return nil, domain.ErrRateLimited
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent:
		resp.Body.Close()
		return nil, &upstreamStatusError{StatusCode: resp.StatusCode}
	}

	size := resp.ContentLength
	if size < 0 {
		if cl := resp.Header.Get("Content-Length"); cl != "" {
			size, _ = strconv.ParseInt(cl, 10, 64)
		}
	}

	return &Stream{
		Body:        newProgressReader(resp.Body, size, logger),
		Size:        size,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// Probe checks URL accessibility without downloading content.
func (r *Relay) Probe(ctx context.Context, mediaURL, referer string) (*ProbeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", r.userAgent)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := r.probeClient.Do(req)
	if err != nil {
		return &ProbeResult{Accessible: false, Error: err.Error()}, nil
	}
	defer resp.Body.Close()

	result := &ProbeResult{
		StatusCode:    resp.StatusCode,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		Accessible:    resp.StatusCode == http.StatusOK,
	}
	if !result.Accessible {
		result.Error = fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return result, nil
}

func isRetryable(err error) bool {
	if errors.Is(err, domain.ErrURLExpired) {
		return false
	}
	// Other client errors (404, 410, ...) are permanent; rate limits arrive
	// as ErrRateLimited and stay retryable.
	var statusErr *upstreamStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}

// progressReader wraps a media body to log transfer progress.
type progressReader struct {
	reader      io.ReadCloser
	total       int64
	transferred int64
	lastLog     time.Time
	logger      *slog.Logger
}

func newProgressReader(r io.ReadCloser, total int64, logger *slog.Logger) *progressReader {
	return &progressReader{
		reader:  r,
		total:   total,
		lastLog: time.Now(),
		logger:  logger,
	}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.reader.Read(buf)
	if n > 0 {
		p.transferred += int64(n)
		if time.Since(p.lastLog) > 30*time.Second {
			p.logProgress()
			p.lastLog = time.Now()
		}
	}
	return n, err
}

func (p *progressReader) Close() error {
	if p.transferred > 0 {
		p.logProgress()
	}
	return p.reader.Close()
}

func (p *progressReader) logProgress() {
	if p.total > 0 {
		pct := float64(p.transferred) / float64(p.total) * 100
		p.logger.Info("relay progress",
			"transferred_mb", p.transferred/(1024*1024),
			"total_mb", p.total/(1024*1024),
			"percent", fmt.Sprintf("%.1f%%", pct),
		)
	} else {
		p.logger.Info("relay progress",
			"transferred_mb", p.transferred/(1024*1024),
		)
	}
}
