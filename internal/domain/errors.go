package domain

import "errors"

var (
	// ErrInvalidURL indicates the submitted string is not a plausible page URL
	// for the requested platform.
	ErrInvalidURL = errors.New("invalid video URL")

	// ErrNoStreams indicates the extractor resolved the page but found no
	// usable media stream.
	ErrNoStreams = errors.New("no usable streams found")

	// ErrVideoNotFound indicates the platform reported the video as missing
	// or private.
	ErrVideoNotFound = errors.New("video not found")

	// ErrURLExpired indicates a resolved media URL is no longer accessible.
	ErrURLExpired = errors.New("media URL has expired")

	// ErrRateLimited indicates the upstream platform is rate limiting us.
	ErrRateLimited = errors.New("rate limited by upstream")

	// ErrExtractFailed indicates the extraction library failed for a reason
	// other than the above.
	ErrExtractFailed = errors.New("extraction failed")
)
