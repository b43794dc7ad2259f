// Package httputil provides URL validation and filename sanitization for
// user-supplied input.
package httputil

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

const maxFilenameLength = 100

// ValidateURL checks that a string is a well-formed absolute HTTP(S) URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// SanitizeFilename reduces a video title to a string safe for use in a
// Content-Disposition header and on common filesystems. Only letters, digits,
// spaces, underscores and hyphens survive; runs of whitespace collapse to a
// single space. An empty result falls back to "video".
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '_' || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	out := strings.Join(strings.Fields(b.String()), " ")
	if runes := []rune(out); len(runes) > maxFilenameLength {
		out = strings.TrimSpace(string(runes[:maxFilenameLength]))
	}
	if out == "" {
		return "video"
	}
	return out
}
