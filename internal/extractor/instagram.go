package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/iconidentify/vidrelay/internal/domain"
)

// videoURLPattern matches the escaped video_url field inside the JSON blobs
// Instagram embeds in post pages.
var videoURLPattern = regexp.MustCompile(`"video_url"\s*:\s*"([^"]+)"`)

// Instagram resolves post and reel URLs by fetching the page and reading its
// Open Graph tags, falling back to the embedded JSON payload.
type Instagram struct {
	client    *http.Client
	userAgent string
}

// NewInstagram creates an Instagram extractor.
func NewInstagram(client *http.Client, userAgent string) *Instagram {
	if client == nil {
		client = http.DefaultClient
	}
	return &Instagram{client: client, userAgent: userAgent}
}

// IsInstagramURL reports whether a string is a plausible Instagram post,
// reel or IGTV page URL.
func IsInstagramURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "instagram.com" && host != "m.instagram.com" {
		return false
	}

	for _, prefix := range []string{"/p/", "/reel/", "/reels/", "/tv/"} {
		if strings.HasPrefix(u.Path, prefix) && len(u.Path) > len(prefix) {
			return true
		}
	}
	return false
}

// Extract fetches the post page and resolves the direct video URL and
// thumbnail. Returns domain.ErrNoStreams when the page has no video.
func (e *Instagram) Extract(ctx context.Context, pageURL string) (*domain.VideoInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrExtractFailed, err)
	}

	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch page: %v", domain.ErrExtractFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, domain.ErrVideoNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrExtractFailed, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse page: %v", domain.ErrExtractFailed, err)
	}

	videoURL := metaContent(doc, "og:video")
	if videoURL == "" {
		videoURL = metaContent(doc, "og:video:secure_url")
	}
	if videoURL == "" {
		videoURL = embeddedVideoURL(doc)
	}
	if videoURL == "" {
		return nil, domain.ErrNoStreams
	}

	return &domain.VideoInfo{
		Title:     metaContent(doc, "og:title"),
		Thumbnail: metaContent(doc, "og:image"),
		Qualities: []domain.QualityOption{
			{
				Label:     "original",
				Container: "mp4",
				HasAudio:  true,
				HasVideo:  true,
				URL:       videoURL,
			},
		},
	}, nil
}

func metaContent(doc *goquery.Document, property string) string {
	sel := fmt.Sprintf(`meta[property=%q]`, property)
	content, _ := doc.Find(sel).Attr("content")
	return content
}

// embeddedVideoURL scans the page's inline scripts for a video_url field.
// The value arrives JSON-escaped.
func embeddedVideoURL(doc *goquery.Document) string {
	var found string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		m := videoURLPattern.FindStringSubmatch(s.Text())
		if len(m) == 2 {
			found = unescapeJSONURL(m[1])
			return false
		}
		return true
	})
	return found
}

func unescapeJSONURL(s string) string {
	r := strings.NewReplacer(
		"\\u0026", "&",
		"\\u003d", "=",
		"\\/", "/",
	)
	return r.Replace(s)
}
