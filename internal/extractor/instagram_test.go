package extractor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iconidentify/vidrelay/internal/domain"
)

func TestIsInstagramURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"post", "https://www.instagram.com/p/Cxyz123/", true},
		{"reel", "https://instagram.com/reel/Cxyz123/", true},
		{"reels", "https://www.instagram.com/reels/Cxyz123/", true},
		{"igtv", "https://www.instagram.com/tv/Cxyz123/", true},
		{"profile", "https://www.instagram.com/someuser/", false},
		{"bare post path", "https://www.instagram.com/p/", false},
		{"youtube", "https://www.youtube.com/watch?v=x", false},
		{"plain text", "reel/Cxyz123", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInstagramURL(tt.url); got != tt.want {
				t.Errorf("IsInstagramURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestInstagram_Extract_OpenGraph(t *testing.T) {
	page := `<!DOCTYPE html><html><head>
		<meta property="og:title" content="Some reel" />
		<meta property="og:image" content="https://cdn.example.com/thumb.jpg" />
		<meta property="og:video" content="https://cdn.example.com/video.mp4" />
	</head><body></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("User-Agent = %q, want test-agent", ua)
		}
		w.Write([]byte(page))
	}))
	defer srv.Close()

	e := NewInstagram(srv.Client(), "test-agent")
	info, err := e.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if info.Thumbnail != "https://cdn.example.com/thumb.jpg" {
		t.Errorf("Thumbnail = %q", info.Thumbnail)
	}
	if len(info.Qualities) != 1 {
		t.Fatalf("len(Qualities) = %d, want 1", len(info.Qualities))
	}
	q := info.Qualities[0]
	if q.URL != "https://cdn.example.com/video.mp4" {
		t.Errorf("URL = %q", q.URL)
	}
	if q.Label != "original" || q.Container != "mp4" || !q.HasAudio || !q.HasVideo {
		t.Errorf("quality = %+v", q)
	}
}

func TestInstagram_Extract_EmbeddedJSON(t *testing.T) {
	page := `<html><head>
		<meta property="og:image" content="https://cdn.example.com/thumb.jpg" />
	</head><body>
	<script type="application/json">
		{"items":[{"video_url":"https:\/\/cdn.example.com\/v.mp4?tok=a&sig=b"}]}
	</script>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	e := NewInstagram(srv.Client(), "test-agent")
	info, err := e.Extract(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := "https://cdn.example.com/v.mp4?tok=a&sig=b"
	if info.Qualities[0].URL != want {
		t.Errorf("URL = %q, want %q", info.Qualities[0].URL, want)
	}
}

func TestInstagram_Extract_NoVideo(t *testing.T) {
	page := `<html><head>
		<meta property="og:image" content="https://cdn.example.com/photo.jpg" />
	</head><body></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	e := NewInstagram(srv.Client(), "test-agent")
	_, err := e.Extract(context.Background(), srv.URL)
	if !errors.Is(err, domain.ErrNoStreams) {
		t.Errorf("error = %v, want ErrNoStreams", err)
	}
}

func TestInstagram_Extract_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewInstagram(srv.Client(), "test-agent")
	_, err := e.Extract(context.Background(), srv.URL)
	if !errors.Is(err, domain.ErrVideoNotFound) {
		t.Errorf("error = %v, want ErrVideoNotFound", err)
	}
}

func TestInstagram_Extract_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	e := NewInstagram(srv.Client(), "test-agent")
	_, err := e.Extract(context.Background(), srv.URL)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
}

func TestUnescapeJSONURL(t *testing.T) {
	in := `https:\/\/cdn.example.com\/v.mp4?a=1\u0026b=2\u003d3`
	want := "https://cdn.example.com/v.mp4?a=1&b=2=3"
	if got := unescapeJSONURL(in); got != want {
		t.Errorf("unescapeJSONURL = %q, want %q", got, want)
	}
}
