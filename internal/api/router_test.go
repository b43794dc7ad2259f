package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iconidentify/vidrelay/internal/api/handler"
)

func newTestRouter(apiKey string) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(
		handler.NewYouTubeHandler(nil, logger),
		handler.NewInstagramHandler(nil, logger),
		handler.NewHealthHandler("test"),
		apiKey,
		logger,
	)
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRouter_HealthBypassesAuth(t *testing.T) {
	router := newTestRouter("secret")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 without credentials", w.Code)
	}
}

func TestRouter_APIRequiresKeyWhenConfigured(t *testing.T) {
	router := newTestRouter("secret")

	req := httptest.NewRequest(http.MethodPost, "/api/youtube/info", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter("")

	req := httptest.NewRequest(http.MethodGet, "/api/vimeo/info", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound && w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 404 or 405", w.Code)
	}
}
