package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iconidentify/vidrelay/internal/domain"
)

func TestInstagramHandler_Info(t *testing.T) {
	svc := &mockInstagramService{
		info: &domain.VideoInfo{
			Thumbnail: "https://cdn.example.com/t.jpg",
			Qualities: []domain.QualityOption{
				{Label: "original", Container: "mp4", HasAudio: true, HasVideo: true, URL: "https://cdn.example.com/v.mp4"},
			},
		},
	}
	h := NewInstagramHandler(svc, testLogger())

	req := postJSON(t, "/api/instagram/info", InfoRequest{URL: "https://www.instagram.com/reel/Cabc123/"})
	w := httptest.NewRecorder()
	h.Info(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp InstagramInfoResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.Thumbnail != "https://cdn.example.com/t.jpg" {
		t.Errorf("Thumbnail = %q", resp.Thumbnail)
	}
	if len(resp.Qualities) != 1 || resp.Qualities[0].URL == "" {
		t.Errorf("Qualities = %+v", resp.Qualities)
	}
}

func TestInstagramHandler_Info_InvalidURL(t *testing.T) {
	svc := &mockInstagramService{infoErr: domain.ErrInvalidURL}
	h := NewInstagramHandler(svc, testLogger())

	req := postJSON(t, "/api/instagram/info", InfoRequest{URL: "nope"})
	w := httptest.NewRecorder()
	h.Info(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestInstagramHandler_Info_NoVideo(t *testing.T) {
	svc := &mockInstagramService{infoErr: domain.ErrNoStreams}
	h := NewInstagramHandler(svc, testLogger())

	req := postJSON(t, "/api/instagram/info", InfoRequest{URL: "https://www.instagram.com/p/Cabc123/"})
	w := httptest.NewRecorder()
	h.Info(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestInstagramHandler_Info_UpstreamFailure(t *testing.T) {
	svc := &mockInstagramService{infoErr: errors.New("page fetch blew up")}
	h := NewInstagramHandler(svc, testLogger())

	req := postJSON(t, "/api/instagram/info", InfoRequest{URL: "https://www.instagram.com/p/Cabc123/"})
	w := httptest.NewRecorder()
	h.Info(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestInstagramHandler_Download(t *testing.T) {
	svc := &mockInstagramService{download: fakeStream("instagram_video.mp4", "reel bytes")}
	h := NewInstagramHandler(svc, testLogger())

	req := postJSON(t, "/api/instagram/download", InstagramDownloadRequest{
		URL:        "https://www.instagram.com/reel/Cabc123/",
		QualityURL: "https://cdn.example.com/v.mp4",
	})
	w := httptest.NewRecorder()
	h.Download(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if svc.lastQualityURL != "https://cdn.example.com/v.mp4" {
		t.Errorf("qualityUrl = %q", svc.lastQualityURL)
	}
	if ct := w.Header().Get("Content-Type"); ct != "video/mp4" {
		t.Errorf("Content-Type = %q, want video/mp4", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, `"instagram_video.mp4"`) {
		t.Errorf("Content-Disposition = %q, want fixed filename", cd)
	}
	if w.Body.String() != "reel bytes" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestInstagramHandler_Download_MissingURL(t *testing.T) {
	h := NewInstagramHandler(&mockInstagramService{}, testLogger())

	req := postJSON(t, "/api/instagram/download", InstagramDownloadRequest{})
	w := httptest.NewRecorder()
	h.Download(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
