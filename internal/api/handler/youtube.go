package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iconidentify/vidrelay/internal/domain"
	"github.com/iconidentify/vidrelay/internal/service"
)

// YouTubeService is the service surface the YouTube handler depends on.
type YouTubeService interface {
	Info(ctx context.Context, rawURL string) (*domain.VideoInfo, error)
	Download(ctx context.Context, rawURL string, itag int) (*service.DownloadStream, error)
}

// YouTubeHandler handles YouTube info and download requests.
type YouTubeHandler struct {
	svc    YouTubeService
	logger *slog.Logger
}

// NewYouTubeHandler creates a new YouTube handler.
func NewYouTubeHandler(svc YouTubeService, logger *slog.Logger) *YouTubeHandler {
	return &YouTubeHandler{svc: svc, logger: logger}
}

// InfoRequest is the JSON request body for info endpoints.
type InfoRequest struct {
	URL string `json:"url"`
}

// YouTubeDownloadRequest is the JSON request body for YouTube downloads.
type YouTubeDownloadRequest struct {
	URL  string `json:"url"`
	Itag int    `json:"itag,omitempty"`
}

// YouTubeInfoResponse is the JSON response for POST /api/youtube/info.
type YouTubeInfoResponse struct {
	Success   bool                   `json:"success"`
	Title     string                 `json:"title"`
	Thumbnail string                 `json:"thumbnail"`
	Duration  int                    `json:"duration"`
	Author    string                 `json:"author"`
	Qualities []domain.QualityOption `json:"qualities"`
}

// Info handles POST /api/youtube/info
func (h *YouTubeHandler) Info(w http.ResponseWriter, r *http.Request) {
	var req InfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	info, err := h.svc.Info(r.Context(), req.URL)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("youtube info failed", "url", req.URL, "error", err)
			writeErrorDetails(w, status, "failed to resolve video info", err.Error())
			return
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, YouTubeInfoResponse{
		Success:   true,
		Title:     info.Title,
		Thumbnail: info.Thumbnail,
		Duration:  info.DurationSeconds,
		Author:    info.Author,
		Qualities: info.Qualities,
	})
}

// Download handles POST /api/youtube/download
func (h *YouTubeHandler) Download(w http.ResponseWriter, r *http.Request) {
	var req YouTubeDownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	ds, err := h.svc.Download(r.Context(), req.URL, req.Itag)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("youtube download failed", "url", req.URL, "error", err)
			writeErrorDetails(w, status, "failed to download video", err.Error())
			return
		}
		writeError(w, status, err.Error())
		return
	}
	defer ds.Body.Close()

	relayStream(w, ds, h.logger)
}

// relayStream forwards an open media stream to the client. Once the header
// block is written, failures can only be logged; a JSON error written
// mid-stream would corrupt the payload.
func relayStream(w http.ResponseWriter, ds *service.DownloadStream, logger *slog.Logger) {
	w.Header().Set("Content-Type", ds.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ds.Filename))
	if ds.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(ds.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, ds.Body); err != nil {
		logger.Error("stream relay interrupted", "filename", ds.Filename, "error", err)
	}
}
