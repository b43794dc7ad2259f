package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iconidentify/vidrelay/internal/domain"
	"github.com/iconidentify/vidrelay/internal/service"
)

// InstagramService is the service surface the Instagram handler depends on.
type InstagramService interface {
	Info(ctx context.Context, rawURL string) (*domain.VideoInfo, error)
	Download(ctx context.Context, rawURL, qualityURL string) (*service.DownloadStream, error)
}

// InstagramHandler handles Instagram info and download requests.
type InstagramHandler struct {
	svc    InstagramService
	logger *slog.Logger
}

// NewInstagramHandler creates a new Instagram handler.
func NewInstagramHandler(svc InstagramService, logger *slog.Logger) *InstagramHandler {
	return &InstagramHandler{svc: svc, logger: logger}
}

// InstagramDownloadRequest is the JSON request body for Instagram downloads.
type InstagramDownloadRequest struct {
	URL        string `json:"url"`
	QualityURL string `json:"qualityUrl,omitempty"`
}

// InstagramInfoResponse is the JSON response for POST /api/instagram/info.
type InstagramInfoResponse struct {
	Success   bool                   `json:"success"`
	Thumbnail string                 `json:"thumbnail"`
	Qualities []domain.QualityOption `json:"qualities"`
}

// Info handles POST /api/instagram/info
func (h *InstagramHandler) Info(w http.ResponseWriter, r *http.Request) {
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
			h.logger.Error("instagram info failed", "url", req.URL, "error", err)
			writeErrorDetails(w, status, "failed to resolve post info", err.Error())
			return
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, InstagramInfoResponse{
		Success:   true,
		Thumbnail: info.Thumbnail,
		Qualities: info.Qualities,
	})
}

// Download handles POST /api/instagram/download
func (h *InstagramHandler) Download(w http.ResponseWriter, r *http.Request) {
	var req InstagramDownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	ds, err := h.svc.Download(r.Context(), req.URL, req.QualityURL)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("instagram download failed", "url", req.URL, "error", err)
			writeErrorDetails(w, status, "failed to download video", err.Error())
			return
		}
		writeError(w, status, err.Error())
		return
	}
	defer ds.Body.Close()

	relayStream(w, ds, h.logger)
}
