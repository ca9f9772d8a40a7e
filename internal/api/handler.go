// Package api exposes the waitlist over a JSON HTTP surface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mmynk/waitlist/internal/models"
	"github.com/mmynk/waitlist/internal/service"
)

// Opaque messages returned with 500 responses, per endpoint.
const (
	msgSignupFailed = "Failed to process signup"
	msgStatsFailed  = "Failed to fetch stats"
	msgExportFailed = "Failed to export data"
	msgRecentFailed = "Failed to fetch recent signups"
	msgSheetFailed  = "Failed to export to Google Sheets"
)

const (
	maxBodyBytes      = 64 << 10
	defaultRecentSize = 10
	maxRecentSize     = 100
)

// Waitlist is the set of operations the handlers need. *service.WaitlistService implements it.
type Waitlist interface {
	Signup(ctx context.Context, in models.SignupInput) (*service.SignupResult, error)
	Stats(ctx context.Context) (*models.Stats, error)
	ExportAll(ctx context.Context) ([]models.Signup, error)
	Recent(ctx context.Context, limit int) ([]models.Signup, error)
	ExportToSheet(ctx context.Context) (int, error)
}

// Handler serves the waitlist endpoints.
type Handler struct {
	waitlist Waitlist
	now      func() time.Time
}

// NewHandler creates a Handler backed by waitlist.
func NewHandler(waitlist Waitlist) *Handler {
	return &Handler{waitlist: waitlist, now: time.Now}
}

type signupResponse struct {
	Success      bool   `json:"success"`
	BibNumber    int    `json:"bibNumber"`
	TotalSignups int64  `json:"totalSignups"`
	Message      string `json:"message"`
}

type signupsResponse struct {
	Signups []models.Signup `json:"signups"`
	Total   int             `json:"total"`
}

type sheetExportResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Signup handles POST /waitlist/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var in models.SignupInput
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		// An unreadable body carries no usable fields.
		slog.Debug("Undecodable signup body", "error", err)
		writeServiceError(w, r, service.ErrMissingFields, msgSignupFailed)
		return
	}

	res, err := h.waitlist.Signup(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, msgSignupFailed)
		return
	}

	writeJSON(w, http.StatusOK, signupResponse{
		Success:      true,
		BibNumber:    res.BibNumber,
		TotalSignups: res.TotalSignups,
		Message:      "Successfully joined the waitlist!",
	})
}

// Stats handles GET /waitlist/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.waitlist.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err, msgStatsFailed)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Export handles GET /waitlist/export.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	signups, err := h.waitlist.ExportAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, msgExportFailed)
		return
	}
	writeJSON(w, http.StatusOK, signupsResponse{Signups: signups, Total: len(signups)})
}

// Recent handles GET /waitlist/recent?limit=N.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRecentSize)
	}

	signups, err := h.waitlist.Recent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err, msgRecentFailed)
		return
	}
	writeJSON(w, http.StatusOK, signupsResponse{Signups: signups, Total: len(signups)})
}

// SheetExport handles POST /waitlist/google-sheets-export.
func (h *Handler) SheetExport(w http.ResponseWriter, r *http.Request) {
	count, err := h.waitlist.ExportToSheet(r.Context())
	if err != nil {
		writeServiceError(w, r, err, msgSheetFailed)
		return
	}
	writeJSON(w, http.StatusOK, sheetExportResponse{
		Success: true,
		Message: "Exported " + strconv.Itoa(count) + " signups to Google Sheets",
		Count:   count,
	})
}

// Health handles GET /health. It never fails.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

// writeServiceError maps service errors to status codes. Internal detail is logged, never sent;
// internal failures answer with the endpoint's fallback message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		storageErr  *service.StorageError
		externalErr *service.ExternalServiceError
	)
	switch {
	case errors.Is(err, service.ErrMissingFields):
		writeError(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, service.ErrEmailExists):
		writeError(w, http.StatusConflict, "Email already registered")
	case errors.As(err, &externalErr):
		slog.Error("External export failed", "path", r.URL.Path, "sink", externalErr.Sink, "error", err)
		writeError(w, http.StatusBadGateway, "Failed to export to Google Sheets")
	case errors.As(err, &storageErr):
		slog.Error("Storage failure", "path", r.URL.Path, "op", storageErr.Op, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	default:
		slog.Error("Request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("JSON encode failed", "error", err)
	}
}
