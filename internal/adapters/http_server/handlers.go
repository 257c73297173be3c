// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"reviewhub/internal/app"
	"reviewhub/internal/domain"
	"reviewhub/internal/platforms"
)

type Handlers struct{ Imports *app.ImportService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/platforms", h.listPlatforms)
	s.mux.Post("/v1/reviews/import", h.importReviews)
	s.mux.Post("/v1/reviews/preview", h.previewReviews)
	s.mux.Post("/v1/reviews/confirm", h.confirmImport)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// listPlatforms exposes the registry's search-field metadata so callers
// can render platform pickers and input forms. The set is static, so it
// is served with an ETag.
func (h *Handlers) listPlatforms(w http.ResponseWriter, r *http.Request) {
	etag, body := calcETagAndBody(platforms.All())
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listPlatforms body")
	}
}

func (h *Handlers) importReviews(w http.ResponseWriter, r *http.Request) {
	var req domain.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a JSON import request")
		return
	}
	if req.TenantID == "" || req.BusinessID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "tenantId and businessId are required")
		return
	}
	writeJSON(w, http.StatusOK, h.Imports.ImportReviews(r.Context(), req))
}

func (h *Handlers) previewReviews(w http.ResponseWriter, r *http.Request) {
	var req domain.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a JSON import request")
		return
	}
	if req.TenantID == "" || req.BusinessID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "tenantId and businessId are required")
		return
	}
	writeJSON(w, http.StatusOK, h.Imports.SearchAndPreview(r.Context(), req))
}

func (h *Handlers) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req domain.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a JSON confirm request")
		return
	}
	if req.TenantID == "" || req.BusinessID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "tenantId and businessId are required")
		return
	}
	writeJSON(w, http.StatusOK, h.Imports.ConfirmImport(r.Context(), req))
}
