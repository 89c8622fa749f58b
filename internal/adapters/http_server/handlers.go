// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"storelens/internal/adapters/observability"
	"storelens/internal/app"
	"storelens/internal/domain"
)

type Handlers struct {
	A      *app.AnalysisService
	Q      *app.QueryService
	Places domain.PlaceClient
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/analyses", h.submitAnalysis)
	s.mux.Get("/v1/stores/{id}/analysis", h.latestAnalysis)
	s.mux.Post("/v1/emotions", h.submitEmotions)
	s.mux.Get("/v1/stores/{id}/emotions", h.latestEmotions)
	s.mux.Get("/v1/places/search", h.searchPlaces)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Status: status, Title: title, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain error kinds onto the HTTP boundary once, with the
// user-facing message split from the diagnostic detail.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrMalformedResponse):
		// raw model output is already logged where parsing failed
		writeProblem(w, http.StatusBadGateway, "Analysis Failed", "analysis provider returned an unusable response")
	case errors.Is(err, domain.ErrUpstream):
		writeProblem(w, http.StatusBadGateway, "Upstream Error", "an external provider failed; retry later")
	default:
		log.Error().Err(err).Msg("unhandled error at HTTP boundary")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func storeIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrValidation
	}
	return id, nil
}

func (h *Handlers) submitAnalysis(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlaceID string `json:"place_id"`
		OwnerID string `json:"owner_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "body must be JSON")
		return
	}

	report, err := h.A.AnalyzeStore(r.Context(), body.PlaceID, body.OwnerID)
	observability.ObserveAnalysis("factor", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (h *Handlers) latestAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := storeIDParam(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	out, err := h.Q.LatestAnalysis(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) submitEmotions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlaceID   string `json:"place_id"`
		StoreID   int64  `json:"store_id"`
		StoreName string `json:"store_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "body must be JSON")
		return
	}

	report, err := h.A.AnalyzeStoreEmotions(r.Context(), body.PlaceID, body.StoreID, body.StoreName)
	observability.ObserveAnalysis("emotion", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handlers) latestEmotions(w http.ResponseWriter, r *http.Request) {
	id, err := storeIDParam(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive number")
		return
	}
	out, err := h.Q.LatestEmotions(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "no emotion analysis yet; run one first")
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) searchPlaces(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Request", "q is required")
		return
	}
	results, err := h.Places.SearchPlaces(r.Context(), q, r.URL.Query().Get("location"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
