package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/achadr/gigseeker/internal/domain"
)

const version = "1.0.0"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
	Usage string `json:"usage,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	size, _ := s.aggregator.CacheStats()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"version":     version,
		"services":    s.services,
		"missingKeys": s.missingKeys,
		"cacheSize":   size,
	})
}

func (s *Server) handlePerformances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := domain.SearchParams{
		Artist:   q.Get("artist"),
		Country:  q.Get("country"),
		City:     q.Get("city"),
		DateFrom: q.Get("dateFrom"),
		DateTo:   q.Get("dateTo"),
	}
	if params.Artist == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "Missing required parameter: artist",
			Usage: "/api/performances?artist=<name>&country=<country>",
		})
		return
	}

	AddLogField(r.Context(), "artist", params.Artist)
	AddLogField(r.Context(), "country", params.Country)

	result, err := s.aggregator.Aggregate(r.Context(), params)
	if err != nil {
		AddError(r.Context(), err)
		if errors.Is(err, domain.ErrInvalidRequest) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	artist := r.URL.Query().Get("artist")
	country := r.URL.Query().Get("country")
	if artist == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "Missing required parameter: artist",
		})
		return
	}

	AddLogField(r.Context(), "artist", artist)

	summary, err := s.aggregator.Summary(r.Context(), artist, country)
	if err != nil {
		AddError(r.Context(), err)
		if errors.Is(err, domain.ErrInvalidRequest) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(summary))
}

func (s *Server) handleAutocompleteArtists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, suggest(popularArtists, r.URL.Query().Get("q")))
}

func (s *Server) handleAutocompleteCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, suggest(popularCountries, r.URL.Query().Get("q")))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "Musician Performance Lookup API",
		"version": version,
		"endpoints": map[string]string{
			"GET /api/health":                 "Check API health and configuration",
			"GET /api/performances":           "Search for performances (params: artist, country)",
			"GET /api/summary":                "Get quick text summary (params: artist, country)",
			"GET /api/autocomplete":           "Get artist suggestions (params: q)",
			"GET /api/autocomplete/countries": "Get country suggestions (params: q)",
			"GET /metrics":                    "Prometheus metrics",
		},
		"examples": []string{
			"/api/performances?artist=Coldplay&country=Brazil",
			"/api/summary?artist=The%20Beatles&country=USA",
			"/api/autocomplete?q=cold",
			"/api/autocomplete/countries?q=uni",
		},
	})
}
