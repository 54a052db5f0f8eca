package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/helixir/medline-fetcher/internal/domain"
)

// Validation constants.
const (
	maxQueryLength = 10000
)

// searchHandler handles GET /api/v1/search?q=<query>.
// It runs the full pipeline: identifier search, batched fetch, field cleanup.
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("q")

	if len(query) > maxQueryLength {
		writeError(w, http.StatusBadRequest, "query too long")
		return
	}

	requestID := w.Header().Get("X-Correlation-ID")
	logger := s.logger.With().Str("request_id", requestID).Str("query", query).Logger()

	if s.metrics != nil {
		s.metrics.RecordSearchStarted()
	}
	start := time.Now()

	entries, err := s.fetcher.PerformSearch(ctx, query)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordSearchFailed(failurePhase(err), time.Since(start).Seconds())
		}
		logger.Error().Err(err).Msg("search pipeline failed")
		writeError(w, statusForError(err), err.Error())
		return
	}

	if s.metrics != nil {
		s.metrics.RecordSearchCompleted(len(entries), len(entries), time.Since(start).Seconds())
	}
	logger.Info().Int("entries", len(entries)).Dur("elapsed", time.Since(start)).Msg("search completed")

	writeJSON(w, http.StatusOK, searchResponse{
		Query:   query,
		Count:   len(entries),
		Entries: entries,
	})
}

// getEntryHandler handles GET /api/v1/entries/{entryID}. The entry ID is a
// numeric PMID.
func (s *Server) getEntryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	entryID := chi.URLParam(r, "entryID")

	if !isNumericID(entryID) {
		writeError(w, http.StatusBadRequest, "entry ID must be numeric")
		return
	}

	entries, err := s.fetcher.FetchBatch(ctx, []string{entryID})
	if err != nil {
		s.logger.Error().Err(err).Str("entry_id", entryID).Msg("entry fetch failed")
		writeError(w, statusForError(err), err.Error())
		return
	}
	if len(entries) == 0 {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}

	entry := entries[0]
	s.fetcher.CleanupEntry(entry)
	writeJSON(w, http.StatusOK, entryResponse{Entry: entry})
}

// statusForError maps pipeline errors to HTTP status codes. Malformed
// requests are the caller's fault; upstream and parse failures surface as a
// bad gateway.
func statusForError(err error) int {
	var apiErr *domain.ExternalAPIError
	var fetchErr *domain.FetchError

	switch {
	case errors.Is(err, domain.ErrMalformedRequest):
		return http.StatusBadRequest
	case errors.As(err, &apiErr), errors.As(err, &fetchErr), errors.Is(err, domain.ErrParseFatal):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// failurePhase labels a pipeline error for metrics.
func failurePhase(err error) string {
	var fetchErr *domain.FetchError

	switch {
	case errors.Is(err, domain.ErrParseFatal):
		return "parse"
	case errors.As(err, &fetchErr) && strings.Contains(fetchErr.Op, "search"):
		return "search"
	default:
		return "fetch"
	}
}

func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
