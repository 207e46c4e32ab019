package http

import (
	"log/slog"
	"net/http"

	"kharcha/internal/core"
	"kharcha/internal/derive"
)

// handleMonths lists every month that has at least one record, newest
// first.
func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	records, err := s.ledger.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Ledger load error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	months := derive.AvailableMonths(records)
	writeJSON(w, http.StatusOK, map[string]any{"months": months})
}

// handleDailySeries returns per-day whole-rupee totals for one month.
// The series always spans the entire ledger, whatever list filters the
// dashboard currently applies.
func (s *Server) handleDailySeries(w http.ResponseWriter, r *http.Request) {
	monthParam := r.URL.Query().Get("month")
	month, err := core.ParseMonthKey(monthParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	key := month.String()
	if series, ok := s.seriesCache.Get(key); ok {
		writeJSON(w, http.StatusOK, map[string]any{"month": key, "series": series})
		return
	}

	records, err := s.ledger.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Ledger load error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	series := derive.DailySeries(records, month)
	s.seriesCache.Set(key, series)
	writeJSON(w, http.StatusOK, map[string]any{"month": key, "series": series})
}
