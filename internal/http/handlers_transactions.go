package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"kharcha/internal/core"
	"kharcha/internal/storage"
)

// currentUser reads the x-user-id header, defaulting to the demo user.
func currentUser(r *http.Request) string {
	if id := sanitizeInput(r.Header.Get("x-user-id")); id != "" {
		return id
	}
	return "demo-user"
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	if s.transactions == nil {
		writeError(w, http.StatusServiceUnavailable, "transactions store unavailable")
		return
	}

	records, err := s.transactions.ListRecent(r.Context(), currentUser(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Transactions list error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": records})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if s.transactions == nil {
		writeError(w, http.StatusServiceUnavailable, "transactions store unavailable")
		return
	}

	body := parseBody(r)
	if body.err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	amount, err := core.ParseAmount(body.Get("amount"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "amount must be a positive decimal")
		return
	}

	txType := body.Get("type")
	if txType == "" {
		txType = storage.TypeExpense
	}

	date := core.Date{Time: time.Now()}
	if v := body.Get("date"); v != "" {
		date, err = core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
			return
		}
	}

	created, err := s.transactions.CreateTransaction(r.Context(), storage.NewTransaction{
		UserID:      currentUser(r),
		AccountID:   body.Get("account_id"),
		Category:    body.Get("category"),
		Amount:      amount,
		Type:        txType,
		Description: body.Get("description"),
		Date:        date,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidType):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, storage.ErrUnknownAccount):
			writeError(w, http.StatusUnprocessableEntity, "unknown account")
		default:
			slog.ErrorContext(r.Context(), "Transaction create error", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
