package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"kharcha/internal/core"
	"kharcha/internal/derive"
)

type expensesResponse struct {
	Expenses  []core.Expense          `json:"expenses"`
	Summary   derive.Summary          `json:"summary"`
	Breakdown []derive.CategoryAmount `json:"breakdown"`
}

// handleListExpenses answers the dashboard's main read: the filtered
// list together with its aggregates, derived in one pass.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := derive.Params{
		Category: sanitizeInput(q.Get("category")),
		Search:   sanitizeInput(q.Get("search")),
		Fuzzy:    parseBoolParam(q.Get("fuzzy")),
		Sort:     derive.SortByDate,
	}
	if params.Category == "" {
		params.Category = derive.AllCategories
	}
	switch sort := q.Get("sort"); sort {
	case "", string(derive.SortByDate):
	case string(derive.SortByAmount):
		params.Sort = derive.SortByAmount
	default:
		writeError(w, http.StatusBadRequest, "sort must be 'date' or 'amount'")
		return
	}

	records, err := s.ledger.Load(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Ledger load error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	visible := derive.FilterAndSort(records, params)
	writeJSON(w, http.StatusOK, expensesResponse{
		Expenses:  visible,
		Summary:   derive.Summarize(visible),
		Breakdown: derive.CategoryBreakdown(visible),
	})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
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
	date, err := core.ParseDate(body.Get("date"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}

	expense := core.Expense{
		Title:    body.Get("title"),
		Amount:   amount,
		Category: body.Get("category"),
		Date:     date,
	}
	if err := expense.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	stored, err := s.ledger.Add(r.Context(), expense)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense add error", "error", err, "title", expense.Title)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.flushDerived()
	writeJSON(w, http.StatusCreated, stored)
}

// handleRemoveExpense deletes by id. Unknown ids still answer 204; the
// ledger treats them as already gone.
func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	if err := s.ledger.Remove(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Expense remove error", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.flushDerived()
	w.WriteHeader(http.StatusNoContent)
}
