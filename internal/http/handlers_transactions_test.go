package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"kharcha/internal/ledger"
	"kharcha/internal/registry"
	"kharcha/internal/services"
	"kharcha/internal/storage"
)

func newTransactionServer(t *testing.T) *Server {
	t.Helper()
	repo, err := storage.NewTransactionRepository(filepath.Join(t.TempDir(), "kharcha.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	svc := services.NewLedgerService(ledger.NewMemStore(), nil)
	s := NewServer("127.0.0.1:0", svc, registry.New(), repo, Options{})
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func TestTransactionsUnavailableWithoutRepo(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, body string }{
		{http.MethodGet, ""},
		{http.MethodPost, `{"amount":"10","type":"expense","date":"2025-08-30"}`},
	} {
		rec := doRequest(t, s, tc.method, "/api/transactions", tc.body)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", tc.method, rec.Code)
		}
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	s := newTransactionServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/transactions",
		`{"amount":"120.50","type":"expense","category":"Food","description":"Groceries","date":"2025-08-30"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID           string `json:"id"`
		UserID       string `json:"user_id"`
		Amount       int64  `json:"amount"`
		CategoryName string `json:"category_name"`
		AccountName  string `json:"account_name"`
	}
	decodeBody(t, rec, &created)
	if created.ID == "" || created.UserID != "demo-user" || created.Amount != 12050 {
		t.Fatalf("unexpected created transaction: %+v", created)
	}
	if created.CategoryName != "Food" || created.AccountName != "Cash" {
		t.Fatalf("expected joined names, got %+v", created)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		Transactions []struct {
			ID   string `json:"id"`
			Date string `json:"date"`
		} `json:"transactions"`
	}
	decodeBody(t, rec, &payload)
	if len(payload.Transactions) != 1 || payload.Transactions[0].ID != created.ID {
		t.Fatalf("expected the created transaction, got %+v", payload.Transactions)
	}
}

func TestTransactionsScopedByHeader(t *testing.T) {
	s := newTransactionServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/transactions",
		strings.NewReader(`{"amount":"45","type":"income","date":"2025-08-30"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-user-id", "alice")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Default user sees nothing.
	recDefault := doRequest(t, s, http.MethodGet, "/api/transactions", "")
	var payload struct {
		Transactions []any `json:"transactions"`
	}
	decodeBody(t, recDefault, &payload)
	if len(payload.Transactions) != 0 {
		t.Fatalf("demo-user should not see alice's rows: %+v", payload.Transactions)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.Header.Set("x-user-id", "alice")
	rec = httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	decodeBody(t, rec, &payload)
	if len(payload.Transactions) != 1 {
		t.Fatalf("alice should see her row, got %+v", payload.Transactions)
	}
}

func TestTransactionValidation(t *testing.T) {
	s := newTransactionServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad amount", `{"amount":"-3","type":"expense","date":"2025-08-30"}`},
		{"bad type", `{"amount":"10","type":"transfer","date":"2025-08-30"}`},
		{"bad date", `{"amount":"10","type":"expense","date":"yesterday"}`},
		{"unknown account", `{"amount":"10","type":"expense","date":"2025-08-30","account_id":"acc-nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}
