package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kharcha/internal/core"
	"kharcha/internal/ledger"
	"kharcha/internal/registry"
	"kharcha/internal/services"
)

func testExpenses() []core.Expense {
	return []core.Expense{
		{ID: 3, Title: "Train ticket", Amount: core.Money{Paise: 15000}, Category: "Travel", Date: core.NewDate(2025, 8, 12)},
		{ID: 2, Title: "Coffee", Amount: core.Money{Paise: 5000}, Category: "Food", Date: core.NewDate(2025, 8, 5)},
		{ID: 1, Title: "Shoes", Amount: core.Money{Paise: 250000}, Category: "Shopping", Date: core.NewDate(2025, 7, 20)},
	}
}

func newTestServer(t *testing.T, records ...core.Expense) *Server {
	t.Helper()
	svc := services.NewLedgerService(ledger.NewMemStore(records...), nil)
	s := NewServer("127.0.0.1:0", svc, registry.New(), nil, Options{})
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(t, s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/expenses", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff header, got %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected DENY frame options, got %q", got)
	}
}

func TestRateLimitOnMutations(t *testing.T) {
	s := newTestServer(t)

	var limited bool
	for i := 0; i < 70; i++ {
		rec := doRequest(t, s, http.MethodPost, "/api/calc", `{"keys":["1"]}`)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Fatalf("expected rate limiting to kick in")
	}

	// Reads stay unthrottled.
	rec := doRequest(t, s, http.MethodGet, "/api/expenses", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET should not be rate limited, got %d", rec.Code)
	}
}

func TestUnknownRouteMethod(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPut, "/api/expenses", "{}")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
