package http

import (
	"net/http"
	"strings"
	"testing"
)

func TestCalcReplay(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"addition", `{"keys":["5","+","3","="]}`, "8"},
		{"chained", `{"keys":["1","2","*","2","=","+","1","="]}`, "25"},
		{"clear", `{"keys":["5","+","3","C"]}`, "0"},
		{"divide by zero", `{"keys":["5","/","0","="]}`, "+Inf"},
		{"trailing operator", `{"keys":["5","+","="]}`, "Error"},
		{"negate", `{"keys":["5","+/-"]}`, "-5"},
		{"empty", `{"keys":[]}`, "0"},
		{"unknown keys ignored", `{"keys":["5","x","3"]}`, "53"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/api/calc", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			var payload struct {
				Display string `json:"display"`
			}
			decodeBody(t, rec, &payload)
			if payload.Display != tt.want {
				t.Fatalf("display = %q, want %q", payload.Display, tt.want)
			}
		})
	}
}

func TestCalcRejectsBadRequests(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/calc", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	keys := `["1"` + strings.Repeat(`,"1"`, 300) + `]`
	rec = doRequest(t, s, http.MethodPost, "/api/calc", `{"keys":`+keys+`}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for oversized replay, got %d", rec.Code)
	}
}
