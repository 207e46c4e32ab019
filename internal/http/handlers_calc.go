package http

import (
	"encoding/json"
	"io"
	"net/http"

	"kharcha/internal/calc"
)

// maxCalcKeys bounds one replay request.
const maxCalcKeys = 256

type calcRequest struct {
	Keys []string `json:"keys"`
}

// handleCalc replays a key sequence through a fresh calculator and
// returns the resulting display.
func (s *Server) handleCalc(w http.ResponseWriter, r *http.Request) {
	var req calcRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "body must be a JSON object with a 'keys' array")
		return
	}
	if len(req.Keys) > maxCalcKeys {
		writeError(w, http.StatusUnprocessableEntity, "too many keys")
		return
	}

	c := calc.New()
	for _, key := range req.Keys {
		c.Press(key)
	}
	writeJSON(w, http.StatusOK, map[string]string{"display": c.Display()})
}
