package http

import "net/http"

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": s.categories.Labels()})
}

// handleAddCategory registers a label. Duplicates are not an error;
// the response reports whether the label was new.
func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	body := parseBody(r)
	if body.err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	label := body.Get("label")
	if label == "" {
		writeError(w, http.StatusUnprocessableEntity, "label cannot be empty")
		return
	}

	added := s.categories.Add(label)
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"categories": s.categories.Labels(),
		"added":      added,
	})
}
