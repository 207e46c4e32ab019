package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// bodyParser reads a request body once and answers key lookups for
// both JSON objects and form-encoded payloads.
type bodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	err      error
}

func parseBody(r *http.Request) *bodyParser {
	p := &bodyParser{}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if p.err != nil {
		return p
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return p
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		p.err = json.Unmarshal(p.body, &p.jsonData)
		return p
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p
}

// Get returns a sanitized string value for key, whichever encoding the
// body used.
func (p *bodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// parseBoolParam interprets common truthy query values.
func parseBoolParam(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
