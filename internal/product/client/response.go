package client

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// response is a fully read HTTP response.
type response struct {
	StatusCode  int
	Status      string
	ContentType string
	Header      http.Header
	Body        []byte
}

// isJSON reports whether the body should be decoded as JSON.
func (r *response) isJSON() bool {
	return strings.Contains(strings.ToLower(r.ContentType), contentTypeJSON) && len(r.Body) > 0
}

// statusText returns the reason phrase of the status line, e.g. "Not Found".
func (r *response) statusText() string {
	text := strings.TrimSpace(strings.TrimPrefix(r.Status, strconv.Itoa(r.StatusCode)))
	if text == "" {
		return http.StatusText(r.StatusCode)
	}
	return text
}

// checkStatus converts a non-2xx response into a *RequestError.
func checkStatus(r *response) error {
	if r.StatusCode >= 200 && r.StatusCode < 300 {
		return nil
	}
	return &RequestError{
		StatusCode: r.StatusCode,
		StatusText: r.statusText(),
		Detail:     r.detail(),
	}
}

// detail extracts the "detail" field of a JSON object body. Any other body,
// or a JSON body that cannot be parsed, yields the raw text.
func (r *response) detail() string {
	raw := string(r.Body)
	if !r.isJSON() {
		return raw
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(r.Body, &body); err != nil {
		return raw
	}
	value, ok := body["detail"]
	if !ok {
		return raw
	}
	var text string
	if err := json.Unmarshal(value, &text); err == nil {
		return text
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, value); err != nil {
		return string(value)
	}
	return compact.String()
}
