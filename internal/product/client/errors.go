package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches a RequestError with status 404.
	ErrNotFound = errors.New("product not found")
	// ErrUnexpectedResponse is returned when a 2xx response cannot be decoded into the expected type.
	ErrUnexpectedResponse = errors.New("unexpected response body")
)

// RequestError is returned when the server responds with a status outside the 2xx range.
type RequestError struct {
	StatusCode int
	StatusText string
	// Detail is the "detail" field of a JSON error body, or the raw body text.
	Detail string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.StatusText, e.Detail)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *RequestError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// TransportError is returned when no response could be obtained from the server.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
