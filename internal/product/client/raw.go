package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RawResponse is the unprocessed outcome of a raw request.
type RawResponse struct {
	StatusCode int
	StatusText string
	Header     http.Header
	Body       string
}

// Raw sends an arbitrary request relative to the base URL and returns the response
// as received. A status outside 2xx is not an error here; only transport failures are.
// The body is sent as JSON unless the method is GET or HEAD, where it is dropped.
func (c *Client) Raw(ctx context.Context, method, path, body string) (*RawResponse, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}

	var reader io.Reader
	withBody := body != "" && method != http.MethodGet && method != http.MethodHead
	if withBody {
		reader = strings.NewReader(body)
	}

	url := c.url(path)
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request %s %s: %w", method, url, err)
	}
	req.Header.Set(headerRequestID, requestID(ctx))
	if withBody {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	return &RawResponse{
		StatusCode: resp.StatusCode,
		StatusText: resp.statusText(),
		Header:     resp.Header,
		Body:       string(resp.Body),
	}, nil
}
