// Package client implements an HTTP client for the products REST API.
//
// Every call performs exactly one HTTP round-trip. The client keeps no state
// between calls, never retries and never imposes a timeout of its own; callers
// control cancellation through the context they pass in.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abgdnv/productsctl/internal/platform/contextkeys"
	"github.com/abgdnv/productsctl/internal/product/model"
	"github.com/google/uuid"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

const (
	productsPath    = "/products"
	contentTypeJSON = "application/json"
	headerRequestID = "X-Request-Id"
)

// HTTPDoer sends an HTTP request and returns its response. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the products API rooted at a base URL. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    HTTPDoer
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport used to send requests.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.http = doer
	}
}

// WithLogger sets the logger used for request tracing at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.With("component", "client")
	}
}

// New creates a Client for the given base URL. An empty base URL falls back to DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:   http.DefaultClient,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = normalizeBaseURL(baseURL)
	return c
}

// WithBaseURL returns a copy of the client that targets another base URL and shares the transport.
func (c *Client) WithBaseURL(baseURL string) *Client {
	clone := *c
	clone.baseURL = normalizeBaseURL(baseURL)
	return &clone
}

// BaseURL returns the normalized base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List returns all products.
func (c *Client) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, productsPath, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get returns the product with the given ID.
func (c *Client) Get(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, productPath(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Create creates a product and returns it with the ID assigned by the server.
func (c *Client) Create(ctx context.Context, input model.ProductCreate) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodPost, productsPath, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update changes the fields present in patch and returns the updated product.
func (c *Client) Update(ctx context.Context, id int64, patch model.ProductUpdate) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodPut, productPath(id), patch, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Remove deletes the product with the given ID.
func (c *Client) Remove(ctx context.Context, id int64) (*model.DeleteResult, error) {
	var result model.DeleteResult
	if err := c.do(ctx, http.MethodDelete, productPath(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do performs a single round-trip. A nil payload sends no body and no Content-Type.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	url := c.url(path)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request %s %s: %w", method, url, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(headerRequestID, requestID(ctx))
	if payload != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}

	if err := checkStatus(resp); err != nil {
		c.logger.DebugContext(ctx, "Request failed", "method", method, "url", url, "error", err)
		return err
	}
	if !resp.isJSON() {
		return fmt.Errorf("%w: %s %s returned %q with content type %q", ErrUnexpectedResponse, method, url, resp.Status, resp.ContentType)
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnexpectedResponse, method, url, err)
	}
	return nil
}

// send executes the request and reads the whole response body.
func (c *Client) send(ctx context.Context, req *http.Request) (*response, error) {
	start := time.Now()
	c.logger.DebugContext(ctx, "Sending request", "method", req.Method, "url", req.URL.String(), "request_id", req.Header.Get(headerRequestID))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.DebugContext(ctx, "Received response",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration_ms", float64(time.Since(start).Nanoseconds())/1e6,
	)
	return &response{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		ContentType: resp.Header.Get("Content-Type"),
		Header:      resp.Header,
		Body:        data,
	}, nil
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// normalizeBaseURL strips one trailing slash, mirroring how the path is joined.
func normalizeBaseURL(baseURL string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimSuffix(baseURL, "/")
}

func productPath(id int64) string {
	return productsPath + "/" + strconv.FormatInt(id, 10)
}

// requestID reuses the request ID from the context, or generates a new one.
func requestID(ctx context.Context) string {
	if id, ok := contextkeys.GetRequestID(ctx); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
