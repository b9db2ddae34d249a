package console

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abgdnv/productsctl/internal/config"
	"github.com/abgdnv/productsctl/internal/product/app"
	"github.com/abgdnv/productsctl/internal/product/client"
	"github.com/abgdnv/productsctl/internal/product/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAPI starts an in-memory products API seeded with products.
func newTestAPI(t *testing.T, products ...model.ProductCreate) (*httptest.Server, *client.Client) {
	t.Helper()
	t.Chdir(t.TempDir())
	srv := httptest.NewServer(app.SetupHttpHandler(app.SetupDependencies(slog.New(slog.DiscardHandler), nil)))
	t.Cleanup(srv.Close)
	c := client.New(srv.URL)
	for _, p := range products {
		_, err := c.Create(context.Background(), p)
		require.NoError(t, err)
	}
	return srv, c
}

type result struct {
	stdout string
	stderr string
	err    error
}

func run(srv *httptest.Server, stdin string, args ...string) result {
	var stdout, stderr bytes.Buffer
	args = append([]string{"--base-url", srv.URL}, args...)
	err := Execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

var (
	lamp = model.ProductCreate{Name: "Lamp", Price: 12.5, Stock: 3}
	desk = model.ProductCreate{Name: "Desk", Price: 120, Stock: 0}
)

func Test_List(t *testing.T) {
	testCases := []struct {
		name     string
		seed     []model.ProductCreate
		args     []string
		expected string
	}{
		{
			name:     "table",
			seed:     []model.ProductCreate{lamp},
			args:     []string{"list"},
			expected: "ID  NAME  PRICE  STOCK\n1   Lamp  12.50  3\n",
		},
		{
			name:     "empty table",
			args:     []string{"list"},
			expected: "ID  NAME  PRICE  STOCK\n",
		},
		{
			name:     "json",
			seed:     []model.ProductCreate{lamp},
			args:     []string{"list", "-o", "json"},
			expected: "[\n  {\n    \"id\": 1,\n    \"name\": \"Lamp\",\n    \"price\": 12.5,\n    \"stock\": 3\n  }\n]\n",
		},
		{
			name:     "empty json",
			args:     []string{"--output", "json", "list"},
			expected: "[]\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			srv, _ := newTestAPI(t, tc.seed...)

			// when
			res := run(srv, "", tc.args...)

			// then
			require.NoError(t, res.err)
			assert.Equal(t, tc.expected, res.stdout)
		})
	}
}

func Test_Get(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		expectedOut string
		expectedErr string
	}{
		{
			name:        "single product",
			args:        []string{"get", "1", "-o", "json"},
			expectedOut: `{"id":1,"name":"Lamp","price":12.5,"stock":3}`,
		},
		{
			name:        "argument order kept",
			args:        []string{"get", "2", "1", "-o", "json"},
			expectedOut: `[{"id":2,"name":"Desk","price":120,"stock":0},{"id":1,"name":"Lamp","price":12.5,"stock":3}]`,
		},
		{
			name:        "unknown product",
			args:        []string{"get", "1", "9"},
			expectedErr: "product 9: HTTP 404 Not Found: Product with ID 9 not found",
		},
		{
			name:        "invalid id",
			args:        []string{"get", "abc"},
			expectedErr: `invalid product ID "abc": must be an integer`,
		},
		{
			name:        "missing id",
			args:        []string{"get"},
			expectedErr: "requires at least 1 arg(s), only received 0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			srv, _ := newTestAPI(t, lamp, desk)

			// when
			res := run(srv, "", tc.args...)

			// then
			if tc.expectedErr != "" {
				require.Error(t, res.err)
				assert.Equal(t, tc.expectedErr, res.err.Error())
				return
			}
			require.NoError(t, res.err)
			assert.JSONEq(t, tc.expectedOut, res.stdout)
		})
	}
}

func Test_Create(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		expectedErr string
	}{
		{name: "created", args: []string{"create", "--name", "Lamp", "--price", "12.5", "--stock", "3"}},
		{name: "missing flag", args: []string{"create", "--name", "Lamp", "--price", "12.5"}, expectedErr: `required flag(s) "stock" not set`},
		{name: "blank name", args: []string{"create", "--name", "  ", "--price", "1", "--stock", "1"}, expectedErr: "name must not be blank"},
		{name: "zero price", args: []string{"create", "--name", "Lamp", "--price", "0", "--stock", "1"}, expectedErr: "price must be greater than 0, got 0"},
		{name: "negative stock", args: []string{"create", "--name", "Lamp", "--price", "1", "--stock", "-1"}, expectedErr: "stock must be 0 or more, got -1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			srv, c := newTestAPI(t)

			// when
			res := run(srv, "", append(tc.args, "-o", "json")...)

			// then
			products, err := c.List(context.Background())
			require.NoError(t, err)
			if tc.expectedErr != "" {
				require.Error(t, res.err)
				assert.Equal(t, tc.expectedErr, res.err.Error())
				assert.Empty(t, products, "nothing may be sent on invalid input")
				return
			}
			require.NoError(t, res.err)
			assert.JSONEq(t, `{"id":1,"name":"Lamp","price":12.5,"stock":3}`, res.stdout)
			assert.Contains(t, res.stderr, "Product created with ID 1")
			assert.Len(t, products, 1)
		})
	}
}

func Test_Update(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		expected    model.Product
		expectedErr string
	}{
		{
			name:     "stock only",
			args:     []string{"update", "1", "--stock", "0"},
			expected: model.Product{ID: 1, Name: "Lamp", Price: 12.5, Stock: 0},
		},
		{
			name:     "name and price",
			args:     []string{"update", "1", "--name", "Desk lamp", "--price", "15"},
			expected: model.Product{ID: 1, Name: "Desk lamp", Price: 15, Stock: 3},
		},
		{
			name:        "no fields",
			args:        []string{"update", "1"},
			expected:    model.Product{ID: 1, Name: "Lamp", Price: 12.5, Stock: 3},
			expectedErr: errAtLeastOneField.Error(),
		},
		{
			name:        "unknown product",
			args:        []string{"update", "5", "--price", "2"},
			expected:    model.Product{ID: 1, Name: "Lamp", Price: 12.5, Stock: 3},
			expectedErr: "HTTP 404 Not Found: Product with ID 5 not found",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			srv, c := newTestAPI(t, lamp)

			// when
			res := run(srv, "", tc.args...)

			// then
			if tc.expectedErr != "" {
				require.Error(t, res.err)
				assert.Equal(t, tc.expectedErr, res.err.Error())
			} else {
				require.NoError(t, res.err)
				assert.Contains(t, res.stderr, "Product 1 updated")
			}
			stored, err := c.Get(context.Background(), 1)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, *stored)
		})
	}
}

func Test_Delete(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		stdin       string
		expectedOut string
		deleted     bool
	}{
		{name: "confirmed", args: []string{"delete", "1"}, stdin: "y\n", expectedOut: "Product deleted\n", deleted: true},
		{name: "confirmed with yes", args: []string{"delete", "1"}, stdin: "YES\n", expectedOut: "Product deleted\n", deleted: true},
		{name: "declined", args: []string{"delete", "1"}, stdin: "n\n"},
		{name: "no answer", args: []string{"delete", "1"}, stdin: ""},
		{name: "skip prompt", args: []string{"delete", "1", "--yes"}, expectedOut: "Product deleted\n", deleted: true},
		{name: "json", args: []string{"delete", "1", "-y", "-o", "json"}, expectedOut: "{\n  \"message\": \"Product deleted\"\n}\n", deleted: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			srv, c := newTestAPI(t, lamp)

			// when
			res := run(srv, tc.stdin, tc.args...)

			// then
			require.NoError(t, res.err)
			assert.Equal(t, tc.expectedOut, res.stdout)
			_, err := c.Get(context.Background(), 1)
			if tc.deleted {
				assert.ErrorIs(t, err, client.ErrNotFound)
			} else {
				assert.NoError(t, err)
				assert.Contains(t, res.stderr, "Delete product 1? [y/N]")
				assert.Contains(t, res.stderr, "Aborted.")
			}
		})
	}
}

func Test_Delete_Unknown(t *testing.T) {
	// given
	srv, _ := newTestAPI(t)

	// when
	res := run(srv, "", "delete", "3", "--yes")

	// then
	require.Error(t, res.err)
	assert.Equal(t, "HTTP 404 Not Found: Product with ID 3 not found", res.err.Error())
}

func Test_Raw(t *testing.T) {
	// given
	srv, _ := newTestAPI(t, lamp)

	// when
	res := run(srv, "", "raw", "PUT", "/products/1", "--body", `{}`)

	// then
	require.NoError(t, res.err, "non-2xx responses are printed, not failed")
	lines := strings.Split(res.stdout, "\n")
	assert.Equal(t, "400 Bad Request", lines[0])
	assert.Contains(t, res.stdout, "\nContent-Type: application/json\n")
	assert.Contains(t, res.stdout, "\nX-Request-Id: ")
	assert.True(t, strings.HasSuffix(res.stdout, "\n\n{\"detail\":\"No valid fields provided for update.\"}\n"))
}

func Test_Raw_JSON(t *testing.T) {
	// given
	srv, _ := newTestAPI(t, lamp)

	// when
	res := run(srv, "", "raw", "get", "products/1", "-o", "json")

	// then
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"status": 200`)
	assert.Contains(t, res.stdout, `"statusText": "OK"`)
	assert.Contains(t, res.stdout, `"Content-Type": "application/json"`)
	assert.Contains(t, res.stdout, `"name": "Lamp"`)
}

func Test_GlobalFlags(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		expectedErr string
	}{
		{name: "invalid output", args: []string{"list", "-o", "yaml"}, expectedErr: `invalid output format "yaml": use table or json`},
		{name: "invalid log level", args: []string{"list", "--log-level", "loud"}, expectedErr: "invalid log level"},
		{name: "missing config file", args: []string{"list", "--config", "missing.yaml"}, expectedErr: "error loading config file"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			srv, _ := newTestAPI(t)

			// when
			res := run(srv, "", tc.args...)

			// then
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tc.expectedErr)
		})
	}
}

func Test_TransportError(t *testing.T) {
	// given
	srv, _ := newTestAPI(t)
	srv.Close()

	// when
	res := run(srv, "", "list")

	// then
	var transportErr *client.TransportError
	require.ErrorAs(t, res.err, &transportErr)
	assert.Equal(t, http.MethodGet, transportErr.Method)
}

func Test_Serve(t *testing.T) {
	// given
	s := &session{base: slog.New(slog.DiscardHandler)}
	s.logger = s.base
	s.cfg.HTTP.Timeout.Read = time.Second
	s.cfg.HTTP.Timeout.Write = time.Second
	s.cfg.HTTP.Timeout.Idle = time.Second
	s.cfg.HTTP.Timeout.ReadHeader = time.Second
	s.cfg.Shutdown.Timeout = time.Second
	s.cfg.Telemetry = config.TelemetryConfig{Enabled: false}

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	done := make(chan error, 1)

	// when
	go func() {
		done <- s.serve(ctx, ready)
	}()
	_, port, err := net.SplitHostPort(<-ready)
	require.NoError(t, err)
	products, err := client.New("http://127.0.0.1:" + port).List(context.Background())
	cancel()

	// then
	require.NoError(t, err)
	assert.Empty(t, products)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
