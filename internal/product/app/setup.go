// Package app wires the in-memory products server.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/productsctl/internal/config"
	"github.com/abgdnv/productsctl/internal/platform/web"
	"github.com/abgdnv/productsctl/internal/product/handler"
	"github.com/abgdnv/productsctl/internal/product/service"
	"github.com/abgdnv/productsctl/internal/product/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
	// TracerProvider enables request tracing when set.
	TracerProvider trace.TracerProvider
}

// SetupDependencies builds a service backed by a fresh in-memory store.
func SetupDependencies(logger *slog.Logger, tp trace.TracerProvider) *Dependencies {
	pService := service.NewService(store.NewInMemoryStore())

	return &Dependencies{
		ProductService: pService,
		Logger:         logger.With("component", "server"),
		TracerProvider: tp,
	}
}

// SetupHttpHandler initializes the routes and middleware of the products API.
// Used by E2E tests to run the server inside httptest.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	pApi := handler.NewAPI(deps.ProductService, deps.Logger)

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(web.RequestIDInjector)
	mux.Use(web.StructuredLogger(deps.Logger))
	mux.Use(web.Recoverer(deps.Logger))

	mux.Route("/products", func(r chi.Router) {
		r.Get("/", pApi.FindAll)
		r.Post("/", pApi.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", pApi.FindByID)
			r.Put("/", pApi.Update)
			r.Delete("/", pApi.DeleteByID)
		})
	})

	mux.Get("/healthz", pApi.HealthCheck)

	mux.NotFound(detailHandler(http.StatusNotFound))
	mux.MethodNotAllowed(detailHandler(http.StatusMethodNotAllowed))

	if deps.TracerProvider == nil {
		return mux
	}
	return otelhttp.NewHandler(mux, "products-api", otelhttp.WithTracerProvider(deps.TracerProvider))
}

// SetupHttpServer creates and configures an HTTP server for the products API.
func SetupHttpServer(deps *Dependencies, cfg config.HTTPConfig) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           SetupHttpHandler(deps),
		ReadTimeout:       cfg.Timeout.Read,
		WriteTimeout:      cfg.Timeout.Write,
		IdleTimeout:       cfg.Timeout.Idle,
		ReadHeaderTimeout: cfg.Timeout.ReadHeader,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

func detailHandler(status int) http.HandlerFunc {
	body := fmt.Sprintf(`{"detail":%q}`, http.StatusText(status))
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}
