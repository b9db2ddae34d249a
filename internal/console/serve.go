package console

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/abgdnv/productsctl/internal/product/app"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory products API for development and tests",
		Long:  "serve runs a products API that keeps everything in memory. Data is lost when it stops.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.serve(cmd.Context(), nil)
		},
	}
	cmd.Flags().Int("port", 0, "listen port (default from server.port, 8000)")
	return cmd
}

// serve runs the products server until ctx is done, then shuts it down gracefully.
// ready, when set, receives the listen address once the server accepts connections.
func (s *session) serve(ctx context.Context, ready chan<- string) error {
	var tp trace.TracerProvider
	if s.cfg.Telemetry.Enabled {
		tp = s.tp
	}
	deps := app.SetupDependencies(s.base, tp)
	logger := deps.Logger
	server := app.SetupHttpServer(deps, s.cfg.HTTP)

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}
	logger.Info("Starting server", "address", ln.Addr().String())
	if ready != nil {
		ready <- ln.Addr().String()
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Server is shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Shutdown.Timeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return err
	}
	logger.Info("Server stopped")
	return nil
}
