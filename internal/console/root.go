// Package console implements the productsctl command line interface.
package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/abgdnv/productsctl/internal/bootstrap"
	"github.com/abgdnv/productsctl/internal/config"
	"github.com/abgdnv/productsctl/internal/product/client"
	"github.com/abgdnv/productsctl/internal/telemetry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "productsctl"

const (
	outputTable = "table"
	outputJSON  = "json"
)

// session is the state shared by all commands of one invocation.
type session struct {
	configFile string
	baseURL    string
	logLevel   string
	logFormat  string
	output     string

	cfg    config.Config
	base   *slog.Logger
	logger *slog.Logger
	tp     *tracesdk.TracerProvider
	client *client.Client
}

// Execute runs productsctl with args and the given standard streams.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	s := &session{}
	defer s.close(ctx)
	root := newRootCmd(s)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// newRootCmd builds the productsctl command tree around s.
func newRootCmd(s *session) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "productsctl",
		Short: "Manage products through the products REST API",
		Long: "productsctl lists, shows, creates, updates and deletes products of a products REST API.\n" +
			"Configuration is read from config.yaml, .env and PRODUCTS_* environment variables; flags win.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.configFile, "config", "", "path to a YAML config file (default ./config.yaml if present)")
	flags.StringVar(&s.baseURL, "base-url", "", "products API base URL (default "+config.DefaultBaseURL+")")
	flags.StringVar(&s.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&s.logFormat, "log-format", "", "log format: text or json")
	flags.StringVarP(&s.output, "output", "o", outputTable, "output format: table or json")

	rootCmd.AddCommand(
		newListCmd(s),
		newGetCmd(s),
		newCreateCmd(s),
		newUpdateCmd(s),
		newDeleteCmd(s),
		newRawCmd(s),
		newServeCmd(s),
	)
	return rootCmd
}

// init loads the configuration and builds the logger, tracer provider and API client.
func (s *session) init(cmd *cobra.Command) error {
	if s.output != outputTable && s.output != outputJSON {
		return fmt.Errorf("invalid output format %q: use %s or %s", s.output, outputTable, outputJSON)
	}

	overrides := map[string]any{}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		overrides["api.baseurl"] = s.baseURL
	}
	if flags.Changed("log-level") {
		overrides["log.level"] = s.logLevel
	}
	if flags.Changed("log-format") {
		overrides["log.format"] = s.logFormat
	}
	if flags.Changed("port") {
		port, err := flags.GetInt("port")
		if err != nil {
			return err
		}
		overrides["server.port"] = port
	}

	cfg, err := config.Load(s.configFile, overrides)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	s.cfg = cfg

	s.base = bootstrap.NewLogger(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	s.logger = s.base.With("component", "console")
	s.logger.Debug("Configuration loaded", "config", cfg.String())

	s.tp, err = telemetry.NewTracerProvider(cmd.Context(), serviceName, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("error creating tracer provider: %w", err)
	}

	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport, otelhttp.WithTracerProvider(s.tp)),
	}
	s.client = client.New(cfg.API.BaseURL, client.WithHTTPClient(httpClient), client.WithLogger(s.base))
	return nil
}

// close flushes pending spans. It is safe to call on a session that was never initialized.
func (s *session) close(ctx context.Context) {
	if s.tp == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Shutdown.Timeout)
	defer cancel()
	if err := s.tp.Shutdown(ctx); err != nil {
		s.logger.Warn("Failed to shut down tracer provider", "error", err)
	}
}
