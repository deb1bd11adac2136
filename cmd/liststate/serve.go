package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/devconsole/liststate/internal/config"
	"github.com/devconsole/liststate/pkg/api"
	"github.com/devconsole/liststate/pkg/middleware"
	"github.com/devconsole/liststate/pkg/navsocket"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the inspector server",
		Long: `Start the inspector HTTP server.

Routes:
  GET  /healthz
  GET  /metrics                (when metrics are enabled)
  GET  /liststate/{resource}   ?location=<url>
  POST /liststate/{resource}   ?location=<url>, JSON list state body
  GET  /ws                     navigator websocket (?location=<url>)

Examples:
  liststate serve
  liststate serve --port=9090
  liststate serve --host=0.0.0.0 --config=liststate.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runServe(cmd, cfg, flags.verbose)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}

// serverOptions builds the API options for cfg.
func serverOptions(cfg *config.Config) []api.Option {
	opts := []api.Option{
		api.WithDefaults(cfg.Defaults()),
		api.WithCacheSize(cfg.Cache.Size),
		api.WithUpgrader(navsocket.NewUpgrader(navsocket.Config{
			ReadBufferSize:  cfg.Server.ReadBufferSize,
			WriteBufferSize: cfg.Server.WriteBufferSize,
			MaxMessageSize:  cfg.Server.MaxMessageSize,
			WriteTimeout:    cfg.WriteTimeout(),
			CheckOrigin:     originChecker(cfg.Server.AllowedOrigins),
		})),
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := middleware.Prometheus(
			middleware.WithRegistry(reg),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
		opts = append(opts, api.WithMetrics(m, reg))
	}

	if cfg.Tracing.Enabled {
		opts = append(opts, api.WithTracing(middleware.OpenTelemetry(
			middleware.WithTracerName(cfg.Tracing.TracerName),
			middleware.WithTraceReads(cfg.Tracing.TraceReads),
		)))
	}

	return opts
}

// originChecker accepts the listed origins. An empty list leaves the
// websocket upgrader's same-origin check in place.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		return slices.Contains(allowed, r.Header.Get("Origin"))
	}
}

func runServe(cmd *cobra.Command, cfg *config.Config, verbose bool) error {
	logger := newLogger(cmd.ErrOrStderr(), verbose)
	opts := append(serverOptions(cfg), api.WithLogger(logger))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.New(opts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	out := cmd.OutOrStdout()
	success(out, "Listening on http://%s", cfg.Addr())
	if path := cfg.Path(); path != "" {
		info(out, "config: %s", path)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	info(out, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
