package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/probeops/healthprobe/config"
	"github.com/probeops/healthprobe/observe"
	"github.com/probeops/healthprobe/runner"
)

var serveFlags struct {
	configPath      string
	addr            string
	logLevel        string
	metricsExporter string
	tracingExporter string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the probe set over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.configPath, "config", "c", "healthprobe.yaml", "probe-set file")
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address (overrides endpoint.addr)")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	serveCmd.Flags().StringVar(&serveFlags.metricsExporter, "metrics-exporter", "none", "metrics exporter: otlp|prometheus|stdout|none")
	serveCmd.Flags().StringVar(&serveFlags.tracingExporter, "tracing-exporter", "none", "tracing exporter: otlp|stdout|none")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	f, err := config.Load(serveFlags.configPath)
	if err != nil {
		return err
	}

	probes, err := config.Build(f, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: "healthprobe",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: serveFlags.tracingExporter, SamplePct: 1.0},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: serveFlags.metricsExporter},
		Logging:     observe.LoggingConfig{Enabled: true, Level: serveFlags.logLevel},
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	r := runner.New(runner.Config{
		Logger:  obs.Logger(),
		Metrics: obs.Metrics(),
		Tracer:  obs.Tracer(),
	})
	for _, p := range probes {
		if err := r.Register(p); err != nil {
			return err
		}
	}

	endpointCfg := runner.EndpointConfig{
		Options: runner.Options{
			TagFilter:      f.Runner.TagFilter,
			ProbeTimeout:   f.Runner.ProbeTimeout(),
			MaxConcurrency: f.Runner.MaxConcurrency,
		},
		FailOnDegraded: f.Endpoint.FailOnDegraded,
	}

	mux := http.NewServeMux()
	mux.Handle("/healthz", runner.LivenessHandler())
	mux.Handle("/readyz", runner.ReadinessHandler(r, endpointCfg))

	var report http.Handler = runner.ReportHandler(r, endpointCfg)
	if f.Endpoint.BearerSecret != "" {
		report = runner.RequireBearer(report, runner.BearerConfig{
			Secret:   []byte(f.Endpoint.BearerSecret),
			Issuer:   f.Endpoint.BearerIssuer,
			Audience: f.Endpoint.BearerAudience,
		})
	}
	mux.Handle("/health", report)

	addr := serveFlags.addr
	if addr == "" {
		addr = f.Endpoint.Addr
	}
	if addr == "" {
		addr = ":8090"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	obs.Logger().Info(ctx, "listening", observe.Field{Key: "addr", Value: addr})

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
