package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"naitive/hub/internal/access"
	"naitive/hub/internal/config"
	"naitive/hub/internal/gateway"
	"naitive/hub/internal/log"
	"naitive/hub/internal/metrics"
	"naitive/hub/internal/mock"
	"naitive/hub/internal/telemetry"
	"naitive/hub/internal/version"
)

const serviceName = "naitive-hub"

func newServeCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log.Configure(log.Config{Level: cfg.Log.Level, Service: serviceName})
	logger := log.WithComponent("gateway")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: version.Version,
		Environment:    cfg.EnvironmentName(),
		Exporter:       cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	tracingService := ""
	if cfg.Tracing.Enabled {
		tracingService = serviceName
	}

	handler := gateway.NewRouter(gateway.Deps{
		Config:         cfg,
		Gate:           access.New(cfg.Access.AllowedHosts, cfg.Access.DevSuffix, cfg.IsProduction(), log.WithComponent("access")),
		Generator:      mock.NewGenerator(nil, nil),
		Sleeper:        mock.TimerSleeper{},
		Logger:         logger,
		TracingService: tracingService,
	})

	servers := []*http.Server{{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}}
	if cfg.Server.MetricsAddr != "" {
		servers = append(servers, &http.Server{
			Addr:              cfg.Server.MetricsAddr,
			Handler:           metricsMux(),
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		})
	}

	logger.Info().
		Str(log.FieldEvent, "gateway.start").
		Str("addr", cfg.Server.Addr).
		Str("metrics_addr", cfg.Server.MetricsAddr).
		Str("environment", cfg.EnvironmentName()).
		Strs("allowed_hosts", cfg.Access.AllowedHosts).
		Str("version", version.String()).
		Msg("gateway starting")

	return run(ctx, logger, cfg, servers)
}

func metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// run serves until ctx is done or a server fails, then shuts every server
// down within the configured timeout.
func run(ctx context.Context, logger zerolog.Logger, cfg *config.Config, servers []*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Str(log.FieldEvent, "gateway.shutdown").Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
