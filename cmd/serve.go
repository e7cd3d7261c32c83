package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/helmcode/wifi-doctor/pkg/config"
	"github.com/helmcode/wifi-doctor/pkg/engine"
	"github.com/helmcode/wifi-doctor/pkg/metrics"
	"github.com/helmcode/wifi-doctor/pkg/server"
)

const shutdownTimeout = 10 * time.Second

var (
	serveAddr       string
	serveConfigPath string
	serveParallel   bool
	serveDebug      bool
	serveLogLevel   string
	serveLogFormat  string
)

// NewServeCmd returns the serve command. version is reported by /healthz.
func NewServeCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagnostic engine over HTTP",
		Long: `Serve the diagnostic engine over HTTP.

Endpoints:
  POST /v1/diagnose   body is a telemetry snapshot (JSON or YAML)
  GET  /v1/phy-rate   ?mcs=&streams=&width=&gi=&generation=
  GET  /healthz
  GET  /metrics       Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, version)
		},
	}

	cmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&serveConfigPath, "config", "", "Thresholds file (defaults to $"+config.EnvConfigPath+")")
	cmd.Flags().BoolVar(&serveParallel, "parallel", false, "Run the category analyzers concurrently")
	cmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable gin debug mode and request logging")
	cmd.Flags().StringVar(&serveLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&serveLogFormat, "log-format", "json", "Log format (text, json)")

	return cmd
}

func runServe(cmd *cobra.Command, version string) error {
	logger, err := newLogger(cmd.ErrOrStderr(), serveDebug, serveLogLevel, serveLogFormat)
	if err != nil {
		return err
	}
	thresholds, err := config.Resolve(serveConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load thresholds: %w", err)
	}

	if serveDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if serveDebug {
		router.Use(gin.Logger())
	}

	eng := engine.New(
		engine.WithThresholds(thresholds),
		engine.WithLogger(logger),
		engine.WithConcurrency(serveParallel),
		engine.WithRecorder(metrics.NewRecorder(prometheus.DefaultRegisterer)),
	)
	server.RegisterRoutes(router, server.NewHandlers(eng, logger, version), promhttp.Handler())

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting wifi-doctor server", "address", serveAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down wifi-doctor server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
