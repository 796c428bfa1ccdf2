package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/pkg/logging"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

const shutdownTimeout = 15 * time.Second

// bootstrap loads config and builds the logger and tracer shared by every
// command. The returned func flushes the tracer.
func bootstrap(ctx context.Context, envFile, service string) (*config.Config, ectologger.Logger, func(context.Context) error, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := logging.New(cfg.AppName+"-"+service, cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		return nil, nil, nil, err
	}

	shutdown, err := tracing.Setup(ctx, cfg.AppName+"-"+service, tracing.OTLPConfig{
		Enabled:  cfg.OTLPEnabled,
		Endpoint: cfg.OTLPEndpoint,
		Protocol: cfg.OTLPProtocol,
		Insecure: cfg.OTLPInsecure,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	return cfg, logger, shutdown, nil
}

// newEcho builds a server with the middleware chain shared by fern-api and
// fern-web.
func newEcho(cfg *config.Config, logger ectologger.Logger, service string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomw.Recover())
	e.Use(otelecho.Middleware(cfg.AppName + "-" + service))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.Middleware(service))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}

// serve runs e until SIGINT/SIGTERM, then shuts it down gracefully.
func serve(ctx context.Context, e *echo.Echo, cfg *config.Config, port int, logger ectologger.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		ReadTimeout:       time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", server.Addr)
		errCh <- e.StartServer(server)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
