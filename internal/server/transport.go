package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/healthmetrics/healthmcp/internal/config"
	"github.com/healthmetrics/healthmcp/internal/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsPath serves Prometheus metrics in http mode.
const MetricsPath = "/metrics"

const shutdownTimeout = 10 * time.Second

// ServeStdio serves MCP over stdin/stdout until the client disconnects
// or the process is signalled. Logs go to stderr.
func (a *App) ServeStdio() error {
	a.log.Info("serving MCP", "transport", config.TransportStdio)
	return server.ServeStdio(a.MCP, server.WithErrorLogger(a.log.StdLog()))
}

// ServeHTTP serves MCP as a stateless streamable HTTP endpoint on
// cfg.Server.Port until ctx is cancelled, then shuts down gracefully.
func (a *App) ServeHTTP(ctx context.Context, cfg *config.Config) error {
	e := a.HTTPHandler(cfg)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("serving MCP",
			"transport", config.TransportHTTP,
			"addr", addr,
			"endpoint", cfg.Server.EndpointPath,
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errors.Wrap(err, "failed to start http server")
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.log.Info("shutting down http server")
	if err := e.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shutdown http server")
	}
	return <-errCh
}

// HTTPHandler builds the echo router for http mode: the MCP endpoint
// plus the metrics endpoint.
func (a *App) HTTPHandler(cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.AllowOrigins(),
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, "mcp-session-id"},
		ExposeHeaders: []string{"Mcp-Session-Id"},
	}))
	e.Use(requestLogger(a.log))

	mcpHandler := server.NewStreamableHTTPServer(a.MCP,
		server.WithEndpointPath(cfg.Server.EndpointPath),
		server.WithStateLess(true),
	)
	e.POST(cfg.Server.EndpointPath, echo.WrapHandler(mcpHandler))
	e.GET(MetricsPath, echo.WrapHandler(promhttp.Handler()))

	return e
}

func requestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Warn("http request",
					"method", v.Method, "uri", v.URI, "status", v.Status,
					"latency", v.Latency, "error", v.Error)
				return nil
			}
			log.Debug("http request",
				"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	})
}
