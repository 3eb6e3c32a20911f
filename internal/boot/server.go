package boot

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"
)

// NewServer returns an echo instance with the middleware stack shared by every
// napbook server. subsystem names the prometheus metrics.
func NewServer(subsystem string, logger *log.Logger) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.Logger = logger
	server.Use(middleware.BodyLimit("1M"))
	server.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	server.Use(echoprometheus.NewMiddleware(subsystem))
	server.Use(middleware.Recover())
	return server
}

// Run serves metrics on metricsPort and the API on port until SIGINT/SIGTERM,
// then shuts the API server down gracefully.
func Run(server *echo.Echo, port string, metricsPort string) {
	metrics := echo.New()
	metrics.HideBanner = true
	metrics.HidePort = true
	metrics.GET("/metrics", echoprometheus.NewHandler())

	go func() {
		if err := metrics.Start(":" + metricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	go func() {
		if err := server.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Logger.Fatal(err)
	}
	if err := metrics.Shutdown(ctx); err != nil {
		server.Logger.Error(err)
	}
}
