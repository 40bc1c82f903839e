// Command bindemo serves a small API whose handlers bind requests with
// package binder.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/reqbind/core/binder"
	"github.com/dmitrymomot/reqbind/core/config"
	"github.com/dmitrymomot/reqbind/core/logger"
	"github.com/dmitrymomot/reqbind/core/middleware"
)

// AppConfig is loaded from the environment and an optional .env file.
type AppConfig struct {
	Addr            string        `env:"APP_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"APP_LOG_LEVEL" envDefault:"info"`
	LogJSON         bool          `env:"APP_LOG_JSON" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	Binder          binder.Config
}

func main() {
	var cfg AppConfig
	config.MustLoad(&cfg)

	opts := []logger.Option{
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithAttr(slog.String("service", "bindemo")),
	}
	if cfg.LogJSON {
		opts = append(opts, logger.WithJSONFormatter())
	}
	log := logger.New(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg AppConfig, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(newAPI(cfg.Binder, log), log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func newRouter(api *api, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID(), middleware.Logging(log))

	r.Get("/users/{id}", api.getUser)
	r.Post("/users/{id}/orders", api.createOrder)
	r.Post("/feedback", api.submitFeedback)
	return r
}
