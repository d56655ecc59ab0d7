package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/vidstash/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the REST API server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	if host := cmd.String("host"); host != "" {
		r.config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		r.config.Server.Port = int(port)
	}

	router := server.NewBasicRouter()
	router.Use(server.RequestIDMiddleware())
	router.Use(server.LoggingMiddleware(r.logger))

	handler := server.NewAPIHandler(r.store, engine, r.provider, r.logger)
	handler.Register(router)

	srv := &http.Server{
		Addr:         r.config.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		r.logger.Info("server listening", "addr", srv.Addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		r.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}
	return nil
}
