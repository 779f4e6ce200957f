// Serve command runs the calendar HTTP server consumed by the browser UI.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/slateplan/slateplan/internal/cache"
	"github.com/slateplan/slateplan/internal/calendar"
	"github.com/slateplan/slateplan/internal/githubstore"
	"github.com/slateplan/slateplan/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the calendar HTTP server",
	Long: `Serve exposes the calendar as a JSON API for the browser UI, with
prometheus metrics on /metrics and a liveness probe on /healthz.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := githubstore.New(cfg.Store, githubstore.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create store client: %w", err)
	}

	// The mirror and the service reference each other: the service's
	// commit hook refreshes the mirror with a fresh authoritative read,
	// and the mirror's reschedule path drives the service's update.
	var (
		mirror   *cache.Mirror
		serveSvc *calendar.Service
	)
	serveSvc = calendar.NewService(store,
		calendar.WithLogger(logger),
		calendar.WithCommitHook(func() {
			events, err := serveSvc.ListEvents(context.Background())
			if err != nil {
				logger.Warn().Err(err).Msg("refresh after commit failed")
				return
			}
			mirror.Replace(events)
		}),
	)
	mirror = cache.New(serveSvc)

	// Seed the mirror so reschedules work before the first mutation.
	if events, err := serveSvc.ListEvents(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial collection read failed; mirror starts empty")
	} else {
		mirror.Replace(events)
	}

	handler := httpapi.NewHandler(serveSvc, mirror, logger)
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      httpapi.Router(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
