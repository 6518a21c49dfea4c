package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/api"
	"github.com/acorn-hc/acorn-sports/internal/logger"
	"github.com/acorn-hc/acorn-sports/internal/warmer"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(o *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON and iCalendar API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = o.app.Config.ListenAddr
			}
			return serve(cmd.Context(), o.app, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default LISTEN_ADDR)")
	return cmd
}

// Handler builds the API router for app
func (a *App) Handler() http.Handler {
	return api.NewRouter(api.Config{
		Schedules:   a.Schedules,
		Upcoming:    a.Upcoming,
		Capacity:    a.Capacity,
		Gatherer:    a.Prom,
		SiteURL:     a.Config.BaseURL,
		Location:    a.Config.Location(),
		CORSOrigins: a.Config.CORSOriginList(),
	})
}

// Warmer returns the cache warmer for WARM_CRON, or nil when it is unset
func (a *App) Warmer() *warmer.Warmer {
	if a.Config.WarmCron == "" {
		return nil
	}
	return warmer.New(a.Config.WarmCron,
		warmer.Job{Name: "schedule-ids", Run: func(ctx context.Context) int {
			return len(a.Resolver.Refresh(ctx))
		}},
		warmer.Job{Name: "upcoming-games", Run: func(ctx context.Context) int {
			return len(a.Upcoming.Refresh(ctx))
		}},
	)
}

func serve(ctx context.Context, app *App, addr string) error {
	if w := app.Warmer(); w != nil {
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
		go w.RunOnce(ctx)
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      app.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API listening", logger.Fields{"addr": addr})
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down API", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}
