package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-grocer/internal/app"
	"meal-grocer/internal/httpapi"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app.App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.Config()
			if err := cfg.RequireHTTP(); err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.HTTPAddr
			}

			router := httpapi.NewRouter(a, httpapi.Options{
				JWTSecret:   []byte(cfg.JWTSecret),
				CORSOrigins: cfg.CORSOrigins,
			})
			srv := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", addr).Msg("HTTP API listening")
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

			log.Info().Msg("Shutting down HTTP API...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			log.Info().Msg("HTTP API stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default HTTP_ADDR)")
	return cmd
}
