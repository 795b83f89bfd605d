package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/delegation-tools/delegation-manager/internal/api"
	"github.com/delegation-tools/delegation-manager/internal/api/middleware"
	"github.com/delegation-tools/delegation-manager/internal/auth"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.store == nil {
				return fmt.Errorf("the API server requires a database: set DB_DSN")
			}

			var verifier middleware.OIDCVerifier
			if a.cfg.OIDC.Enabled {
				v, err := auth.NewVerifier(cmd.Context(),
					a.cfg.OIDC.IssuerURL,
					a.cfg.OIDC.ClientID,
					a.cfg.OIDC.GetAllowedDomains())
				if err != nil {
					return fmt.Errorf("initializing OIDC verifier: %w", err)
				}
				verifier = v
			}

			router := api.NewRouter(a.store, a.svc, a.cfg.Server.BootstrapAPIKey, verifier, logger)

			server := &http.Server{
				Addr:         a.cfg.Server.Addr(),
				Handler:      router,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  120 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting delegation manager",
					zap.String("addr", a.cfg.Server.Addr()))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-quit:
			}

			logger.Info("shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("forced shutdown: %w", err)
			}
			logger.Info("server stopped")
			return nil
		},
	}
}
