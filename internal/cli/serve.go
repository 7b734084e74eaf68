package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	httpadapter "digiflow-recon/internal/adapter/http"
	"digiflow-recon/internal/adapter/usecase"
	"digiflow-recon/internal/db"
	"digiflow-recon/internal/metrics"
)

// NewServeCommand creates the serve command: run migrations when
// configured, open the store and serve the HTTP API until terminated.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), opts)
		},
	}
}

func serve(ctx context.Context, opts *RootOptions) error {
	cfg, logger := opts.Config, opts.Logger

	if cfg.Recon.Store == "postgres" && cfg.Psql.RunMigrations {
		if err := db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
		} else {
			logger.Info("migrations applied successfully")
		}
	}

	store, closeStore, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()
	recon := usecase.NewRecon(store, logger, m, cfg.Recon.MaxAccounts)
	crm := usecase.NewCRM(store, logger)
	scopes := usecase.NewScopeResolver(store)

	handler := httpadapter.NewHandler(recon, crm, scopes, m.Handler(), logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		return err
	}
	logger.Info("server gracefully stopped")
	return nil
}
