// Package cli wires the cobra commands. The reconciliation passes
// started out as one-off maintenance scripts; the reconcile, seed and
// migrate commands keep that operational surface next to serve.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"digiflow-recon/internal/config"
)

// RootOptions carries configuration and the logger shared by all
// commands. It is populated by the root PersistentPreRunE.
type RootOptions struct {
	Config config.Config
	Logger *slog.Logger
}

// NewRootCommand creates the digiflow-recon command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "digiflow-recon",
		Short:         "Prospect/revenue reconciliation engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts.Config = cfg

			var handler slog.Handler
			level := cfg.Log.SlogLevel()
			switch cfg.Log.SlogFormat() {
			case "json":
				handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
			default:
				handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
			}
			opts.Logger = slog.New(handler)
			return nil
		},
	}

	cmd.AddCommand(
		NewServeCommand(opts),
		NewReconcileCommand(opts),
		NewMigrateCommand(opts),
		NewSeedCommand(opts),
	)
	return cmd
}
