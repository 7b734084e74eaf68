package cli

import (
	"github.com/spf13/cobra"

	"digiflow-recon/internal/db"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo data (with deliberate inconsistencies)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, closeStore, err := openStore(ctx, opts)
			if err != nil {
				return err
			}
			defer closeStore()
			if err := db.Seed(ctx, store); err != nil {
				return err
			}
			opts.Logger.Info("demo data seeded")
			return nil
		},
	}
}
