package cli

import (
	"github.com/spf13/cobra"

	"digiflow-recon/internal/db"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.Migrate(opts.Config.Psql.Addr.String()); err != nil {
				return err
			}
			opts.Logger.Info("migrations applied successfully")
			return nil
		},
	}
}
