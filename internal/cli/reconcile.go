package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"digiflow-recon/internal/adapter/usecase"
	"digiflow-recon/internal/core/port"
)

// ReconcileOptions holds flags for the reconcile command.
type ReconcileOptions struct {
	User     string
	Accounts []string
	DryRun   bool
}

// NewReconcileCommand creates the reconcile command: a one-shot
// orchestrator run for a user's scope, printing the run report as JSON.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReconcileOptions{}

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Run one reconciliation pass for a user scope",
		Long: `Run identity normalization, deduplication and status reconciliation
for the given user's scope and print the run report as JSON.

Example:
  digiflow-recon reconcile --user demo-user --dry-run
  digiflow-recon reconcile --user demo-user --account acct-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, closeStore, err := openStore(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer closeStore()

			scope, err := usecase.NewScopeResolver(store).Resolve(ctx, opts.User)
			if err != nil {
				return err
			}
			recon := usecase.NewRecon(store, rootOpts.Logger, nil, rootOpts.Config.Recon.MaxAccounts)
			rep, err := recon.Run(ctx, scope, port.RunOptions{DryRun: opts.DryRun, Accounts: opts.Accounts})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}

	cmd.Flags().StringVar(&opts.User, "user", "", "caller user id (required)")
	cmd.Flags().StringSliceVar(&opts.Accounts, "account", nil, "restrict to specific ad accounts")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "count mutations without issuing them")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
