package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"digiflow-recon/internal/core/domain"
	"digiflow-recon/internal/core/port"
	"digiflow-recon/internal/metrics"
)

// Recon implements port.ReconUseCase: idempotent, re-runnable batch
// repairs over the record store. There is no locking across runs;
// idempotence of every stage is the correctness mechanism when runs
// overlap.
type Recon struct {
	store   port.RecordStore
	logger  *slog.Logger
	metrics *metrics.Metrics

	// maxAccounts bounds how many ad accounts one invocation processes
	// so a run stays inside the host request timeout; callers chunk a
	// large scope across invocations.
	maxAccounts int

	now func() time.Time
}

// NewRecon creates the reconciliation usecase. m may be nil.
func NewRecon(store port.RecordStore, logger *slog.Logger, m *metrics.Metrics, maxAccounts int) *Recon {
	if maxAccounts <= 0 {
		maxAccounts = 25
	}
	return &Recon{
		store:       store,
		logger:      logger,
		metrics:     m,
		maxAccounts: maxAccounts,
		now:         time.Now,
	}
}

// Run executes the stages in fixed order: identity normalization first
// (so natural-key grouping sees canonical ids), deduplication second
// (so duplicate revenues cannot cause spurious promotions), status
// reconciliation last. A failed stage is recorded and the next one
// still runs; nothing is transactional across stages.
func (r *Recon) Run(ctx context.Context, scope domain.Scope, opts port.RunOptions) (*port.RunReport, error) {
	accounts, remaining := r.selectAccounts(scope, opts)

	rep := &port.RunReport{
		RunID:             uuid.NewString(),
		UserID:            scope.UserID,
		OrgID:             scope.OrgID,
		DryRun:            opts.DryRun,
		Accounts:          accounts,
		RemainingAccounts: remaining,
		StageErrors:       []string{},
		StartedAt:         r.now(),
	}
	r.logger.Info("reconciliation run started",
		slog.String("runId", rep.RunID),
		slog.String("userId", scope.UserID),
		slog.Int("accounts", len(accounts)),
		slog.Bool("dryRun", opts.DryRun))

	stage := func(name string, fn func() error) {
		if err := fn(); err != nil {
			rep.StageErrors = append(rep.StageErrors, fmt.Sprintf("%s: %v", name, err))
			r.metrics.StageRun(name, "error")
			r.logger.Error("stage failed", slog.String("runId", rep.RunID), slog.String("stage", name), slog.Any("error", err))
		} else {
			r.metrics.StageRun(name, "ok")
		}
	}

	stage("normalize", func() error {
		var err error
		rep.Identity, err = r.normalizeIdentities(ctx, scope, accounts, opts.DryRun)
		return err
	})
	stage("dedup_prospects", func() error {
		var err error
		rep.Prospects, err = r.deduplicateProspects(ctx, scope, accounts, opts.DryRun)
		return err
	})
	stage("dedup_revenues", func() error {
		var err error
		rep.Revenues, err = r.DeduplicateRevenues(ctx, scope, opts)
		return err
	})
	stage("status", func() error {
		var err error
		rep.Status, err = r.reconcileStatuses(ctx, scope, accounts, opts.DryRun)
		return err
	})

	rep.FinishedAt = r.now()
	r.logger.Info("reconciliation run finished",
		slog.String("runId", rep.RunID),
		slog.Bool("success", rep.Success()),
		slog.Duration("took", rep.FinishedAt.Sub(rep.StartedAt)))
	return rep, nil
}

// confineAccounts filters opts.Accounts to the scope, or returns the
// scope's full account list when no restriction was requested. Stage
// methods process every confined account; only Run chunks by the
// account limit, so a standalone stage call never drops accounts
// without telling the caller.
func confineAccounts(scope domain.Scope, opts port.RunOptions) []string {
	if len(opts.Accounts) == 0 {
		return scope.Accounts
	}
	var out []string
	for _, a := range opts.Accounts {
		if scope.HasAccount(a) {
			out = append(out, a)
		}
	}
	return out
}

// selectAccounts splits the confined account list into this
// invocation's chunk and the remainder reported back by Run.
func (r *Recon) selectAccounts(scope domain.Scope, opts port.RunOptions) (selected, remaining []string) {
	candidates := confineAccounts(scope, opts)
	if len(candidates) <= r.maxAccounts {
		return candidates, nil
	}
	return candidates[:r.maxAccounts], candidates[r.maxAccounts:]
}
