package port

import (
	"context"
	"time"

	"digiflow-recon/internal/core/domain"
)

// RunOptions controls a reconciliation invocation.
type RunOptions struct {
	// DryRun counts mutations without issuing them.
	DryRun bool

	// Accounts restricts the pass to a subset of the scope's ad
	// accounts. Empty means all of them. Accounts outside the scope are
	// ignored.
	Accounts []string
}

// MigrationMove records one identity migration.
type MigrationMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// IdentityReport is the outcome of an identity-normalization pass.
// SkipReasons breaks Skipped down by reason so the caller can tell a
// document left for the deduplicator from one that simply has no
// platform identifier.
type IdentityReport struct {
	Checked     int             `json:"checked"`
	Migrated    int             `json:"migrated"`
	Skipped     int             `json:"skipped"`
	SkipReasons map[string]int  `json:"skipReasons,omitempty"`
	Moves       []MigrationMove `json:"moves,omitempty"`
	Errors      []string        `json:"errors"`
}

// DedupReport is the outcome of a deduplication pass. Kept lists the
// survivors of groups that actually had duplicates.
type DedupReport struct {
	Scanned int      `json:"scanned"`
	Kept    []string `json:"kept"`
	Deleted []string `json:"deleted"`
	Errors  []string `json:"errors"`
}

// StatusReport is the outcome of a status-reconciliation pass.
type StatusReport struct {
	Checked  int      `json:"checked"`
	Cleaned  int      `json:"cleaned"`
	Promoted []string `json:"promoted,omitempty"`
	Demoted  []string `json:"demoted,omitempty"`
	Errors   []string `json:"errors"`
}

// RunReport aggregates the per-stage sub-reports of one orchestrated
// run. A stage that failed outright leaves its sub-report nil and adds
// an entry to StageErrors; the remaining stages still run.
type RunReport struct {
	RunID             string          `json:"runId"`
	UserID            string          `json:"userId"`
	OrgID             string          `json:"orgId"`
	DryRun            bool            `json:"dryRun"`
	Accounts          []string        `json:"accounts"`
	RemainingAccounts []string        `json:"remainingAccounts,omitempty"`
	Identity          *IdentityReport `json:"identity,omitempty"`
	Prospects         *DedupReport    `json:"prospects,omitempty"`
	Revenues          *DedupReport    `json:"revenues,omitempty"`
	Status            *StatusReport   `json:"status,omitempty"`
	StageErrors       []string        `json:"stageErrors"`
	StartedAt         time.Time       `json:"startedAt"`
	FinishedAt        time.Time       `json:"finishedAt"`
}

// Success reports whether every stage completed (per-item errors inside
// a stage do not fail the run).
func (r *RunReport) Success() bool {
	return len(r.StageErrors) == 0
}

// ReconUseCase is the inbound port of the reconciliation engine. All
// operations are idempotent: re-running over an already-consistent
// scope performs zero mutations. Stage methods process every ad
// account of the (possibly restricted) scope; only Run applies the
// per-invocation account limit, reporting the remainder.
type ReconUseCase interface {
	// Run executes normalize, dedup (prospects then revenues) and
	// status reconciliation in that fixed order. A stage failure is
	// recorded and later stages still run. At most the configured
	// number of ad accounts is processed per invocation; the remainder
	// is reported back so the caller re-invokes.
	Run(ctx context.Context, scope domain.Scope, opts RunOptions) (*RunReport, error)

	// NormalizeIdentities moves prospects stored under legacy keys to
	// their canonical platform lead id (copy then delete).
	NormalizeIdentities(ctx context.Context, scope domain.Scope, opts RunOptions) (*IdentityReport, error)

	// DeduplicateProspects keeps one prospect per platform lead id in
	// each ad account.
	DeduplicateProspects(ctx context.Context, scope domain.Scope, opts RunOptions) (*DedupReport, error)

	// DeduplicateRevenues keeps one revenue per natural key
	// (clientName, amount, date, prospectId) within the scope.
	DeduplicateRevenues(ctx context.Context, scope domain.Scope, opts RunOptions) (*DedupReport, error)

	// ReconcileStatuses repairs prospects whose conversion status
	// disagrees with the revenue records referencing them.
	ReconcileStatuses(ctx context.Context, scope domain.Scope, opts RunOptions) (*StatusReport, error)
}
