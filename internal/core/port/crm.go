package port

import (
	"context"
	"errors"

	"digiflow-recon/internal/core/domain"
)

// ErrScopeNotResolved means the caller's identity cannot be mapped to
// an organization/user scope. Nothing is written when it is returned.
var ErrScopeNotResolved = errors.New("scope cannot be resolved for caller")

// ScopeResolver maps a caller id to its scope.
type ScopeResolver interface {
	Resolve(ctx context.Context, callerID string) (domain.Scope, error)
}

// IngestReport is the outcome of a lead-ingestion call.
type IngestReport struct {
	Received int      `json:"received"`
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors"`
}

// ConversionInput describes an explicit conversion-tracking call.
// Amount is in integer currency units.
type ConversionInput struct {
	ProspectID string `json:"prospectId"`
	Account    string `json:"account"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Date       string `json:"date"`
	ClientName string `json:"clientName"`
}

// CRMUseCase is the day-to-day record surface feeding the reconciler:
// lead ingestion, conversion tracking and reads.
type CRMUseCase interface {
	// IngestLeads upserts platform leads as prospects keyed by their
	// lead id. Re-ingesting a known lead updates contact fields in
	// place.
	IngestLeads(ctx context.Context, scope domain.Scope, account string, leads []domain.Lead) (*IngestReport, error)

	// TrackConversion records a revenue for a prospect and promotes it
	// to converted.
	TrackConversion(ctx context.Context, scope domain.Scope, in ConversionInput) (*domain.Revenue, error)

	// ListProspects returns the prospects of one ad account.
	ListProspects(ctx context.Context, scope domain.Scope, account string) ([]domain.Prospect, error)

	// ListRevenues returns the scope's revenue records.
	ListRevenues(ctx context.Context, scope domain.Scope) ([]domain.Revenue, error)
}
