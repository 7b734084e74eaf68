package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"digiflow-recon/internal/core/domain"
	"digiflow-recon/internal/core/port"
)

// ScopeStore resolves caller ids to scopes from the users collection.
type ScopeStore struct {
	store port.RecordStore
}

// NewScopeResolver creates a store-backed scope resolver.
func NewScopeResolver(store port.RecordStore) *ScopeStore {
	return &ScopeStore{store: store}
}

// Resolve maps callerID to its scope. It returns
// port.ErrScopeNotResolved when the caller is unknown or its user
// document carries no organization.
func (s *ScopeStore) Resolve(ctx context.Context, callerID string) (domain.Scope, error) {
	if callerID == "" {
		return domain.Scope{}, port.ErrScopeNotResolved
	}
	doc, err := s.store.Get(ctx, domain.CollectionUsers, callerID)
	if errors.Is(err, port.ErrNotFound) {
		return domain.Scope{}, fmt.Errorf("%w: unknown user %q", port.ErrScopeNotResolved, callerID)
	}
	if err != nil {
		return domain.Scope{}, err
	}
	var scope domain.Scope
	if err := json.Unmarshal(doc.Data, &scope); err != nil {
		return domain.Scope{}, fmt.Errorf("%w: malformed user document %q", port.ErrScopeNotResolved, callerID)
	}
	if scope.UserID == "" {
		scope.UserID = callerID
	}
	if scope.OrgID == "" {
		return domain.Scope{}, fmt.Errorf("%w: user %q has no organization", port.ErrScopeNotResolved, callerID)
	}
	return scope, nil
}
