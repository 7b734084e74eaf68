package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"digiflow-recon/internal/core/domain"
	"digiflow-recon/internal/core/port"
)

// Skip reasons reported by the identity normalizer.
const (
	SkipNoIdentifier     = "no platform identifier available"
	SkipAlreadyCanonical = "already canonical"
	SkipKeyConflict      = "canonical document already exists"
)

// NormalizeIdentities moves every prospect carrying a platform lead id
// to the document keyed by that id, across all of the scope's ad
// accounts (or the requested subset).
func (r *Recon) NormalizeIdentities(ctx context.Context, scope domain.Scope, opts port.RunOptions) (*port.IdentityReport, error) {
	return r.normalizeIdentities(ctx, scope, confineAccounts(scope, opts), opts.DryRun)
}

// normalizeIdentities is the per-account-list implementation. The move
// is a copy followed by a delete; the two may land in different
// batches, so both documents can briefly coexist after a mid-run
// failure. That state is acceptable: the copy is already canonical, and
// a re-run deletes the leftover.
func (r *Recon) normalizeIdentities(ctx context.Context, scope domain.Scope, accounts []string, dryRun bool) (*port.IdentityReport, error) {
	rep := &port.IdentityReport{Errors: []string{}, SkipReasons: map[string]int{}}
	skip := func(id, reason string) {
		rep.Skipped++
		rep.SkipReasons[reason]++
		r.logger.Debug("normalize skipped", slog.String("id", id), slog.String("reason", reason))
	}

	for _, account := range accounts {
		coll := scope.ProspectCollection(account)
		docs, err := r.store.Scan(ctx, coll)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("scan %s: %v", coll, err))
			continue
		}
		existing := make(map[string]struct{}, len(docs))
		for _, doc := range docs {
			existing[doc.ID] = struct{}{}
		}
		b := newBatcher(r.store, dryRun)
		for _, doc := range docs {
			rep.Checked++
			p, err := domain.DecodeProspect(doc.ID, doc.Data)
			if err != nil {
				rep.Errors = append(rep.Errors, fmt.Sprintf("decode %s/%s: %v", coll, doc.ID, err))
				continue
			}
			leadID := p.CanonicalLeadID()
			if leadID == "" {
				skip(doc.ID, SkipNoIdentifier)
				continue
			}
			if doc.ID == leadID {
				skip(doc.ID, SkipAlreadyCanonical)
				continue
			}
			if _, taken := existing[leadID]; taken {
				// a canonical document already exists; deduplication
				// elects the survivor instead of overwriting it here
				skip(doc.ID, SkipKeyConflict)
				continue
			}
			p.ID = leadID
			data, err := p.Encode()
			if err != nil {
				rep.Errors = append(rep.Errors, fmt.Sprintf("encode %s/%s: %v", coll, doc.ID, err))
				continue
			}
			b.set(ctx, coll, leadID, data)
			b.delete(ctx, coll, doc.ID)
			existing[leadID] = struct{}{}
			rep.Migrated++
			rep.Moves = append(rep.Moves, port.MigrationMove{From: doc.ID, To: leadID})
		}
		b.flush(ctx)
		rep.Errors = append(rep.Errors, b.errors...)
	}

	r.metrics.Documents("normalize", "migrated", rep.Migrated)
	return rep, nil
}
