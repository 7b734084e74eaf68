package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"digiflow-recon/internal/core/domain"
	"digiflow-recon/internal/core/port"
)

// candidate is one member of a duplicate group, in first-seen scan
// order. First-seen position is the final, always-decisive tie-break.
type candidate struct {
	storageKey string
	canonical  bool
	richness   int
	touched    time.Time
}

// electSurvivor applies the tie-break policy in order: canonical
// storage key, richer state, most recent touch, first seen. degraded
// reports that a recency comparison was skipped because a timestamp
// was missing or malformed.
func electSurvivor(group []candidate) (survivor int, degraded bool) {
	for i := 1; i < len(group); i++ {
		a, b := group[i], group[survivor]
		switch {
		case a.canonical != b.canonical:
			if a.canonical {
				survivor = i
			}
		case a.richness != b.richness:
			if a.richness > b.richness {
				survivor = i
			}
		case a.touched.IsZero() || b.touched.IsZero():
			// cannot order by recency; keep the first encountered
			degraded = true
		case a.touched.After(b.touched):
			survivor = i
		}
	}
	return survivor, degraded
}

// deleteLosers elects one survivor per group and schedules the rest
// for deletion. The groups were classified from a single scan before
// any delete is issued.
func (r *Recon) deleteLosers(ctx context.Context, b *batcher, collection string, groups [][]candidate, rep *port.DedupReport) {
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		survivor, degraded := electSurvivor(group)
		if degraded {
			r.logger.Warn("duplicate group has unusable timestamps, keeping first encountered",
				slog.String("collection", collection),
				slog.String("kept", group[survivor].storageKey))
		}
		rep.Kept = append(rep.Kept, group[survivor].storageKey)
		for i, c := range group {
			if i == survivor {
				continue
			}
			b.delete(ctx, collection, c.storageKey)
			rep.Deleted = append(rep.Deleted, c.storageKey)
		}
	}
}

// DeduplicateProspects keeps exactly one prospect per platform lead id
// in each ad account. Prospects without a platform identifier are never
// considered duplicates of each other.
func (r *Recon) DeduplicateProspects(ctx context.Context, scope domain.Scope, opts port.RunOptions) (*port.DedupReport, error) {
	return r.deduplicateProspects(ctx, scope, confineAccounts(scope, opts), opts.DryRun)
}

func (r *Recon) deduplicateProspects(ctx context.Context, scope domain.Scope, accounts []string, dryRun bool) (*port.DedupReport, error) {
	rep := &port.DedupReport{Kept: []string{}, Deleted: []string{}, Errors: []string{}}

	for _, account := range accounts {
		coll := scope.ProspectCollection(account)
		docs, err := r.store.Scan(ctx, coll)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("scan %s: %v", coll, err))
			continue
		}
		byLead := make(map[string]int)
		var groups [][]candidate
		for _, doc := range docs {
			rep.Scanned++
			p, err := domain.DecodeProspect(doc.ID, doc.Data)
			if err != nil {
				rep.Errors = append(rep.Errors, fmt.Sprintf("decode %s/%s: %v", coll, doc.ID, err))
				continue
			}
			leadID := p.CanonicalLeadID()
			if leadID == "" {
				continue
			}
			idx, ok := byLead[leadID]
			if !ok {
				idx = len(groups)
				byLead[leadID] = idx
				groups = append(groups, nil)
			}
			groups[idx] = append(groups[idx], candidate{
				storageKey: doc.ID,
				canonical:  doc.ID == leadID,
				richness:   p.Richness(),
				touched:    p.LastTouched(),
			})
		}
		b := newBatcher(r.store, dryRun)
		r.deleteLosers(ctx, b, coll, groups, rep)
		b.flush(ctx)
		rep.Errors = append(rep.Errors, b.errors...)
	}

	r.metrics.Documents("dedup_prospects", "deleted", len(rep.Deleted))
	return rep, nil
}

// DeduplicateRevenues keeps exactly one revenue per natural key
// (clientName, amount, date, prospectId) within the scope. Revenue ids
// are synthetic, so the canonical-key rule never fires here and the
// election falls through to recency and first-seen order.
func (r *Recon) DeduplicateRevenues(ctx context.Context, scope domain.Scope, opts port.RunOptions) (*port.DedupReport, error) {
	rep := &port.DedupReport{Kept: []string{}, Deleted: []string{}, Errors: []string{}}

	docs, err := r.store.Query(ctx, scope.RevenueCollection(), port.Filter{Field: "userId", Value: scope.UserID})
	if err != nil {
		return nil, fmt.Errorf("query revenues: %w", err)
	}

	byKey := make(map[domain.RevenueKey]int)
	var groups [][]candidate
	for _, doc := range docs {
		rep.Scanned++
		rev, err := domain.DecodeRevenue(doc.ID, doc.Data)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("decode revenue %s: %v", doc.ID, err))
			continue
		}
		key := rev.NaturalKey()
		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, nil)
		}
		groups[idx] = append(groups[idx], candidate{
			storageKey: doc.ID,
			touched:    rev.LastTouched(),
		})
	}

	b := newBatcher(r.store, opts.DryRun)
	r.deleteLosers(ctx, b, scope.RevenueCollection(), groups, rep)
	b.flush(ctx)
	rep.Errors = append(rep.Errors, b.errors...)

	r.metrics.Documents("dedup_revenues", "deleted", len(rep.Deleted))
	return rep, nil
}
