package usecase

import (
	"context"
	"fmt"
	"sort"

	"digiflow-recon/internal/core/domain"
	"digiflow-recon/internal/core/port"
)

// ReconcileStatuses makes every prospect's conversion status agree with
// the revenue records referencing it: converted prospects without a
// backing revenue are demoted to qualified with their revenue fields
// cleared, and non-converted prospects with a backing revenue are
// promoted with the fields of the first matching revenue.
func (r *Recon) ReconcileStatuses(ctx context.Context, scope domain.Scope, opts port.RunOptions) (*port.StatusReport, error) {
	return r.reconcileStatuses(ctx, scope, confineAccounts(scope, opts), opts.DryRun)
}

func (r *Recon) reconcileStatuses(ctx context.Context, scope domain.Scope, accounts []string, dryRun bool) (*port.StatusReport, error) {
	rep := &port.StatusReport{Errors: []string{}}

	revDocs, err := r.store.Query(ctx, scope.RevenueCollection(), port.Filter{Field: "userId", Value: scope.UserID})
	if err != nil {
		return nil, fmt.Errorf("query revenues: %w", err)
	}
	revenues := make([]domain.Revenue, 0, len(revDocs))
	for _, doc := range revDocs {
		rev, err := domain.DecodeRevenue(doc.ID, doc.Data)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("decode revenue %s: %v", doc.ID, err))
			continue
		}
		revenues = append(revenues, rev)
	}
	// deterministic "first match": oldest date first, key as final order
	sort.Slice(revenues, func(i, j int) bool {
		if revenues[i].Date != revenues[j].Date {
			return revenues[i].Date < revenues[j].Date
		}
		return revenues[i].Key < revenues[j].Key
	})
	byProspect := make(map[string]domain.Revenue)
	for _, rev := range revenues {
		if rev.ProspectID == "" || rev.Amount <= 0 {
			continue
		}
		if _, ok := byProspect[rev.ProspectID]; !ok {
			byProspect[rev.ProspectID] = rev
		}
	}

	now := r.now()
	for _, account := range accounts {
		coll := scope.ProspectCollection(account)
		docs, err := r.store.Scan(ctx, coll)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("scan %s: %v", coll, err))
			continue
		}
		b := newBatcher(r.store, dryRun)
		for _, doc := range docs {
			rep.Checked++
			p, err := domain.DecodeProspect(doc.ID, doc.Data)
			if err != nil {
				rep.Errors = append(rep.Errors, fmt.Sprintf("decode %s/%s: %v", coll, doc.ID, err))
				continue
			}
			rev, backed := byProspect[doc.ID]
			converted := p.Status == domain.StatusConverted

			switch {
			case converted && !backed:
				p.Status = domain.StatusQualified
				p.RevenueAmount = nil
				p.RevenueDate = nil
				p.ConvertedAt = nil
				rep.Demoted = append(rep.Demoted, doc.ID)
			case !converted && backed:
				p.Status = domain.StatusConverted
				amount := rev.Amount
				date := rev.Date
				p.RevenueAmount = &amount
				p.RevenueDate = &date
				convertedAt := rev.CreatedAt
				if convertedAt.IsZero() {
					convertedAt = domain.NewTimestamp(now)
				}
				p.ConvertedAt = &convertedAt
				rep.Promoted = append(rep.Promoted, doc.ID)
			default:
				continue
			}

			p.UpdatedAt = domain.NewTimestamp(now)
			data, err := p.Encode()
			if err != nil {
				rep.Errors = append(rep.Errors, fmt.Sprintf("encode %s/%s: %v", coll, doc.ID, err))
				continue
			}
			b.set(ctx, coll, doc.ID, data)
			rep.Cleaned++
		}
		b.flush(ctx)
		rep.Errors = append(rep.Errors, b.errors...)
	}

	r.metrics.Documents("status", "promoted", len(rep.Promoted))
	r.metrics.Documents("status", "demoted", len(rep.Demoted))
	return rep, nil
}
