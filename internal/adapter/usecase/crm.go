package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"digiflow-recon/internal/core/domain"
	"digiflow-recon/internal/core/port"
)

// CRM implements port.CRMUseCase: lead ingestion, conversion tracking
// and the read surface. Ingestion applies the identity rule up front —
// prospects are keyed by their platform lead id from the start, so the
// normalizer only ever has legacy documents to repair.
type CRM struct {
	store  port.RecordStore
	logger *slog.Logger
	now    func() time.Time
}

// NewCRM creates the CRM usecase.
func NewCRM(store port.RecordStore, logger *slog.Logger) *CRM {
	return &CRM{store: store, logger: logger, now: time.Now}
}

func (c *CRM) IngestLeads(ctx context.Context, scope domain.Scope, account string, leads []domain.Lead) (*port.IngestReport, error) {
	if !scope.HasAccount(account) {
		return nil, fmt.Errorf("account %q is not part of the caller's scope", account)
	}
	coll := scope.ProspectCollection(account)
	rep := &port.IngestReport{Received: len(leads), Errors: []string{}}
	now := c.now()

	b := newBatcher(c.store, false)
	for _, lead := range leads {
		if !domain.IsLeadID(lead.ID) {
			rep.Errors = append(rep.Errors, fmt.Sprintf("lead %q: not a platform lead identifier", lead.ID))
			continue
		}
		p := lead.Prospect(now)
		existing, err := c.store.Get(ctx, coll, lead.ID)
		switch {
		case err == nil:
			prev, decErr := domain.DecodeProspect(existing.ID, existing.Data)
			if decErr != nil {
				rep.Errors = append(rep.Errors, fmt.Sprintf("lead %q: decode existing prospect: %v", lead.ID, decErr))
				continue
			}
			// refresh contact fields only; funnel state stays put
			prev.Name = p.Name
			prev.Email = p.Email
			prev.Phone = p.Phone
			prev.CampaignID = p.CampaignID
			prev.AdID = p.AdID
			prev.UpdatedAt = domain.NewTimestamp(now)
			p = prev
			rep.Updated++
		case errors.Is(err, port.ErrNotFound):
			rep.Created++
		default:
			rep.Errors = append(rep.Errors, fmt.Sprintf("lead %q: %v", lead.ID, err))
			continue
		}
		data, err := p.Encode()
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("lead %q: %v", lead.ID, err))
			continue
		}
		b.set(ctx, coll, lead.ID, data)
	}
	b.flush(ctx)
	rep.Errors = append(rep.Errors, b.errors...)

	c.logger.Info("leads ingested",
		slog.String("account", account),
		slog.Int("received", rep.Received),
		slog.Int("created", rep.Created),
		slog.Int("updated", rep.Updated))
	return rep, nil
}

func (c *CRM) TrackConversion(ctx context.Context, scope domain.Scope, in port.ConversionInput) (*domain.Revenue, error) {
	if !scope.HasAccount(in.Account) {
		return nil, fmt.Errorf("account %q is not part of the caller's scope", in.Account)
	}
	if in.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	coll := scope.ProspectCollection(in.Account)
	doc, err := c.store.Get(ctx, coll, in.ProspectID)
	if err != nil {
		return nil, fmt.Errorf("prospect %s: %w", in.ProspectID, err)
	}
	p, err := domain.DecodeProspect(doc.ID, doc.Data)
	if err != nil {
		return nil, fmt.Errorf("decode prospect %s: %w", in.ProspectID, err)
	}

	now := c.now()
	rev := domain.Revenue{
		ID:         "REV_" + uuid.NewString(),
		UserID:     scope.UserID,
		ClientName: in.ClientName,
		Amount:     in.Amount,
		Currency:   in.Currency,
		ProspectID: in.ProspectID,
		Date:       in.Date,
		CampaignID: p.CampaignID,
		CreatedAt:  domain.NewTimestamp(now),
	}
	if rev.ClientName == "" {
		rev.ClientName = p.Name
	}
	if rev.Currency == "" {
		rev.Currency = "USD"
	}
	if rev.Date == "" {
		rev.Date = now.UTC().Format("2006-01-02")
	}
	if !p.CreatedAt.IsZero() {
		rev.LeadDate = p.CreatedAt.UTC().Format("2006-01-02")
	}

	p.Status = domain.StatusConverted
	amount := rev.Amount
	date := rev.Date
	convertedAt := rev.CreatedAt
	p.RevenueAmount = &amount
	p.RevenueDate = &date
	p.ConvertedAt = &convertedAt
	p.UpdatedAt = domain.NewTimestamp(now)

	revData, err := rev.Encode()
	if err != nil {
		return nil, err
	}
	prospectData, err := p.Encode()
	if err != nil {
		return nil, err
	}
	err = c.store.BatchWrite(ctx, []port.WriteOp{
		{Kind: port.OpSet, Collection: scope.RevenueCollection(), ID: rev.ID, Data: revData},
		{Kind: port.OpSet, Collection: coll, ID: doc.ID, Data: prospectData},
	})
	if err != nil {
		return nil, err
	}
	rev.Key = rev.ID
	return &rev, nil
}

func (c *CRM) ListProspects(ctx context.Context, scope domain.Scope, account string) ([]domain.Prospect, error) {
	if !scope.HasAccount(account) {
		return nil, fmt.Errorf("account %q is not part of the caller's scope", account)
	}
	docs, err := c.store.Scan(ctx, scope.ProspectCollection(account))
	if err != nil {
		return nil, err
	}
	prospects := make([]domain.Prospect, 0, len(docs))
	for _, doc := range docs {
		p, err := domain.DecodeProspect(doc.ID, doc.Data)
		if err != nil {
			c.logger.Warn("skipping malformed prospect", slog.String("id", doc.ID), slog.Any("error", err))
			continue
		}
		prospects = append(prospects, p)
	}
	return prospects, nil
}

func (c *CRM) ListRevenues(ctx context.Context, scope domain.Scope) ([]domain.Revenue, error) {
	docs, err := c.store.Query(ctx, scope.RevenueCollection(), port.Filter{Field: "userId", Value: scope.UserID})
	if err != nil {
		return nil, err
	}
	revenues := make([]domain.Revenue, 0, len(docs))
	for _, doc := range docs {
		rev, err := domain.DecodeRevenue(doc.ID, doc.Data)
		if err != nil {
			c.logger.Warn("skipping malformed revenue", slog.String("id", doc.ID), slog.Any("error", err))
			continue
		}
		revenues = append(revenues, rev)
	}
	return revenues, nil
}
