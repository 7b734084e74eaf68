package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"digiflow-recon/internal/core/domain"
	"digiflow-recon/internal/core/port"
)

// Seed inserts demo data into the record store: one demo user scope and
// deliberately inconsistent records so every reconciliation stage has
// work — a prospect keyed by a legacy timestamp, duplicate prospects
// and revenues, a stale conversion and an untracked one.
func Seed(ctx context.Context, store port.RecordStore) error {
	const (
		userID  = "demo-user"
		orgID   = "demo-org"
		account = "acct-1"
	)
	now := time.Now().UTC()
	scope := domain.Scope{UserID: userID, OrgID: orgID, Accounts: []string{account, "acct-2"}}

	var ops []port.WriteOp
	add := func(collection, id string, data []byte, err error) error {
		if err != nil {
			return err
		}
		ops = append(ops, port.WriteOp{Kind: port.OpSet, Collection: collection, ID: id, Data: data})
		return nil
	}

	scopeData, err := json.Marshal(scope)
	if err := add(domain.CollectionUsers, userID, scopeData, err); err != nil {
		return err
	}

	coll := scope.ProspectCollection(account)

	// legacy prospect keyed by creation timestamp, carrying its lead id
	legacy := domain.Prospect{
		ID:        "LEAD_500",
		MetaID:    "LEAD_500",
		Name:      "Ada Nilsen",
		Email:     "ada@example.com",
		Status:    domain.StatusQualified,
		Source:    domain.SourceMetaAds,
		CreatedAt: domain.NewTimestamp(now.AddDate(0, 0, -30)),
		UpdatedAt: domain.NewTimestamp(now.AddDate(0, 0, -10)),
	}
	data, encErr := legacy.Encode()
	if err := add(coll, "1699999999999", data, encErr); err != nil {
		return err
	}

	// duplicate pair for one lead: a canonical and a stray copy
	for i, key := range []string{"LEAD_501", "1700000000123"} {
		p := domain.Prospect{
			ID:        "LEAD_501",
			MetaID:    "LEAD_501",
			Name:      "Bram Okafor",
			Status:    domain.StatusContacted,
			Source:    domain.SourceMetaAds,
			CreatedAt: domain.NewTimestamp(now.AddDate(0, 0, -20+i)),
			UpdatedAt: domain.NewTimestamp(now.AddDate(0, 0, -5+i)),
		}
		data, encErr := p.Encode()
		if err := add(coll, key, data, encErr); err != nil {
			return err
		}
	}

	// converted prospect with no revenue behind it (will be demoted)
	amount := int64(120000)
	revDate := now.AddDate(0, 0, -3).Format("2006-01-02")
	stale := domain.Prospect{
		ID:            "LEAD_502",
		MetaID:        "LEAD_502",
		Name:          "Cleo Marsh",
		Status:        domain.StatusConverted,
		RevenueAmount: &amount,
		RevenueDate:   &revDate,
		Source:        domain.SourceMetaAds,
		CreatedAt:     domain.NewTimestamp(now.AddDate(0, 0, -15)),
		UpdatedAt:     domain.NewTimestamp(now.AddDate(0, 0, -2)),
	}
	data, encErr = stale.Encode()
	if err := add(coll, "LEAD_502", data, encErr); err != nil {
		return err
	}

	// qualified prospect whose revenue exists (will be promoted)
	tracked := domain.Prospect{
		ID:        "LEAD_503",
		MetaID:    "LEAD_503",
		Name:      "Dana Petrov",
		Status:    domain.StatusQualified,
		Source:    domain.SourceMetaAds,
		CreatedAt: domain.NewTimestamp(now.AddDate(0, 0, -25)),
		UpdatedAt: domain.NewTimestamp(now.AddDate(0, 0, -1)),
	}
	data, encErr = tracked.Encode()
	if err := add(coll, "LEAD_503", data, encErr); err != nil {
		return err
	}

	// the same conversion recorded twice
	for i := 0; i < 2; i++ {
		rev := domain.Revenue{
			ID:         "REV_" + uuid.NewString(),
			UserID:     userID,
			ClientName: "Dana Petrov",
			Amount:     250000,
			Currency:   "USD",
			ProspectID: "LEAD_503",
			Date:       now.AddDate(0, 0, -4).Format("2006-01-02"),
			CreatedAt:  domain.NewTimestamp(now.AddDate(0, 0, -4).Add(time.Duration(i) * time.Hour)),
		}
		data, encErr := rev.Encode()
		if err := add(domain.CollectionRevenues, rev.ID, data, encErr); err != nil {
			return err
		}
	}

	for i := 0; i < len(ops); i += port.BatchChunkSize {
		end := min(i+port.BatchChunkSize, len(ops))
		if err := store.BatchWrite(ctx, ops[i:end]); err != nil {
			return fmt.Errorf("seed batch: %w", err)
		}
	}
	return nil
}
