package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digiflow-recon/internal/adapter/memstore"
	"digiflow-recon/internal/core/domain"
	"digiflow-recon/internal/core/port"
)

func TestDeduplicateRevenuesKeepsOnePerNaturalKey(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	dup := domain.Revenue{ClientName: "Acme", Amount: 20000, Date: "2024-01-01", ProspectID: "LEAD_1"}
	for _, key := range []string{"REV_a", "REV_b", "REV_c"} {
		rev := dup
		rev.ID = key
		putRevenue(t, store, key, rev)
	}
	other := domain.Revenue{ID: "REV_d", ClientName: "Acme", Amount: 99, Date: "2024-01-01", ProspectID: "LEAD_1"}
	putRevenue(t, store, "REV_d", other)

	svc := newTestRecon(store)
	rep, err := svc.DeduplicateRevenues(ctx, testScope, port.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, rep.Scanned)
	assert.Len(t, rep.Deleted, 2)
	assert.Len(t, rep.Kept, 1)
	assert.Equal(t, 2, store.Len(domain.CollectionRevenues))

	// surviving records share no natural key
	docs, err := store.Query(ctx, domain.CollectionRevenues, port.Filter{Field: "userId", Value: "u1"})
	require.NoError(t, err)
	seen := map[domain.RevenueKey]bool{}
	for _, doc := range docs {
		rev, err := domain.DecodeRevenue(doc.ID, doc.Data)
		require.NoError(t, err)
		assert.False(t, seen[rev.NaturalKey()], "duplicate natural key survived")
		seen[rev.NaturalKey()] = true
	}

	// re-run performs zero deletions
	rep, err = svc.DeduplicateRevenues(ctx, testScope, port.RunOptions{})
	require.NoError(t, err)
	assert.Empty(t, rep.Deleted)
}

func TestDeduplicateRevenuesPrefersNewest(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	old := domain.Revenue{ID: "REV_old", ClientName: "Acme", Amount: 100, Date: "2024-01-01", ProspectID: "LEAD_1", UpdatedAt: ts(2)}
	newer := domain.Revenue{ID: "REV_new", ClientName: "Acme", Amount: 100, Date: "2024-01-01", ProspectID: "LEAD_1", UpdatedAt: ts(8)}
	putRevenue(t, store, "REV_old", old)
	putRevenue(t, store, "REV_new", newer)

	rep, err := newTestRecon(store).DeduplicateRevenues(ctx, testScope, port.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"REV_new"}, rep.Kept)
	assert.Equal(t, []string{"REV_old"}, rep.Deleted)
}

// TestDeduplicateRevenuesMalformedTimestamps: when recency cannot be
// compared, the first encountered record survives and nothing blows up.
func TestDeduplicateRevenuesMalformedTimestamps(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, store.BatchWrite(ctx, []port.WriteOp{
		{Kind: port.OpSet, Collection: domain.CollectionRevenues, ID: "REV_1",
			Data: []byte(`{"userId":"u1","clientName":"Acme","amount":100,"date":"2024-01-01","prospectId":"LEAD_1","createdAt":"garbage"}`)},
		{Kind: port.OpSet, Collection: domain.CollectionRevenues, ID: "REV_2",
			Data: []byte(`{"userId":"u1","clientName":"Acme","amount":100,"date":"2024-01-01","prospectId":"LEAD_1","createdAt":"also garbage"}`)},
	}))

	rep, err := newTestRecon(store).DeduplicateRevenues(ctx, testScope, port.RunOptions{})
	require.NoError(t, err)
	// scan order is deterministic, so REV_1 is first encountered
	assert.Equal(t, []string{"REV_1"}, rep.Kept)
	assert.Equal(t, []string{"REV_2"}, rep.Deleted)
	assert.Empty(t, rep.Errors)
}

// TestDedupProspectsCanonicalKeyWins: the record stored under its
// platform lead id survives regardless of which copy is richer or
// newer.
func TestDedupProspectsCanonicalKeyWins(t *testing.T) {
	ctx := context.Background()
	coll := testScope.ProspectCollection("acct-1")

	// two insertion orders, same outcome
	for name, keys := range map[string][2]string{
		"canonical first": {"LEAD_700", "1700000000002"},
		"canonical last":  {"1700000000002", "LEAD_700"},
	} {
		t.Run(name, func(t *testing.T) {
			store := memstore.New()
			for _, key := range keys {
				p := domain.Prospect{
					ID: "LEAD_700", MetaID: "LEAD_700", Name: "Dup",
					Status: domain.StatusContacted, CreatedAt: ts(1),
				}
				if key != "LEAD_700" {
					// the stray copy is newer and richer
					amount := int64(500)
					p.Status = domain.StatusConverted
					p.RevenueAmount = &amount
					p.UpdatedAt = ts(9)
				}
				putProspect(t, store, coll, key, p)
			}

			rep, err := newTestRecon(store).DeduplicateProspects(ctx, testScope, port.RunOptions{})
			require.NoError(t, err)
			assert.Equal(t, []string{"LEAD_700"}, rep.Kept)
			assert.Equal(t, []string{"1700000000002"}, rep.Deleted)
		})
	}
}

// TestDedupProspectsRicherStateWins: among non-canonical copies the one
// with converted state survives over a newer empty one.
func TestDedupProspectsRicherStateWins(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	coll := testScope.ProspectCollection("acct-1")

	amount := int64(1000)
	putProspect(t, store, coll, "1700000000003", domain.Prospect{
		ID: "LEAD_800", MetaID: "LEAD_800", Name: "Rich",
		Status: domain.StatusConverted, RevenueAmount: &amount, UpdatedAt: ts(1),
	})
	putProspect(t, store, coll, "1700000000004", domain.Prospect{
		ID: "LEAD_800", MetaID: "LEAD_800", Name: "Poor",
		Status: domain.StatusNew, UpdatedAt: ts(9),
	})

	rep, err := newTestRecon(store).DeduplicateProspects(ctx, testScope, port.RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1700000000003"}, rep.Kept)
	assert.Equal(t, []string{"1700000000004"}, rep.Deleted)
}

func TestDedupProspectsIgnoresManualRecords(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	coll := testScope.ProspectCollection("acct-1")

	// two manual prospects without platform ids are not duplicates
	putProspect(t, store, coll, "m1", domain.Prospect{Name: "Same Name", Source: domain.SourceManual})
	putProspect(t, store, coll, "m2", domain.Prospect{Name: "Same Name", Source: domain.SourceManual})

	rep, err := newTestRecon(store).DeduplicateProspects(ctx, testScope, port.RunOptions{})
	require.NoError(t, err)
	assert.Empty(t, rep.Deleted)
	assert.Equal(t, 2, store.Len(coll))
}
