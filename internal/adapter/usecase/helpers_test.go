package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"digiflow-recon/internal/adapter/memstore"
	"digiflow-recon/internal/core/domain"
	"digiflow-recon/internal/core/port"
)

var testScope = domain.Scope{
	UserID:   "u1",
	OrgID:    "org1",
	Accounts: []string{"acct-1"},
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRecon(store port.RecordStore) *Recon {
	return NewRecon(store, testLogger(), nil, 0)
}

func putProspect(t *testing.T, store port.RecordStore, coll, key string, p domain.Prospect) {
	t.Helper()
	data, err := p.Encode()
	require.NoError(t, err)
	require.NoError(t, store.BatchWrite(context.Background(), []port.WriteOp{
		{Kind: port.OpSet, Collection: coll, ID: key, Data: data},
	}))
}

func putRevenue(t *testing.T, store port.RecordStore, key string, rev domain.Revenue) {
	t.Helper()
	rev.UserID = testScope.UserID
	data, err := rev.Encode()
	require.NoError(t, err)
	require.NoError(t, store.BatchWrite(context.Background(), []port.WriteOp{
		{Kind: port.OpSet, Collection: domain.CollectionRevenues, ID: key, Data: data},
	}))
}

func getProspect(t *testing.T, store port.RecordStore, coll, key string) domain.Prospect {
	t.Helper()
	doc, err := store.Get(context.Background(), coll, key)
	require.NoError(t, err)
	p, err := domain.DecodeProspect(doc.ID, doc.Data)
	require.NoError(t, err)
	return p
}

func ts(day int) domain.Timestamp {
	return domain.NewTimestamp(time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC))
}

func newStoreWithScope(t *testing.T) *memstore.Store {
	t.Helper()
	store := memstore.New()
	data := []byte(`{"userId":"u1","orgId":"org1","adAccounts":["acct-1"]}`)
	require.NoError(t, store.BatchWrite(context.Background(), []port.WriteOp{
		{Kind: port.OpSet, Collection: domain.CollectionUsers, ID: "u1", Data: data},
	}))
	return store
}
