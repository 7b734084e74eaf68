package httpadapter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digiflow-recon/internal/adapter/memstore"
	"digiflow-recon/internal/adapter/usecase"
	"digiflow-recon/internal/core/domain"
	"digiflow-recon/internal/core/port"
)

const prospectColl = "orgs/org1/accounts/acct-1/prospects"

func newTestHandler(t *testing.T) (*Handler, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	require.NoError(t, store.BatchWrite(context.Background(), []port.WriteOp{
		{
			Kind:       port.OpSet,
			Collection: domain.CollectionUsers,
			ID:         "u1",
			Data:       []byte(`{"userId":"u1","orgId":"org1","adAccounts":["acct-1"]}`),
		},
	}))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recon := usecase.NewRecon(store, logger, nil, 0)
	crm := usecase.NewCRM(store, logger)
	scopes := usecase.NewScopeResolver(store)
	return NewHandler(recon, crm, scopes, nil, logger), store
}

func seedLegacyProspect(t *testing.T, store *memstore.Store) {
	t.Helper()
	p := domain.Prospect{
		MetaID:    "LEAD_7",
		Name:      "Legacy",
		Status:    domain.StatusNew,
		CreatedAt: domain.NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	data, err := p.Encode()
	require.NoError(t, err)
	require.NoError(t, store.BatchWrite(context.Background(), []port.WriteOp{
		{Kind: port.OpSet, Collection: prospectColl, ID: "1700000000123", Data: data},
	}))
}

func do(h *Handler, method, target, caller string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if caller != "" {
		req.Header.Set(CallerHeader, caller)
	}
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(t)
	w := do(h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestScopeRequired(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(h, http.MethodPost, "/api/v1/recon/run", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, decode(t, w)["error"])

	w = do(h, http.MethodPost, "/api/v1/recon/run", "nobody", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRunEndpoint(t *testing.T) {
	h, store := newTestHandler(t)
	seedLegacyProspect(t, store)

	w := do(h, http.MethodPost, "/api/v1/recon/run", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])

	run := body["run"].(map[string]any)
	identity := run["identity"].(map[string]any)
	assert.Equal(t, float64(1), identity["migrated"])

	// the legacy key is gone and the canonical one is live
	_, err := store.Get(context.Background(), prospectColl, "1700000000123")
	assert.ErrorIs(t, err, port.ErrNotFound)
	_, err = store.Get(context.Background(), prospectColl, "LEAD_7")
	assert.NoError(t, err)
}

func TestRunEndpointDryRun(t *testing.T) {
	h, store := newTestHandler(t)
	seedLegacyProspect(t, store)

	w := do(h, http.MethodPost, "/api/v1/recon/run?dryRun=true", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)

	run := decode(t, w)["run"].(map[string]any)
	assert.Equal(t, true, run["dryRun"])
	identity := run["identity"].(map[string]any)
	assert.Equal(t, float64(1), identity["migrated"])

	// nothing moved
	_, err := store.Get(context.Background(), prospectColl, "1700000000123")
	assert.NoError(t, err)
}

func TestIngestAndConvertFlow(t *testing.T) {
	h, _ := newTestHandler(t)

	w := do(h, http.MethodPost, "/api/v1/leads/acct-1", "u1",
		`{"leads":[{"id":"LEAD_1","name":"Ada","email":"ada@example.com"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	ingest := decode(t, w)["ingest"].(map[string]any)
	assert.Equal(t, float64(1), ingest["created"])

	w = do(h, http.MethodPost, "/api/v1/prospects/LEAD_1/convert", "u1",
		`{"account":"acct-1","amount":50000,"date":"2024-02-01"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	rev := decode(t, w)["revenue"].(map[string]any)
	assert.Equal(t, "LEAD_1", rev["prospectId"])

	w = do(h, http.MethodGet, "/api/v1/revenues", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	revenues := decode(t, w)["revenues"].([]any)
	assert.Len(t, revenues, 1)

	w = do(h, http.MethodGet, "/api/v1/prospects/acct-1", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	prospects := decode(t, w)["prospects"].([]any)
	require.Len(t, prospects, 1)
	p := prospects[0].(map[string]any)
	assert.Equal(t, string(domain.StatusConverted), p["status"])
}
