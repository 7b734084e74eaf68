package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLeadID(t *testing.T) {
	assert.True(t, IsLeadID("LEAD_500"))
	assert.True(t, IsLeadID("LEAD_0"))
	assert.False(t, IsLeadID("LEAD_"))
	assert.False(t, IsLeadID("lead_500"))
	assert.False(t, IsLeadID("1699999999999"))
	assert.False(t, IsLeadID("LEAD_500x"))
	assert.False(t, IsLeadID(""))
}

func TestCanonicalLeadIDFallbackChain(t *testing.T) {
	p, err := DecodeProspect("k", []byte(`{"name":"a","metaId":"LEAD_1","id":"LEAD_2"}`))
	require.NoError(t, err)
	assert.Equal(t, "LEAD_1", p.CanonicalLeadID())

	p, err = DecodeProspect("k", []byte(`{"name":"a","id":"LEAD_2"}`))
	require.NoError(t, err)
	assert.Equal(t, "LEAD_2", p.CanonicalLeadID())

	// a timestamp id is not a platform identifier
	p, err = DecodeProspect("k", []byte(`{"name":"a","metaId":"1699999999999","id":"1699999999999"}`))
	require.NoError(t, err)
	assert.Equal(t, "", p.CanonicalLeadID())
}

func TestTimestampLenientDecode(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{`"2024-01-02T10:00:00Z"`, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
		{`"2024-01-02"`, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{`1700000000000`, time.UnixMilli(1700000000000).UTC()},
		{`"not a time"`, time.Time{}},
		{`null`, time.Time{}},
		{`false`, time.Time{}},
	}
	for _, tc := range cases {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &ts), tc.raw)
		assert.True(t, ts.Time.Equal(tc.want), "raw %s: got %v want %v", tc.raw, ts.Time, tc.want)
	}
}

func TestProspectLastTouched(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := created.AddDate(0, 0, 5)

	p := Prospect{CreatedAt: NewTimestamp(created), UpdatedAt: NewTimestamp(updated)}
	assert.Equal(t, updated, p.LastTouched())

	p = Prospect{CreatedAt: NewTimestamp(created)}
	assert.Equal(t, created, p.LastTouched())

	assert.True(t, Prospect{}.LastTouched().IsZero())
}

func TestRevenueNaturalKey(t *testing.T) {
	a := Revenue{ID: "REV_a", ClientName: "Acme", Amount: 20000, Date: "2024-01-01", ProspectID: "LEAD_1"}
	b := Revenue{ID: "REV_b", ClientName: "Acme", Amount: 20000, Date: "2024-01-01", ProspectID: "LEAD_1"}
	c := Revenue{ID: "REV_c", ClientName: "Acme", Amount: 20001, Date: "2024-01-01", ProspectID: "LEAD_1"}

	assert.Equal(t, a.NaturalKey(), b.NaturalKey())
	assert.NotEqual(t, a.NaturalKey(), c.NaturalKey())
}

func TestLeadProspect(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	lead := Lead{ID: "LEAD_7", Name: "Eve", Email: "eve@example.com", CampaignID: "c1"}

	p := lead.Prospect(now)
	assert.Equal(t, "LEAD_7", p.ID)
	assert.Equal(t, "LEAD_7", p.MetaID)
	assert.Equal(t, StatusNew, p.Status)
	assert.Equal(t, SourceMetaAds, p.Source)
	assert.Equal(t, now, p.CreatedAt.Time)
	assert.Nil(t, p.RevenueAmount)
}
