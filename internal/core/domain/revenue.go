package domain

import (
	"encoding/json"
	"time"
)

// Revenue is a realized conversion event, optionally linked to a
// prospect. Amount is in integer currency units (e.g. cents); Date and
// LeadDate are YYYY-MM-DD strings as stored.
type Revenue struct {
	ID           string    `json:"id,omitempty"`
	UserID       string    `json:"userId"`
	ClientName   string    `json:"clientName"`
	Amount       int64     `json:"amount"`
	Currency     string    `json:"currency,omitempty"`
	ProspectID   string    `json:"prospectId,omitempty"`
	Date         string    `json:"date"`
	CampaignID   string    `json:"campaignId,omitempty"`
	CampaignName string    `json:"campaignName,omitempty"`
	LeadDate     string    `json:"leadDate,omitempty"`
	CreatedAt    Timestamp `json:"createdAt"`
	UpdatedAt    Timestamp `json:"updatedAt"`

	Key string `json:"-"`
}

// RevenueKey is the natural key identifying a duplicate group: two
// revenues sharing it describe the same conversion.
type RevenueKey struct {
	ClientName string
	Amount     int64
	Date       string
	ProspectID string
}

// NaturalKey derives the duplicate-group key for r.
func (r Revenue) NaturalKey() RevenueKey {
	return RevenueKey{
		ClientName: r.ClientName,
		Amount:     r.Amount,
		Date:       r.Date,
		ProspectID: r.ProspectID,
	}
}

// DecodeRevenue unmarshals a stored revenue document read under key.
func DecodeRevenue(key string, data []byte) (Revenue, error) {
	var r Revenue
	if err := json.Unmarshal(data, &r); err != nil {
		return Revenue{}, err
	}
	r.Key = key
	return r, nil
}

// Encode serialises the revenue payload for storage.
func (r Revenue) Encode() (json.RawMessage, error) {
	return json.Marshal(r)
}

// LastTouched is updatedAt falling back to createdAt.
func (r Revenue) LastTouched() time.Time {
	if !r.UpdatedAt.IsZero() {
		return r.UpdatedAt.Time
	}
	return r.CreatedAt.Time
}
