package domain

import (
	"encoding/json"
	"time"
)

// Status is the sales-funnel stage of a prospect.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
)

// Valid reports whether s is one of the known funnel stages.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted:
		return true
	}
	return false
}

// Source records how a prospect entered the CRM.
type Source string

const (
	SourceManual  Source = "manual"
	SourceMetaAds Source = "meta_ads"
)

// Prospect is the CRM record tracked through the funnel. Monetary
// amounts are integer currency units (e.g. cents). The revenue fields
// are pointers because they are null for anything not converted.
//
// Key is the storage key the document was read under; it is not part
// of the stored payload and may differ from ID/MetaID on legacy
// documents keyed by creation timestamp.
type Prospect struct {
	ID            string     `json:"id,omitempty"`
	MetaID        string     `json:"metaId,omitempty"`
	Name          string     `json:"name"`
	Company       string     `json:"company,omitempty"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Status        Status     `json:"status"`
	RevenueAmount *int64     `json:"revenueAmount"`
	RevenueDate   *string    `json:"revenueDate"`
	ConvertedAt   *Timestamp `json:"convertedAt"`
	Source        Source     `json:"source"`
	CampaignID    string     `json:"campaignId,omitempty"`
	AdID          string     `json:"adId,omitempty"`
	CreatedAt     Timestamp  `json:"createdAt"`
	UpdatedAt     Timestamp  `json:"updatedAt"`

	Key string `json:"-"`
}

// DecodeProspect is the single place the metaId/id fallback chain is
// resolved. key is the storage key the document lives under.
func DecodeProspect(key string, data []byte) (Prospect, error) {
	var p Prospect
	if err := json.Unmarshal(data, &p); err != nil {
		return Prospect{}, err
	}
	p.Key = key
	return p, nil
}

// Encode serialises the prospect payload for storage.
func (p Prospect) Encode() (json.RawMessage, error) {
	return json.Marshal(p)
}

// CanonicalLeadID returns the platform lead identifier this prospect
// should be keyed by, preferring metaId over id, or "" when the
// prospect did not originate from a platform lead.
func (p Prospect) CanonicalLeadID() string {
	if IsLeadID(p.MetaID) {
		return p.MetaID
	}
	if IsLeadID(p.ID) {
		return p.ID
	}
	return ""
}

// LastTouched is updatedAt falling back to createdAt. The zero time
// means neither field parsed.
func (p Prospect) LastTouched() time.Time {
	if !p.UpdatedAt.IsZero() {
		return p.UpdatedAt.Time
	}
	return p.CreatedAt.Time
}

// Richness scores how much converted state a prospect carries; the
// deduplicator keeps the richer of two duplicates.
func (p Prospect) Richness() int {
	score := 0
	if p.Status == StatusConverted {
		score += 2
	}
	if p.RevenueAmount != nil {
		score++
	}
	return score
}
