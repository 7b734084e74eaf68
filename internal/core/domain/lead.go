package domain

import (
	"regexp"
	"time"
)

var leadIDPattern = regexp.MustCompile(`^LEAD_\d+$`)

// IsLeadID reports whether s is a platform-assigned lead identifier
// (LEAD_ followed by digits). Legacy documents were keyed by creation
// timestamps instead; those never match.
func IsLeadID(s string) bool {
	return leadIDPattern.MatchString(s)
}

// Lead is a contact record as delivered by the advertising platform.
// It is read-only input: leads are never stored directly, they are
// turned into prospects at ingestion.
type Lead struct {
	ID          string    `json:"id"`
	CreatedTime Timestamp `json:"createdTime"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CampaignID  string    `json:"campaignId,omitempty"`
	AdID        string    `json:"adId,omitempty"`
}

// Prospect builds the CRM record for a freshly ingested lead. The
// prospect is keyed by the platform lead id so no identity migration is
// needed later.
func (l Lead) Prospect(now time.Time) Prospect {
	created := l.CreatedTime
	if created.IsZero() {
		created = NewTimestamp(now)
	}
	return Prospect{
		ID:         l.ID,
		MetaID:     l.ID,
		Name:       l.Name,
		Email:      l.Email,
		Phone:      l.Phone,
		Status:     StatusNew,
		Source:     SourceMetaAds,
		CampaignID: l.CampaignID,
		AdID:       l.AdID,
		CreatedAt:  created,
		UpdatedAt:  NewTimestamp(now),
	}
}
