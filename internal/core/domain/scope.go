package domain

import "fmt"

// Collection names for the flat collections. Prospect collections are
// derived per scope and ad account, see Scope.ProspectCollection.
const (
	CollectionUsers    = "users"
	CollectionRevenues = "revenues"
)

// Scope is the organization/user boundary all record operations are
// confined to. Prospects live under a nested per-org, per-ad-account
// path while revenues sit in one flat collection filtered by user id —
// an asymmetry inherited from the existing data layout.
type Scope struct {
	UserID   string   `json:"userId"`
	OrgID    string   `json:"orgId"`
	Accounts []string `json:"adAccounts"`
}

// ProspectCollection returns the document collection holding the
// prospects of one ad account within this scope.
func (s Scope) ProspectCollection(account string) string {
	return fmt.Sprintf("orgs/%s/accounts/%s/prospects", s.OrgID, account)
}

// RevenueCollection returns the flat revenue collection; callers must
// filter by UserID to stay inside the scope.
func (s Scope) RevenueCollection() string {
	return CollectionRevenues
}

// HasAccount reports whether account belongs to this scope.
func (s Scope) HasAccount(account string) bool {
	for _, a := range s.Accounts {
		if a == account {
			return true
		}
	}
	return false
}
