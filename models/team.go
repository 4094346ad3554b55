package models

// Team is a tournament participant: a team for the team formats, a single
// player for Americano. Stored under tournaments/{code}/teams/{id}.
type Team struct {
	Name           string `json:"name"`
	Group          string `json:"group,omitempty"`
	Approved       bool   `json:"approved"`
	Rejected       bool   `json:"rejected,omitempty"`
	Captain        string `json:"captain,omitempty"`
	RequesterUID   string `json:"requesterUid,omitempty"`
	RequesterName  string `json:"requesterName,omitempty"`
	PersonalTeamID string `json:"personalTeamId,omitempty"`
	LogoKey        string `json:"logoKey,omitempty"`
	CreatedAt      int64  `json:"createdAt"`
	ApprovedAt     int64  `json:"approvedAt,omitempty"`
	RejectedAt     int64  `json:"rejectedAt,omitempty"`
}

// Schedulable reports whether the team may be placed into fixtures.
func (t Team) Schedulable() bool {
	return t.Approved && !t.Rejected
}

// Pending reports whether the team still awaits an admin decision.
func (t Team) Pending() bool {
	return !t.Approved && !t.Rejected
}
