package models

// UserProfile is stored under users/{uid}/profile.
type UserProfile struct {
	DisplayName  string `json:"displayName"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
}

// TournamentRef is an entry in a user's created/joined/spectating index
// under users/{uid}/tournaments/{kind}/{code}.
type TournamentRef struct {
	Code        string `json:"code"`
	Sport       string `json:"sport,omitempty"`
	Format      Format `json:"format,omitempty"`
	Name        string `json:"name,omitempty"`
	TeamName    string `json:"teamName,omitempty"`
	Pending     bool   `json:"pending,omitempty"`
	Rejected    bool   `json:"rejected,omitempty"`
	Deleted     bool   `json:"deleted,omitempty"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
	RequestedAt int64  `json:"requestedAt,omitempty"`
	ApprovedAt  int64  `json:"approvedAt,omitempty"`
	RejectedAt  int64  `json:"rejectedAt,omitempty"`
	StartedAt   int64  `json:"startedAt,omitempty"`
	DeletedAt   int64  `json:"deletedAt,omitempty"`
}
