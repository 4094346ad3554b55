package models

// Player is an entry in a user's personal player catalog under
// users/{uid}/players/{id}.
type Player struct {
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Age       *int   `json:"age,omitempty"`
	Contact   string `json:"contact,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
}

// ProgressSnapshot is an immutable attribute-rating snapshot for one
// player-sport pair, appended under users/{uid}/progress/{sport}/{playerId}.
type ProgressSnapshot struct {
	Ratings map[string]int `json:"ratings"`
	Overall int            `json:"overall"`
	At      int64          `json:"at"`
}
