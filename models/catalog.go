package models

// Catalog is the static sports/attributes configuration loaded at startup.
type Catalog struct {
	Sports     map[string]SportInfo `json:"sports"`
	Attributes AttributeSets        `json:"attributes"`
	Stats      map[string][]string  `json:"stats"`
}

type SportInfo struct {
	Label     string `json:"label"`
	TeamBased bool   `json:"teamBased"`
}

// AttributeSets names the rating dimensions used by progression snapshots.
type AttributeSets struct {
	CoreRatings []string `json:"coreRatings"`
}
