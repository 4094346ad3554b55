package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matchday/tournament-tracker/models"
)

// LoadCatalog reads the sport/attribute catalog from a JSON file. Missing
// file falls back to the built-in defaults so the server always starts.
func LoadCatalog(path string) (*models.Catalog, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultCatalog(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var catalog models.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(catalog.Sports) == 0 {
		return nil, fmt.Errorf("catalog %s lists no sports", path)
	}
	return &catalog, nil
}

// DefaultCatalog covers the sports the tracker ships with.
func DefaultCatalog() *models.Catalog {
	return &models.Catalog{
		Sports: map[string]models.SportInfo{
			"football":   {Label: "Football", TeamBased: true},
			"futsal":     {Label: "Futsal", TeamBased: true},
			"basketball": {Label: "Basketball", TeamBased: true},
			"padel":      {Label: "Padel", TeamBased: false},
			"tennis":     {Label: "Tennis", TeamBased: false},
		},
		Attributes: models.AttributeSets{
			CoreRatings: []string{"attack", "defense", "stamina", "technique", "teamwork"},
		},
		Stats: map[string][]string{
			"football":   {"goals", "assists", "saves"},
			"futsal":     {"goals", "assists", "saves"},
			"basketball": {"points", "assists", "rebounds"},
		},
	}
}
