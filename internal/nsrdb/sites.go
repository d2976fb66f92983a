package nsrdb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Site is one plant in the local site registry.
type Site struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Racking    string  `json:"racking"`
	DCCapacity float64 `json:"dc_capacity"` // W
	ACCapacity float64 `json:"ac_capacity"` // W
	Voltage    string  `json:"voltage,omitempty"`

	// Filled by update-sites from the NSRDB metadata.
	UTCOffset *float64 `json:"utc_offset,omitempty"`
	Elevation *float64 `json:"elevation,omitempty"`
}

// SiteList is the registry file shape.
type SiteList struct {
	UpdatedAt string `json:"updated_at"` // ISO 8601 timestamp
	Sites     []Site `json:"sites"`
}

// Find returns the site with the given ID.
func (l *SiteList) Find(id string) (Site, bool) {
	for _, s := range l.Sites {
		if s.ID == id {
			return s, true
		}
	}
	return Site{}, false
}

// LoadSites loads the site registry from a JSON file.
func LoadSites(filePath string) (*SiteList, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites file: %w", err)
	}

	var list SiteList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse sites file: %w", err)
	}

	return &list, nil
}

// SaveSites saves the site registry to a JSON file, stamping UpdatedAt.
func SaveSites(list *SiteList, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	list.UpdatedAt = time.Now().Format(time.RFC3339)
	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sites: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write sites file: %w", err)
	}

	return nil
}

// GetDefaultSitesPath returns the default path for the site registry.
func GetDefaultSitesPath() string {
	if path := os.Getenv("SITES_FILE"); path != "" {
		return path
	}
	return "./data/sites.json"
}
