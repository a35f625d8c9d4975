package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Club is one tracked facility. The registry is immutable for the duration
// of a run; only enabled clubs participate in scans.
type Club struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Enabled     bool   `json:"enabled"`

	// ReservationURLTemplate is the booking page for the club with a {date}
	// placeholder (YYYY-MM-DD, club-local calendar date).
	ReservationURLTemplate string `json:"reservationUrlTemplate"`
}

// ReservationURL fills the template for one calendar date.
func (c Club) ReservationURL(date string) string {
	return strings.ReplaceAll(c.ReservationURLTemplate, "{date}", date)
}

// defaultClubs is the built-in registry, overridable via CLUBS_FILE.
var defaultClubs = []Club{
	{
		ID:                     1294,
		Name:                   "head-club-tandil",
		DisplayName:            "Head Club Tandil",
		Enabled:                true,
		ReservationURLTemplate: "https://atcsports.io/venues/head-club-tandil-tandil?dia={date}",
	},
}

// loadClubs returns the club registry: the contents of the JSON file at path
// when given, the built-in default otherwise. A configured-but-broken file is
// an error — silently watching the wrong clubs would be worse than failing.
func loadClubs(path string) ([]Club, error) {
	if path == "" {
		return defaultClubs, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clubs file: %w", err)
	}
	var clubs []Club
	if err := json.Unmarshal(raw, &clubs); err != nil {
		return nil, fmt.Errorf("parse clubs file %s: %w", path, err)
	}
	if len(clubs) == 0 {
		return nil, fmt.Errorf("clubs file %s defines no clubs", path)
	}
	for i, c := range clubs {
		if c.ID == 0 {
			return nil, fmt.Errorf("clubs file %s: entry %d has no id", path, i)
		}
	}
	return clubs, nil
}

// EnabledClubs filters the registry down to clubs that participate in scans.
func (c *Config) EnabledClubs() []Club {
	var enabled []Club
	for _, club := range c.Clubs {
		if club.Enabled {
			enabled = append(enabled, club)
		}
	}
	return enabled
}
