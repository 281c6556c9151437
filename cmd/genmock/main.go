// Command genmock writes a mock dashboard state document for local
// development and demos. It uses the actual domain and storage packages so
// the fixture always matches what the service would persist itself.
//
// Usage:
//
//	go run ./cmd/genmock -out data/dashboard_state.json
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/localpulse/dashboard-service/internal/domain"
	"github.com/localpulse/dashboard-service/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the state document")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	// Fix the clock so the fixture is reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.January, 15, 13, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	doc := storage.StateDocument{
		Schema:    storage.SchemaVersion,
		Locations: mockLocations(),
		SortBy:    "name",
		SavedAt:   domain.Now().UnixMilli(),
	}

	if err := storage.NewFileStore(*out).Save(doc); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}

	log.Printf("wrote %d locations: %s", len(doc.Locations), *out)
	return nil
}

// mockLocations returns a spread of coastal and inland records covering every
// alert type and a mix of string and absent expiry timestamps.
func mockLocations() []domain.Location {
	return []domain.Location{
		{
			ID:          "1",
			Name:        "Myrtle Beach, SC",
			Nickname:    "Myrtle Beach",
			Coordinates: domain.Coordinates{Lat: 33.6891, Lng: -78.8867},
			Weather: &domain.WeatherSnapshot{
				Temperature: 76, Condition: "Sunny", Humidity: 68, WindSpeed: 12, Icon: "☀️",
			},
			News: []domain.NewsItem{
				{
					ID:          "n1",
					Title:       "Beach Renourishment Project Completes Phase 1",
					Summary:     "Major sand restoration project adds 2 miles of new beach area...",
					Source:      "Myrtle Beach Sun News",
					PublishedAt: domain.FromString("2024-01-15T10:30:00Z"),
					Category:    "Local",
				},
				{
					ID:          "n2",
					Title:       "New Oceanfront Resort Opens",
					Summary:     "Luxury resort brings 300 new jobs to the Grand Strand area...",
					Source:      "Tourism Daily",
					PublishedAt: domain.FromString("2024-01-15T08:15:00Z"),
					Category:    "Business",
				},
			},
			SafetyAlerts: []domain.SafetyAlert{
				{
					ID:          "sa1",
					Type:        domain.AlertWarning,
					Title:       "Rip Current Advisory",
					Description: "Dangerous rip currents possible along all beaches",
					Severity:    domain.SeverityMedium,
					IssuedAt:    domain.FromString("2024-01-15T06:00:00Z"),
					ExpiresAt:   domain.FromString("2024-01-16T18:00:00Z"),
				},
			},
			LastUpdated: domain.FromString("2024-01-15T12:00:00Z"),
		},
		{
			ID:          "2",
			Name:        "Pawleys Island, SC",
			Nickname:    "Pawleys Island",
			Coordinates: domain.Coordinates{Lat: 33.4343, Lng: -79.1253},
			Weather: &domain.WeatherSnapshot{
				Temperature: 74, Condition: "Partly Cloudy", Humidity: 72, WindSpeed: 8, Icon: "⛅",
			},
			News: []domain.NewsItem{
				{
					ID:          "n4",
					Title:       "Historic Hammock Shop Celebrates 75 Years",
					Summary:     "Local landmark continues tradition of handwoven rope hammocks...",
					Source:      "Georgetown Times",
					PublishedAt: domain.FromString("2024-01-15T11:00:00Z"),
					Category:    "Local",
				},
			},
			SafetyAlerts: []domain.SafetyAlert{},
			LastUpdated:  domain.FromString("2024-01-15T11:45:00Z"),
		},
		{
			ID:          "3",
			Name:        "Boston, MA",
			Nickname:    "Boston",
			Coordinates: domain.Coordinates{Lat: 42.3601, Lng: -71.0589},
			Weather: &domain.WeatherSnapshot{
				Temperature: 52, Condition: "Cloudy", Humidity: 78, WindSpeed: 14, Icon: "☁️",
			},
			News: []domain.NewsItem{
				{
					ID:          "n6",
					Title:       "Big Dig Infrastructure Upgrades Continue",
					Summary:     "Major improvements to tunnel systems enhance traffic flow...",
					Source:      "Boston Globe",
					PublishedAt: domain.FromString("2024-01-15T07:20:00Z"),
					Category:    "Local",
				},
			},
			SafetyAlerts: []domain.SafetyAlert{
				{
					ID:          "sa2",
					Type:        domain.AlertWarning,
					Title:       "Wind Advisory",
					Description: "Gusty winds up to 40 mph expected through evening",
					Severity:    domain.SeverityMedium,
					IssuedAt:    domain.FromString("2024-01-15T10:00:00Z"),
					ExpiresAt:   domain.FromString("2024-01-15T22:00:00Z"),
				},
			},
			LastUpdated: domain.FromString("2024-01-15T12:15:00Z"),
		},
		{
			ID:          "7",
			Name:        "Charlotte, NC",
			Nickname:    "Charlotte",
			Coordinates: domain.Coordinates{Lat: 35.2271, Lng: -80.8431},
			Weather: &domain.WeatherSnapshot{
				Temperature: 71, Condition: "Thunderstorms", Humidity: 84, WindSpeed: 15, Icon: "⛈️",
			},
			News: []domain.NewsItem{
				{
					ID:          "n18",
					Title:       "Light Rail Extension Project Breaks Ground",
					Summary:     "LYNX Blue Line expansion connects University area to downtown...",
					Source:      "WCNC Charlotte",
					PublishedAt: domain.FromString("2024-01-15T11:20:00Z"),
					Category:    "Local",
				},
			},
			SafetyAlerts: []domain.SafetyAlert{
				{
					ID:          "sa5",
					Type:        domain.AlertWarning,
					Title:       "Severe Thunderstorm Warning",
					Description: "Damaging winds and large hail possible through afternoon",
					Severity:    domain.SeverityHigh,
					IssuedAt:    domain.FromString("2024-01-15T11:00:00Z"),
					ExpiresAt:   domain.FromString("2024-01-15T17:00:00Z"),
				},
				{
					ID:          "sa6",
					Type:        domain.AlertWatch,
					Title:       "Flood Watch",
					Description: "Heavy rainfall may cause localized flooding in low-lying areas",
					Severity:    domain.SeverityMedium,
					IssuedAt:    domain.FromString("2024-01-15T10:45:00Z"),
					ExpiresAt:   domain.FromString("2024-01-16T08:00:00Z"),
				},
			},
			LastUpdated: domain.FromString("2024-01-15T12:45:00Z"),
		},
	}
}
