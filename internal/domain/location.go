package domain

// AlertType is the UI-facing classification of a safety alert. It is derived
// from the provider's event text, not its structured severity, because the
// two do not map 1:1.
type AlertType string

const (
	AlertWarning   AlertType = "warning"
	AlertWatch     AlertType = "watch"
	AlertEmergency AlertType = "emergency"
)

// Severity is the four-level scale mapped from the provider's severity keyword.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// WeatherSnapshot is one provider reading of current conditions, imperial
// units, immutable once attached to a Location. Refreshes supersede the whole
// snapshot rather than mutating it.
type WeatherSnapshot struct {
	Temperature  int    `json:"temperature"` // °F, rounded
	Condition    string `json:"condition"`
	Humidity     int    `json:"humidity"` // percent
	WindSpeed    int    `json:"windSpeed"` // mph, rounded
	Icon         string `json:"icon"`
	UpdatedAt    int64  `json:"updatedAt,omitempty"` // epoch ms
	LocationName string `json:"locationName,omitempty"`
	CountryCode  string `json:"countryCode,omitempty"`
}

// SafetyAlert is one active government alert. IDs are batch-local.
type SafetyAlert struct {
	ID          string    `json:"id"`
	Type        AlertType `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	IssuedAt    FlexTime  `json:"issuedAt"`
	ExpiresAt   FlexTime  `json:"expiresAt,omitzero"`
}

// NewsItem is one local news article. IDs are batch-local.
type NewsItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Source      string   `json:"source"`
	PublishedAt FlexTime `json:"publishedAt"`
	Category    string   `json:"category"`
	URL         string   `json:"url,omitempty"`
}

// GeocodeMatch is one candidate resolution of a free-text location query.
// Ephemeral: consumed by the aggregator to drive the other adapters.
type GeocodeMatch struct {
	Name string  `json:"name"` // "City, Region"
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Location is the unified record the dashboard renders. The ID never changes
// after creation and is the sole merge key; every other field is replaced
// wholesale on edit or refresh.
type Location struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Nickname     string           `json:"nickname"`
	Coordinates  Coordinates      `json:"coordinates"`
	Weather      *WeatherSnapshot `json:"weather,omitempty"`
	News         []NewsItem       `json:"news"`
	SafetyAlerts []SafetyAlert    `json:"safetyAlerts"`
	LastUpdated  FlexTime         `json:"lastUpdated,omitzero"`
}

// FreshnessMillis returns the record's effective refresh instant:
// max(weather.UpdatedAt, lastUpdated) in epoch ms. The two can diverge
// because weather refreshes independently. Returns 0 when both are absent.
func (l Location) FreshnessMillis() int64 {
	ts := l.LastUpdated.Millis()
	if l.Weather != nil && l.Weather.UpdatedAt > ts {
		ts = l.Weather.UpdatedAt
	}
	return ts
}
