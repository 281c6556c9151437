// Command validate runs integrity checks over a persisted dashboard state
// document: schema version, record identity, enum values, timestamps, and
// coordinate sanity. Useful after hand-editing a fixture or migrating a
// state file between environments.
//
// Usage:
//
//	go run ./cmd/validate -state data/dashboard_state.json
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/localpulse/dashboard-service/internal/collection"
	"github.com/localpulse/dashboard-service/internal/domain"
	"github.com/localpulse/dashboard-service/internal/storage"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	statePath := flag.String("state", "", "path to the state document")
	flag.Parse()

	if *statePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*statePath); code != 0 {
		os.Exit(code)
	}
}

func run(statePath string) int {
	fmt.Println("=== Dashboard State Validation ===")
	fmt.Println()

	doc, found, err := storage.NewFileStore(statePath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load state: %v\n", err)
		return 1
	}
	if !found {
		fmt.Fprintf(os.Stderr, "FATAL: no state document at %s\n", statePath)
		return 1
	}

	phases := []*phase{
		validateDocument(doc),
		validateIdentity(doc.Locations),
		validateEnums(doc.Locations),
		validateTimestamps(doc.Locations),
		validateCoordinates(doc.Locations),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Locations: %d\n", len(doc.Locations))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Document ──

func validateDocument(doc storage.StateDocument) *phase {
	p := &phase{name: "Phase 1: Document (schema, preferences)"}

	if doc.Schema != storage.SchemaVersion {
		p.errorf("schema: expected %d, got %d", storage.SchemaVersion, doc.Schema)
	}
	if doc.SortBy != "" && !collection.ValidCriterion(doc.SortBy) {
		p.errorf("sortBy: %q is not a known criterion", doc.SortBy)
	}
	if doc.SavedAt <= 0 {
		p.errorf("savedAt: missing or non-positive (%d)", doc.SavedAt)
	}
	return p
}

// ── Phase 2: Identity ──

func validateIdentity(locations []domain.Location) *phase {
	p := &phase{name: "Phase 2: Identity (ids, names)"}

	seen := map[string]int{}
	for i, loc := range locations {
		if loc.ID == "" {
			p.errorf("location %d: missing id", i)
			continue
		}
		if prev, ok := seen[loc.ID]; ok {
			p.errorf("location %d: id %q already used by location %d", i, loc.ID, prev)
		}
		seen[loc.ID] = i

		if loc.Name == "" {
			p.errorf("location %d (%s): name is empty", i, loc.ID)
		}
	}
	return p
}

// ── Phase 3: Enums ──

var (
	validAlertTypes = map[domain.AlertType]bool{
		domain.AlertWarning: true, domain.AlertWatch: true, domain.AlertEmergency: true,
	}
	validSeverities = map[domain.Severity]bool{
		domain.SeverityLow: true, domain.SeverityMedium: true,
		domain.SeverityHigh: true, domain.SeverityCritical: true,
	}
)

func validateEnums(locations []domain.Location) *phase {
	p := &phase{name: "Phase 3: Enums (alert type, severity)"}

	for _, loc := range locations {
		for j, alert := range loc.SafetyAlerts {
			if !validAlertTypes[alert.Type] {
				p.errorf("%s alert %d: type %q not in {warning, watch, emergency}", loc.ID, j, alert.Type)
			}
			if !validSeverities[alert.Severity] {
				p.errorf("%s alert %d: severity %q not in {low, medium, high, critical}", loc.ID, j, alert.Severity)
			}
		}
	}
	return p
}

// ── Phase 4: Timestamps ──

func validateTimestamps(locations []domain.Location) *phase {
	p := &phase{name: "Phase 4: Timestamps (ordering, parseability)"}

	for _, loc := range locations {
		for j, alert := range loc.SafetyAlerts {
			issued := alert.IssuedAt.Millis()
			if issued == 0 {
				p.errorf("%s alert %d: issuedAt missing or unparseable", loc.ID, j)
			}
			if expires := alert.ExpiresAt.Millis(); expires != 0 && issued != 0 && expires < issued {
				p.errorf("%s alert %d: expires (%d) before issued (%d)", loc.ID, j, expires, issued)
			}
		}
		for j, item := range loc.News {
			if item.PublishedAt.Millis() == 0 {
				p.errorf("%s news %d: publishedAt missing or unparseable", loc.ID, j)
			}
		}
		if loc.FreshnessMillis() == 0 {
			p.errorf("%s: no usable freshness timestamp", loc.ID)
		}
	}
	return p
}

// ── Phase 5: Coordinates ──

func validateCoordinates(locations []domain.Location) *phase {
	p := &phase{name: "Phase 5: Coordinates (WGS-84 bounds)"}

	for _, loc := range locations {
		lat, lng := loc.Coordinates.Lat, loc.Coordinates.Lng
		if lat < -90 || lat > 90 {
			p.errorf("%s: lat %g out of range", loc.ID, lat)
		}
		if lng < -180 || lng > 180 {
			p.errorf("%s: lng %g out of range", loc.ID, lng)
		}
		if lat == 0 && lng == 0 {
			p.errorf("%s: coordinates are both zero", loc.ID)
		}
	}
	return p
}
