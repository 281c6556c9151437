package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/localpulse/dashboard-service/internal/domain"
	"github.com/localpulse/dashboard-service/internal/observability"
)

// severityByKeyword maps the provider's severity keyword to the dashboard
// scale. Anything unmapped or absent defaults to medium.
var severityByKeyword = map[string]domain.Severity{
	"Minor":    domain.SeverityLow,
	"Moderate": domain.SeverityMedium,
	"Severe":   domain.SeverityHigh,
	"Extreme":  domain.SeverityCritical,
}

// Client implements domain.AlertsProvider using the National Weather Service
// active-alerts API. NWS requires a descriptive User-Agent with a contact
// point on direct calls.
type Client struct {
	baseURL   string
	userAgent string
	http      *resty.Client
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewClient creates an NWS alerts client.
func NewClient(baseURL, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      httpClient,
		metrics:   metrics,
		logger:    logger,
	}
}

type alertsResponse struct {
	Features []struct {
		Properties struct {
			Event       string `json:"event"`
			Severity    string `json:"severity"`
			Headline    string `json:"headline"`
			Description string `json:"description"`
			Sent        string `json:"sent"`
			Expires     string `json:"expires"`
		} `json:"properties"`
	} `json:"features"`
}

// Active fetches active alerts for a point, provider order preserved. Alerts
// are best-effort safety information: any failure degrades to an empty list
// and never blocks the rest of the aggregation.
func (c *Client) Active(ctx context.Context, lat, lng float64) ([]domain.SafetyAlert, error) {
	point := strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lng, 'f', 4, 64)

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("User-Agent", c.userAgent).
		SetHeader("Accept", "application/ld+json").
		SetQueryParam("point", point).
		Get(c.baseURL + "/alerts/active")
	c.metrics.ProviderDuration.WithLabelValues("alerts").Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Warn("alerts request failed", "point", point, "error", err)
		c.metrics.ProviderRequests.WithLabelValues("alerts", "fallback").Inc()
		return nil, nil
	}
	if !resp.IsSuccess() {
		c.logger.Warn("alerts request rejected", "point", point, "status", resp.StatusCode())
		c.metrics.ProviderRequests.WithLabelValues("alerts", "fallback").Inc()
		return nil, nil
	}

	var data alertsResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		c.logger.Warn("alerts response malformed", "error", err)
		c.metrics.ProviderRequests.WithLabelValues("alerts", "fallback").Inc()
		return nil, nil
	}

	c.metrics.ProviderRequests.WithLabelValues("alerts", "success").Inc()

	alerts := make([]domain.SafetyAlert, 0, len(data.Features))
	for i, f := range data.Features {
		p := f.Properties

		title := p.Event
		if title == "" {
			title = "Unknown Event"
		}

		description := p.Headline
		if description == "" {
			description = p.Description
		}
		if description == "" {
			description = "No description available"
		}

		alert := domain.SafetyAlert{
			ID:          fmt.Sprintf("alert-%d", i),
			Type:        classifyType(p.Event),
			Title:       title,
			Description: description,
			Severity:    mapSeverity(p.Severity),
			IssuedAt:    domain.FromString(p.Sent),
		}
		if p.Expires != "" {
			alert.ExpiresAt = domain.FromString(p.Expires)
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// classifyType derives the UI alert type from the event's display text. The
// provider's structured severity does not map 1:1 onto the UI's
// warning/watch/emergency split, so this substring heuristic is the contract:
// "warning" wins over "watch", and anything else is treated as an emergency.
func classifyType(event string) domain.AlertType {
	lower := strings.ToLower(event)
	switch {
	case strings.Contains(lower, "warning"):
		return domain.AlertWarning
	case strings.Contains(lower, "watch"):
		return domain.AlertWatch
	default:
		return domain.AlertEmergency
	}
}

func mapSeverity(keyword string) domain.Severity {
	if sev, ok := severityByKeyword[keyword]; ok {
		return sev
	}
	return domain.SeverityMedium
}
