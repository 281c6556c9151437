package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/localpulse/dashboard-service/internal/domain"
	"github.com/localpulse/dashboard-service/internal/observability"
)

// pageSize caps how many articles one fetch returns.
const pageSize = 5

// Client implements domain.NewsProvider using the NewsAPI.org everything
// endpoint.
type Client struct {
	apiKey  string
	baseURL string
	http    *resty.Client
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a NewsAPI client. An empty apiKey is allowed: every call
// then degrades to the single mock item.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    httpClient,
		metrics: metrics,
		logger:  logger,
	}
}

// MockItems is the deterministic fallback so the news section of a location
// is never fully blank.
func MockItems() []domain.NewsItem {
	return []domain.NewsItem{
		{
			ID:          "mock-1",
			Title:       "Local News Update",
			Summary:     "Stay informed with the latest local developments...",
			Source:      "Local News",
			PublishedAt: domain.FromTime(domain.Now()),
			Category:    "Local",
		},
	}
}

type articlesResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string `json:"publishedAt"`
		URL         string `json:"url"`
	} `json:"articles"`
}

// localQuery biases the search toward genuinely local coverage: without the
// context terms, national stories about a same-named place dominate results
// for small towns. Recall is deliberately traded for precision here.
func localQuery(city string) string {
	return fmt.Sprintf("%q AND (local OR city OR county) NOT international", city)
}

// Local fetches recent local news for a display name. The country bias code
// is accepted for provider compatibility but unused by NewsAPI's everything
// endpoint, which has no country filter. Failures and missing credentials
// degrade to the single mock item.
func (c *Client) Local(ctx context.Context, city, country string) ([]domain.NewsItem, error) {
	if c.apiKey == "" {
		c.logger.Warn("news API key not configured, using mock data")
		c.metrics.ProviderRequests.WithLabelValues("news", "fallback").Inc()
		return MockItems(), nil
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", c.apiKey).
		SetQueryParams(map[string]string{
			"q":        localQuery(city),
			"language": "en",
			"sortBy":   "publishedAt",
			"pageSize": fmt.Sprintf("%d", pageSize),
		}).
		Get(c.baseURL + "/everything")
	c.metrics.ProviderDuration.WithLabelValues("news").Observe(time.Since(start).Seconds())

	if err != nil {
		c.logger.Warn("news request failed, using mock data", "city", city, "error", err)
		c.metrics.ProviderRequests.WithLabelValues("news", "fallback").Inc()
		return MockItems(), nil
	}
	if !resp.IsSuccess() {
		c.logger.Warn("news request rejected, using mock data", "city", city, "status", resp.StatusCode())
		c.metrics.ProviderRequests.WithLabelValues("news", "fallback").Inc()
		return MockItems(), nil
	}

	var data articlesResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		c.logger.Warn("news response malformed, using mock data", "error", err)
		c.metrics.ProviderRequests.WithLabelValues("news", "fallback").Inc()
		return MockItems(), nil
	}

	c.metrics.ProviderRequests.WithLabelValues("news", "success").Inc()

	items := make([]domain.NewsItem, 0, len(data.Articles))
	for i, a := range data.Articles {
		if i >= pageSize {
			break
		}

		summary := a.Description
		if summary == "" {
			summary = a.Title
		}

		source := a.Source.Name
		if source == "" {
			source = "Unknown"
		}

		items = append(items, domain.NewsItem{
			ID:          fmt.Sprintf("news-%d", i),
			Title:       a.Title,
			Summary:     summary,
			Source:      source,
			PublishedAt: domain.FromString(a.PublishedAt),
			Category:    "Local",
			URL:         a.URL,
		})
	}
	return items, nil
}
