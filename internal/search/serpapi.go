package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/artistritesh/Job-Alerts/internal/models"
)

const (
	defaultSerpAPIURL   = "https://serpapi.com/search.json"
	defaultMaxResults   = 20
	maxPagesPerQuery    = 10
	maxErrorBodyPreview = 512
)

type SerpAPIConfig struct {
	APIKey            string
	BaseURL           string
	Language          string
	MaxResults        int
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// SerpAPIClient queries the google_jobs engine, one page at a time.
type SerpAPIClient struct {
	apiKey     string
	baseURL    string
	language   string
	maxResults int
	limiter    *rate.Limiter
	httpClient *http.Client
}

var _ Searcher = (*SerpAPIClient)(nil)

type serpAPIResponse struct {
	Error       string   `json:"error"`
	JobsResults []RawJob `json:"jobs_results"`
	Pagination  struct {
		NextPageToken string `json:"next_page_token"`
	} `json:"serpapi_pagination"`
}

func NewSerpAPIClient(cfg SerpAPIConfig) *SerpAPIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultSerpAPIURL
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &SerpAPIClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		language:   cfg.Language,
		maxResults: cfg.MaxResults,
		limiter:    rate.NewLimiter(limit, 1),
		httpClient: cfg.HTTPClient,
	}
}

func (c *SerpAPIClient) Name() string {
	return "SerpAPI"
}

// Search follows next_page_token until maxResults records are collected or
// the API runs out of pages.
func (c *SerpAPIClient) Search(ctx context.Context, q models.SearchQuery) ([]RawJob, error) {
	var out []RawJob
	token := ""
	for page := 0; page < maxPagesPerQuery && len(out) < c.maxResults; page++ {
		resp, err := c.fetchPage(ctx, q, token)
		if err != nil {
			return out, fmt.Errorf("serpapi %q page %d: %w", q.String(), page, err)
		}
		for _, j := range resp.JobsResults {
			j.Query = q
			out = append(out, j)
		}
		token = resp.Pagination.NextPageToken
		if token == "" || len(resp.JobsResults) == 0 {
			break
		}
	}
	if len(out) > c.maxResults {
		out = out[:c.maxResults]
	}
	return out, nil
}

func (c *SerpAPIClient) fetchPage(ctx context.Context, q models.SearchQuery, token string) (*serpAPIResponse, error) {
	endpoint, err := c.buildURL(q, token)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var parsed serpAPIResponse
	if jerr := json.Unmarshal(body, &parsed); jerr != nil {
		if res.StatusCode >= 400 {
			return nil, fmt.Errorf("status %d: %s", res.StatusCode, preview(body))
		}
		return nil, fmt.Errorf("decode response: %w", jerr)
	}
	// google_jobs answers "hasn't returned any results" with an error field
	// on an otherwise valid query; that is an empty page, not a failure.
	if parsed.Error != "" {
		if res.StatusCode < 400 && len(parsed.JobsResults) == 0 && isNoResults(parsed.Error) {
			return &parsed, nil
		}
		return nil, fmt.Errorf("api error (status %d): %s", res.StatusCode, parsed.Error)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("status %d: %s", res.StatusCode, preview(body))
	}
	return &parsed, nil
}

func (c *SerpAPIClient) buildURL(q models.SearchQuery, token string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid serpapi url %s: %w", c.baseURL, err)
	}
	query := u.Query()
	query.Set("engine", "google_jobs")
	query.Set("q", q.String())
	query.Set("hl", c.language)
	query.Set("api_key", c.apiKey)
	if token != "" {
		query.Set("next_page_token", token)
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

func isNoResults(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "hasn't returned any results")
}

func preview(body []byte) string {
	if len(body) > maxErrorBodyPreview {
		return string(body[:maxErrorBodyPreview]) + "..."
	}
	return string(body)
}
