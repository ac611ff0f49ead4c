package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mvbarbosa/soywatch/internal/infra"
	"github.com/mvbarbosa/soywatch/pkg/models"
)

const (
	// DefaultNewsAPIBase is the production NewsAPI endpoint.
	//
	// Free tier: 100 requests/day.
	// Docs: https://newsapi.org/docs/endpoints/everything
	DefaultNewsAPIBase = "https://newsapi.org"

	everythingPath = "/v2/everything"
)

// NewsAPI implements Source backed by the NewsAPI /v2/everything endpoint.
type NewsAPI struct {
	apiKey  string
	baseURL string
	limiter *infra.RateLimiter
}

// NewNewsAPI creates a NewsAPI source against the production endpoint.
func NewNewsAPI(apiKey string) *NewsAPI {
	return NewNewsAPIWithBase(apiKey, DefaultNewsAPIBase)
}

// NewNewsAPIWithBase creates a NewsAPI source against a custom endpoint.
func NewNewsAPIWithBase(apiKey, baseURL string) *NewsAPI {
	return &NewsAPI{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		limiter: infra.NewRateLimiter(1, time.Second),
	}
}

// Name returns the source name.
func (s *NewsAPI) Name() string { return "NewsAPI" }

// newsAPIResponse mirrors the /v2/everything response envelope. Code and
// Message are only populated when Status is "error".
type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// Search queries the everything endpoint sorted by publish date and
// normalizes the results.
func (s *NewsAPI) Search(ctx context.Context, query string, opts SearchOptions) ([]models.Article, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	params := url.Values{}
	params.Set("q", query)
	if opts.Language != "" {
		params.Set("language", opts.Language)
	}
	params.Set("sortBy", "publishedAt")
	if !opts.From.IsZero() {
		params.Set("from", opts.From.Format("2006-01-02"))
	}
	if !opts.To.IsZero() {
		params.Set("to", opts.To.Format("2006-01-02"))
	}
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("apiKey", s.apiKey)

	fullURL := s.baseURL + everythingPath + "?" + params.Encode()
	body, _, err := infra.DoGet(ctx, fullURL, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, fmt.Errorf("newsapi search: %w", err)
	}
	defer body.Close()

	var resp newsAPIResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("parse newsapi response: %w", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("newsapi %s: %s: %w", resp.Code, resp.Message, ErrAPIStatus)
	}

	articles := make([]models.Article, 0, len(resp.Articles))
	for _, raw := range resp.Articles {
		// An article without a URL has no identity; drop it.
		if raw.URL == "" {
			continue
		}
		a := models.Article{
			Title:       raw.Title,
			URL:         raw.URL,
			Source:      raw.Source.Name,
			PublishedAt: raw.PublishedAt,
			Description: raw.Description,
		}
		if a.Title == "" {
			a.Title = NoTitle
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// Ping issues a minimal search to verify the endpoint and API key.
func (s *NewsAPI) Ping(ctx context.Context) error {
	_, err := s.Search(ctx, `"soja"`, SearchOptions{PageSize: 1})
	if err != nil {
		return fmt.Errorf("newsapi ping: %w", err)
	}
	return nil
}
