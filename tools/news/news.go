// Package news provides the search_news tool backed by a NewsAPI-style
// HTTP endpoint.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/calebsh/toolchat/tool"
)

const (
	defaultBaseURL = "https://newsapi.org/v2/everything"
	maxArticles    = 5
)

// Config holds provider settings loaded once at startup.
type Config struct {
	APIKey         string
	BaseURL        string        // empty = NewsAPI
	DefaultCountry string        // empty = "cn"
	Timeout        time.Duration // per-call bound, 0 = 10s
}

// Tool implements tool.Tool for keyword news search. Stateless after
// construction.
type Tool struct {
	cfg    Config
	client *http.Client
}

// New creates the news tool.
func New(cfg Config) *Tool {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.DefaultCountry == "" {
		cfg.DefaultCountry = "cn"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Tool{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

// Name implements tool.Tool.
func (t *Tool) Name() string { return "search_news" }

// Description implements tool.Tool.
func (t *Tool) Description() string {
	return "Search recent news articles by keyword, optionally filtered by category and country"
}

// Parameters implements tool.Tool.
func (t *Tool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Search keywords",
			},
			"category": map[string]any{
				"type":        "string",
				"enum":        []string{"general", "business", "entertainment", "health", "science", "sports", "technology"},
				"description": "News category",
				"default":     "general",
			},
			"country": map[string]any{
				"type":        "string",
				"description": "Country code, e.g. cn or us",
				"default":     t.cfg.DefaultCountry,
			},
		},
		"required": []string{"query"},
	}
}

// Article is the normalized article shape returned to the model.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

// SearchResult is the search_news result payload.
type SearchResult struct {
	Query        string    `json:"query"`
	TotalResults int       `json:"total_results"`
	Articles     []Article `json:"articles"`
	Timestamp    string    `json:"timestamp"`
}

type apiResponse struct {
	TotalResults int `json:"totalResults"`
	Articles     []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Call implements tool.Tool.
func (t *Tool) Call(ctx context.Context, args map[string]any) (any, error) {
	queryText, err := tool.RequireString(args, "query")
	if err != nil {
		return nil, err
	}
	country := tool.OptionalString(args, "country", t.cfg.DefaultCountry)

	language := "en"
	if country == "cn" {
		language = "zh"
	}

	query := url.Values{}
	query.Set("q", queryText)
	query.Set("apiKey", t.cfg.APIKey)
	query.Set("language", language)
	query.Set("sortBy", "publishedAt")
	query.Set("pageSize", strconv.Itoa(maxArticles))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.cfg.BaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("news search failed: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("news provider returned %s: %s", resp.Status, body)
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("news response malformed: %w", err)
	}

	articles := make([]Article, 0, maxArticles)
	for _, a := range data.Articles {
		if len(articles) == maxArticles {
			break
		}
		articles = append(articles, Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}

	return SearchResult{
		Query:        queryText,
		TotalResults: data.TotalResults,
		Articles:     articles,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}
