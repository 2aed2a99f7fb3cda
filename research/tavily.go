package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	ai "github.com/spetersoncode/blogsmith"
)

// ErrNoSearchKey is returned when searching without a search API key.
var ErrNoSearchKey = errors.New("research: no search API key configured")

// DefaultTavilyURL is the Tavily search endpoint.
const DefaultTavilyURL = "https://api.tavily.com/search"

// SearchResult is one raw web search hit.
type SearchResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	PublishedDate string `json:"published_date,omitempty"`
	Source        string `json:"source,omitempty"`
}

// Searcher runs web searches.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// TavilyOption configures the Tavily searcher.
type TavilyOption func(*tavilyConfig)

type tavilyConfig struct {
	client          *http.Client
	baseURL         string
	maxResponseSize int64
	timeout         time.Duration
	topic           string
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) TavilyOption {
	return func(cfg *tavilyConfig) {
		cfg.client = c
	}
}

// WithBaseURL overrides the search endpoint.
func WithBaseURL(u string) TavilyOption {
	return func(cfg *tavilyConfig) {
		cfg.baseURL = u
	}
}

// WithMaxResponseSize sets the maximum response body size.
// Default is 2MB.
func WithMaxResponseSize(bytes int64) TavilyOption {
	return func(cfg *tavilyConfig) {
		cfg.maxResponseSize = bytes
	}
}

// WithHTTPTimeout sets the request timeout.
// Default is 30 seconds.
func WithHTTPTimeout(d time.Duration) TavilyOption {
	return func(cfg *tavilyConfig) {
		cfg.timeout = d
	}
}

// WithTopic sets the Tavily search topic ("general" or "news").
func WithTopic(topic string) TavilyOption {
	return func(cfg *tavilyConfig) {
		cfg.topic = topic
	}
}

// TavilySearcher searches the web through the Tavily API.
type TavilySearcher struct {
	apiKey string
	cfg    *tavilyConfig
}

// NewTavilySearcher creates a searcher. An empty key yields a searcher that
// always fails with ErrNoSearchKey.
func NewTavilySearcher(apiKey string, opts ...TavilyOption) *TavilySearcher {
	cfg := &tavilyConfig{
		baseURL:         DefaultTavilyURL,
		maxResponseSize: 2 * 1024 * 1024,
		timeout:         30 * time.Second,
		topic:           "general",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{Timeout: cfg.timeout}
	}
	return &TavilySearcher{apiKey: apiKey, cfg: cfg}
}

type tavilyRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
	Topic      string `json:"topic"`
}

type tavilyResponse struct {
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		Score         float64 `json:"score"`
		PublishedDate string  `json:"published_date"`
	} `json:"results"`
}

// Search runs one query.
func (s *TavilySearcher) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	if s.apiKey == "" {
		return nil, ErrNoSearchKey
	}

	payload, err := json.Marshal(tavilyRequest{Query: query, MaxResults: maxResults, Topic: s.cfg.topic})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.cfg.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.cfg.maxResponseSize))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, ai.NewStatusError(fmt.Sprintf("tavily search failed: %s", resp.Status), resp.StatusCode, 0, nil)
	}

	var decoded tavilyResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	results := make([]SearchResult, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		results = append(results, SearchResult{
			Title:         r.Title,
			URL:           r.URL,
			Content:       r.Content,
			PublishedDate: r.PublishedDate,
		})
	}
	return results, nil
}

var _ Searcher = (*TavilySearcher)(nil)
