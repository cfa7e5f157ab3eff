// Package api implements the HTTP client for the documentation search
// and fetch backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SearchResult describes one candidate library returned by the search
// endpoint.
type SearchResult struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Branch        string  `json:"branch"`
	LastUpdate    string  `json:"lastUpdateDate"`
	TotalTokens   int     `json:"totalTokens"`
	TotalSnippets int     `json:"totalSnippets"`
	TotalPages    int     `json:"totalPages"`
	Stars         int     `json:"stars"`
	TrustScore    float64 `json:"trustScore"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// Client talks to the documentation backend over HTTP. A nil API key is
// allowed; authenticated requests get higher rate limits upstream.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a backend client for baseURL. apiKey may be empty.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Search looks up candidate libraries for a free-form query. An empty
// slice with a nil error means the backend found nothing.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	endpoint := fmt.Sprintf("%s/v1/search?query=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("search rate limited by backend")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return parsed.Results, nil
}

// Docs fetches documentation text for a fully-qualified library ID.
// topic may be empty; tokens is the requested budget. An empty string
// with a nil error means no documentation exists for the ID.
func (c *Client) Docs(ctx context.Context, libraryID, topic string, tokens int) (string, error) {
	id := strings.TrimPrefix(libraryID, "/")

	params := url.Values{}
	params.Set("type", "txt")
	params.Set("tokens", strconv.Itoa(tokens))
	if topic != "" {
		params.Set("topic", topic)
	}
	endpoint := fmt.Sprintf("%s/v1/%s?%s", c.baseURL, id, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create docs request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("docs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("docs returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read docs response: %w", err)
	}

	text := strings.TrimSpace(string(body))
	if text == "" || text == "No content available" || text == "No context data available" {
		return "", nil
	}
	return text, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Source", "mcp-server")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
