package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Image is one search result ready to drop into an image block.
type Image struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	ThumbURL string `json:"thumbUrl"`
	Alt      string `json:"alt"`
	Credit   string `json:"credit,omitempty"`
}

// Client searches an Unsplash-compatible photo API. A client without
// an access key always answers with placeholders.
type Client struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
	retry      RetryConfig
	breaker    *CircuitBreaker
}

// NewClient builds a client. accessKey may be empty.
func NewClient(baseURL, accessKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.unsplash.com"
	}
	return &Client{
		baseURL:    baseURL,
		accessKey:  accessKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry:      DefaultRetryConfig(),
		breaker:    NewCircuitBreaker(DefaultCircuitBreakerConfig()),
	}
}

// Search returns up to count images for the query. API failures after
// all retries, like a missing access key or an open circuit breaker,
// degrade to placeholders so an image block always gets a usable
// source.
func (c *Client) Search(ctx context.Context, query string, count int) ([]Image, error) {
	if count <= 0 {
		count = 6
	}
	if query == "" {
		query = "presentation"
	}
	if c.accessKey == "" {
		return Placeholders(query, count), nil
	}

	results, err := c.breaker.Execute(ctx, func(ctx context.Context) ([]Image, error) {
		return withRetry(ctx, query, c.retry, func(ctx context.Context) ([]Image, error) {
			return c.search(ctx, query, count)
		})
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return Placeholders(query, count), nil
	}
	if len(results) == 0 {
		return Placeholders(query, count), nil
	}
	return results, nil
}

func (c *Client) search(ctx context.Context, query string, count int) ([]Image, error) {
	u := fmt.Sprintf("%s/search/photos?query=%s&per_page=%s",
		c.baseURL, url.QueryEscape(query), strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, newSearchError(query, err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newSearchError(query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	var payload struct {
		Results []struct {
			ID             string `json:"id"`
			AltDescription string `json:"alt_description"`
			URLs           struct {
				Regular string `json:"regular"`
				Small   string `json:"small"`
			} `json:"urls"`
			User struct {
				Name string `json:"name"`
			} `json:"user"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, newSearchError(query, fmt.Errorf("failed to decode response: %w", err))
	}

	images := make([]Image, 0, len(payload.Results))
	for _, r := range payload.Results {
		alt := r.AltDescription
		if alt == "" {
			alt = query
		}
		images = append(images, Image{
			ID:       r.ID,
			URL:      r.URLs.Regular,
			ThumbURL: r.URLs.Small,
			Alt:      alt,
			Credit:   r.User.Name,
		})
	}
	return images, nil
}

// Placeholders returns deterministic stand-in images for a query.
// The URLs render a labeled 16:9 canvas, so decks built offline still
// look intentional.
func Placeholders(query string, count int) []Image {
	if count <= 0 {
		count = 1
	}
	images := make([]Image, count)
	for i := range images {
		label := url.QueryEscape(query)
		images[i] = Image{
			ID:       fmt.Sprintf("placeholder-%d", i+1),
			URL:      fmt.Sprintf("https://placehold.co/1600x900?text=%s", label),
			ThumbURL: fmt.Sprintf("https://placehold.co/320x180?text=%s", label),
			Alt:      query,
		}
	}
	return images
}
