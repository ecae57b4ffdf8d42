// Package mealdb is a small client for the public TheMealDB JSON API.
package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the free v1 endpoint of TheMealDB.
const DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"

// Meal is a raw meal record as returned by the API. Ingredient slots are
// kept flat (strIngredient1..20, strMeasure1..20) and may hold null.
type Meal map[string]any

// ID returns the idMeal field.
func (m Meal) ID() string { return m.String("idMeal") }

// String returns field key when it holds a string and "" otherwise.
func (m Meal) String(key string) string {
	s, _ := m[key].(string)
	return s
}

type envelope struct {
	Meals []Meal `json:"meals"`
}

// Client calls TheMealDB over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient returns a client for baseURL. A zero timeout falls back to 10s.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// LookupByID returns the meal with the given id, or nil when the API has no
// such meal.
func (c *Client) LookupByID(ctx context.Context, id string) (Meal, error) {
	meals, err := c.get(ctx, "lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, nil
	}
	return meals[0], nil
}

// Search returns the meals whose name matches query. No match is an empty
// slice, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]Meal, error) {
	return c.get(ctx, "search.php", url.Values{"s": {query}})
}

// Random returns one random meal.
func (c *Client) Random(ctx context.Context) (Meal, error) {
	meals, err := c.get(ctx, "random.php", nil)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, fmt.Errorf("random meal: empty response")
	}
	return meals[0], nil
}

// FilterByCategory lists meals of a category. The API only returns idMeal,
// strMeal and strMealThumb for these.
func (c *Client) FilterByCategory(ctx context.Context, category string) ([]Meal, error) {
	return c.get(ctx, "filter.php", url.Values{"c": {category}})
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]Meal, error) {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("mealdb request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("mealdb %s failed with status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	if env.Meals == nil {
		return []Meal{}, nil
	}
	return env.Meals, nil
}
