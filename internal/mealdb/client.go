package mealdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pders01/mymeals/internal/config"
	"github.com/pders01/mymeals/internal/debuglog"
)

// ErrFetch is wrapped by every non-cancellation failure: transport errors,
// HTTP error statuses and malformed payloads alike.
var ErrFetch = errors.New("fetch failed")

// Client talks to the read-only recipe API.
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		client: &http.Client{
			Timeout: cfg.API.HTTPTimeout,
		},
		baseURL:   strings.TrimRight(cfg.API.BaseURL, "/"),
		userAgent: cfg.API.UserAgent,
	}
}

// ListByFirstLetter browses meals whose name starts with letter.
func (c *Client) ListByFirstLetter(ctx context.Context, letter string) ([]Meal, error) {
	return c.get(ctx, "search.php", url.Values{"f": {letter}})
}

// Search looks meals up by name.
func (c *Client) Search(ctx context.Context, query string) ([]Meal, error) {
	return c.get(ctx, "search.php", url.Values{"s": {query}})
}

// Lookup fetches a single meal. A nil meal with a nil error means the API
// knows no meal with that id.
func (c *Client) Lookup(ctx context.Context, id string) (*Meal, error) {
	meals, err := c.get(ctx, "lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, nil
	}
	return &meals[0], nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]Meal, error) {
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrFetch, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	debuglog.Debugf("GET %s", reqURL)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("GET %s: %w", endpoint, ctxErr)
		}
		return nil, fmt.Errorf("%w: GET %s: %w", ErrFetch, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: GET %s: HTTP error: %d", ErrFetch, endpoint, resp.StatusCode)
	}

	meals, err := Parse(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("GET %s: %w", endpoint, ctxErr)
		}
		return nil, fmt.Errorf("%w: GET %s: %w", ErrFetch, endpoint, err)
	}
	return meals, nil
}

// IsCancelled reports whether err came from a cancelled or superseded call.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
