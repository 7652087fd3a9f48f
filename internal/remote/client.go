// Package remote fetches the seed todo list from the placeholder API.
// The endpoint is consumed read-only, once, at startup; nothing is ever
// written back.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/yberkay/tudu/internal/model"
)

// wire shape of the placeholder API; timestamps are ours, not the server's.
type apiTodo struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

type Client struct {
	http    *http.Client
	baseURL string
	userID  int
	token   string
	now     func() time.Time
	log     zerolog.Logger
}

type Option func(*Client)

// WithToken attaches a bearer token to every request. The placeholder API
// ignores it; a self-hosted endpoint may not.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithUserID narrows the fetch to one user's todos via a query parameter.
// Zero means no narrowing.
func WithUserID(id int) Option {
	return func(c *Client) { c.userID = id }
}

// WithTimeout bounds the whole fetch. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchTodos performs the one GET, checks the status, decodes the body and
// stamps every record with a single fetch-time timestamp for both
// CreatedAt and UpdatedAt. Titles longer than the domain cap are clamped.
func (c *Client) FetchTodos(ctx context.Context) ([]model.Todo, error) {
	u, err := c.requestURL()
	if err != nil {
		return nil, fmt.Errorf("fetch todos: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch todos: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch todos: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch todos: unexpected status %s", resp.Status)
	}

	var raw []apiTodo
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("fetch todos: decode body: %w", err)
	}

	stamp := c.now()
	items := make([]model.Todo, 0, len(raw))
	for _, r := range raw {
		items = append(items, model.Todo{
			ID:        r.ID,
			Title:     model.ClampTitle(r.Title),
			Completed: r.Completed,
			UserID:    r.UserID,
			CreatedAt: stamp,
			UpdatedAt: stamp,
		})
	}

	c.log.Debug().
		Int("count", len(items)).
		Dur("took", c.now().Sub(start)).
		Str("url", u).
		Msg("todos fetched")
	return items, nil
}

func (c *Client) requestURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", c.baseURL, err)
	}
	if c.userID > 0 {
		q := u.Query()
		q.Set("userId", strconv.Itoa(c.userID))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
