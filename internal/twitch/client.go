package twitch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	HelixBaseURL = "https://api.twitch.tv/helix"
	AuthBaseURL  = "https://id.twitch.tv/oauth2"

	defaultTimeout = 30 * time.Second

	// Helix allows 800 points per minute per token; stay well below it.
	defaultRateLimit = rate.Limit(10)
	defaultBurstSize = 20
)

// ErrNotFound is returned when a lookup by name matched nothing.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from Twitch.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("twitch api: status %d", e.Status)
	}
	return fmt.Sprintf("twitch api: status %d: %s", e.Status, e.Message)
}

// Client issues authenticated Helix requests. It is safe for concurrent use.
type Client struct {
	baseURL     string
	authURL     string
	token       string
	httpClient  *http.Client
	rateLimiter *rate.Limiter

	mu       sync.RWMutex
	clientID string
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithAuthURL(u string) Option {
	return func(c *Client) { c.authURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) { c.rateLimiter = rate.NewLimiter(limit, burst) }
}

// NewClient creates a client for token. The "oauth:" prefix used by chat
// tokens is accepted. clientID may be empty and filled in by ValidateToken.
func NewClient(token, clientID string, opts ...Option) *Client {
	c := &Client{
		baseURL:     HelixBaseURL,
		authURL:     AuthBaseURL,
		token:       strings.TrimPrefix(token, "oauth:"),
		clientID:    clientID,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: rate.NewLimiter(defaultRateLimit, defaultBurstSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TokenInfo describes the owner of the client's token.
type TokenInfo struct {
	ClientID string   `json:"client_id"`
	Login    string   `json:"login"`
	UserID   string   `json:"user_id"`
	Scopes   []string `json:"scopes"`
}

// ValidateToken checks the token and adopts its client ID if none was set.
func (c *Client) ValidateToken(ctx context.Context) (*TokenInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.authURL+"/validate", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "OAuth "+c.token)

	var info TokenInfo
	if err := c.send(req, &info); err != nil {
		return nil, fmt.Errorf("validate token: %w", err)
	}
	c.mu.Lock()
	if c.clientID == "" {
		c.clientID = info.ClientID
	}
	c.mu.Unlock()
	return &info, nil
}

// ClientID is the configured client ID, or the one adopted from the token.
func (c *Client) ClientID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientID
}

// get performs a Helix GET and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Client-Id", c.ClientID())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	slog.Debug("twitch request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}

// dataList is the envelope Helix wraps collections in.
type dataList[T any] struct {
	Data       []T `json:"data"`
	Pagination struct {
		Cursor string `json:"cursor"`
	} `json:"pagination"`
}

type User struct {
	ID          string `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// UserID resolves a login name to its user ID.
func (c *Client) UserID(ctx context.Context, login string) (string, error) {
	login = strings.TrimPrefix(strings.ToLower(login), "#")

	var users dataList[User]
	if err := c.get(ctx, "/users", url.Values{"login": {login}}, &users); err != nil {
		return "", fmt.Errorf("get user %s: %w", login, err)
	}
	if len(users.Data) == 0 {
		return "", fmt.Errorf("user %s: %w", login, ErrNotFound)
	}
	return users.Data[0].ID, nil
}
