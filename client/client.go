// Package client provides a typed Go SDK for the keyfleet REST API.
//
// Reads go through an in-memory query cache keyed by path and encoded
// parameters; successful mutations invalidate the dependent cache entries so
// the next read refetches. Requests are single-attempt with no retry.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// accessTokenCookie is the session cookie the API issues on sign-in.
const accessTokenCookie = "access_token"

// Client is the top-level keyfleet API client. A client authenticates with
// either a session cookie or a bearer token, never both.
type Client struct {
	baseURL     string
	bearerToken string
	cookieToken string
	httpClient  *http.Client
	cache       *queryCache

	configOnce sync.Once
	config     *RuntimeConfig
	configErr  error

	Teams     *TeamService
	Users     *UserService
	Keys      *KeyService
	Regions   *RegionService
	Products  *ProductService
	Resources *ResourceService
	Audit     *AuditService
	Billing   *BillingService
}

// Option configures a Client.
type Option func(*Client)

// WithBearerToken authenticates requests with an Authorization header.
func WithBearerToken(token string) Option {
	return func(c *Client) { c.bearerToken = token }
}

// WithSessionCookie authenticates requests with the access_token cookie.
func WithSessionCookie(token string) Option {
	return func(c *Client) { c.cookieToken = token }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a keyfleet client for the given base URL (e.g.
// "http://localhost:8000"). It returns an error if both cookie and bearer
// credentials are configured; the API rejects that combination.
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      newQueryCache(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.bearerToken != "" && c.cookieToken != "" {
		return nil, fmt.Errorf("client: configure either a bearer token or a session cookie, not both")
	}
	c.Teams = &TeamService{c: c}
	c.Users = &UserService{c: c}
	c.Keys = &KeyService{c: c}
	c.Regions = &RegionService{c: c}
	c.Products = &ProductService{c: c}
	c.Resources = &ResourceService{c: c}
	c.Audit = &AuditService{c: c}
	c.Billing = &BillingService{c: c}
	return c, nil
}

// Config returns the server's runtime configuration. It is fetched once and
// cached for the client's lifetime, including a fetch error.
func (c *Client) Config(ctx context.Context) (*RuntimeConfig, error) {
	c.configOnce.Do(func() {
		var cfg RuntimeConfig
		if err := c.do(ctx, http.MethodGet, "/api/config", nil, &cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = &cfg
	})
	return c.config, c.configErr
}

// Health returns the liveness check response.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Invalidate drops cached reads whose key starts with any of the given
// prefixes. It is exported so callers reacting to change events can evict
// without issuing a mutation.
func (c *Client) Invalidate(prefixes ...string) {
	for _, p := range prefixes {
		c.cache.invalidatePrefix(p)
	}
}

// do executes an HTTP request and decodes the JSON response. Single attempt:
// no retry, no backoff.
func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	data, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return err
	}
	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// roundTrip performs the HTTP exchange and returns the raw response body.
func (c *Client) roundTrip(ctx context.Context, method, path string, body any) ([]byte, error) {
	u := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch {
	case c.bearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	case c.cookieToken != "":
		req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: c.cookieToken})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, parseAPIError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// get serves GET requests through the query cache. A cache hit is decoded
// without touching the network; a miss fetches and stores the raw body.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	if data, ok := c.cache.get(path); ok {
		return json.Unmarshal(data, result)
	}
	data, err := c.roundTrip(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	c.cache.set(path, data)
	if result != nil && len(data) > 0 {
		return json.Unmarshal(data, result)
	}
	return nil
}

// post executes a POST and, on success, invalidates the given cache prefixes.
func (c *Client) post(ctx context.Context, path string, body, result any, invalidate ...string) error {
	if err := c.do(ctx, http.MethodPost, path, body, result); err != nil {
		return err
	}
	c.Invalidate(invalidate...)
	return nil
}

// put executes a PUT and, on success, invalidates the given cache prefixes.
func (c *Client) put(ctx context.Context, path string, body, result any, invalidate ...string) error {
	if err := c.do(ctx, http.MethodPut, path, body, result); err != nil {
		return err
	}
	c.Invalidate(invalidate...)
	return nil
}

// del executes a DELETE and, on success, invalidates the given cache prefixes.
func (c *Client) del(ctx context.Context, path string, invalidate ...string) error {
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.Invalidate(invalidate...)
	return nil
}
