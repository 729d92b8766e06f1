// Package api is the HTTP adapter for the salon backend. Every outbound
// request carries the static API key and, when credentials are attached, a
// bearer token. A 401 from any endpoint triggers the registered unauthorized
// hook regardless of call site.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/AnandhuAsokan/salon-frontend/internal/metrics"
)

// Credentials supplies the bearer token for outbound requests.
// Attached and detached explicitly; the adapter holds no mutable global.
type Credentials interface {
	Token() (string, bool)
}

// APIError is a non-2xx response surfaced to the caller. Message prefers the
// "message" field of the response body, else a generic fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

// ErrorMessage extracts a user-displayable message from err, falling back to
// the given generic text for transport failures and bodyless responses.
func ErrorMessage(err error, fallback string) string {
	if apiErr, ok := err.(*APIError); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Client calls the salon backend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger

	mu             sync.RWMutex
	creds          Credentials
	onUnauthorized func()

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewClient constructs a client with baseURL and the static API key.
func NewClient(baseURL, apiKey string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(20), 30),
		logger:     logger.With().Str("component", "api").Logger(),
	}
}

// SetRateLimit overrides the outbound request limit.
func (c *Client) SetRateLimit(perSecond float64, burst int) {
	if perSecond > 0 && burst > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// UseRedisCache configures optional Redis caching for catalog reads.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// AttachCredentials attaches a bearer token source to the request pipeline.
func (c *Client) AttachCredentials(creds Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = creds
}

// DetachCredentials removes the token source; subsequent requests go out
// without an Authorization header.
func (c *Client) DetachCredentials() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = nil
}

// OnUnauthorized registers the global 401 handler. It runs once per 401
// response, before the error is returned to the caller.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return err
	}
	return c.do(req, endpoint, out)
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, endpoint, out)
}

func (c *Client) doDelete(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return err
	}
	return c.do(req, endpoint, nil)
}

// metricEndpoint strips the query string so the endpoint label stays
// low-cardinality: filters and paging parameters never mint new series.
func metricEndpoint(endpoint string) string {
	if i := strings.Index(endpoint, "?"); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}
	c.addHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncAPIRequest(metricEndpoint(endpoint), "transport_error")
		return err
	}
	defer resp.Body.Close()
	metrics.IncAPIRequest(metricEndpoint(endpoint), fmt.Sprintf("%d", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(endpoint)
		return &APIError{Status: resp.StatusCode, Message: extractMessage(resp.Body)}
	}
	if resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: extractMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) handleUnauthorized(endpoint string) {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()

	c.logger.Warn().Str("endpoint", endpoint).Msg("unauthorized response, tearing down session")
	metrics.IncUnauthorizedTeardown()
	if fn != nil {
		fn()
	}
}

func (c *Client) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	c.mu.RLock()
	creds := c.creds
	c.mu.RUnlock()
	if creds != nil {
		if token, ok := creds.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// extractMessage pulls the "message" field from an error body if present.
func extractMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Message
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}
