package eligibility

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/pmicheck/internal/cache"
	"github.com/ppiankov/pmicheck/internal/model"
	"github.com/ppiankov/pmicheck/internal/util"
)

// CheckPath is the scoring endpoint relative to the base URL
const CheckPath = "/pmi-check"

// Checker scores an eligibility request
type Checker interface {
	Check(ctx context.Context, req model.Request) (*model.Result, error)
}

// Limiter throttles outbound requests per key
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// Client calls the scoring service. Each Check is exactly one POST; there
// are no retries.
type Client struct {
	httpClient *http.Client
	endpoint   string
	host       string
	userAgent  string
	maxBytes   int64

	cache    cache.Cache
	cacheTTL time.Duration
	limiter  Limiter
	log      *util.Logger
}

// Option configures a Client
type Option func(*Client)

// WithCache reuses responses for identical payloads
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

// WithLimiter throttles requests to the service host
func WithLimiter(l Limiter) Option {
	return func(cl *Client) { cl.limiter = l }
}

// WithLogger sets the logger
func WithLogger(l *util.Logger) Option {
	return func(cl *Client) { cl.log = l }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(cl *Client) { cl.httpClient = hc }
}

// NewClient creates a client for the configured service
func NewClient(cfg model.EligibilityConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https: %q", cfg.BaseURL)
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}

	c := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		endpoint:  base.String() + CheckPath,
		host:      base.Host,
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
		log:       util.Discard(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Endpoint returns the full scoring URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Check posts req and decodes the verdict
func (c *Client) Check(ctx context.Context, req model.Request) (*model.Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var key string
	if c.cache != nil {
		key = cache.HashKey("eligibility", payload)
		if body, ok := c.cache.Get(ctx, key); ok {
			if result, err := decode(body); err == nil {
				c.log.Debug("eligibility cache hit for zip %s", req.Zip)
				return result, nil
			}
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.host); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	c.log.Debug("POST %s -> %d in %s", c.endpoint, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", c.maxBytes)
	}

	result, err := decode(body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
			c.log.Warn("cache eligibility response: %v", err)
		}
	}

	return result, nil
}

func decode(body []byte) (*model.Result, error) {
	var result model.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

// WithTimeout derives the context for one eligibility request. A zero
// timeout waits for as long as the service takes.
func WithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
