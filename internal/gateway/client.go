package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/Archi470/Todo-Mobile-Application/internal/infra/buildinfo"
	"github.com/Archi470/Todo-Mobile-Application/internal/storage"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/metric"
)

// DefaultTimeout bounds every call.
const DefaultTimeout = 15 * time.Second

// DefaultBaseURL is the development backend address.
const DefaultBaseURL = "http://localhost:8000"

// maxResponseBody caps how much of a response is read.
const maxResponseBody = 4 << 20

// HeaderRequestID carries the per-call correlation ID.
const HeaderRequestID = "X-Request-ID"

// TokenReader is the read side of the token store.
type TokenReader interface {
	Get(ctx context.Context, key string) (string, error)
}

// Client issues calls to the backend.
type Client struct {
	baseURL   string
	client    *http.Client
	tokens    TokenReader
	tokenKey  string
	limiter   *rate.Limiter
	metrics   *metric.Registry
	logger    logger.Logger
	userAgent string
}

// Option configures the Client.
type Option func(*Client)

// WithTokenReader sets where the bearer token is read from.
func WithTokenReader(r TokenReader) Option {
	return func(c *Client) {
		c.tokens = r
	}
}

// WithTokenKey sets the store key holding the token.
func WithTokenKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.tokenKey = key
		}
	}
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is
// set to the default when zero.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		if hc.Timeout == 0 {
			hc.Timeout = DefaultTimeout
		}
		c.client = hc
	}
}

// WithRateLimit paces outgoing calls. A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records calls on r.
func WithMetrics(r *metric.Registry) Option {
	return func(c *Client) {
		c.metrics = r
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a client for baseURL. A missing scheme defaults to http.
func New(baseURL string, opts ...Option) (*Client, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:   normalized,
		client:    &http.Client{Timeout: DefaultTimeout},
		tokenKey:  storage.DefaultKey,
		logger:    logger.Default(),
		userAgent: buildinfo.UserAgent("todo-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "gateway")
	return c, nil
}

// NormalizeBaseURL adds an http scheme when missing, strips trailing
// slashes and checks that a host is present.
func NormalizeBaseURL(raw string) (string, error) {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "", errors.New("gateway: base URL is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	base = strings.TrimRight(base, "/")

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("gateway: invalid base URL %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("gateway: base URL %q has no host", raw)
	}
	return base, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration {
	return c.client.Timeout
}

// Send issues method on path with an optional JSON body. On a 2xx
// response the body, if any, is decoded into out (when out is non-nil).
// Every failure is an *Error.
func (c *Client) Send(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()
	err := c.send(ctx, method, path, body, out)
	c.metrics.ObserveGateway(method, outcome(err), time.Since(start))
	return err
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	requestID := ulid.Make().String()
	log := c.logger.With("method", method, "path", path, "request_id", requestID)

	if !strings.HasPrefix(path, "/") || strings.Contains(path, "://") {
		err := localError(method, path, "path must be server-relative", nil)
		log.Warn("request error", "error", err)
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			gerr := localError(method, path, "encode body", err)
			log.Warn("request error", "error", gerr)
			return gerr
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		gerr := localError(method, path, "build request", err)
		log.Warn("request error", "error", gerr)
		return gerr
	}
	c.decorate(ctx, req, requestID, log)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			gerr := localError(method, path, "rate limit wait", err)
			log.Warn("request error", "error", gerr)
			return gerr
		}
	}
	if err := ctx.Err(); err != nil {
		gerr := localError(method, path, "context done before send", err)
		log.Warn("request error", "error", gerr)
		return gerr
	}

	resp, err := c.client.Do(req)
	if err != nil {
		gerr := networkError(method, path, err)
		log.Warn("network error: no response from server", "base_url", c.baseURL, "error", err)
		return gerr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		gerr := networkError(method, path, err)
		log.Warn("network error: response body interrupted", "base_url", c.baseURL, "error", err)
		return gerr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gerr := statusError(method, path, resp.StatusCode, data)
		log.Warn("api error", "status", resp.StatusCode, "detail", gerr.Detail)
		return gerr
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			gerr := localError(method, path, "decode response", err)
			log.Warn("request error", "error", gerr)
			return gerr
		}
	}
	log.Debug("request completed", "status", resp.StatusCode)
	return nil
}

// decorate sets the common headers and the bearer token. A token read
// failure is logged and the call proceeds without credentials.
func (c *Client) decorate(ctx context.Context, req *http.Request, requestID string, log logger.Logger) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(HeaderRequestID, requestID)

	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Get(ctx, c.tokenKey)
	switch {
	case err == nil && token != "":
		req.Header.Set("Authorization", "Bearer "+token)
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		log.Warn("error getting token", "error", err)
	}
}

func outcome(err error) string {
	if err == nil {
		return metric.OutcomeOK
	}
	ge, ok := AsError(err)
	if !ok {
		return metric.OutcomeLocal
	}
	switch ge.Kind {
	case KindNetworkUnreachable:
		return metric.OutcomeNetwork
	case KindHTTPStatus:
		if ge.StatusCode >= 500 {
			return metric.OutcomeHTTP5xx
		}
		return metric.OutcomeHTTP4xx
	default:
		return metric.OutcomeLocal
	}
}
