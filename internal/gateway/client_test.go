package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Archi470/Todo-Mobile-Application/internal/storage"
	"github.com/Archi470/Todo-Mobile-Application/internal/storage/memory"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/metric"
)

type tokenFunc func(ctx context.Context, key string) (string, error)

func (f tokenFunc) Get(ctx context.Context, key string) (string, error) { return f(ctx, key) }

func newTestClient(t *testing.T, url string, opts ...Option) *Client {
	t.Helper()
	c, err := New(url, append([]Option{WithLogger(logger.Discard())}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "http://localhost:8000", want: "http://localhost:8000"},
		{in: "https://api.example.com/", want: "https://api.example.com"},
		{in: "localhost:8000", want: "http://localhost:8000"},
		{in: "  10.0.2.2:8000  ", want: "http://10.0.2.2:8000"},
		{in: "", wantErr: true},
		{in: "http://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeBaseURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	c := newTestClient(t, DefaultBaseURL)
	assert.Equal(t, DefaultTimeout, c.Timeout())
	assert.Equal(t, 15*time.Second, c.Timeout())
	assert.Equal(t, storage.DefaultKey, c.tokenKey)
}

func TestSend_Headers(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := memory.New()
	c := newTestClient(t, srv.URL, WithTokenReader(store), WithUserAgent("todo-test/1"))

	require.NoError(t, c.Send(context.Background(), http.MethodGet, "/me", nil, nil))
	assert.Empty(t, got.Get("Authorization"), "no token, no header")
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "todo-test/1", got.Get("User-Agent"))
	assert.Len(t, got.Get(HeaderRequestID), 26, "ULID request id")

	// The token is read at call time, not cached.
	require.NoError(t, store.Set(context.Background(), storage.DefaultKey, "tok-1"))
	require.NoError(t, c.Send(context.Background(), http.MethodGet, "/me", nil, nil))
	assert.Equal(t, "Bearer tok-1", got.Get("Authorization"))

	require.NoError(t, store.Remove(context.Background(), storage.DefaultKey))
	require.NoError(t, c.Send(context.Background(), http.MethodGet, "/me", nil, nil))
	assert.Empty(t, got.Get("Authorization"))
}

func TestSend_TokenReadFailureProceeds(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	broken := tokenFunc(func(context.Context, string) (string, error) { return "", errors.New("keychain locked") })
	c := newTestClient(t, srv.URL, WithTokenReader(broken))

	require.NoError(t, c.Send(context.Background(), http.MethodGet, "/", nil, nil))
	assert.Empty(t, auth)
}

func TestSend_CustomTokenKey(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	store := memory.New(memory.WithValue("alt", "tok-alt"))
	c := newTestClient(t, srv.URL, WithTokenReader(store), WithTokenKey("alt"))

	require.NoError(t, c.Send(context.Background(), http.MethodGet, "/", nil, nil))
	assert.Equal(t, "Bearer tok-alt", auth)
}

func TestSend_StatusClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantDetail  string
		wantEntries []string
		wantServer  bool
	}{
		{name: "string detail", status: 404, body: `{"detail":"not found"}`, wantDetail: "not found", wantServer: true},
		{name: "validation list", status: 422, body: `{"detail":[{"msg":"field required"}]}`, wantDetail: "field required", wantEntries: []string{"field required"}, wantServer: true},
		{name: "list with missing msg", status: 422, body: `{"detail":[{"msg":"a"},{"loc":["body"]},"x"]}`, wantDetail: "a\nInvalid input\nInvalid input", wantEntries: []string{"a", "Invalid input", "Invalid input"}, wantServer: true},
		{name: "401 no body", status: 401, wantDetail: "unauthorized"},
		{name: "400 no body", status: 400, wantDetail: "bad request"},
		{name: "500 html", status: 500, body: "<html>boom</html>", wantDetail: "server error"},
		{name: "503 no detail", status: 503, body: `{"error":"x"}`, wantDetail: "server error"},
		{name: "403 no body", status: 403},
		{name: "empty string detail", status: 400, body: `{"detail":""}`, wantDetail: "bad request"},
		{name: "empty list detail", status: 422, body: `{"detail":[]}`},
		{name: "object detail", status: 401, body: `{"detail":{"code":1}}`, wantDetail: "unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := newTestClient(t, srv.URL).Send(context.Background(), http.MethodGet, "/todos", nil, nil)

			ge, ok := AsError(err)
			require.True(t, ok, "want *Error, got %v", err)
			assert.Equal(t, KindHTTPStatus, ge.Kind)
			assert.Equal(t, tt.status, ge.StatusCode)
			assert.Equal(t, tt.wantDetail, ge.Detail)
			assert.Equal(t, tt.wantEntries, ge.Entries)
			_, server := ge.ServerDetail()
			assert.Equal(t, tt.wantServer, server)
			assert.ErrorIs(t, err, ErrHTTPStatus)
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestSend_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := newTestClient(t, srv.URL).Send(context.Background(), http.MethodGet, "/me", nil, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrNetworkUnreachable)
}

func TestSend_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, srv.URL, WithTimeout(50*time.Millisecond))
	err := c.Send(context.Background(), http.MethodGet, "/todos", nil, nil)

	assert.ErrorIs(t, err, ErrNetworkUnreachable)
	assert.Equal(t, MessageNetwork, UserMessage(err, ""))
}

func TestSend_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := newTestClient(t, url).Send(context.Background(), http.MethodPost, RouteLogin, map[string]string{"email": "a"}, nil)

	assert.ErrorIs(t, err, ErrNetworkUnreachable)
	ge, _ := AsError(err)
	assert.Equal(t, http.MethodPost, ge.Method)
	assert.Equal(t, RouteLogin, ge.Path)
}

func TestSend_LocalFailures(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name   string
		ctx    context.Context
		method string
		path   string
		body   any
	}{
		{name: "relative path without slash", ctx: context.Background(), method: http.MethodGet, path: "todos"},
		{name: "absolute URL", ctx: context.Background(), method: http.MethodGet, path: "/http://evil.example"},
		{name: "unencodable body", ctx: context.Background(), method: http.MethodPost, path: "/todos", body: make(chan int)},
		{name: "invalid method", ctx: context.Background(), method: "BAD METHOD", path: "/todos"},
		{name: "context already done", ctx: cancelled, method: http.MethodGet, path: "/todos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Send(tt.ctx, tt.method, tt.path, tt.body, nil)
			assert.ErrorIs(t, err, ErrRequestFailedLocally)
			assert.Equal(t, "fallback", UserMessage(err, "fallback"))
		})
	}
	assert.Zero(t, hits, "no local failure may reach the server")
}

func TestSend_DecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient(t, srv.URL).Send(context.Background(), http.MethodGet, "/", nil, &out)
	assert.ErrorIs(t, err, ErrRequestFailedLocally)
}

func TestSend_EmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var out map[string]any
	require.NoError(t, newTestClient(t, srv.URL).Send(context.Background(), http.MethodDelete, "/todos/1", nil, &out))
	assert.Nil(t, out)
}

func TestSend_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithRateLimit(0.001, 1))
	require.NoError(t, c.Send(context.Background(), http.MethodGet, "/", nil, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := c.Send(ctx, http.MethodGet, "/", nil, nil)
	assert.ErrorIs(t, err, ErrRequestFailedLocally)
}

func TestSend_Metrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	reg := metric.NewRegistry()
	c := newTestClient(t, srv.URL, WithMetrics(reg))

	_ = c.Send(context.Background(), http.MethodGet, "/", nil, nil)
	_ = c.Send(context.Background(), http.MethodGet, "/fail", nil, nil)
	_ = c.Send(context.Background(), http.MethodGet, "bad", nil, nil)

	assert.Equal(t, 1.0, promtest.ToFloat64(reg.GatewayRequests.WithLabelValues("GET", metric.OutcomeOK)))
	assert.Equal(t, 1.0, promtest.ToFloat64(reg.GatewayRequests.WithLabelValues("GET", metric.OutcomeHTTP5xx)))
	assert.Equal(t, 1.0, promtest.ToFloat64(reg.GatewayRequests.WithLabelValues("GET", metric.OutcomeLocal)))
}
