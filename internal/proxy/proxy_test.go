package proxy

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"go-edge-proxy/internal/config"
	"go-edge-proxy/internal/models"
)

func testOriginConfig(url string) *config.OriginConfig {
	return &config.OriginConfig{
		URL:                   url,
		ConnectTimeout:        models.Duration(2 * time.Second),
		ResponseHeaderTimeout: models.Duration(2 * time.Second),
		IdleConnTimeout:       models.Duration(30 * time.Second),
		MaxIdleConns:          4,
	}
}

func TestNewProxy_InvalidURL(t *testing.T) {
	logger := zap.NewNop()

	_, err := NewProxy(testOriginConfig("://bad"), logger)
	assert.Error(t, err)

	_, err = NewProxy(testOriginConfig("127.0.0.1:3000"), logger)
	assert.Error(t, err, "URL without scheme should be rejected")
}

func TestProxy_ForwardsRequest(t *testing.T) {
	var gotMethod, gotURI, gotBody string
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotURI = r.URL.RequestURI()
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("X-Origin", "yes")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))
	defer origin.Close()

	p, err := NewProxy(testOriginConfig(origin.URL), zap.NewNop())
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "http://edge.test/api/data?x=1&y=2", strings.NewReader("payload"))
	req.RemoteAddr = "203.0.113.9:54321"
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "/api/data?x=1&y=2", gotURI)
	assert.Equal(t, "payload", gotBody)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "yes", rec.Header().Get("X-Origin"))
	assert.Equal(t, "created", rec.Body.String())
}

func TestProxy_PreservesHost(t *testing.T) {
	var gotHost string
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
		w.WriteHeader(http.StatusOK)
	}))
	defer origin.Close()

	p, err := NewProxy(testOriginConfig(origin.URL), zap.NewNop())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "http://app.example.com/page", nil)
	req.RemoteAddr = "203.0.113.9:54321"
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "app.example.com", gotHost, "origin should see the client-facing host, not its own")
}

func TestProxy_SetsForwardingHeaders(t *testing.T) {
	var gotHeaders http.Header
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer origin.Close()

	p, err := NewProxy(testOriginConfig(origin.URL), zap.NewNop())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "http://edge.test/page", nil)
	req.RemoteAddr = "203.0.113.9:54321"
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "203.0.113.9", gotHeaders.Get("X-Real-IP"))
	assert.Equal(t, "203.0.113.9", gotHeaders.Get("X-Forwarded-For"))
	assert.Equal(t, "http", gotHeaders.Get("X-Forwarded-Proto"))

	_, err = uuid.Parse(gotHeaders.Get("X-Request-ID"))
	assert.NoError(t, err, "generated request id should be a valid UUID")
}

func TestProxy_AppendsForwardedFor(t *testing.T) {
	var gotXFF string
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotXFF = r.Header.Get("X-Forwarded-For")
		w.WriteHeader(http.StatusOK)
	}))
	defer origin.Close()

	p, err := NewProxy(testOriginConfig(origin.URL), zap.NewNop())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "http://edge.test/page", nil)
	req.RemoteAddr = "203.0.113.9:54321"
	req.Header.Set("X-Forwarded-For", "198.51.100.7")
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	assert.Equal(t, "198.51.100.7, 203.0.113.9", gotXFF)
}

func TestProxy_PreservesClientRequestID(t *testing.T) {
	var gotID string
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusOK)
	}))
	defer origin.Close()

	p, err := NewProxy(testOriginConfig(origin.URL), zap.NewNop())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "http://edge.test/page", nil)
	req.RemoteAddr = "203.0.113.9:54321"
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	assert.Equal(t, "client-supplied-id", gotID)
}

func TestProxy_BadGatewayWhenOriginDown(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	originURL := origin.URL
	origin.Close()

	core, logs := observer.New(zap.ErrorLevel)

	p, err := NewProxy(testOriginConfig(originURL), zap.New(core))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "http://edge.test/page", nil)
	req.RemoteAddr = "203.0.113.9:54321"
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	entries := logs.FilterMessage("Origin request failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/page", fields["uri"])
	assert.NotEmpty(t, fields["request_id"], "failed round trips are logged with the request id")
}

func TestProxy_GatewayTimeoutOnSlowOrigin(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer origin.Close()

	cfg := testOriginConfig(origin.URL)
	cfg.ResponseHeaderTimeout = models.Duration(100 * time.Millisecond)

	p, err := NewProxy(cfg, zap.NewNop())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "http://edge.test/slow", nil)
	req.RemoteAddr = "203.0.113.9:54321"
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestProxy_RelaysOriginErrorsWithoutRetry(t *testing.T) {
	var hits int64
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		http.Error(w, "upstream exploded", http.StatusServiceUnavailable)
	}))
	defer origin.Close()

	p, err := NewProxy(testOriginConfig(origin.URL), zap.NewNop())
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "http://edge.test/page", nil)
	req.RemoteAddr = "203.0.113.9:54321"
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "origin status should pass through unmapped")
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits), "failed responses must not be retried")
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "deadline exceeded" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"timeout", timeoutError{}, "timeout"},
		{"canceled", context.Canceled, "canceled"},
		{"dial failure", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, "refused"},
		{"other", errors.New("unexpected EOF"), "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(tt.err))
		})
	}
}
