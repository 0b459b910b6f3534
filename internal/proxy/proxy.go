package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-edge-proxy/internal/config"
	"go-edge-proxy/internal/metrics"
)

// Ensure Proxy implements http.Handler
var _ http.Handler = (*Proxy)(nil)

// Proxy forwards requests to the origin application server over a bounded
// keep-alive connection pool. Responses stream back unmodified; there are no
// retries, a failed round trip surfaces as 502 or 504.
type Proxy struct {
	target *url.URL
	proxy  *httputil.ReverseProxy
	logger *zap.Logger
}

// NewProxy creates a reverse proxy toward the configured origin
func NewProxy(originCfg *config.OriginConfig, logger *zap.Logger) (*Proxy, error) {
	target, err := url.Parse(originCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse origin URL: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("origin URL %q must include scheme and host", originCfg.URL)
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   originCfg.ConnectTimeout.ToDuration(),
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          originCfg.MaxIdleConns,
		MaxIdleConnsPerHost:   originCfg.MaxIdleConns,
		IdleConnTimeout:       originCfg.IdleConnTimeout.ToDuration(),
		ResponseHeaderTimeout: originCfg.ResponseHeaderTimeout.ToDuration(),
		// The origin speaks HTTP/1.1, same as the connection pool expects
		ForceAttemptHTTP2: false,
		// Pass Accept-Encoding through untouched so the origin's encoding
		// reaches the client byte for byte
		DisableCompression: true,
	}

	p := &Proxy{
		target: target,
		logger: logger,
	}

	p.proxy = &httputil.ReverseProxy{
		Director:     p.director,
		Transport:    transport,
		ErrorHandler: p.handleError,
	}

	logger.Info("Origin proxy configured",
		zap.String("origin", target.String()),
		zap.Int("max_idle_conns", originCfg.MaxIdleConns),
		zap.Duration("connect_timeout", originCfg.ConnectTimeout.ToDuration()))

	return p, nil
}

// ServeHTTP forwards one request to the origin
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.proxy.ServeHTTP(w, r)
}

// director rewrites the outbound request. The Host header stays as the client
// sent it so the origin sees the public name. X-Forwarded-For is appended by
// ReverseProxy itself after this runs.
func (p *Proxy) director(req *http.Request) {
	req.URL.Scheme = p.target.Scheme
	req.URL.Host = p.target.Host

	if host, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
		req.Header.Set("X-Real-IP", host)
	}

	proto := "http"
	if req.TLS != nil {
		proto = "https"
	}
	req.Header.Set("X-Forwarded-Proto", proto)

	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	// Suppress the Go default User-Agent when the client sent none
	if _, ok := req.Header["User-Agent"]; !ok {
		req.Header.Set("User-Agent", "")
	}
}

// handleError maps origin failures onto gateway statuses: timeouts become
// 504, everything else 502
func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	reason := classifyError(err)

	status := http.StatusBadGateway
	if reason == "timeout" {
		status = http.StatusGatewayTimeout
	}

	metrics.RecordUpstreamError(reason)

	p.logger.Error("Origin request failed",
		zap.String("method", r.Method),
		zap.String("uri", r.URL.RequestURI()),
		zap.String("request_id", r.Header.Get("X-Request-ID")),
		zap.String("reason", reason),
		zap.Error(err))

	http.Error(w, http.StatusText(status), status)
}

func classifyError(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return "refused"
	}
	return "other"
}
