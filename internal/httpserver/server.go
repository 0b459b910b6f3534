package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	"go-edge-proxy/internal/accesslog"
	"go-edge-proxy/internal/interfaces"
	"go-edge-proxy/internal/metrics"
	"go-edge-proxy/internal/models"
	"go-edge-proxy/internal/static"
)

// Server is the client-facing edge server. Every request is classified
// against the route table, then either served from the static tree or
// forwarded to the origin, and finally accounted in the access log and
// metrics according to the matched rule.
type Server struct {
	classifier interfaces.RouteClassifier
	static     *static.Handler
	origin     http.Handler
	accessLog  *accesslog.Logger
	maxConns   int
	logger     *zap.Logger
	server     *http.Server
}

// NewServer creates the edge server around its route table and handlers
func NewServer(
	classifier interfaces.RouteClassifier,
	staticHandler *static.Handler,
	origin http.Handler,
	accessLog *accesslog.Logger,
	maxConns int,
	logger *zap.Logger,
) *Server {
	return &Server{
		classifier: classifier,
		static:     staticHandler,
		origin:     origin,
		accessLog:  accessLog,
		maxConns:   maxConns,
		logger:     logger,
	}
}

// Start listens on addr and serves until Stop is called or the listener
// fails. A positive maxConns caps concurrently open client connections.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if s.maxConns > 0 {
		listener = netutil.LimitListener(listener, s.maxConns)
	}

	s.server = &http.Server{
		Handler:           http.HandlerFunc(s.handleRequest),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       65 * time.Second,
		// No global read or write deadlines: proxied streams and upgraded
		// connections can be long-lived
	}

	s.logger.Info("Starting edge server",
		zap.String("addr", addr),
		zap.Int("max_connections", s.maxConns))
	return s.server.Serve(listener)
}

// Stop drains in-flight requests and shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping edge server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// handleRequest classifies the request path and dispatches it to the
// static handler or the origin proxy
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rule := s.classifier.Match(r.URL.Path)

	release := metrics.TrackInFlight()
	observe := metrics.TimeRequest(rule.Pattern, string(rule.Action))

	rec := newResponseRecorder(w)

	switch rule.Action {
	case models.ActionStatic:
		s.static.Serve(rec, r, rule)
	default:
		s.origin.ServeHTTP(rec, r)
	}

	observe()
	release()
	metrics.RecordRequest(rule.Pattern, string(rule.Action), rec.Status())

	if !rule.Log.SkipAccess {
		s.accessLog.Log(r, rec.Status(), rec.BytesWritten(), start)
	}
}
