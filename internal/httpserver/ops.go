package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-edge-proxy/internal/interfaces"
)

// OpsServer exposes the operational endpoints on a separate listener so
// probes and scrapers never compete with client traffic
type OpsServer struct {
	classifier interfaces.RouteClassifier
	logger     *zap.Logger
	server     *http.Server
}

// NewOpsServer creates the operational HTTP server
func NewOpsServer(classifier interfaces.RouteClassifier, logger *zap.Logger) *OpsServer {
	return &OpsServer{
		classifier: classifier,
		logger:     logger,
	}
}

// Start listens on addr and serves the operational endpoints
func (s *OpsServer) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.createRouter(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting ops server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop stops the operational server
func (s *OpsServer) Stop(ctx context.Context) error {
	s.logger.Info("Stopping ops server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// createRouter creates and configures the HTTP router
func (s *OpsServer) createRouter() *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Effective route table in evaluation order
	router.HandleFunc("/routes", s.handleRoutes).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return router
}

// handleHealth handles health check requests
func (s *OpsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

// handleRoutes reports the loaded route table
func (s *OpsServer) handleRoutes(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, map[string]interface{}{
		"rules": s.classifier.Rules(),
	})
}

// writeResponse writes JSON response
func (s *OpsServer) writeResponse(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}
