package interfaces

import (
	"go-edge-proxy/internal/models"
)

//go:generate mockgen -package=mock -source=route_classifier.go -destination=mock/route_classifier.go

// RouteClassifier decides what the edge does with a request path
type RouteClassifier interface {
	// Match returns the first rule matching the path. Exact rules win over
	// prefix rules; among prefix rules the longest pattern wins.
	Match(path string) models.RouteRule
	// Rules returns the full table in evaluation order
	Rules() []models.RouteRule
}
