package route_rules

import (
	"go-edge-proxy/internal/models"
)

// RouteRulesConfig represents the route rules configuration file
type RouteRulesConfig struct {
	Rules []models.RouteRule `yaml:"rules" validate:"required,min=1,dive"`
}
