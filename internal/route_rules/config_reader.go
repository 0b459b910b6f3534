package route_rules

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"go-edge-proxy/internal/models"
)

var validate = validator.New()

// LoadRouteRulesConfig loads and validates route rules from a YAML file
func LoadRouteRulesConfig(rulesPath string, logger *zap.Logger) ([]models.RouteRule, error) {
	logger.Info("Loading route rules config", zap.String("path", rulesPath))

	file, err := os.Open(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open route rules file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config RouteRulesConfig
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML route rules: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("route rules validation failed: %w", err)
	}

	logger.Info("Route rules config loaded successfully", zap.Int("rules", len(config.Rules)))

	return config.Rules, nil
}

// validateConfig validates the route rules configuration structure
func validateConfig(config *RouteRulesConfig) error {
	if err := validate.Struct(config); err != nil {
		return err
	}

	seen := make(map[string]bool, len(config.Rules))
	hasCatchAll := false

	for i, rule := range config.Rules {
		if !strings.HasPrefix(rule.Pattern, "/") {
			return fmt.Errorf("rule %d: pattern %q must start with /", i, rule.Pattern)
		}

		key := string(rule.Match) + " " + rule.Pattern
		if seen[key] {
			return fmt.Errorf("rule %d: duplicate %s pattern %q", i, rule.Match, rule.Pattern)
		}
		seen[key] = true

		if rule.Match == models.MatchPrefix && rule.Pattern == "/" {
			hasCatchAll = true
		}
	}

	if !hasCatchAll {
		return fmt.Errorf("missing catch-all \"/\" prefix rule")
	}

	return nil
}
