package route_rules

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"go-edge-proxy/internal/models"
)

func TestLoadRouteRulesConfig_Success(t *testing.T) {
	logger := zaptest.NewLogger(t)

	// Create a temporary YAML file with valid configuration
	validYAML := `
rules:
  # Build assets keep their hashed names forever
  - pattern: /_next/static
    match: prefix
    action: static
    cache:
      max_age: 8760h
      immutable: true
      public: true
    log:
      skip_access: true

  - pattern: /favicon.ico
    match: exact
    action: static
    cache:
      max_age: 8760h
      immutable: true
      public: true
    log:
      skip_access: true
      skip_not_found: true

  - pattern: /static
    match: prefix
    action: static
    root: /srv/assets

  - pattern: /
    match: prefix
    action: proxy
`

	tmpFile := createTempYAMLFile(t, validYAML)
	defer func() { _ = os.Remove(tmpFile) }()

	// Test loading the configuration
	rules, err := LoadRouteRulesConfig(tmpFile, logger)

	require.NoError(t, err)
	require.Len(t, rules, 4)

	// Verify the configuration was loaded correctly
	assert.Equal(t, "/_next/static", rules[0].Pattern)
	assert.Equal(t, models.MatchPrefix, rules[0].Match)
	assert.Equal(t, models.ActionStatic, rules[0].Action)
	assert.Equal(t, models.Duration(8760*time.Hour), rules[0].Cache.MaxAge)
	assert.True(t, rules[0].Cache.Immutable)
	assert.True(t, rules[0].Cache.Public)
	assert.True(t, rules[0].Log.SkipAccess)
	assert.False(t, rules[0].Log.SkipNotFound)

	assert.Equal(t, models.MatchExact, rules[1].Match)
	assert.True(t, rules[1].Log.SkipNotFound)

	assert.Equal(t, "/srv/assets", rules[2].Root)
	assert.False(t, rules[2].Cache.Enabled(), "rule without cache policy emits no caching headers")

	assert.Equal(t, models.ActionProxy, rules[3].Action)
}

func TestLoadRouteRulesConfig_DefaultTableRoundTrip(t *testing.T) {
	logger := zaptest.NewLogger(t)

	// A rules file spelling out the built-in table loads back as that table
	defaultsYAML := `
rules:
  - pattern: /favicon.ico
    match: exact
    action: static
    cache:
      max_age: 8760h
      immutable: true
      public: true
    log:
      skip_access: true
      skip_not_found: true

  - pattern: /robots.txt
    match: exact
    action: static
    log:
      skip_access: true

  - pattern: /_next/static
    match: prefix
    action: static
    cache:
      max_age: 8760h
      immutable: true
      public: true
    log:
      skip_access: true

  - pattern: /static
    match: prefix
    action: static
    cache:
      max_age: 8760h
      immutable: true
      public: true
    log:
      skip_access: true

  - pattern: /
    match: prefix
    action: proxy
`

	tmpFile := createTempYAMLFile(t, defaultsYAML)
	defer func() { _ = os.Remove(tmpFile) }()

	rules, err := LoadRouteRulesConfig(tmpFile, logger)

	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules)
}

func TestLoadRouteRulesConfig_FileNotFound(t *testing.T) {
	logger := zaptest.NewLogger(t)

	rules, err := LoadRouteRulesConfig("/nonexistent/file.yaml", logger)

	assert.Error(t, err)
	assert.Nil(t, rules)
	assert.Contains(t, err.Error(), "failed to open route rules file")
}

func TestLoadRouteRulesConfig_InvalidYAML(t *testing.T) {
	logger := zaptest.NewLogger(t)

	invalidYAML := `
rules:
  - pattern: /static
    match: prefix
  - broken_yaml_structure
`

	tmpFile := createTempYAMLFile(t, invalidYAML)
	defer func() { _ = os.Remove(tmpFile) }()

	rules, err := LoadRouteRulesConfig(tmpFile, logger)

	assert.Error(t, err)
	assert.Nil(t, rules)
	assert.Contains(t, err.Error(), "failed to decode YAML route rules")
}

func TestLoadRouteRulesConfig_InvalidMatchKind(t *testing.T) {
	logger := zaptest.NewLogger(t)

	invalidYAML := `
rules:
  - pattern: /static
    match: regex
    action: static
  - pattern: /
    match: prefix
    action: proxy
`

	tmpFile := createTempYAMLFile(t, invalidYAML)
	defer func() { _ = os.Remove(tmpFile) }()

	rules, err := LoadRouteRulesConfig(tmpFile, logger)

	assert.Error(t, err)
	assert.Nil(t, rules)
	assert.Contains(t, err.Error(), "invalid match kind")
}

func TestLoadRouteRulesConfig_InvalidAction(t *testing.T) {
	logger := zaptest.NewLogger(t)

	invalidYAML := `
rules:
  - pattern: /old
    match: prefix
    action: redirect
  - pattern: /
    match: prefix
    action: proxy
`

	tmpFile := createTempYAMLFile(t, invalidYAML)
	defer func() { _ = os.Remove(tmpFile) }()

	rules, err := LoadRouteRulesConfig(tmpFile, logger)

	assert.Error(t, err)
	assert.Nil(t, rules)
	assert.Contains(t, err.Error(), "invalid action")
}

func TestLoadRouteRulesConfig_ValidationFailure(t *testing.T) {
	logger := zaptest.NewLogger(t)

	testCases := []struct {
		name     string
		yaml     string
		errorMsg string
	}{
		{
			name: "missing catch-all",
			yaml: `
rules:
  - pattern: /static
    match: prefix
    action: static
`,
			errorMsg: "missing catch-all",
		},
		{
			name: "duplicate pattern",
			yaml: `
rules:
  - pattern: /static
    match: prefix
    action: static
  - pattern: /static
    match: prefix
    action: proxy
  - pattern: /
    match: prefix
    action: proxy
`,
			errorMsg: "duplicate",
		},
		{
			name: "pattern without leading slash",
			yaml: `
rules:
  - pattern: static
    match: prefix
    action: static
  - pattern: /
    match: prefix
    action: proxy
`,
			errorMsg: "must start with /",
		},
		{
			name: "empty rules",
			yaml: `
rules: []
`,
			errorMsg: "route rules validation failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tmpFile := createTempYAMLFile(t, tc.yaml)
			defer func() { _ = os.Remove(tmpFile) }()

			rules, err := LoadRouteRulesConfig(tmpFile, logger)

			assert.Error(t, err)
			assert.Nil(t, rules)
			assert.Contains(t, err.Error(), "route rules validation failed")
			assert.Contains(t, err.Error(), tc.errorMsg)
		})
	}
}

func TestValidateConfig_Success(t *testing.T) {
	validConfig := &RouteRulesConfig{
		Rules: []models.RouteRule{
			{Pattern: "/static", Match: models.MatchPrefix, Action: models.ActionStatic},
			{Pattern: "/", Match: models.MatchPrefix, Action: models.ActionProxy},
		},
	}

	err := validateConfig(validConfig)
	assert.NoError(t, err)
}

func TestValidateConfig_SamePatternDifferentMatch(t *testing.T) {
	// The same pattern may appear once per match kind
	config := &RouteRulesConfig{
		Rules: []models.RouteRule{
			{Pattern: "/", Match: models.MatchExact, Action: models.ActionStatic},
			{Pattern: "/", Match: models.MatchPrefix, Action: models.ActionProxy},
		},
	}

	err := validateConfig(config)
	assert.NoError(t, err)
}

func TestValidateConfig_MissingCatchAll(t *testing.T) {
	config := &RouteRulesConfig{
		Rules: []models.RouteRule{
			{Pattern: "/", Match: models.MatchExact, Action: models.ActionStatic},
		},
	}

	err := validateConfig(config)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing catch-all")
}

// Helper function to create temporary YAML files for testing
func createTempYAMLFile(t *testing.T, content string) string {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test_route_rules.yaml")

	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	return tmpFile
}

// Benchmark tests
func BenchmarkLoadRouteRulesConfig(b *testing.B) {
	logger := zap.NewNop()

	validYAML := `
rules:
  - pattern: /_next/static
    match: prefix
    action: static
    cache:
      max_age: 8760h
      immutable: true
      public: true
  - pattern: /favicon.ico
    match: exact
    action: static
  - pattern: /
    match: prefix
    action: proxy
`

	tmpFile := filepath.Join(b.TempDir(), "bench_route_rules.yaml")
	err := os.WriteFile(tmpFile, []byte(validYAML), 0644)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rules, err := LoadRouteRulesConfig(tmpFile, logger)
		if err != nil {
			b.Fatal(err)
		}
		if rules == nil {
			b.Fatal("rules is nil")
		}
	}
}

func BenchmarkClassifierMatch(b *testing.B) {
	classifier := NewClassifier(zap.NewNop(), DefaultRules())

	paths := []string{
		"/_next/static/chunks/main-7a81b3c.js",
		"/favicon.ico",
		"/api/items",
		"/",
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		classifier.Match(paths[i%len(paths)])
	}
}
