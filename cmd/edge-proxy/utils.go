package main

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

// GetKeyDBURL returns the KeyDB URL with the following priority:
// 1. EDGE_KEYDB_URL environment variable
// 2. EDGE_KEYDB_URL_FILE file content
// 3. Configured value
func GetKeyDBURL(configured string, logger *zap.Logger) string {
	// Priority 1: Environment variable
	if keydbURL := os.Getenv("EDGE_KEYDB_URL"); keydbURL != "" {
		logger.Debug("Using KeyDB URL from environment variable")
		return keydbURL
	}

	// Priority 2: Configurable connection file path
	connectionFile := os.Getenv("EDGE_KEYDB_URL_FILE")
	if connectionFile == "" {
		connectionFile = "/app/.keydb-url"
	}

	if content, err := os.ReadFile(connectionFile); err == nil {
		keydbURL := strings.TrimSpace(string(content))
		if len(keydbURL) > 0 {
			logger.Debug("Using KeyDB URL from connection file", zap.String("file", connectionFile))
			return keydbURL
		}
	} else {
		logger.Debug("KeyDB connection file not found or empty", zap.String("file", connectionFile))
	}

	// Priority 3: Configured value
	logger.Debug("Using KeyDB URL from configuration")
	return configured
}
