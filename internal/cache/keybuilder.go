package cache

import (
	"crypto/md5"
	"errors"
	"fmt"
	"strings"

	"go-edge-proxy/internal/interfaces"
)

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// Build creates a cache key for a resolved static file. The route pattern
// keeps keys readable for operators, the file path is hashed because it is
// unbounded in length.
func (kb *KeyBuilderImpl) Build(route string, filePath string) (string, error) {
	if route == "" {
		return "", errors.New("route cannot be empty")
	}

	if filePath == "" {
		return "", errors.New("file path cannot be empty")
	}

	hasher := md5.New()
	hasher.Write([]byte(filePath))
	pathHash := fmt.Sprintf("%x", hasher.Sum(nil))

	// Route patterns contain "/" which reads fine in key form, but trim the
	// leading one so keys stay "static:<route>:<hash>"
	routePart := strings.TrimPrefix(route, "/")
	if routePart == "" {
		routePart = "root"
	}

	key := fmt.Sprintf("static:%s:%s", routePart, pathHash)

	return key, nil
}
