package source

import (
	"errors"
	"fmt"
	"strings"
)

// classify maps a provider client error onto the shared adapter errors.
// rateLimited is the client package's own 429 sentinel.
func classify(name string, err error, rateLimited error) error {
	if errors.Is(err, rateLimited) {
		return fmt.Errorf("%w: %s: %w", ErrRateLimited, name, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrProviderUnavailable, name, err)
}

// IsRemoteLocation reports whether location asks for remote positions.
func IsRemoteLocation(location string) bool {
	l := strings.ToLower(strings.TrimSpace(location))
	return l == "remote" || l == "anywhere" || l == "worldwide"
}
