// Package id derives stable identifiers for job postings.
package id

import (
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// separator cannot occur in trimmed provider fields, so distinct tuples never
// collapse into the same hashed string.
const separator = "\x1f"

// Derive returns a non-negative identifier for a posting.
// The same (source, providerID, title, company) tuple always yields the same
// value, across calls and across process restarts.
func Derive(source, providerID, title, company string) int64 {
	key := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(source)),
		strings.TrimSpace(providerID),
		strings.ToLower(strings.TrimSpace(title)),
		strings.ToLower(strings.TrimSpace(company)),
	}, separator)
	return int64(xxhash.Sum64String(key) & math.MaxInt64)
}
