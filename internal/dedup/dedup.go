// Package dedup collapses postings that describe the same job.
package dedup

import (
	"strings"

	"github.com/maauso/jobsync-api/internal/job"
)

// Key returns the dedup key of j: lower(title) + "_" + lower(company).
func Key(j job.Job) string {
	return strings.ToLower(j.Title) + "_" + strings.ToLower(j.Company)
}

// Deduplicate keeps the first job for every key, preserving order, and
// reports how many later duplicates were dropped.
func Deduplicate(jobs []job.Job) ([]job.Job, int) {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]job.Job, 0, len(jobs))
	for _, j := range jobs {
		k := Key(j)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, j)
	}
	return out, len(jobs) - len(out)
}
