package source

import (
	"fmt"
)

// FallbackProvider supplies degraded records in place of a live call.
type FallbackProvider interface {
	Fallback(sourceName, searchTerm, location string) []RawRecord
}

// StaticFallback returns a small fixed sample, clearly marked as such.
type StaticFallback struct{}

// Compile-time check that StaticFallback implements FallbackProvider.
var _ FallbackProvider = StaticFallback{}

type fallbackSample struct {
	title, company, location, kind, salary string
	remote                                 bool
	skills                                 []string
}

var fallbackSamples = []fallbackSample{
	{"Software Developer", "Sample Company", "", "Full-time", "$70,000 - $90,000", true, []string{"JavaScript", "React", "Node.js"}},
	{"Backend Engineer", "Sample Company", "New York, NY, US", "Full-time", "$95,000 - $120,000", false, []string{"Go", "PostgreSQL", "Docker"}},
	{"QA Contractor", "Sample Company", "Austin, TX, US", "Contract", "$45/hour", false, []string{"Selenium", "Python"}},
}

// Fallback returns the fixed sample tagged with sourceName.
// The sample does not depend on the search term or location.
func (StaticFallback) Fallback(sourceName, _, _ string) []RawRecord {
	out := make([]RawRecord, 0, len(fallbackSamples))
	for i, s := range fallbackSamples {
		out = append(out, RawRecord{
			Source:     sourceName,
			Provider:   ProviderGeneric,
			ProviderID: fmt.Sprintf("fallback-%d", i+1),
			Degraded:   true,
			Generic: &GenericPayload{
				Title:          s.title,
				Company:        s.company,
				Location:       s.location,
				Remote:         s.remote,
				EmploymentType: s.kind,
				Salary:         s.salary,
				Description: fmt.Sprintf("[Sample data] Live results from %s are temporarily unavailable; this placeholder posting is shown instead.",
					sourceName),
				Skills: append([]string(nil), s.skills...),
			},
		})
	}
	return out
}
