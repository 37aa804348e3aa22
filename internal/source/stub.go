package source

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StubName is the identifier of the built-in demo source.
const StubName = "stub"

var (
	stubLevels    = []string{"", "Senior ", "Junior ", "Lead ", "Staff "}
	stubCompanies = []string{"Northwind Labs", "Contoso Health", "Fabrikam Pay", "Tailspin Learning", "Wingtip Games"}
	stubSkills    = [][]string{
		{"Go", "Docker", "Kubernetes"},
		{"Python", "Django", "PostgreSQL"},
		{"TypeScript", "React", "GraphQL"},
		{"Java", "Spring", "AWS"},
		{"C#", ".NET", "Azure"},
	}
	stubSalaries = []string{"$85,000 - $110,000", "$60/hour", "", "$130,000", "$40 - $55/hour"}
	stubTypes    = []string{"full_time", "contract", "part_time", "full_time", "internship"}
)

// Stub is an offline adapter that synthesizes deterministic postings.
// It is used for local development and when no provider credentials exist.
type Stub struct {
	name    string
	perCall int
	now     func() time.Time
}

// NewStub creates a stub adapter returning perCall records per Fetch.
func NewStub(perCall int) *Stub {
	if perCall <= 0 {
		perCall = len(stubLevels)
	}
	return &Stub{name: StubName, perCall: perCall, now: time.Now}
}

// Compile-time check that Stub implements Adapter.
var _ Adapter = (*Stub)(nil)

// Name returns "stub".
func (s *Stub) Name() string { return s.name }

// Fetch returns up to min(perCall, pageSize) synthesized records.
func (s *Stub) Fetch(ctx context.Context, searchTerm, location string, pageSize int) ([]RawRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	n := s.perCall
	if pageSize > 0 && pageSize < n {
		n = pageSize
	}
	remote := strings.EqualFold(strings.TrimSpace(location), "remote")
	term := strings.TrimSpace(searchTerm)

	out := make([]RawRecord, 0, n)
	for i := 0; i < n; i++ {
		k := i % len(stubCompanies)
		out = append(out, RawRecord{
			Source:     s.name,
			Provider:   ProviderGeneric,
			ProviderID: fmt.Sprintf("%s-%s-%d", slug(term), slug(location), i),
			Generic: &GenericPayload{
				Title:          stubLevels[i%len(stubLevels)] + term,
				Company:        stubCompanies[k],
				Location:       location,
				Remote:         remote,
				EmploymentType: stubTypes[k],
				Salary:         stubSalaries[k],
				Description:    fmt.Sprintf("%s is hiring for %s. You will work with %s.", stubCompanies[k], term, strings.Join(stubSkills[k], ", ")),
				Skills:         stubSkills[k],
				PostedAt:       s.now().AddDate(0, 0, -3*i),
			},
		})
	}
	return out, n < s.perCall, nil
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
