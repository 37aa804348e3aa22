package source

import (
	"context"
	"strings"

	"github.com/maauso/jobsync-api/internal/jsearch"
)

// JSearchName is the source identifier of the JSearch adapter.
const JSearchName = "jsearch"

// jsearchPageSize is the fixed number of results JSearch returns per page.
const jsearchPageSize = 10

// JSearchAdapter adapts the JSearch client to the Adapter interface.
type JSearchAdapter struct {
	client jsearch.Client
}

// NewJSearchAdapter creates a new JSearch source adapter.
func NewJSearchAdapter(client jsearch.Client) *JSearchAdapter {
	return &JSearchAdapter{client: client}
}

// Name returns "jsearch".
func (a *JSearchAdapter) Name() string { return JSearchName }

// Fetch queries "<term> in <location>" and trims the result to pageSize.
func (a *JSearchAdapter) Fetch(ctx context.Context, searchTerm, location string, pageSize int) ([]RawRecord, bool, error) {
	query := strings.TrimSpace(searchTerm)
	if loc := strings.TrimSpace(location); loc != "" {
		query += " in " + loc
	}

	postings, err := a.client.Search(ctx, jsearch.SearchParams{
		Query:      query,
		Page:       1,
		NumPages:   1,
		RemoteOnly: IsRemoteLocation(location),
	})
	if err != nil {
		return nil, false, classify(JSearchName, err, jsearch.ErrRateLimited)
	}

	hasMore := len(postings) >= jsearchPageSize
	if pageSize > 0 && len(postings) > pageSize {
		postings = postings[:pageSize]
		hasMore = true
	}

	out := make([]RawRecord, 0, len(postings))
	for _, p := range postings {
		out = append(out, RawRecord{
			Source:     JSearchName,
			Provider:   ProviderJSearch,
			ProviderID: p.ID,
			JSearch: &JSearchPayload{
				Title:           p.Title,
				EmployerName:    p.EmployerName,
				EmployerWebsite: p.EmployerWebsite,
				City:            p.City,
				State:           p.State,
				Country:         p.Country,
				IsRemote:        p.IsRemote,
				EmploymentType:  p.EmploymentType,
				Description:     p.Description,
				MinSalary:       p.MinSalary,
				MaxSalary:       p.MaxSalary,
				SalaryPeriod:    p.SalaryPeriod,
				PostedAt:        p.PostedAt,
				ApplyLink:       p.ApplyLink,
				RequiredSkills:  append([]string(nil), p.RequiredSkills...),
				Qualifications:  append([]string(nil), p.Qualifications...),
			},
		})
	}
	return out, hasMore, nil
}

// Compile-time check that JSearchAdapter implements Adapter.
var _ Adapter = (*JSearchAdapter)(nil)
