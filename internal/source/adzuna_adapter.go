package source

import (
	"context"

	"github.com/maauso/jobsync-api/internal/adzuna"
)

// AdzunaName is the source identifier of the Adzuna adapter.
const AdzunaName = "adzuna"

// AdzunaAdapter adapts the Adzuna client to the Adapter interface.
type AdzunaAdapter struct {
	client adzuna.Client
}

// NewAdzunaAdapter creates a new Adzuna source adapter.
func NewAdzunaAdapter(client adzuna.Client) *AdzunaAdapter {
	return &AdzunaAdapter{client: client}
}

// Name returns "adzuna".
func (a *AdzunaAdapter) Name() string { return AdzunaName }

// Fetch requests the first page of results for term in location.
func (a *AdzunaAdapter) Fetch(ctx context.Context, searchTerm, location string, pageSize int) ([]RawRecord, bool, error) {
	result, err := a.client.Search(ctx, adzuna.SearchParams{
		What:           searchTerm,
		Where:          location,
		Page:           1,
		ResultsPerPage: pageSize,
	})
	if err != nil {
		return nil, false, classify(AdzunaName, err, adzuna.ErrRateLimited)
	}

	out := make([]RawRecord, 0, len(result.Results))
	for _, p := range result.Results {
		out = append(out, RawRecord{
			Source:     AdzunaName,
			Provider:   ProviderAdzuna,
			ProviderID: p.ID,
			Adzuna: &AdzunaPayload{
				Title:        p.Title,
				Company:      p.Company,
				Location:     p.Location,
				Area:         append([]string(nil), p.Area...),
				Description:  p.Description,
				SalaryMin:    p.SalaryMin,
				SalaryMax:    p.SalaryMax,
				ContractTime: p.ContractTime,
				ContractType: p.ContractType,
				Category:     p.Category,
				Created:      p.Created,
				RedirectURL:  p.RedirectURL,
			},
		})
	}
	return out, result.Count > len(result.Results), nil
}

// Compile-time check that AdzunaAdapter implements Adapter.
var _ Adapter = (*AdzunaAdapter)(nil)
