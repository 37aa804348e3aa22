package source

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/maauso/jobsync-api/internal/remotive"
)

// RemotiveName is the source identifier of the Remotive adapter.
const RemotiveName = "remotive"

// RemotiveAdapter adapts the Remotive client to the Adapter interface.
// Remotive has no location parameter, so results are filtered here.
type RemotiveAdapter struct {
	client remotive.Client
}

// NewRemotiveAdapter creates a new Remotive source adapter.
func NewRemotiveAdapter(client remotive.Client) *RemotiveAdapter {
	return &RemotiveAdapter{client: client}
}

// Name returns "remotive".
func (a *RemotiveAdapter) Name() string { return RemotiveName }

// Fetch lists remote jobs for term and keeps those open to location.
func (a *RemotiveAdapter) Fetch(ctx context.Context, searchTerm, location string, pageSize int) ([]RawRecord, bool, error) {
	postings, err := a.client.Search(ctx, remotive.SearchParams{
		Search: searchTerm,
		Limit:  pageSize,
	})
	if err != nil {
		return nil, false, classify(RemotiveName, err, remotive.ErrRateLimited)
	}
	hasMore := pageSize > 0 && len(postings) >= pageSize

	out := make([]RawRecord, 0, len(postings))
	for _, p := range postings {
		if !openTo(p.CandidateRequiredLocation, location) {
			continue
		}
		out = append(out, RawRecord{
			Source:     RemotiveName,
			Provider:   ProviderRemotive,
			ProviderID: strconv.FormatInt(p.ID, 10),
			Remotive: &RemotivePayload{
				Title:                     p.Title,
				CompanyName:               p.CompanyName,
				Category:                  p.Category,
				JobType:                   p.JobType,
				CandidateRequiredLocation: p.CandidateRequiredLocation,
				Salary:                    p.Salary,
				Description:               p.Description,
				Tags:                      append([]string(nil), p.Tags...),
				PublicationDate:           p.PublicationDate,
				URL:                       p.URL,
			},
		})
	}
	return out, hasMore, nil
}

// openTo reports whether a posting restricted to required accepts candidates in location.
func openTo(required, location string) bool {
	if strings.TrimSpace(location) == "" || IsRemoteLocation(location) {
		return true
	}
	req := strings.ToLower(required)
	if req == "" || strings.Contains(req, "worldwide") || strings.Contains(req, "anywhere") {
		return true
	}
	reqWords := " " + strings.Join(words(req), " ") + " "
	for _, part := range strings.Split(location, ",") {
		if w := words(part); len(w) > 0 && strings.Contains(reqWords, " "+strings.Join(w, " ")+" ") {
			return true
		}
	}
	return false
}

// words lower-cases s and splits it on anything that is not a letter or digit.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Compile-time check that RemotiveAdapter implements Adapter.
var _ Adapter = (*RemotiveAdapter)(nil)
