// Package remotive provides an HTTP client for the public Remotive remote-jobs API.
package remotive

// SearchParams describes one Remotive query.
type SearchParams struct {
	Search   string
	Category string
	Limit    int
}

// Posting is a single Remotive listing.
type Posting struct {
	ID                        int64    `json:"id"`
	URL                       string   `json:"url"`
	Title                     string   `json:"title"`
	CompanyName               string   `json:"company_name"`
	Category                  string   `json:"category"`
	Tags                      []string `json:"tags"`
	JobType                   string   `json:"job_type"`
	PublicationDate           string   `json:"publication_date"`
	CandidateRequiredLocation string   `json:"candidate_required_location"`
	Salary                    string   `json:"salary"`
	Description               string   `json:"description"`
}

type searchResponse struct {
	JobCount int       `json:"job-count"`
	Jobs     []Posting `json:"jobs"`
}
