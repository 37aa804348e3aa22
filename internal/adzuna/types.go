// Package adzuna provides an HTTP client for the Adzuna job search API.
package adzuna

// SearchParams describes one search page request.
type SearchParams struct {
	What           string // keywords
	Where          string // free-text location
	Page           int    // 1-based
	ResultsPerPage int
}

// SearchResult is one page of Adzuna results.
type SearchResult struct {
	Count   int
	Results []Posting
}

// Posting is a single Adzuna job listing.
type Posting struct {
	ID           string
	Title        string
	Description  string
	Company      string
	Location     string
	Area         []string
	SalaryMin    float64
	SalaryMax    float64
	ContractTime string
	ContractType string
	Category     string
	Created      string
	RedirectURL  string
}

// searchResponse mirrors the top-level Adzuna JSON response.
type searchResponse struct {
	Count   int            `json:"count"`
	Results []searchResult `json:"results"`
}

// searchResult mirrors a single Adzuna job listing.
type searchResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string   `json:"display_name"`
		Area        []string `json:"area"`
	} `json:"location"`
	Category struct {
		Label string `json:"label"`
	} `json:"category"`
	SalaryMin    float64 `json:"salary_min"`
	SalaryMax    float64 `json:"salary_max"`
	RedirectURL  string  `json:"redirect_url"`
	Created      string  `json:"created"`
	ContractTime string  `json:"contract_time"`
	ContractType string  `json:"contract_type"`
}
