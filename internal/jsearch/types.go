// Package jsearch provides an HTTP client for the JSearch job API on RapidAPI.
package jsearch

import "time"

// SearchParams describes one JSearch query.
type SearchParams struct {
	Query      string // "<keywords> in <location>"
	Page       int
	NumPages   int
	RemoteOnly bool
}

// Posting is a single JSearch result.
type Posting struct {
	ID              string
	Title           string
	EmployerName    string
	EmployerWebsite string
	City            string
	State           string
	Country         string
	IsRemote        bool
	EmploymentType  string
	Description     string
	MinSalary       float64
	MaxSalary       float64
	SalaryPeriod    string
	PostedAt        time.Time
	ApplyLink       string
	RequiredSkills  []string
	Qualifications  []string
}

type searchResponse struct {
	Status string       `json:"status"`
	Data   []searchItem `json:"data"`
}

type searchItem struct {
	JobID                string   `json:"job_id"`
	JobTitle             string   `json:"job_title"`
	EmployerName         string   `json:"employer_name"`
	EmployerWebsite      string   `json:"employer_website"`
	JobCity              string   `json:"job_city"`
	JobState             string   `json:"job_state"`
	JobCountry           string   `json:"job_country"`
	JobIsRemote          bool     `json:"job_is_remote"`
	JobEmploymentType    string   `json:"job_employment_type"`
	JobDescription       string   `json:"job_description"`
	JobMinSalary         *float64 `json:"job_min_salary"`
	JobMaxSalary         *float64 `json:"job_max_salary"`
	JobSalaryPeriod      string   `json:"job_salary_period"`
	JobPostedAtTimestamp int64    `json:"job_posted_at_timestamp"`
	JobApplyLink         string   `json:"job_apply_link"`
	JobRequiredSkills    []string `json:"job_required_skills"`
	JobHighlights        struct {
		Qualifications []string `json:"Qualifications"`
	} `json:"job_highlights"`
}
