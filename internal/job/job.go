// Package job provides the canonical job posting entity shared by every
// provider, together with the in-memory snapshot store and the query engine
// that serves filtered reads and aggregate statistics over it.
package job

import (
	"strings"
	"time"

	"github.com/maauso/jobsync-api/internal/job/id"
)

// EmploymentType classifies a posting's contract.
type EmploymentType string

const (
	// FullTime is the default employment type.
	FullTime EmploymentType = "Full-time"
	// PartTime indicates a part-time position.
	PartTime EmploymentType = "Part-time"
	// Contract indicates a fixed-term or freelance engagement.
	Contract EmploymentType = "Contract"
	// Internship indicates an internship or trainee position.
	Internship EmploymentType = "Internship"
)

// IsValid returns true if the employment type is one of the known values.
func (e EmploymentType) IsValid() bool {
	switch e {
	case FullTime, PartTime, Contract, Internship:
		return true
	default:
		return false
	}
}

// ParseEmploymentType matches s case-insensitively against the known values.
func ParseEmploymentType(s string) (EmploymentType, bool) {
	for _, e := range []EmploymentType{FullTime, PartTime, Contract, Internship} {
		if strings.EqualFold(strings.TrimSpace(s), string(e)) {
			return e, true
		}
	}
	return "", false
}

const (
	// LocationRemote is the distinguished location for remote postings.
	LocationRemote = "Remote"
	// LocationUnspecified is used when a posting names no place and is not remote.
	LocationUnspecified = "Unspecified"
	// CompanyUnknown is used when a posting names no employer.
	CompanyUnknown = "Unknown Company"
	// SalaryCompetitive is shown when a posting carries no salary figures.
	SalaryCompetitive = "Competitive"
	// MaxRequirements caps the length of Job.Requirements.
	MaxRequirements = 10
)

// CompanyInfo holds lightweight company metadata inferred from a posting.
type CompanyInfo struct {
	Industry    string   `json:"industry"`
	Size        string   `json:"size"`
	Culture     []string `json:"culture,omitempty"`
	TechStack   []string `json:"techStack,omitempty"`
	Website     string   `json:"website,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Job is the normalized, provider-agnostic job posting.
type Job struct {
	// ID is derived from (Source, ProviderID, Title, Company); see id.Derive.
	ID int64 `json:"id"`
	// Source is the provider the posting came from.
	Source string `json:"source"`
	// ProviderID is the posting's identifier at the provider.
	ProviderID     string         `json:"providerId"`
	Title          string         `json:"title"`
	Company        string         `json:"company"`
	Location       string         `json:"location"`
	EmploymentType EmploymentType `json:"employmentType"`
	// Salary is a display string, SalaryCompetitive when unknown.
	Salary      string `json:"salary"`
	Description string `json:"description"`
	// Requirements holds at most MaxRequirements unique skills in match order.
	Requirements  []string     `json:"requirements"`
	PostedAt      time.Time    `json:"postedAt"`
	PostedDisplay string       `json:"postedDisplay"`
	URL           string       `json:"url,omitempty"`
	CompanyInfo   *CompanyInfo `json:"companyInfo,omitempty"`
	// Degraded marks sample data served while a provider is cooling down.
	Degraded bool `json:"degraded,omitempty"`
}

// IsRemote reports whether the job's location is the remote sentinel.
func (j Job) IsRemote() bool {
	return j.Location == LocationRemote
}

// AssignID sets j.ID from its identity fields.
func (j *Job) AssignID() {
	j.ID = id.Derive(j.Source, j.ProviderID, j.Title, j.Company)
}

// Clone creates a deep copy of the job for safe reads.
func (j Job) Clone() Job {
	out := j
	if j.Requirements != nil {
		out.Requirements = append([]string(nil), j.Requirements...)
	}
	if j.CompanyInfo != nil {
		info := *j.CompanyInfo
		info.Culture = append([]string(nil), j.CompanyInfo.Culture...)
		info.TechStack = append([]string(nil), j.CompanyInfo.TechStack...)
		out.CompanyInfo = &info
	}
	return out
}

// CloneAll deep-copies a slice of jobs.
func CloneAll(jobs []Job) []Job {
	out := make([]Job, len(jobs))
	for i, j := range jobs {
		out[i] = j.Clone()
	}
	return out
}
