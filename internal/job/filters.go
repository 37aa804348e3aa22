package job

import (
	"strings"
)

// Filters narrows a query over the cached jobs. Zero values disable a filter.
type Filters struct {
	// Query is matched as a substring of title, description and requirements.
	Query string
	// Location is matched as a substring of the job location.
	Location string
	// Company is matched as a substring of the company name.
	Company string
	// EmploymentType must equal the job's type exactly (case-insensitive).
	EmploymentType string
	// MinSalary is an annual floor compared against the salary lower bound.
	MinSalary float64
	// Limit caps the number of results when positive.
	Limit int
}

// Apply returns the jobs matching every filter, preserving input order.
// The input slice is never modified.
func (f Filters) Apply(jobs []Job) []Job {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	location := strings.ToLower(strings.TrimSpace(f.Location))
	company := strings.ToLower(strings.TrimSpace(f.Company))
	empType := strings.TrimSpace(f.EmploymentType)

	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if query != "" && !matchesQuery(j, query) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(j.Location), location) {
			continue
		}
		if company != "" && !strings.Contains(strings.ToLower(j.Company), company) {
			continue
		}
		if empType != "" && !strings.EqualFold(string(j.EmploymentType), empType) {
			continue
		}
		if f.MinSalary > 0 {
			low, _, ok := AnnualSalaryRange(j.Salary)
			if !ok || low < f.MinSalary {
				continue
			}
		}
		out = append(out, j.Clone())
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

func matchesQuery(j Job, query string) bool {
	if strings.Contains(strings.ToLower(j.Title), query) ||
		strings.Contains(strings.ToLower(j.Description), query) {
		return true
	}
	for _, r := range j.Requirements {
		if strings.Contains(strings.ToLower(r), query) {
			return true
		}
	}
	return false
}
