package job

import (
	"math"
	"sort"
)

// topRequirementsLimit caps Statistics.TopRequirements.
const topRequirementsLimit = 10

// RequirementCount is one entry of Statistics.TopRequirements.
type RequirementCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Statistics aggregates the cached jobs.
type Statistics struct {
	TotalJobs  int            `json:"totalJobs"`
	ByType     map[string]int `json:"byType"`
	ByLocation map[string]int `json:"byLocation"`
	ByCompany  map[string]int `json:"byCompany"`
	// AverageSalary is the mean annualized midpoint over jobs with a
	// parseable salary, rounded to the nearest unit; 0 when none qualify.
	AverageSalary   int                `json:"averageSalary"`
	TopRequirements []RequirementCount `json:"topRequirements"`
}

// ComputeStatistics builds Statistics over jobs.
func ComputeStatistics(jobs []Job) Statistics {
	stats := Statistics{
		TotalJobs:       len(jobs),
		ByType:          make(map[string]int),
		ByLocation:      make(map[string]int),
		ByCompany:       make(map[string]int),
		TopRequirements: []RequirementCount{},
	}

	var salarySum float64
	var salaryCount int
	reqCounts := make(map[string]int)

	for _, j := range jobs {
		stats.ByType[string(j.EmploymentType)]++
		stats.ByLocation[j.Location]++
		stats.ByCompany[j.Company]++

		if low, high, ok := AnnualSalaryRange(j.Salary); ok {
			salarySum += (low + high) / 2
			salaryCount++
		}
		for _, r := range j.Requirements {
			reqCounts[r]++
		}
	}

	if salaryCount > 0 {
		stats.AverageSalary = int(math.Round(salarySum / float64(salaryCount)))
	}

	for name, count := range reqCounts {
		stats.TopRequirements = append(stats.TopRequirements, RequirementCount{Name: name, Count: count})
	}
	sort.Slice(stats.TopRequirements, func(a, b int) bool {
		ra, rb := stats.TopRequirements[a], stats.TopRequirements[b]
		if ra.Count != rb.Count {
			return ra.Count > rb.Count
		}
		return ra.Name < rb.Name
	})
	if len(stats.TopRequirements) > topRequirementsLimit {
		stats.TopRequirements = stats.TopRequirements[:topRequirementsLimit]
	}

	return stats
}
