package normalize

import (
	"strings"

	"github.com/maauso/jobsync-api/internal/job"
)

// employmentKeywords are checked in order against the lowercased raw type.
var employmentKeywords = []struct {
	keywords []string
	kind     job.EmploymentType
}{
	{[]string{"intern", "trainee", "apprentice"}, job.Internship},
	{[]string{"part"}, job.PartTime},
	{[]string{"contract", "freelance", "temporary", "temp", "fixed-term"}, job.Contract},
	{[]string{"full", "permanent"}, job.FullTime},
}

func normalizeEmploymentType(raw string) job.EmploymentType {
	l := strings.ToLower(raw)
	for _, e := range employmentKeywords {
		for _, k := range e.keywords {
			if strings.Contains(l, k) {
				return e.kind
			}
		}
	}
	return job.FullTime
}
