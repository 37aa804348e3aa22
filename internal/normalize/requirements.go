package normalize

import (
	"regexp"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/maauso/jobsync-api/internal/job"
)

// technology is one entry of the fixed requirement keyword list.
type technology struct {
	name    string
	pattern *regexp.Regexp
	// stack marks languages, frameworks, datastores and platforms, as
	// opposed to practices.
	stack bool
}

func tech(name, pattern string, stack bool) technology {
	return technology{name: name, pattern: regexp.MustCompile(pattern), stack: stack}
}

var technologies = []technology{
	tech("JavaScript", `(?i)\bjavascript\b`, true),
	tech("TypeScript", `(?i)\btypescript\b`, true),
	tech("Python", `(?i)\bpython\b`, true),
	tech("Java", `(?i)\bjava\b`, true),
	tech("Go", `\bGo\b|(?i:\bgolang\b)`, true),
	tech("Rust", `(?i)\brust\b`, true),
	tech("Ruby", `(?i)\bruby\b`, true),
	tech("PHP", `(?i)\bphp\b`, true),
	tech("C#", `(?i)(?:^|[^a-z0-9])c#`, true),
	tech("C++", `(?i)(?:^|[^a-z0-9])c\+\+`, true),
	tech("Kotlin", `(?i)\bkotlin\b`, true),
	tech("Swift", `(?i)\bswift\b`, true),
	tech("Scala", `(?i)\bscala\b`, true),
	tech("SQL", `(?i)\bsql\b`, true),
	tech("React", `(?i)\breact(?:\.?js)?\b`, true),
	tech("Angular", `(?i)\bangular(?:js)?\b`, true),
	tech("Vue.js", `(?i)\bvue(?:\.?js)?\b`, true),
	tech("Node.js", `(?i)\bnode(?:\.?js)?\b`, true),
	tech("Next.js", `(?i)\bnext\.?js\b`, true),
	tech("Django", `(?i)\bdjango\b`, true),
	tech("Flask", `(?i)\bflask\b`, true),
	tech("Spring", `(?i)\bspring(?: boot)?\b`, true),
	tech(".NET", `(?i)(?:^|[^a-z0-9])\.net\b`, true),
	tech("Rails", `(?i)\brails\b`, true),
	tech("GraphQL", `(?i)\bgraphql\b`, true),
	tech("PostgreSQL", `(?i)\bpostgres(?:ql)?\b`, true),
	tech("MySQL", `(?i)\bmysql\b`, true),
	tech("MongoDB", `(?i)\bmongo(?:db)?\b`, true),
	tech("Redis", `(?i)\bredis\b`, true),
	tech("Elasticsearch", `(?i)\belastic(?:search)?\b`, true),
	tech("Kafka", `(?i)\bkafka\b`, true),
	tech("AWS", `(?i)\baws\b|amazon web services`, true),
	tech("Azure", `(?i)\bazure\b`, true),
	tech("GCP", `(?i)\bgcp\b|google cloud`, true),
	tech("Docker", `(?i)\bdocker\b`, true),
	tech("Kubernetes", `(?i)\bkubernetes\b|\bk8s\b`, true),
	tech("Terraform", `(?i)\bterraform\b`, true),
	tech("Linux", `(?i)\blinux\b`, true),
	tech("HTML", `(?i)\bhtml5?\b`, false),
	tech("CSS", `(?i)\bcss3?\b`, false),
	tech("Git", `(?i)\bgit\b`, false),
	tech("CI/CD", `(?i)\bci/cd\b`, false),
	tech("REST API", `(?i)\brest(?:ful)? ?apis?\b`, false),
	tech("Machine Learning", `(?i)\bmachine learning\b`, false),
	tech("Agile", `(?i)\bagile\b|\bscrum\b`, false),
	tech("Selenium", `(?i)\bselenium\b`, false),
}

// matchRequirements matches the keyword list against explicit skills first,
// in skill order, then against the description, in list order.
// The result holds unique names and at most job.MaxRequirements entries.
func matchRequirements(skills []string, description string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, job.MaxRequirements)
	add := func(name string) bool {
		if seen.Add(name) {
			out = append(out, name)
		}
		return len(out) < job.MaxRequirements
	}

	for _, s := range skills {
		for _, t := range technologies {
			if t.pattern.MatchString(s) && !add(t.name) {
				return out
			}
		}
	}
	for _, t := range technologies {
		if t.pattern.MatchString(description) && !add(t.name) {
			return out
		}
	}
	return out
}

// techStack returns the requirements that name a technology rather than a practice.
func techStack(requirements []string) []string {
	stack := mapset.NewThreadUnsafeSet[string]()
	for _, t := range technologies {
		if t.stack {
			stack.Add(t.name)
		}
	}
	var out []string
	for _, r := range requirements {
		if stack.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}
