package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/maauso/jobsync-api/internal/job"
)

// titleVariants maps common spellings to one canonical title.
var titleVariants = map[string]string{
	"frontend developer":        "Frontend Developer",
	"front end developer":       "Frontend Developer",
	"front-end developer":       "Frontend Developer",
	"frontend engineer":         "Frontend Engineer",
	"front-end engineer":        "Frontend Engineer",
	"backend developer":         "Backend Developer",
	"back end developer":        "Backend Developer",
	"back-end developer":        "Backend Developer",
	"backend engineer":          "Backend Engineer",
	"back-end engineer":         "Backend Engineer",
	"full stack developer":      "Full Stack Developer",
	"fullstack developer":       "Full Stack Developer",
	"full-stack developer":      "Full Stack Developer",
	"full stack engineer":       "Full Stack Engineer",
	"fullstack engineer":        "Full Stack Engineer",
	"full-stack engineer":       "Full Stack Engineer",
	"software engineer":         "Software Engineer",
	"software developer":        "Software Developer",
	"devops engineer":           "DevOps Engineer",
	"dev ops engineer":          "DevOps Engineer",
	"ui/ux designer":            "UI/UX Designer",
	"ux/ui designer":            "UI/UX Designer",
	"qa engineer":               "QA Engineer",
	"data scientist":            "Data Scientist",
	"data engineer":             "Data Engineer",
	"machine learning engineer": "Machine Learning Engineer",
	"ml engineer":               "Machine Learning Engineer",
}

// wordCasing fixes the casing of words that title casing gets wrong.
var wordCasing = map[string]string{
	"api":        "API",
	"ui":         "UI",
	"ux":         "UX",
	"ui/ux":      "UI/UX",
	"qa":         "QA",
	"sre":        "SRE",
	"devops":     "DevOps",
	"ios":        "iOS",
	"ai":         "AI",
	"ml":         "ML",
	"aws":        "AWS",
	"gcp":        "GCP",
	"sql":        "SQL",
	"php":        "PHP",
	"it":         "IT",
	"hr":         "HR",
	"vp":         "VP",
	"cto":        "CTO",
	"javascript": "JavaScript",
	"typescript": "TypeScript",
	"node.js":    "Node.js",
	".net":       ".NET",
	"ii":         "II",
	"iii":        "III",
}

// legalSuffixes normalizes the trailing legal form of a company name.
var legalSuffixes = map[string]string{
	"inc":  "Inc.",
	"llc":  "LLC",
	"ltd":  "Ltd.",
	"gmbh": "GmbH",
	"corp": "Corp.",
	"co":   "Co.",
	"plc":  "PLC",
	"ag":   "AG",
	"llp":  "LLP",
}

func normalizeTitle(s string) string {
	s = collapseSpaces(stripHTML(s))
	if canonical, ok := titleVariants[strings.ToLower(s)]; ok {
		return canonical
	}
	if isSingleCase(s) {
		s = cases.Title(language.English).String(strings.ToLower(s))
	}
	return fixWords(s, wordCasing)
}

func normalizeCompany(s string) string {
	s = strings.Trim(collapseSpaces(stripHTML(s)), " ,")
	if s == "" {
		return job.CompanyUnknown
	}
	if isLower(s) {
		s = cases.Title(language.English).String(s)
	}
	words := strings.Fields(s)
	last := words[len(words)-1]
	if suffix, ok := legalSuffixes[strings.ToLower(strings.TrimSuffix(last, "."))]; ok && len(words) > 1 {
		words[len(words)-1] = suffix
		return strings.Join(words, " ")
	}
	return s
}

func normalizeLocation(f fields) string {
	loc := collapseSpaces(f.location)
	if f.remote || isRemoteText(loc) {
		return job.LocationRemote
	}
	if loc == "" {
		loc = joinNonEmpty(f.city, f.state, f.country)
	}
	if loc == "" {
		return job.LocationUnspecified
	}
	if isLower(loc) {
		parts := strings.Split(loc, ",")
		for i, p := range parts {
			p = strings.TrimSpace(p)
			if len(p) <= 2 {
				parts[i] = strings.ToUpper(p)
				continue
			}
			parts[i] = cases.Title(language.English).String(p)
		}
		loc = strings.Join(parts, ", ")
	}
	return loc
}

func isRemoteText(s string) bool {
	l := strings.ToLower(s)
	return strings.Contains(l, "remote") || l == "anywhere" || l == "worldwide"
}

// fixWords rewrites each whitespace-separated word found in table, ignoring
// surrounding punctuation.
func fixWords(s string, table map[string]string) string {
	words := strings.Fields(s)
	for i, w := range words {
		core := strings.Trim(w, "(),:;")
		if core == "" {
			continue
		}
		if fixed, ok := table[strings.ToLower(core)]; ok {
			words[i] = strings.Replace(w, core, fixed, 1)
		}
	}
	return strings.Join(words, " ")
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isLower(s string) bool {
	return strings.ToLower(s) == s && strings.IndexFunc(s, unicode.IsLetter) >= 0
}

// isSingleCase reports whether s is entirely lower or entirely upper case.
func isSingleCase(s string) bool {
	return isLower(s) || (strings.ToUpper(s) == s && strings.IndexFunc(s, unicode.IsLetter) >= 0)
}

// blockElements get a separating space when stripped.
var blockElements = map[string]bool{
	"p": true, "br": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "td": true,
}

// stripHTML returns the text content of s with entities decoded.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockElements[string(name)] {
				b.WriteByte(' ')
			}
		}
	}
}

// cleanText strips markup and collapses whitespace.
func cleanText(s string) string {
	return collapseSpaces(stripHTML(s))
}
