package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/maauso/jobsync-api/internal/job"
)

// Industry buckets.
const (
	IndustryFintech       = "fintech"
	IndustryHealthtech    = "healthtech"
	IndustryEdtech        = "edtech"
	IndustryEcommerce     = "e-commerce"
	IndustryAI            = "ai"
	IndustryCybersecurity = "cybersecurity"
	IndustryGaming        = "gaming"
	IndustryTechnology    = "technology"
)

// Company size buckets.
const (
	Size1to50     = "1-50"
	Size51to200   = "51-200"
	Size201to500  = "201-500"
	Size501to1000 = "501-1000"
	Size1000Plus  = "1000+"
)

type bucket struct {
	name    string
	pattern *regexp.Regexp
}

// industries are scanned in order; the first match wins.
var industries = []bucket{
	{IndustryFintech, regexp.MustCompile(`\b(fintech|payments?|banking|bank|financial|finance|crypto|blockchain|insurance|insurtech|trading|lending)\b`)},
	{IndustryHealthtech, regexp.MustCompile(`\b(healthtech|healthcare|health|medical|clinical|hospital|pharma|biotech|patients?|wellness)\b`)},
	{IndustryEdtech, regexp.MustCompile(`\b(edtech|education|educational|e-learning|school|university|students?|teachers?)\b`)},
	{IndustryEcommerce, regexp.MustCompile(`\b(e-commerce|ecommerce|retail|marketplace|shopping|online store)\b`)},
	{IndustryAI, regexp.MustCompile(`\b(ai|artificial intelligence|machine learning|deep learning|llms?|data science)\b`)},
	{IndustryCybersecurity, regexp.MustCompile(`\b(cybersecurity|cyber security|infosec|security|threat|penetration)\b`)},
	{IndustryGaming, regexp.MustCompile(`\b(gaming|games?|esports|unity|unreal)\b`)},
}

var (
	headcountPattern = regexp.MustCompile(`(\d[\d,]*)\+?\s*(?:employees|people|team members|staff)`)
	smallPattern     = regexp.MustCompile(`\b(startup|start-up|early[- ]stage|seed[- ]stage|small team)\b`)
	largePattern     = regexp.MustCompile(`\b(fortune 500|enterprise|multinational|global leader|publicly traded)\b`)
)

var cultures = []bucket{
	{"Remote-first", regexp.MustCompile(`\b(remote[- ]first|fully remote|distributed team)\b`)},
	{"Work-life balance", regexp.MustCompile(`\bwork[- ]life balance\b`)},
	{"Flexible hours", regexp.MustCompile(`\bflexible (hours|schedule|working)\b`)},
	{"Diverse & inclusive", regexp.MustCompile(`\b(diversity|diverse|inclusive|inclusion)\b`)},
	{"Learning & growth", regexp.MustCompile(`\b(learning budget|professional development|mentorship|career growth)\b`)},
	{"Fast-paced", regexp.MustCompile(`\bfast[- ]paced\b`)},
	{"Collaborative", regexp.MustCompile(`\b(collaborative|collaboration)\b`)},
	{"Innovative", regexp.MustCompile(`\b(innovative|innovation)\b`)},
}

const maxTechStack = 6

func inferCompanyInfo(company string, f fields, requirements []string) *job.CompanyInfo {
	description := strings.ToLower(cleanText(f.description))
	text := strings.ToLower(company+" "+f.category) + " " + description

	info := &job.CompanyInfo{
		Industry:  inferIndustry(f.industry, text),
		Size:      inferSize(f.companySize, text),
		Culture:   inferCulture(description),
		TechStack: techStack(requirements),
		Website:   inferWebsite(company, f.website),
	}
	if len(info.TechStack) > maxTechStack {
		info.TechStack = info.TechStack[:maxTechStack]
	}
	info.Description = fmt.Sprintf("%s is a %s company with %s employees.", company, info.Industry, info.Size)
	return info
}

func inferIndustry(hint, text string) string {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == IndustryTechnology {
		return IndustryTechnology
	}
	for _, scan := range []string{hint, text} {
		for _, b := range industries {
			if b.name == scan || b.pattern.MatchString(scan) {
				return b.name
			}
		}
	}
	return IndustryTechnology
}

func inferSize(hint, text string) string {
	hint = strings.TrimSpace(hint)
	switch hint {
	case Size1to50, Size51to200, Size201to500, Size501to1000, Size1000Plus:
		return hint
	}
	if n, ok := headcount(hint); ok {
		return sizeBucket(n, strings.HasSuffix(hint, "+"))
	}
	if m := headcountPattern.FindStringSubmatch(text); m != nil {
		if n, ok := headcount(m[1]); ok {
			return sizeBucket(n, false)
		}
	}
	switch {
	case smallPattern.MatchString(text):
		return Size1to50
	case largePattern.MatchString(text):
		return Size1000Plus
	}
	return Size51to200
}

// headcount returns the largest number in s.
func headcount(s string) (int, bool) {
	amounts := job.ExtractAmounts(s)
	if len(amounts) == 0 {
		return 0, false
	}
	n := amounts[0]
	for _, a := range amounts[1:] {
		if a > n {
			n = a
		}
	}
	return int(n), true
}

func sizeBucket(n int, open bool) string {
	switch {
	case open && n >= 1000:
		return Size1000Plus
	case n <= 50:
		return Size1to50
	case n <= 200:
		return Size51to200
	case n <= 500:
		return Size201to500
	case n <= 1000:
		return Size501to1000
	default:
		return Size1000Plus
	}
}

func inferCulture(text string) []string {
	var out []string
	for _, c := range cultures {
		if c.pattern.MatchString(text) {
			out = append(out, c.name)
		}
	}
	return out
}

func inferWebsite(company, explicit string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if company == job.CompanyUnknown {
		return ""
	}
	slug := companySlug(company)
	if slug == "" {
		return ""
	}
	return "https://www." + slug + ".com"
}

// companySlug lowercases company, drops its legal suffix and keeps [a-z0-9].
func companySlug(company string) string {
	words := strings.Fields(strings.ToLower(company))
	if n := len(words); n > 1 {
		if _, ok := legalSuffixes[strings.TrimSuffix(words[n-1], ".")]; ok {
			words = words[:n-1]
		}
	}
	var b strings.Builder
	for _, r := range strings.Join(words, "") {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
