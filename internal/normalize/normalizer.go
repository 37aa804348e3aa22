// Package normalize maps provider-tagged raw records onto the canonical job
// schema. Normalization is deterministic: the only input that is not part of
// the record is the clock, and it only affects Job.PostedDisplay.
package normalize

import (
	"fmt"
	"time"

	"github.com/maauso/jobsync-api/internal/clock"
	"github.com/maauso/jobsync-api/internal/job"
	"github.com/maauso/jobsync-api/internal/source"
)

// Normalizer converts RawRecords into canonical jobs.
type Normalizer struct {
	clock clock.Clock
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithClock sets the clock used to render relative posting dates.
func WithClock(c clock.Clock) Option {
	return func(n *Normalizer) {
		n.clock = c
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{clock: clock.Real{}}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize maps rec onto a canonical job.
// It returns an error wrapping source.ErrMalformedRecord when rec cannot be parsed.
func (n *Normalizer) Normalize(rec source.RawRecord) (job.Job, error) {
	if err := rec.Validate(); err != nil {
		return job.Job{}, err
	}
	f, err := extract(rec)
	if err != nil {
		return job.Job{}, err
	}

	title := normalizeTitle(f.title)
	if title == "" {
		return job.Job{}, fmt.Errorf("%w: %s %q: title is empty after cleaning", source.ErrMalformedRecord, rec.Source, rec.ProviderID)
	}

	description := cleanText(f.description)
	requirements := matchRequirements(f.skills, description)

	j := job.Job{
		Source:         rec.Source,
		ProviderID:     rec.ProviderID,
		Title:          title,
		Company:        normalizeCompany(f.company),
		Location:       normalizeLocation(f),
		EmploymentType: normalizeEmploymentType(f.employmentType),
		Salary:         FormatSalary(f.salary),
		Description:    description,
		Requirements:   requirements,
		PostedAt:       f.postedAt,
		PostedDisplay:  PostedDisplay(f.postedAt, n.clock.Now()),
		URL:            f.url,
		Degraded:       rec.Degraded,
	}
	j.CompanyInfo = inferCompanyInfo(j.Company, f, requirements)
	j.AssignID()
	return j, nil
}

// Skipped describes a record that could not be normalized.
type Skipped struct {
	Source     string
	ProviderID string
	Err        error
}

// NormalizeAll normalizes recs in order, skipping malformed records.
func (n *Normalizer) NormalizeAll(recs []source.RawRecord) ([]job.Job, []Skipped) {
	jobs := make([]job.Job, 0, len(recs))
	var skipped []Skipped
	for _, rec := range recs {
		j, err := n.Normalize(rec)
		if err != nil {
			skipped = append(skipped, Skipped{Source: rec.Source, ProviderID: rec.ProviderID, Err: err})
			continue
		}
		jobs = append(jobs, j)
	}
	return jobs, skipped
}

// FromJob turns a canonical job back into a generic raw record, so that
// normalized data can be fed through Normalize again.
func FromJob(j job.Job) source.RawRecord {
	g := &source.GenericPayload{
		Title:          j.Title,
		Company:        j.Company,
		Location:       j.Location,
		Remote:         j.IsRemote(),
		EmploymentType: string(j.EmploymentType),
		Salary:         j.Salary,
		Description:    j.Description,
		Skills:         append([]string(nil), j.Requirements...),
		PostedAt:       j.PostedAt,
		URL:            j.URL,
	}
	if j.CompanyInfo != nil {
		g.CompanySize = j.CompanyInfo.Size
		g.Industry = j.CompanyInfo.Industry
		g.Website = j.CompanyInfo.Website
	}
	return source.RawRecord{
		Source:     j.Source,
		Provider:   source.ProviderGeneric,
		ProviderID: j.ProviderID,
		Degraded:   j.Degraded,
		Generic:    g,
	}
}

// fields is the provider-neutral view of a raw record.
type fields struct {
	title          string
	company        string
	location       string
	city           string
	state          string
	country        string
	remote         bool
	employmentType string
	salary         string
	description    string
	skills         []string
	category       string
	postedAt       time.Time
	url            string
	companySize    string
	industry       string
	website        string
}

func extract(rec source.RawRecord) (fields, error) {
	switch rec.Provider {
	case source.ProviderAdzuna:
		p := rec.Adzuna
		f := fields{
			title:          p.Title,
			company:        p.Company,
			location:       p.Location,
			employmentType: p.ContractType + " " + p.ContractTime,
			salary:         salaryText(p.SalaryMin, p.SalaryMax, 1),
			description:    p.Description,
			category:       p.Category,
			url:            p.RedirectURL,
		}
		if f.location == "" && len(p.Area) > 0 {
			f.location = joinArea(p.Area)
		}
		posted, err := parseTime(p.Created)
		if err != nil {
			return fields{}, fmt.Errorf("%w: adzuna %q: %w", source.ErrMalformedRecord, rec.ProviderID, err)
		}
		f.postedAt = posted
		return f, nil

	case source.ProviderJSearch:
		p := rec.JSearch
		return fields{
			title:          p.Title,
			company:        p.EmployerName,
			city:           p.City,
			state:          p.State,
			country:        p.Country,
			remote:         p.IsRemote,
			employmentType: p.EmploymentType,
			salary:         salaryText(p.MinSalary, p.MaxSalary, periodFactor(p.SalaryPeriod)),
			description:    p.Description,
			skills:         append(append([]string(nil), p.RequiredSkills...), p.Qualifications...),
			postedAt:       p.PostedAt,
			url:            p.ApplyLink,
			website:        p.EmployerWebsite,
		}, nil

	case source.ProviderRemotive:
		p := rec.Remotive
		posted, err := parseTime(p.PublicationDate)
		if err != nil {
			return fields{}, fmt.Errorf("%w: remotive %q: %w", source.ErrMalformedRecord, rec.ProviderID, err)
		}
		return fields{
			title:          p.Title,
			company:        p.CompanyName,
			location:       p.CandidateRequiredLocation,
			remote:         true,
			employmentType: p.JobType,
			salary:         p.Salary,
			description:    p.Description,
			skills:         append([]string(nil), p.Tags...),
			category:       p.Category,
			postedAt:       posted,
			url:            p.URL,
		}, nil

	case source.ProviderGeneric:
		p := rec.Generic
		return fields{
			title:          p.Title,
			company:        p.Company,
			location:       p.Location,
			city:           p.City,
			state:          p.State,
			country:        p.Country,
			remote:         p.Remote,
			employmentType: p.EmploymentType,
			salary:         p.Salary,
			description:    p.Description,
			skills:         append([]string(nil), p.Skills...),
			postedAt:       p.PostedAt,
			url:            p.URL,
			companySize:    p.CompanySize,
			industry:       p.Industry,
			website:        p.Website,
		}, nil
	}
	return fields{}, fmt.Errorf("%w: unknown provider tag %q", source.ErrMalformedRecord, rec.Provider)
}

// joinArea renders Adzuna's country-first area list as "city, region, country".
func joinArea(area []string) string {
	parts := make([]string, 0, len(area))
	for i := len(area) - 1; i >= 0; i-- {
		parts = append(parts, area[i])
	}
	return joinNonEmpty(parts...)
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts the timestamp layouts used by the providers. Empty is zero.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
