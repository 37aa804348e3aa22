// Package source defines the contract every job provider adapter implements,
// the provider-tagged raw record it emits, and the degraded data served when
// a provider cannot be called.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Static errors shared by all adapters.
var (
	// ErrProviderUnavailable is returned on transport failures and unusable responses.
	ErrProviderUnavailable = errors.New("source: provider unavailable")
	// ErrRateLimited is returned when a provider answers "too many requests".
	ErrRateLimited = errors.New("source: rate limited")
	// ErrMalformedRecord is returned when a raw record cannot be parsed.
	ErrMalformedRecord = errors.New("source: malformed record")
	// ErrUnknownSource is returned when no adapter is registered for an ID.
	ErrUnknownSource = errors.New("source: unknown source")
)

// Provider tags identify which payload a RawRecord carries.
const (
	ProviderAdzuna   = "adzuna"
	ProviderJSearch  = "jsearch"
	ProviderRemotive = "remotive"
	ProviderGeneric  = "generic"
)

// Adapter fetches postings from one external provider.
type Adapter interface {
	// Name returns the source identifier, e.g. "adzuna".
	Name() string

	// Fetch queries the provider and reports whether more results exist.
	// Errors wrap ErrProviderUnavailable or ErrRateLimited.
	Fetch(ctx context.Context, searchTerm, location string, pageSize int) (records []RawRecord, hasMore bool, err error)
}

// RawRecord is a provider-tagged posting before normalization.
// Exactly one payload matching Provider must be set.
type RawRecord struct {
	// Source is the adapter the record came from.
	Source string
	// Provider selects the payload variant.
	Provider string
	// ProviderID is the posting's identifier at the provider.
	ProviderID string
	// Degraded marks fallback sample data.
	Degraded bool

	Adzuna   *AdzunaPayload
	JSearch  *JSearchPayload
	Remotive *RemotivePayload
	Generic  *GenericPayload
}

// Validate checks that the tagged payload is present and carries a title.
func (r RawRecord) Validate() error {
	var title string
	switch r.Provider {
	case ProviderAdzuna:
		if r.Adzuna == nil {
			return fmt.Errorf("%w: missing adzuna payload", ErrMalformedRecord)
		}
		title = r.Adzuna.Title
	case ProviderJSearch:
		if r.JSearch == nil {
			return fmt.Errorf("%w: missing jsearch payload", ErrMalformedRecord)
		}
		title = r.JSearch.Title
	case ProviderRemotive:
		if r.Remotive == nil {
			return fmt.Errorf("%w: missing remotive payload", ErrMalformedRecord)
		}
		title = r.Remotive.Title
	case ProviderGeneric:
		if r.Generic == nil {
			return fmt.Errorf("%w: missing generic payload", ErrMalformedRecord)
		}
		title = r.Generic.Title
	default:
		return fmt.Errorf("%w: unknown provider tag %q", ErrMalformedRecord, r.Provider)
	}
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: %s record %q has no title", ErrMalformedRecord, r.Provider, r.ProviderID)
	}
	return nil
}

// AdzunaPayload mirrors the fields of an Adzuna search result.
type AdzunaPayload struct {
	Title        string
	Company      string
	Location     string   // display name, e.g. "London, UK"
	Area         []string // country → region → city
	Description  string
	SalaryMin    float64
	SalaryMax    float64
	ContractTime string // "full_time", "part_time"
	ContractType string // "permanent", "contract"
	Category     string
	Created      string // RFC3339
	RedirectURL  string
}

// JSearchPayload mirrors the fields of a JSearch (RapidAPI) result.
type JSearchPayload struct {
	Title           string
	EmployerName    string
	EmployerWebsite string
	City            string
	State           string
	Country         string
	IsRemote        bool
	EmploymentType  string // "FULLTIME", "CONTRACTOR", ...
	Description     string
	MinSalary       float64
	MaxSalary       float64
	SalaryPeriod    string // "YEAR", "HOUR", ...
	PostedAt        time.Time
	ApplyLink       string
	RequiredSkills  []string
	Qualifications  []string
}

// RemotivePayload mirrors the fields of a Remotive remote job.
type RemotivePayload struct {
	Title                     string
	CompanyName               string
	Category                  string
	JobType                   string // "full_time", "contract", ...
	CandidateRequiredLocation string
	Salary                    string
	Description               string
	Tags                      []string
	PublicationDate           string
	URL                       string
}

// GenericPayload is a provider-neutral shape used by stub and fallback data
// and when re-normalizing already canonical jobs.
type GenericPayload struct {
	Title          string
	Company        string
	Location       string
	City           string
	State          string
	Country        string
	Remote         bool
	EmploymentType string
	Salary         string
	Description    string
	Skills         []string
	PostedAt       time.Time
	URL            string
	CompanySize    string
	Industry       string
	Website        string
}
