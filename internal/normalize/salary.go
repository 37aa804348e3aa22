package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/maauso/jobsync-api/internal/job"
)

// HourlyThreshold separates hourly rates from annual figures.
const HourlyThreshold = 500

// FormatSalary renders a raw salary text in canonical display form:
// "$N/year", "$N/hour", "$A - $B" or "$A - $B/hour", or job.SalaryCompetitive
// when no amount can be found. Canonical output formats to itself.
func FormatSalary(raw string) string {
	amounts := positive(job.ExtractAmounts(raw))
	switch {
	case len(amounts) == 0:
		return job.SalaryCompetitive
	case len(amounts) == 1 || amounts[0] == amounts[1]:
		a := amounts[0]
		if a > HourlyThreshold {
			return "$" + annual(a) + "/year"
		}
		return "$" + hourly(a) + "/hour"
	}

	low, high := amounts[0], amounts[1]
	if high < low {
		low, high = high, low
	}
	if high > HourlyThreshold {
		return fmt.Sprintf("$%s - $%s", annual(low), annual(high))
	}
	return fmt.Sprintf("$%s - $%s/hour", hourly(low), hourly(high))
}

func positive(in []float64) []float64 {
	out := in[:0]
	for _, v := range in {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}

func annual(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

func hourly(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

// salaryText builds a raw salary text from numeric bounds scaled by factor.
func salaryText(low, high, factor float64) string {
	var parts []string
	for _, v := range []float64{low, high} {
		if v > 0 {
			parts = append(parts, strconv.FormatFloat(v*factor, 'f', -1, 64))
		}
	}
	return strings.Join(parts, " - ")
}

// periodFactor converts a JSearch salary period into an annual or hourly multiplier.
func periodFactor(period string) float64 {
	switch strings.ToUpper(period) {
	case "MONTH":
		return 12
	case "WEEK":
		return 52
	default:
		return 1
	}
}
