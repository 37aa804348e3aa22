package job

import (
	"regexp"
	"strconv"
	"strings"
)

// HoursPerYear converts hourly rates to annual figures for comparisons.
const HoursPerYear = 2080

var amountRegex = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*([kK])?`)

// ExtractAmounts returns the numeric tokens found in s, in order.
// Thousands separators are ignored and a trailing "k" multiplies by 1000.
// In a range like "50-70k" the suffix carries over to a bare lower bound
// below 1000. Amounts after a "+" (bonus, equity) are not part of the salary.
func ExtractAmounts(s string) []float64 {
	matches := amountRegex.FindAllStringSubmatchIndex(s, -1)
	out := make([]float64, 0, len(matches))
	prevEnd, prevK := 0, false
	for _, m := range matches {
		if len(out) > 0 && strings.Contains(s[prevEnd:m[0]], "+") {
			break
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(s[m[2]:m[3]], ",", ""), 64)
		if err != nil {
			continue
		}
		k := m[4] >= 0
		if k {
			v *= 1000
			if n := len(out); n > 0 && !prevK && out[n-1] < 1000 {
				out[n-1] *= 1000
			}
		}
		out = append(out, v)
		prevEnd, prevK = m[1], k
	}
	return out
}

// AnnualSalaryRange parses a display salary into annualized bounds.
// ok is false for SalaryCompetitive or any string without amounts.
func AnnualSalaryRange(display string) (low, high float64, ok bool) {
	amounts := ExtractAmounts(display)
	if len(amounts) == 0 {
		return 0, 0, false
	}
	low, high = amounts[0], amounts[0]
	if len(amounts) > 1 {
		high = amounts[1]
		if high < low {
			low, high = high, low
		}
	}
	if strings.Contains(strings.ToLower(display), "/hour") {
		low *= HoursPerYear
		high *= HoursPerYear
	}
	return low, high, true
}
