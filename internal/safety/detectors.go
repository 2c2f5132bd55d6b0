package safety

import (
	"regexp"
	"strings"
)

// Finding records one detected PII occurrence
type Finding struct {
	Type  string `json:"type"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type detector struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
	// verify rejects pattern matches that fail a structural check
	verify func(match string) bool
}

var detectors = []detector{
	{
		name:        "EMAIL_ADDRESS",
		pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: "[EMAIL_REDACTED]",
	},
	{
		name:        "PHONE_NUMBER",
		pattern:     regexp.MustCompile(`(\+?1[-. ]?)?(\(\d{3}\)|\d{3})[-. ]\d{3}[-. ]\d{4}\b`),
		replacement: "[PHONE_REDACTED]",
	},
	{
		name:        "US_SSN",
		pattern:     regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		replacement: "[SSN_REDACTED]",
	},
	{
		name:        "CREDIT_CARD",
		pattern:     regexp.MustCompile(`\b(?:\d[ -]?){13,18}\d\b`),
		replacement: "[CARD_REDACTED]",
		verify:      luhnValid,
	},
	{
		name:        "IP_ADDRESS",
		pattern:     regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
		replacement: "[IP_REDACTED]",
	},
}

// DetectPII scans text for PII and returns the findings in order of
// appearance
func DetectPII(text string) []Finding {
	var findings []Finding
	for _, d := range detectors {
		for _, loc := range d.pattern.FindAllStringIndex(text, -1) {
			if d.verify != nil && !d.verify(text[loc[0]:loc[1]]) {
				continue
			}
			findings = append(findings, Finding{
				Type:  d.name,
				Start: loc[0],
				End:   loc[1],
			})
		}
	}
	return findings
}

// RedactPII replaces every PII occurrence with its redaction marker
func RedactPII(text string) string {
	for _, d := range detectors {
		d := d
		text = d.pattern.ReplaceAllStringFunc(text, func(match string) string {
			if d.verify != nil && !d.verify(match) {
				return match
			}
			return d.replacement
		})
	}
	return text
}

// luhnValid reports whether the digits in s pass the Luhn checksum,
// filtering out arbitrary digit runs the card pattern would otherwise
// flag.
func luhnValid(s string) bool {
	var digits []int
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		} else if !strings.ContainsRune(" -", r) {
			return false
		}
	}
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
