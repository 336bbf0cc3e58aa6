// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audit

import (
	"regexp"

	"github.com/pdiddy/statute-survey/pkg/types"
)

// defaultCitationPattern accepts the common shape of a state statute
// citation: a reporter or code token followed by a section reference.
// Examples: "Wis. Stat. § 893.93", "Ohio Rev. Code Ann. 2305.09".
var defaultCitationPattern = regexp.MustCompile(
	`(?i)\b(code|stat(utes)?|rev\.?|ann\.?|laws|comp\.?|gen\.?)\b.*(§+|sec(tion)?\.?)?\s*\d+[\w.\-()]*`)

// jurisdictionPatterns overrides the default for jurisdictions whose
// citation style is distinctive enough to check more tightly. The list is
// not exhaustive; unmatched jurisdictions fall back to the default
// pattern. A miss here caps trust at unverified, it never fails a job.
var jurisdictionPatterns = map[types.JurisdictionCode]*regexp.Regexp{
	"CA": regexp.MustCompile(`(?i)^cal\.?\s+[\w.\s]+code\s+(§+\s*)?\d+`),
	"NY": regexp.MustCompile(`(?i)^n\.?y\.?\s+[\w.\s]+(law|r\.?)\s*(§+\s*)?\d+`),
	"TX": regexp.MustCompile(`(?i)^tex\.?\s+[\w.\s&]+code\s+(ann\.?\s+)?(§+\s*)?\d+`),
	"FL": regexp.MustCompile(`(?i)^fla\.?\s+stat\.?\s+(ann\.?\s+)?(§+\s*)?\d+`),
	"IL": regexp.MustCompile(`(?i)^\d+\s+ill\.?\s+comp\.?\s+stat\.?\s+\d+`),
	"MA": regexp.MustCompile(`(?i)^mass\.?\s+gen\.?\s+laws\s+(ann\.?\s+)?ch\.?\s*\d+`),
	"PA": regexp.MustCompile(`(?i)^\d+\s+pa\.?\s+(cons\.?\s+stat\.?|c\.?s\.?)\s*(ann\.?\s+)?(§+\s*)?\d+`),
}

// CitationMatches reports whether the citation string fits the expected
// pattern for the jurisdiction (R2.1). The sentinel "none found" never
// matches; callers treat it separately.
func CitationMatches(code types.JurisdictionCode, citation string) bool {
	if citation == "" || citation == types.CitationNoneFound {
		return false
	}
	if p, ok := jurisdictionPatterns[code]; ok {
		return p.MatchString(citation)
	}
	return defaultCitationPattern.MatchString(citation)
}
