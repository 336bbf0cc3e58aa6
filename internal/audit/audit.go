// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package audit classifies candidate statute records against
// anti-hallucination rules. Implements: prd004-audit (R1-R4);
//
//	docs/ARCHITECTURE § Auditor.
package audit

import (
	"github.com/pdiddy/statute-survey/pkg/types"
)

// promotionThreshold is the confidence at or above which a failed format
// heuristic is overridden (R3.1). Format heuristics are incomplete; a
// sufficiently confident extraction wins.
const promotionThreshold = 70

// Audit turns a candidate into a classified StatuteRecord. It never fails:
// absence or malformation of information is itself classified, not raised.
// Rules, in order:
//
//  1. A structurally invalid candidate is coerced to suspicious with
//     confidence 0.
//  2. A citation that does not match the jurisdiction's expected format
//     caps the level at unverified.
//  3. Confidence >= 70 promotes suspicious/unverified to verified.
//     Confidence never demotes: a verified classification with low
//     confidence stays verified. Deliberate; see docs/ARCHITECTURE
//     § Auditor for the rationale and the recorded caveat.
//  4. A candidate with no preliminary classification defaults to verified
//     at confidence >= 70, unverified on a matching citation below that,
//     and suspicious otherwise.
//
// Audit is a pure function: no side effects, same record for same input.
func Audit(candidate types.CandidateRecord) types.StatuteRecord {
	record := types.StatuteRecord{
		Jurisdiction:    candidate.Jurisdiction,
		Citation:        candidate.Citation,
		TextSnippet:     candidate.TextSnippet,
		EffectiveDate:   candidate.EffectiveDate,
		ConfidenceScore: candidate.ConfidenceScore,
		SourceURL:       candidate.SourceURL,
	}

	// Rule 1: structural validation (R1).
	if !structurallyValid(candidate) {
		record.TrustLevel = types.TrustSuspicious
		record.ConfidenceScore = 0
		if record.Citation == "" {
			record.Citation = types.CitationNoneFound
		}
		if record.EffectiveDate == "" {
			record.EffectiveDate = types.EffectiveDateUnknown
		}
		return record
	}

	// An explicit "none found" is an honest negative: there is nothing to
	// verify and nothing suspicious about it. Promotion does not apply.
	if candidate.Citation == types.CitationNoneFound {
		record.TrustLevel = types.TrustUnverified
		return record
	}

	citationOK := CitationMatches(candidate.Jurisdiction, candidate.Citation)

	level := candidate.TrustHint
	if level == "" {
		// Rule 4: default classification.
		switch {
		case candidate.ConfidenceScore >= promotionThreshold:
			level = types.TrustVerified
		case citationOK:
			level = types.TrustUnverified
		default:
			level = types.TrustSuspicious
		}
	}

	// Rule 2: citation-format check caps verified at unverified (R2).
	if !citationOK && level == types.TrustVerified {
		level = types.TrustUnverified
	}

	// Rule 3: confidence override promotes, never demotes (R3).
	if candidate.ConfidenceScore >= promotionThreshold &&
		(level == types.TrustSuspicious || level == types.TrustUnverified) {
		level = types.TrustVerified
	}

	record.TrustLevel = level
	return record
}

// structurallyValid checks that the candidate matches the expected shape:
// citation, snippet, and date present, confidence within range (R1.1).
func structurallyValid(c types.CandidateRecord) bool {
	if c.Citation == "" || c.TextSnippet == "" || c.EffectiveDate == "" {
		return false
	}
	if c.ConfidenceScore < 0 || c.ConfidenceScore > 100 {
		return false
	}
	if c.TrustHint != "" &&
		c.TrustHint != types.TrustVerified &&
		c.TrustHint != types.TrustUnverified &&
		c.TrustHint != types.TrustSuspicious {
		return false
	}
	return true
}
