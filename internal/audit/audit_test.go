// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/statute-survey/pkg/types"
)

func validCandidate() types.CandidateRecord {
	return types.CandidateRecord{
		Jurisdiction:    "CA",
		Citation:        "Cal. Civ. Proc. Code § 338",
		TextSnippet:     "An action for relief on the ground of fraud... within three years.",
		EffectiveDate:   "1872-01-01",
		ConfidenceScore: 90,
		SourceURL:       "https://leginfo.legislature.ca.gov/",
	}
}

func TestAudit_HighConfidenceMatchingCitation(t *testing.T) {
	rec := Audit(validCandidate())
	assert.Equal(t, types.TrustVerified, rec.TrustLevel)
	assert.Equal(t, 90, rec.ConfidenceScore)
}

func TestAudit_StructurallyInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.CandidateRecord)
	}{
		{name: "missing citation", mutate: func(c *types.CandidateRecord) { c.Citation = "" }},
		{name: "missing snippet", mutate: func(c *types.CandidateRecord) { c.TextSnippet = "" }},
		{name: "missing date", mutate: func(c *types.CandidateRecord) { c.EffectiveDate = "" }},
		{name: "confidence below range", mutate: func(c *types.CandidateRecord) { c.ConfidenceScore = -1 }},
		{name: "confidence above range", mutate: func(c *types.CandidateRecord) { c.ConfidenceScore = 101 }},
		{name: "garbage trust hint", mutate: func(c *types.CandidateRecord) { c.TrustHint = "certain" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandidate()
			tt.mutate(&c)
			rec := Audit(c)
			assert.Equal(t, types.TrustSuspicious, rec.TrustLevel)
			assert.Equal(t, 0, rec.ConfidenceScore)
		})
	}
}

func TestAudit_CitationMismatchCapsAtUnverified(t *testing.T) {
	c := validCandidate()
	c.Citation = "totally made up reference 12345"
	c.ConfidenceScore = 65
	c.TrustHint = types.TrustVerified

	rec := Audit(c)
	assert.Equal(t, types.TrustUnverified, rec.TrustLevel)
}

func TestAudit_ConfidenceOverridePromotes(t *testing.T) {
	// For any candidate at or above the threshold with a preliminary
	// classification of suspicious or unverified, the result must be
	// promoted to verified.
	for _, hint := range []types.TrustLevel{types.TrustSuspicious, types.TrustUnverified} {
		c := validCandidate()
		c.TrustHint = hint
		c.ConfidenceScore = 70
		rec := Audit(c)
		assert.Equal(t, types.TrustVerified, rec.TrustLevel, "hint %s", hint)
	}

	// Even a mismatched citation is overridden at high confidence.
	c := validCandidate()
	c.Citation = "informal reference 99"
	c.ConfidenceScore = 85
	rec := Audit(c)
	assert.Equal(t, types.TrustVerified, rec.TrustLevel)
}

func TestAudit_LowConfidenceNeverDemotesVerified(t *testing.T) {
	c := validCandidate()
	c.TrustHint = types.TrustVerified
	c.ConfidenceScore = 30
	rec := Audit(c)
	assert.Equal(t, types.TrustVerified, rec.TrustLevel)
	assert.Equal(t, 30, rec.ConfidenceScore)
}

func TestAudit_DefaultClassification(t *testing.T) {
	// Matching citation, low confidence, no hint: unverified.
	c := validCandidate()
	c.ConfidenceScore = 60
	assert.Equal(t, types.TrustUnverified, Audit(c).TrustLevel)

	// Mismatched citation, low confidence, no hint: suspicious.
	c = validCandidate()
	c.Citation = "not a legal citation"
	c.ConfidenceScore = 60
	assert.Equal(t, types.TrustSuspicious, Audit(c).TrustLevel)
}

func TestAudit_NoneFoundIsUnverified(t *testing.T) {
	c := validCandidate()
	c.Citation = types.CitationNoneFound
	c.ConfidenceScore = 95

	rec := Audit(c)
	// An honest negative is never promoted and never suspicious.
	assert.Equal(t, types.TrustUnverified, rec.TrustLevel)
}

func TestAudit_Pure(t *testing.T) {
	c := validCandidate()
	c.ConfidenceScore = 55
	first := Audit(c)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Audit(c))
	}
}

func TestCitationMatches(t *testing.T) {
	tests := []struct {
		code     types.JurisdictionCode
		citation string
		want     bool
	}{
		{"CA", "Cal. Civ. Proc. Code § 338", true},
		{"CA", "N.Y. C.P.L.R. 213", false},
		{"NY", "N.Y. C.P.L.R. 213", true},
		{"TX", "Tex. Civ. Prac. & Rem. Code § 16.004", true},
		{"FL", "Fla. Stat. § 95.11", true},
		{"IL", "735 Ill. Comp. Stat. 5/13-205", true},
		{"MA", "Mass. Gen. Laws ch. 260, § 2A", true},
		{"PA", "42 Pa. Cons. Stat. § 5524", true},
		// Default pattern for jurisdictions without an override.
		{"WI", "Wis. Stat. § 893.93", true},
		{"OH", "Ohio Rev. Code Ann. § 2305.09", true},
		{"WI", "random prose with no citation", false},
		{"WI", "", false},
		{"WI", types.CitationNoneFound, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code)+"/"+tt.citation, func(t *testing.T) {
			assert.Equal(t, tt.want, CitationMatches(tt.code, tt.citation))
		})
	}
}
