// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// TrustLevel classifies how much a statute record should be relied on.
type TrustLevel string

const (
	// TrustVerified means the record passed structural and citation checks,
	// or carried enough extraction confidence to override them.
	TrustVerified TrustLevel = "verified"

	// TrustUnverified means the record is structurally sound but its
	// citation could not be matched against the jurisdiction's format.
	TrustUnverified TrustLevel = "unverified"

	// TrustSuspicious means the record failed structural validation or
	// carried low confidence with no corroborating signal.
	TrustSuspicious TrustLevel = "suspicious"
)

// Sentinel values for fields the extractor could not populate.
const (
	// CitationNoneFound marks a record where the provider found no statute.
	CitationNoneFound = "none found"

	// EffectiveDateUnknown marks a record with no determinable date.
	EffectiveDateUnknown = "unknown"
)

// StatuteRecord is one verified-or-candidate result for a
// (jurisdiction, query) pair.
type StatuteRecord struct {
	Jurisdiction    JurisdictionCode `json:"jurisdiction" yaml:"jurisdiction"`
	Citation        string           `json:"citation" yaml:"citation"`
	TextSnippet     string           `json:"text_snippet" yaml:"text_snippet"`
	EffectiveDate   string           `json:"effective_date" yaml:"effective_date"`
	ConfidenceScore int              `json:"confidence_score" yaml:"confidence_score"`
	TrustLevel      TrustLevel       `json:"trust_level" yaml:"trust_level"`
	SourceURL       string           `json:"source_url" yaml:"source_url"`
}

// CandidateRecord is the raw, unaudited output of an extraction provider.
// Fields may be missing or out of range; the auditor coerces rather than
// rejects. TrustHint is an optional preliminary classification from the
// provider and is not authoritative.
type CandidateRecord struct {
	Jurisdiction    JurisdictionCode `json:"jurisdiction" yaml:"jurisdiction"`
	Citation        string           `json:"citation" yaml:"citation"`
	TextSnippet     string           `json:"text_snippet" yaml:"text_snippet"`
	EffectiveDate   string           `json:"effective_date" yaml:"effective_date"`
	ConfidenceScore int              `json:"confidence_score" yaml:"confidence_score"`
	TrustHint       TrustLevel       `json:"trust_hint,omitempty" yaml:"trust_hint,omitempty"`
	SourceURL       string           `json:"source_url,omitempty" yaml:"source_url,omitempty"`
}

// FailureKind categorizes a terminal per-jurisdiction job failure.
type FailureKind string

const (
	FailureNetwork       FailureKind = "network"
	FailureTimeout       FailureKind = "timeout"
	FailureRateLimited   FailureKind = "rate_limited"
	FailureServerError   FailureKind = "server_error"
	FailureNotFound      FailureKind = "not_found"
	FailureNoCredentials FailureKind = "no_credentials"
	FailureParseError    FailureKind = "parse_error"
)

// FailureReason describes why a jurisdiction job failed terminally.
type FailureReason struct {
	Kind    FailureKind `json:"kind" yaml:"kind"`
	Message string      `json:"message" yaml:"message"`
}

// JobOutcome is the settled result of one jurisdiction's pipeline run.
// Exactly one of Record and Failure is populated.
type JobOutcome struct {
	Jurisdiction JurisdictionCode `json:"jurisdiction" yaml:"jurisdiction"`
	Record       *StatuteRecord   `json:"record,omitempty" yaml:"record,omitempty"`
	Failure      *FailureReason   `json:"failure,omitempty" yaml:"failure,omitempty"`
	FromCache    bool             `json:"from_cache,omitempty" yaml:"from_cache,omitempty"`
}

// Succeeded reports whether the job produced a statute record.
func (o JobOutcome) Succeeded() bool {
	return o.Record != nil
}
