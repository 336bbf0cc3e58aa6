// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SessionStatus is the lifecycle state of a survey session.
// running is the only non-terminal state.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
	SessionCancelled SessionStatus = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s SessionStatus) Terminal() bool {
	return s != SessionRunning
}

// SurveySession is one orchestration run of a query across a set of
// jurisdictions. Sessions handed out by the repository are snapshots:
// mutation happens only inside the repository under copy-on-write, so a
// holder never observes a torn write.
type SurveySession struct {
	ID            int64                              `json:"id" yaml:"id"`
	Query         string                             `json:"query" yaml:"query"`
	Fingerprint   string                             `json:"fingerprint" yaml:"fingerprint"`
	Status        SessionStatus                      `json:"status" yaml:"status"`
	StartedAt     time.Time                          `json:"started_at" yaml:"started_at"`
	CompletedAt   *time.Time                         `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Jurisdictions []JurisdictionCode                 `json:"jurisdictions" yaml:"jurisdictions"`
	Results       map[JurisdictionCode]JobOutcome    `json:"results" yaml:"results"`
}

// Clone returns a deep-enough copy for copy-on-write: the Results map is
// copied, outcome values are copied by value (their pointer fields are
// never mutated after settlement).
func (s *SurveySession) Clone() *SurveySession {
	cp := *s
	cp.Results = make(map[JurisdictionCode]JobOutcome, len(s.Results))
	for k, v := range s.Results {
		cp.Results[k] = v
	}
	cp.Jurisdictions = make([]JurisdictionCode, len(s.Jurisdictions))
	copy(cp.Jurisdictions, s.Jurisdictions)
	return &cp
}

// Counts tallies settled outcomes by kind.
func (s *SurveySession) Counts() (successes, failures int) {
	for _, o := range s.Results {
		if o.Succeeded() {
			successes++
		} else {
			failures++
		}
	}
	return successes, failures
}

// Progress summarizes how far a session has advanced, for progress
// indicators and the API.
type Progress struct {
	SessionID  int64         `json:"session_id" yaml:"session_id"`
	Status     SessionStatus `json:"status" yaml:"status"`
	Settled    int           `json:"settled" yaml:"settled"`
	Total      int           `json:"total" yaml:"total"`
	Verified   int           `json:"verified" yaml:"verified"`
	Unverified int           `json:"unverified" yaml:"unverified"`
	Suspicious int           `json:"suspicious" yaml:"suspicious"`
	Failed     int           `json:"failed" yaml:"failed"`
}
