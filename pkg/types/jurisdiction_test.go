// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJurisdictions(t *testing.T) {
	t.Run("empty input selects all fifty", func(t *testing.T) {
		got, err := ParseJurisdictions(nil)
		require.NoError(t, err)
		assert.Len(t, got, 50)
	})

	t.Run("upper-cases, trims, and deduplicates", func(t *testing.T) {
		got, err := ParseJurisdictions([]string{" ca ", "ny", "CA", ""})
		require.NoError(t, err)
		assert.Equal(t, []JurisdictionCode{"CA", "NY"}, got)
	})

	t.Run("rejects unknown codes", func(t *testing.T) {
		_, err := ParseJurisdictions([]string{"CA", "ZZ"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ZZ")
	})

	t.Run("rejects all-blank input", func(t *testing.T) {
		_, err := ParseJurisdictions([]string{"", "  "})
		assert.Error(t, err)
	})
}

func TestJurisdictionCode(t *testing.T) {
	assert.True(t, JurisdictionCode("WI").Valid())
	assert.False(t, JurisdictionCode("DC").Valid()) // states only
	assert.Equal(t, "Wisconsin", JurisdictionCode("WI").Name())
	assert.Equal(t, "XX", JurisdictionCode("XX").Name())
}

func TestSessionClone(t *testing.T) {
	s := &SurveySession{
		ID:            1,
		Status:        SessionRunning,
		Jurisdictions: []JurisdictionCode{"CA", "NY"},
		Results: map[JurisdictionCode]JobOutcome{
			"CA": {Jurisdiction: "CA", Record: &StatuteRecord{Citation: "Cal. Civ. Proc. Code § 338"}},
		},
	}

	cp := s.Clone()
	cp.Results["NY"] = JobOutcome{Jurisdiction: "NY"}
	cp.Jurisdictions[0] = "TX"

	assert.Len(t, s.Results, 1)
	assert.Equal(t, JurisdictionCode("CA"), s.Jurisdictions[0])
}

func TestSessionCounts(t *testing.T) {
	s := &SurveySession{
		Results: map[JurisdictionCode]JobOutcome{
			"CA": {Jurisdiction: "CA", Record: &StatuteRecord{}},
			"NY": {Jurisdiction: "NY", Failure: &FailureReason{Kind: FailureTimeout}},
			"TX": {Jurisdiction: "TX", Record: &StatuteRecord{}},
		},
	}
	successes, failures := s.Counts()
	assert.Equal(t, 2, successes)
	assert.Equal(t, 1, failures)
}
