// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase", in: "Fraud", want: "fraud"},
		{name: "trim", in: "  fraud  ", want: "fraud"},
		{name: "inner whitespace collapsed", in: "statute  of\tlimitations", want: "statute of limitations"},
		{name: "empty", in: "", want: ""},
		{name: "only whitespace", in: " \t\n ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestFingerprint_CaseAndWhitespaceInsensitive(t *testing.T) {
	assert.Equal(t, Fingerprint("Fraud"), Fingerprint(" fraud "))
	assert.Equal(t,
		Fingerprint("statute of limitations for fraud"),
		Fingerprint("  Statute  OF limitations\tfor FRAUD "))
}

func TestFingerprint_DistinctQueries(t *testing.T) {
	assert.NotEqual(t, Fingerprint("fraud"), Fingerprint("negligence"))
}

func TestFingerprint_StableLength(t *testing.T) {
	fp := Fingerprint("statute of limitations for fraud")
	assert.Len(t, fp, 16)
	// Deterministic across calls.
	assert.Equal(t, fp, Fingerprint("statute of limitations for fraud"))
}
