// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/statute-survey/internal/fingerprint"
	"github.com/pdiddy/statute-survey/pkg/types"
)

func testGateway(t *testing.T) *Gateway {
	t.Helper()
	g, err := New(types.CacheConfig{
		Path:               filepath.Join(t.TempDir(), "cache.db"),
		MinStoreConfidence: 80,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g
}

func record(code types.JurisdictionCode, confidence int) types.StatuteRecord {
	return types.StatuteRecord{
		Jurisdiction:    code,
		Citation:        "Cal. Civ. Proc. Code § 338",
		TextSnippet:     "An action for relief on the ground of fraud.",
		EffectiveDate:   "1872-01-01",
		ConfidenceScore: confidence,
		TrustLevel:      types.TrustVerified,
		SourceURL:       "https://leginfo.legislature.ca.gov/",
	}
}

func TestGateway_MissOnEmptyCache(t *testing.T) {
	g := testGateway(t)
	_, ok := g.Lookup(context.Background(), "CA", fingerprint.Fingerprint("fraud"))
	assert.False(t, ok)
}

func TestGateway_StoreThenLookup(t *testing.T) {
	g := testGateway(t)
	fp := fingerprint.Fingerprint("statute of limitations for fraud")

	g.Store(record("CA", 90), fp)
	g.Flush()

	got, ok := g.Lookup(context.Background(), "CA", fp)
	require.True(t, ok)
	assert.Equal(t, record("CA", 90), *got)

	// Jurisdiction is part of the key.
	_, ok = g.Lookup(context.Background(), "NY", fp)
	assert.False(t, ok)
}

func TestGateway_FingerprintNormalization(t *testing.T) {
	g := testGateway(t)

	g.Store(record("CA", 90), fingerprint.Fingerprint("Fraud"))
	g.Flush()

	// A differently-cased, differently-spaced query hits the same entry.
	_, ok := g.Lookup(context.Background(), "CA", fingerprint.Fingerprint(" fraud "))
	assert.True(t, ok)
}

func TestGateway_LastWriteWins(t *testing.T) {
	g := testGateway(t)
	fp := fingerprint.Fingerprint("fraud")

	g.Store(record("CA", 85), fp)
	g.Flush()
	g.Store(record("CA", 95), fp)
	g.Flush()

	got, ok := g.Lookup(context.Background(), "CA", fp)
	require.True(t, ok)
	assert.Equal(t, 95, got.ConfidenceScore)
}

func TestGateway_SkipsLowConfidenceWrites(t *testing.T) {
	g := testGateway(t)
	fp := fingerprint.Fingerprint("fraud")

	// At the threshold is still skipped; the record must exceed it.
	g.Store(record("CA", 80), fp)
	g.Flush()
	_, ok := g.Lookup(context.Background(), "CA", fp)
	assert.False(t, ok)

	g.Store(record("CA", 81), fp)
	g.Flush()
	_, ok = g.Lookup(context.Background(), "CA", fp)
	assert.True(t, ok)

	// A skipped write does not clobber an existing entry.
	g.Store(record("CA", 40), fp)
	g.Flush()
	got, ok := g.Lookup(context.Background(), "CA", fp)
	require.True(t, ok)
	assert.Equal(t, 81, got.ConfidenceScore)
}

func TestGateway_LookupAfterCloseDegradesToMiss(t *testing.T) {
	g, err := New(types.CacheConfig{
		Path: filepath.Join(t.TempDir(), "cache.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, g.Close())

	// A broken backing store is a miss, never an error to the caller.
	_, ok := g.Lookup(context.Background(), "CA", fingerprint.Fingerprint("fraud"))
	assert.False(t, ok)
}

func TestGateway_ListAndClear(t *testing.T) {
	g := testGateway(t)
	fp := fingerprint.Fingerprint("fraud")

	g.Store(record("CA", 90), fp)
	g.Store(record("NY", 85), fp)
	g.Flush()

	entries, err := g.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, types.JurisdictionCode("CA"), entries[0].Record.Jurisdiction)
	assert.NotEmpty(t, entries[0].UpdatedAt)

	n, err := g.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	entries, err = g.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
