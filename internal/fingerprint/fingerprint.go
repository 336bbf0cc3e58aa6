// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fingerprint derives the stable cache key for a query string.
// Implements: prd001-cache (R2).
package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize lower-cases the query and collapses all runs of whitespace to
// single spaces. Two raw queries that normalize identically share one
// fingerprint (R2.2).
func Normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// Fingerprint returns the first 16 hex characters of SHA-256 over the
// normalized query. The fingerprint is the cache dimension orthogonal to
// jurisdiction (R2.1).
func Fingerprint(query string) string {
	h := sha256.Sum256([]byte(Normalize(query)))
	return fmt.Sprintf("%x", h)[:16]
}
