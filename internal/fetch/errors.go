// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"time"

	"github.com/pdiddy/statute-survey/pkg/types"
)

// Kind categorizes a fetch failure.
type Kind string

const (
	KindRateLimited Kind = "rate_limited"
	KindServerError Kind = "server_error"
	KindNotFound    Kind = "not_found"
	KindNetwork     Kind = "network"
	KindTimeout     Kind = "timeout"
)

// Error is a terminal fetch failure for one jurisdiction.
type Error struct {
	Kind         Kind
	Jurisdiction types.JurisdictionCode
	StatusCode   int
	Err          error

	// retryAfter is the server-requested wait from a 429 response.
	retryAfter time.Duration
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %s (HTTP %d)", e.Jurisdiction, e.Kind, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.Jurisdiction, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.Jurisdiction, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FailureKind maps the fetch error taxonomy onto the job-outcome taxonomy.
func (e *Error) FailureKind() types.FailureKind {
	switch e.Kind {
	case KindRateLimited:
		return types.FailureRateLimited
	case KindServerError:
		return types.FailureServerError
	case KindNotFound:
		return types.FailureNotFound
	case KindTimeout:
		return types.FailureTimeout
	default:
		return types.FailureNetwork
	}
}
