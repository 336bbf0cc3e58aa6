// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns raw source content (or a query alone) into a
// candidate statute record through a schema-constrained generation
// capability. Providers are pluggable with fallback ordering.
// Implements: prd003-extraction (R1-R5);
//
//	docs/ARCHITECTURE § Extractor Adapter.
package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/statute-survey/internal/fetch"
	"github.com/pdiddy/statute-survey/pkg/types"
)

// Sentinel extraction errors (R4).
var (
	// ErrNoCredentials means no provider in the chain has credentials.
	// Immediately terminal: retrying will not produce credentials.
	ErrNoCredentials = errors.New("no extraction provider credentials available")

	// ErrMalformedResponse means the provider returned output that does
	// not parse into a candidate record.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrProviderTimeout means the provider call exceeded its deadline.
	ErrProviderTimeout = errors.New("provider call timed out")
)

const defaultCallTimeout = 60 * time.Second

// Request carries everything one extraction call needs. Source is nil when
// extracting from the query alone.
type Request struct {
	Jurisdiction types.JurisdictionCode
	Query        string
	Fingerprint  string
	Source       *fetch.RawContent
}

// Provider is one schema-constrained generation capability.
type Provider interface {
	// Name identifies the provider in logs and config ("gemini",
	// "openai", "simulation").
	Name() string

	// Configured reports whether credentials are present. Unconfigured
	// providers are skipped by the chain (R2.1).
	Configured() bool

	// Extract produces a candidate record for the request.
	Extract(ctx context.Context, req Request) (types.CandidateRecord, error)
}

// Chain tries an ordered list of providers. The first configured provider
// is used; on failure it is retried once, then the chain falls through to
// the next configured provider (R2.2, R2.3). With no configured provider
// at all the chain fails with ErrNoCredentials (R2.4).
type Chain struct {
	providers []Provider
	timeout   time.Duration
	logger    *zap.Logger
}

// NewChain assembles a fallback chain in the given order.
func NewChain(providers []Provider, timeout time.Duration, logger *zap.Logger) *Chain {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Chain{providers: providers, timeout: timeout, logger: logger}
}

// Active returns the provider the chain will try first, or nil when none
// is configured. Callers use this to decide cacheability: simulation
// output must not poison the shared cache.
func (c *Chain) Active() Provider {
	for _, p := range c.providers {
		if p.Configured() {
			return p
		}
	}
	return nil
}

// Extract runs the fallback chain for one request.
func (c *Chain) Extract(ctx context.Context, req Request) (types.CandidateRecord, error) {
	tried := false
	var lastErr error

	for _, p := range c.providers {
		if !p.Configured() {
			continue
		}
		tried = true

		// One call plus one retry per provider before falling through.
		for attempt := 1; attempt <= 2; attempt++ {
			candidate, err := c.call(ctx, p, req)
			if err == nil {
				candidate.Jurisdiction = req.Jurisdiction
				return candidate, nil
			}
			lastErr = fmt.Errorf("%s: %w", p.Name(), err)
			c.logger.Debug("extraction attempt failed",
				zap.String("provider", p.Name()),
				zap.String("jurisdiction", string(req.Jurisdiction)),
				zap.Int("attempt", attempt),
				zap.Error(err))
			if ctx.Err() != nil {
				return types.CandidateRecord{}, lastErr
			}
		}
	}

	if !tried {
		return types.CandidateRecord{}, ErrNoCredentials
	}
	return types.CandidateRecord{}, lastErr
}

// call wraps one provider invocation in the hard call deadline.
func (c *Chain) call(ctx context.Context, p Provider, req Request) (types.CandidateRecord, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	candidate, err := p.Extract(callCtx, req)
	if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return types.CandidateRecord{}, fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	return candidate, err
}

// FailureKind maps a terminal extraction error onto the job-outcome
// taxonomy.
func FailureKind(err error) types.FailureKind {
	switch {
	case errors.Is(err, ErrNoCredentials):
		return types.FailureNoCredentials
	case errors.Is(err, ErrMalformedResponse):
		return types.FailureParseError
	case errors.Is(err, ErrProviderTimeout):
		return types.FailureTimeout
	default:
		return types.FailureNetwork
	}
}
