// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves raw statute source content for one jurisdiction
// with bounded retries and per-attempt timeouts.
// Implements: prd002-fetch (R1-R4);
//
//	docs/ARCHITECTURE § Source Fetcher.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/statute-survey/pkg/types"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultUserAgent   = "statute-survey/0.1"

	// defaultSourceURLTemplate is the statute-search endpoint; the
	// literal {jurisdiction} is replaced with the two-letter code.
	defaultSourceURLTemplate = "https://statutes.example.gov/{jurisdiction}/search"
)

// retryBaseDelay is the unit for exponential backoff between attempts
// (2^attempt seconds). Tests override this to avoid real sleeps.
var retryBaseDelay = time.Second

// RawContent is the unprocessed source payload for one jurisdiction.
type RawContent struct {
	Jurisdiction types.JurisdictionCode
	URL          string
	Body         []byte
	FetchedAt    time.Time
}

// Fetcher retrieves source content over HTTP. An outbound proxy may be
// substituted transparently; the Fetch contract does not change (R4).
type Fetcher struct {
	client *http.Client
	cfg    types.FetchConfig
	logger *zap.Logger
}

// New builds a Fetcher from config, applying defaults and the optional
// proxy transport.
func New(cfg types.FetchConfig, logger *zap.Logger) (*Fetcher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.SourceURLTemplate == "" {
		cfg.SourceURLTemplate = defaultSourceURLTemplate
	}

	transport := http.DefaultTransport
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy URL: %w", err)
		}
		base := http.DefaultTransport.(*http.Transport).Clone()
		base.Proxy = http.ProxyURL(proxyURL)
		transport = &proxyAuthTransport{base: base, key: cfg.ProxyKey}
	}

	return &Fetcher{
		client: &http.Client{Transport: transport},
		cfg:    cfg,
		logger: logger,
	}, nil
}

// proxyAuthTransport adds the proxy key header to every outbound request.
type proxyAuthTransport struct {
	base http.RoundTripper
	key  string
}

func (t *proxyAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.key != "" {
		req = req.Clone(req.Context())
		req.Header.Set("X-Proxy-Key", t.key)
	}
	return t.base.RoundTrip(req)
}

// SourceURL returns the statute-search URL for a jurisdiction.
func (f *Fetcher) SourceURL(code types.JurisdictionCode) string {
	return strings.ReplaceAll(f.cfg.SourceURLTemplate, "{jurisdiction}", string(code))
}

// Fetch retrieves source content for one jurisdiction. Up to MaxAttempts
// attempts are made; HTTP 429 and 5xx responses and transport-level
// failures (including per-attempt timeouts) are retried, waiting
// Retry-After when the server provides it and 2^attempt seconds otherwise
// (R2.1, R2.2). A 404 or any other non-2xx fails immediately (R2.3).
// After the final attempt the last observed error is returned (R2.4).
func (f *Fetcher) Fetch(ctx context.Context, code types.JurisdictionCode) (*RawContent, error) {
	sourceURL := f.SourceURL(code)

	var lastErr *Error
	for attempt := 1; attempt <= f.cfg.MaxAttempts; attempt++ {
		raw, ferr := f.attempt(ctx, code, sourceURL)
		if ferr == nil {
			return raw, nil
		}
		lastErr = ferr

		if !shouldRetry(ferr) || attempt == f.cfg.MaxAttempts {
			break
		}

		delay := backoff(ferr, attempt)
		f.logger.Debug("fetch attempt failed, retrying",
			zap.String("jurisdiction", string(code)),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(ferr))

		select {
		case <-ctx.Done():
			return nil, &Error{Kind: KindNetwork, Jurisdiction: code, Err: ctx.Err()}
		case <-time.After(delay):
		}
	}

	return nil, lastErr
}

// attempt performs one HTTP call under the hard per-attempt deadline.
func (f *Fetcher) attempt(ctx context.Context, code types.JurisdictionCode, sourceURL string) (*RawContent, *Error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Jurisdiction: code, Err: err}
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html, application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		kind := KindNetwork
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			// The per-attempt deadline aborted the in-flight call.
			kind = KindTimeout
		}
		return nil, &Error{Kind: kind, Jurisdiction: code, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &Error{Kind: KindNetwork, Jurisdiction: code, Err: err}
		}
		return &RawContent{
			Jurisdiction: code,
			URL:          sourceURL,
			Body:         body,
			FetchedAt:    time.Now().UTC(),
		}, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		e := &Error{Kind: KindRateLimited, Jurisdiction: code, StatusCode: resp.StatusCode}
		e.retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		return nil, e

	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, &Error{Kind: KindServerError, Jurisdiction: code, StatusCode: resp.StatusCode}

	case resp.StatusCode == http.StatusNotFound:
		return nil, &Error{Kind: KindNotFound, Jurisdiction: code, StatusCode: resp.StatusCode}

	default:
		// Any other non-2xx is terminal.
		return nil, &Error{Kind: KindNetwork, Jurisdiction: code, StatusCode: resp.StatusCode}
	}
}

// shouldRetry limits retries to rate limits, server errors, and
// transport-level failures. Responses with any other status are terminal.
func shouldRetry(e *Error) bool {
	switch e.Kind {
	case KindRateLimited, KindServerError:
		return true
	case KindTimeout, KindNetwork:
		return e.StatusCode == 0
	}
	return false
}

// backoff returns the wait before the next attempt: the server's
// Retry-After when present, 2^attempt seconds otherwise.
func backoff(e *Error, attempt int) time.Duration {
	if e.retryAfter > 0 {
		return e.retryAfter
	}
	return time.Duration(1<<attempt) * retryBaseDelay
}

// parseRetryAfter handles the delay-seconds form of the header. The
// HTTP-date form is rare on the endpoints involved and falls back to
// exponential backoff.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
