// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survey

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/statute-survey/internal/audit"
	"github.com/pdiddy/statute-survey/internal/extract"
	"github.com/pdiddy/statute-survey/internal/fetch"
	"github.com/pdiddy/statute-survey/internal/fingerprint"
	"github.com/pdiddy/statute-survey/pkg/types"
)

const (
	defaultChunkSize            = 5
	defaultChunkDelay           = time.Second
	defaultMaxConcurrentSurveys = 5
)

// ErrTooManySurveys is returned when MaxConcurrentSurveys sessions are
// already running. Submissions are rejected, never queued (R3.3).
var ErrTooManySurveys = errors.New("too many concurrent surveys")

// CacheGateway is the orchestrator's view of the result cache.
type CacheGateway interface {
	Lookup(ctx context.Context, code types.JurisdictionCode, fp string) (*types.StatuteRecord, bool)
	Store(record types.StatuteRecord, fp string)
}

// SourceFetcher retrieves raw source content for one jurisdiction.
type SourceFetcher interface {
	Fetch(ctx context.Context, code types.JurisdictionCode) (*fetch.RawContent, error)
}

// Extractor produces a candidate record for one jurisdiction.
type Extractor interface {
	Extract(ctx context.Context, req extract.Request) (types.CandidateRecord, error)
}

// Orchestrator fans a query out across jurisdictions in fixed-size chunks
// and folds each job's outcome into the owning session. The cache gateway
// and fetcher are optional: a nil cache disables lookup and store (the
// non-cacheable mode used for simulations), a nil fetcher extracts from
// the query alone.
type Orchestrator struct {
	repo      SessionRepository
	cache     CacheGateway
	fetcher   SourceFetcher
	extractor Extractor
	cfg       types.OrchestratorConfig
	logger    *zap.Logger

	mu      sync.Mutex
	active  int
	cancels map[int64]context.CancelFunc
	waiters map[int64]chan struct{}
}

// New builds an orchestrator, applying config defaults.
func New(repo SessionRepository, cache CacheGateway, fetcher SourceFetcher, extractor Extractor,
	cfg types.OrchestratorConfig, logger *zap.Logger) *Orchestrator {

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.ChunkDelay < 0 {
		cfg.ChunkDelay = defaultChunkDelay
	}
	if cfg.MaxConcurrentSurveys <= 0 {
		cfg.MaxConcurrentSurveys = defaultMaxConcurrentSurveys
	}

	return &Orchestrator{
		repo:      repo,
		cache:     cache,
		fetcher:   fetcher,
		extractor: extractor,
		cfg:       cfg,
		logger:    logger,
		cancels:   make(map[int64]context.CancelFunc),
		waiters:   make(map[int64]chan struct{}),
	}
}

// SubmitRequest is the inbound survey boundary.
type SubmitRequest struct {
	Query         string
	Jurisdictions []types.JurisdictionCode
}

// Submit creates a session and starts the pipeline asynchronously,
// returning the session snapshot immediately (R1.1). A submission beyond
// the concurrent-survey cap is rejected with ErrTooManySurveys.
func (o *Orchestrator) Submit(req SubmitRequest) (*types.SurveySession, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	jurisdictions := req.Jurisdictions
	if len(jurisdictions) == 0 {
		jurisdictions = types.AllJurisdictions
	}

	o.mu.Lock()
	if o.active >= o.cfg.MaxConcurrentSurveys {
		o.mu.Unlock()
		return nil, ErrTooManySurveys
	}
	o.active++

	session := o.repo.Create(req.Query, fingerprint.Fingerprint(req.Query), jurisdictions)

	// The session context governs dispatch only; it is deliberately not
	// threaded into running jobs, which are allowed to finish after
	// cancellation (their outcomes get dropped by the repository).
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	o.cancels[session.ID] = cancel
	o.waiters[session.ID] = done
	o.mu.Unlock()

	o.logger.Info("survey started",
		zap.Int64("session", session.ID),
		zap.String("query", req.Query),
		zap.Int("jurisdictions", len(jurisdictions)))

	go o.run(ctx, session, done)
	return session, nil
}

// run dispatches jurisdiction jobs in chunks, then rolls the session up.
func (o *Orchestrator) run(ctx context.Context, session *types.SurveySession, done chan struct{}) {
	defer func() {
		o.mu.Lock()
		o.active--
		if cancel, ok := o.cancels[session.ID]; ok {
			cancel()
			delete(o.cancels, session.ID)
		}
		delete(o.waiters, session.ID)
		o.mu.Unlock()
		close(done)
	}()

	// Jobs run under a context that survives cancellation of dispatch.
	jobCtx := context.WithoutCancel(ctx)

	for i := 0; i < len(session.Jurisdictions); i += o.cfg.ChunkSize {
		if i > 0 && o.cfg.ChunkDelay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(o.cfg.ChunkDelay):
			}
		}
		if ctx.Err() != nil {
			o.logger.Info("survey cancelled, dispatch stopped",
				zap.Int64("session", session.ID))
			return
		}

		end := i + o.cfg.ChunkSize
		if end > len(session.Jurisdictions) {
			end = len(session.Jurisdictions)
		}

		var g errgroup.Group
		for _, code := range session.Jurisdictions[i:end] {
			g.Go(func() error {
				o.runJob(jobCtx, session, code)
				return nil
			})
		}
		g.Wait()
	}

	if status, ok := o.repo.Finalize(session.ID); ok {
		o.logger.Info("survey finished",
			zap.Int64("session", session.ID),
			zap.String("status", string(status)))
	}
}

// runJob executes the cache → fetch → extract → audit pipeline for one
// jurisdiction and records the outcome. A job failure becomes a terminal
// FailureReason outcome; it never aborts siblings or the session (R2.4).
func (o *Orchestrator) runJob(ctx context.Context, session *types.SurveySession, code types.JurisdictionCode) {
	outcome := o.executeJob(ctx, session, code)
	if !o.repo.RecordOutcome(session.ID, outcome) {
		o.logger.Debug("job outcome dropped, session no longer running",
			zap.Int64("session", session.ID),
			zap.String("jurisdiction", string(code)))
	}
}

func (o *Orchestrator) executeJob(ctx context.Context, session *types.SurveySession, code types.JurisdictionCode) types.JobOutcome {
	if o.cache != nil {
		if rec, ok := o.cache.Lookup(ctx, code, session.Fingerprint); ok {
			o.logger.Debug("cache hit",
				zap.Int64("session", session.ID),
				zap.String("jurisdiction", string(code)))
			return types.JobOutcome{Jurisdiction: code, Record: rec, FromCache: true}
		}
	}

	var source *fetch.RawContent
	if o.fetcher != nil {
		raw, err := o.fetcher.Fetch(ctx, code)
		if err != nil {
			return failureOutcome(code, fetchFailureKind(err), err)
		}
		source = raw
	}

	candidate, err := o.extractor.Extract(ctx, extract.Request{
		Jurisdiction: code,
		Query:        session.Query,
		Fingerprint:  session.Fingerprint,
		Source:       source,
	})
	if err != nil {
		return failureOutcome(code, extract.FailureKind(err), err)
	}

	record := audit.Audit(candidate)
	if record.SourceURL == "" && source != nil {
		record.SourceURL = source.URL
	}

	if o.cache != nil {
		o.cache.Store(record, session.Fingerprint)
	}
	return types.JobOutcome{Jurisdiction: code, Record: &record}
}

func failureOutcome(code types.JurisdictionCode, kind types.FailureKind, err error) types.JobOutcome {
	return types.JobOutcome{
		Jurisdiction: code,
		Failure:      &types.FailureReason{Kind: kind, Message: err.Error()},
	}
}

func fetchFailureKind(err error) types.FailureKind {
	var ferr *fetch.Error
	if errors.As(err, &ferr) {
		return ferr.FailureKind()
	}
	return types.FailureNetwork
}

// Cancel moves a running session to cancelled and stops dispatch of
// further chunks. In-flight jobs finish but their outcomes are discarded.
// Calling Cancel on a terminal session is a no-op (R4.2).
func (o *Orchestrator) Cancel(id int64) bool {
	if !o.repo.Cancel(id) {
		return false
	}
	o.mu.Lock()
	cancel, ok := o.cancels[id]
	o.mu.Unlock()
	if ok {
		cancel()
	}
	o.logger.Info("survey cancelled", zap.Int64("session", id))
	return true
}

// Wait blocks until the session's dispatch loop has exited or ctx is
// done. Used by the synchronous CLI path and by tests.
func (o *Orchestrator) Wait(ctx context.Context, id int64) error {
	o.mu.Lock()
	done, ok := o.waiters[id]
	o.mu.Unlock()
	if !ok {
		return nil // already finished or never started
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
