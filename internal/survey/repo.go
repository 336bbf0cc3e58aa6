// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package survey drives the per-jurisdiction pipeline and owns the
// session state machine. Implements: prd005-orchestration (R1-R6);
//
//	docs/ARCHITECTURE § Job Orchestrator, § Survey Session Store.
package survey

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pdiddy/statute-survey/pkg/types"
)

// SessionRepository holds survey sessions. Implementations must guarantee
// that handed-out sessions are immutable snapshots: a reader polling a
// session never observes a torn write (R5.1). The in-memory
// implementation suits single-process deployments; a multi-process
// deployment substitutes a transactional store behind the same interface.
type SessionRepository interface {
	// Create registers a new running session and returns its snapshot.
	Create(query, fp string, jurisdictions []types.JurisdictionCode) *types.SurveySession

	// Get returns the current snapshot of a session.
	Get(id int64) (*types.SurveySession, bool)

	// List returns snapshots of all sessions, newest first.
	List() []*types.SurveySession

	// RecordOutcome writes one settled job outcome into a running
	// session. Outcomes for sessions that have left running are dropped
	// and reported as false: this is what freezes the results map at the
	// moment of cancellation (R4.3).
	RecordOutcome(id int64, outcome types.JobOutcome) bool

	// Finalize rolls a running session up to completed or failed based
	// on its settled outcomes (successes >= failures completes). It is a
	// no-op on sessions already terminal.
	Finalize(id int64) (types.SessionStatus, bool)

	// Cancel moves a running session to cancelled, freezing its results.
	// Returns false (no-op) if the session is already terminal (R4.2).
	Cancel(id int64) bool

	// Delete removes a terminal session. Running sessions cannot be
	// deleted.
	Delete(id int64) error

	// Progress summarizes a session's settled outcomes.
	Progress(id int64) (types.Progress, bool)
}

// InMemoryRepository is the single-process SessionRepository. All
// mutation happens under one mutex via copy-on-write: mutate a clone,
// swap the pointer. Session ids increase monotonically for the process
// lifetime.
type InMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*types.SurveySession
	nextID   int64
}

// NewInMemoryRepository returns an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{sessions: make(map[int64]*types.SurveySession)}
}

func (r *InMemoryRepository) Create(query, fp string, jurisdictions []types.JurisdictionCode) *types.SurveySession {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	s := &types.SurveySession{
		ID:            r.nextID,
		Query:         query,
		Fingerprint:   fp,
		Status:        types.SessionRunning,
		StartedAt:     time.Now().UTC(),
		Jurisdictions: append([]types.JurisdictionCode(nil), jurisdictions...),
		Results:       make(map[types.JurisdictionCode]types.JobOutcome),
	}
	r.sessions[s.ID] = s
	return s
}

func (r *InMemoryRepository) Get(id int64) (*types.SurveySession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *InMemoryRepository) List() []*types.SurveySession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.SurveySession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *InMemoryRepository) RecordOutcome(id int64, outcome types.JobOutcome) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || s.Status != types.SessionRunning {
		return false
	}

	// Idempotent per jurisdiction: a second write overwrites the first.
	cp := s.Clone()
	cp.Results[outcome.Jurisdiction] = outcome
	r.sessions[id] = cp
	return true
}

func (r *InMemoryRepository) Finalize(id int64) (types.SessionStatus, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return "", false
	}
	if s.Status != types.SessionRunning {
		return s.Status, false
	}

	successes, failures := s.Counts()
	status := types.SessionCompleted
	if failures > successes {
		status = types.SessionFailed
	}

	cp := s.Clone()
	cp.Status = status
	now := time.Now().UTC()
	cp.CompletedAt = &now
	r.sessions[id] = cp
	return status, true
}

func (r *InMemoryRepository) Cancel(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || s.Status.Terminal() {
		return false
	}

	cp := s.Clone()
	cp.Status = types.SessionCancelled
	now := time.Now().UTC()
	cp.CompletedAt = &now
	r.sessions[id] = cp
	return true
}

func (r *InMemoryRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("session %d not found", id)
	}
	if !s.Status.Terminal() {
		return fmt.Errorf("session %d is still running", id)
	}
	delete(r.sessions, id)
	return nil
}

func (r *InMemoryRepository) Progress(id int64) (types.Progress, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return types.Progress{}, false
	}

	p := types.Progress{
		SessionID: s.ID,
		Status:    s.Status,
		Settled:   len(s.Results),
		Total:     len(s.Jurisdictions),
	}
	for _, o := range s.Results {
		switch {
		case o.Failure != nil:
			p.Failed++
		case o.Record.TrustLevel == types.TrustVerified:
			p.Verified++
		case o.Record.TrustLevel == types.TrustUnverified:
			p.Unverified++
		default:
			p.Suspicious++
		}
	}
	return p, true
}
