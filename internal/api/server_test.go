// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/statute-survey/internal/extract"
	"github.com/pdiddy/statute-survey/internal/survey"
	"github.com/pdiddy/statute-survey/pkg/types"
)

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, req extract.Request) (types.CandidateRecord, error) {
	return types.CandidateRecord{
		Jurisdiction:    req.Jurisdiction,
		Citation:        fmt.Sprintf("%s Rev. Stat. § 1.01", req.Jurisdiction),
		TextSnippet:     "Limitation of actions.",
		EffectiveDate:   "1990-01-01",
		ConfidenceScore: 90,
	}, nil
}

func newTestServer(t *testing.T) (*Server, survey.SessionRepository, *survey.Orchestrator) {
	t.Helper()
	repo := survey.NewInMemoryRepository()
	orch := survey.New(repo, nil, nil, stubExtractor{}, types.OrchestratorConfig{
		ChunkSize:            10,
		MaxConcurrentSurveys: 2,
	}, zap.NewNop())
	return NewServer(orch, repo, zap.NewNop()), repo, orch
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func waitTerminal(t *testing.T, orch *survey.Orchestrator, id int64) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, orch.Wait(ctx, id))
}

func TestServer_Health(t *testing.T) {
	srv, _, _ := newTestServer(t)
	w := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_SubmitAndPoll(t *testing.T) {
	srv, _, orch := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodPost, "/api/surveys", body{
		"query":         "statute of limitations for fraud",
		"jurisdictions": []string{"ca", "NY"},
	})
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var session types.SurveySession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, types.SessionRunning, session.Status)
	assert.ElementsMatch(t,
		[]types.JurisdictionCode{"CA", "NY"}, session.Jurisdictions)

	waitTerminal(t, orch, session.ID)

	w = doJSON(t, srv.Handler(), http.MethodGet,
		fmt.Sprintf("/api/surveys/%d", session.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got types.SurveySession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, types.SessionCompleted, got.Status)
	assert.Len(t, got.Results, 2)

	w = doJSON(t, srv.Handler(), http.MethodGet,
		fmt.Sprintf("/api/surveys/%d/progress", session.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p types.Progress
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, 2, p.Settled)
	assert.Equal(t, 2, p.Total)
	assert.Equal(t, 2, p.Verified)
}

func TestServer_SubmitValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	// Missing query.
	w := doJSON(t, srv.Handler(), http.MethodPost, "/api/surveys", body{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown jurisdiction code.
	w = doJSON(t, srv.Handler(), http.MethodPost, "/api/surveys", body{
		"query":         "fraud",
		"jurisdictions": []string{"ZZ"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_SubmitBeyondCapConflicts(t *testing.T) {
	srv, _, orch := newTestServer(t)

	var ids []int64
	for i := 0; i < 2; i++ {
		w := doJSON(t, srv.Handler(), http.MethodPost, "/api/surveys", body{
			"query":         "statute of limitations for fraud",
			"jurisdictions": nil, // all fifty
		})
		require.Equal(t, http.StatusAccepted, w.Code)
		var s types.SurveySession
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
		ids = append(ids, s.ID)
	}

	w := doJSON(t, srv.Handler(), http.MethodPost, "/api/surveys", body{
		"query": "one too many",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	for _, id := range ids {
		waitTerminal(t, orch, id)
	}
}

func TestServer_CancelIdempotent(t *testing.T) {
	srv, _, orch := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodPost, "/api/surveys", body{
		"query":         "fraud",
		"jurisdictions": []string{"CA"},
	})
	require.Equal(t, http.StatusAccepted, w.Code)
	var s types.SurveySession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	waitTerminal(t, orch, s.ID)

	// Already terminal: cancel reports false but stays 200.
	w = doJSON(t, srv.Handler(), http.MethodDelete,
		fmt.Sprintf("/api/surveys/%d", s.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp["cancelled"])
}

func TestServer_PurgeTerminalSession(t *testing.T) {
	srv, repo, orch := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodPost, "/api/surveys", body{
		"query":         "fraud",
		"jurisdictions": []string{"CA"},
	})
	require.Equal(t, http.StatusAccepted, w.Code)
	var s types.SurveySession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))

	waitTerminal(t, orch, s.ID)

	w = doJSON(t, srv.Handler(), http.MethodDelete,
		fmt.Sprintf("/api/surveys/%d?purge=true", s.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	_, found := repo.Get(s.ID)
	assert.False(t, found)
}

func TestServer_NotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodGet, "/api/surveys/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, srv.Handler(), http.MethodDelete, "/api/surveys/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, srv.Handler(), http.MethodGet, "/api/surveys/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_List(t *testing.T) {
	srv, _, orch := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodPost, "/api/surveys", body{
		"query":         "fraud",
		"jurisdictions": []string{"CA"},
	})
	require.Equal(t, http.StatusAccepted, w.Code)
	var s types.SurveySession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	waitTerminal(t, orch, s.ID)

	w = doJSON(t, srv.Handler(), http.MethodGet, "/api/surveys", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Sessions []types.SurveySession `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Sessions, 1)
}

type body = map[string]any
