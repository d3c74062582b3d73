// Copyright (c) 2025 Plancore Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plancore/internal/budget"
	"plancore/pkg/types"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(NewServer(budget.NewMemoryStore(), logger))
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestComputeSchedule(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/schedule", map[string]any{
		"tasks": []types.Task{
			{ID: "A", DurationHours: 3},
			{ID: "B", DurationHours: 4},
			{ID: "C", DurationHours: 2},
		},
		"edges": []types.DependencyEdge{
			{TaskID: "B", DependsOn: "A"},
			{TaskID: "C", DependsOn: "A"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var schedule types.Schedule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schedule))
	assert.Equal(t, 7.0, schedule.TotalDuration)
	assert.Equal(t, []string{"A", "B"}, schedule.CriticalPath)
	assert.False(t, schedule.Degraded)
}

func TestComputeSchedule_BadInput(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name     string
		body     any
		contains string
	}{
		{
			name:     "empty task set",
			body:     map[string]any{"tasks": []types.Task{}},
			contains: "empty",
		},
		{
			name: "unknown dependency names the offender",
			body: map[string]any{
				"tasks": []types.Task{{ID: "a", DurationHours: 1}},
				"edges": []types.DependencyEdge{{TaskID: "a", DependsOn: "ghost"}},
			},
			contains: "ghost",
		},
		{
			name: "negative duration names the offender",
			body: map[string]any{
				"tasks": []types.Task{{ID: "bad", DurationHours: -2}},
			},
			contains: "bad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, router, "/api/schedule", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestComputeSchedule_CyclicReturnsDegraded(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/schedule", map[string]any{
		"tasks": []types.Task{
			{ID: "a", DurationHours: 1},
			{ID: "b", DurationHours: 1},
		},
		"edges": []types.DependencyEdge{
			{TaskID: "a", DependsOn: "b"},
			{TaskID: "b", DependsOn: "a"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, "cycles degrade, they do not fail")

	var schedule types.Schedule
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schedule))
	assert.True(t, schedule.Degraded)
}

func TestCommitAllocation(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/projects/p1/allocations", map[string]any{
		"available": 100,
		"proposals": []types.BudgetProposal{
			{HolderID: "teamA", Amount: 60},
			{HolderID: "teamB", Amount: 40},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []types.AllocationResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	for _, r := range resp.Results {
		assert.True(t, r.Accepted)
	}

	// Over-budget follow-up is rejected whole but keeps earlier commits.
	rec = postJSON(t, router, "/api/projects/p1/allocations", map[string]any{
		"available": 50,
		"proposals": []types.BudgetProposal{
			{HolderID: "teamA", Amount: 60},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.False(t, resp.Results[0].Accepted)
	assert.Equal(t, 60.0, resp.Results[0].Committed)
}

func TestCommitAllocation_InvalidProposal(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/api/projects/p1/allocations", map[string]any{
		"available": -5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

var errStoreDown = errors.New("store down")

type brokenStore struct{}

func (brokenStore) GetCommitted(_ context.Context, _ string) (float64, error) {
	return 0, errStoreDown
}
func (brokenStore) SetCommitted(_ context.Context, _ string, _ float64) error {
	return errStoreDown
}

func TestCommitAllocation_StorageFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(NewServer(brokenStore{}, logger))

	rec := postJSON(t, router, "/api/projects/p1/allocations", map[string]any{
		"available": 10,
		"proposals": []types.BudgetProposal{{HolderID: "a", Amount: 5}},
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
