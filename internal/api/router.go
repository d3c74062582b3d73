// Copyright (c) 2025 Plancore Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package api exposes the scheduling core over HTTP. The wire shapes mirror
// the pkg/types data contracts; transport and storage concerns stay out of
// the engine itself.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"plancore/internal/budget"
	"plancore/pkg/cpm"
	"plancore/pkg/types"
)

// Server bundles the handlers with their dependencies.
type Server struct {
	allocator *budget.Allocator
	logger    *slog.Logger

	// commitMu serializes allocation commits per project; the allocator
	// itself performs one atomic batch but two concurrent batches for the
	// same project must not interleave.
	mu       sync.Mutex
	commitMu map[string]*sync.Mutex
}

// NewServer creates a Server backed by the given budget store.
func NewServer(store budget.Store, logger *slog.Logger) *Server {
	return &Server{
		allocator: budget.NewAllocator(store),
		logger:    logger,
		commitMu:  make(map[string]*sync.Mutex),
	}
}

// NewRouter mounts the API routes.
func NewRouter(s *Server) *chi.Mux {
	router := chi.NewRouter()
	router.Use(RequestLogger(s.logger))

	router.Route("/api", func(r chi.Router) {
		r.Post("/schedule", s.ComputeSchedule)
		r.Post("/projects/{project}/allocations", s.CommitAllocation)
	})
	router.Get("/healthz", Health)

	return router
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// scheduleRequest is the compute-schedule request body.
type scheduleRequest struct {
	Tasks []types.Task           `json:"tasks"`
	Edges []types.DependencyEdge `json:"edges"`
}

// ComputeSchedule runs one critical-path computation over the posted
// snapshot. Degraded (cyclic) snapshots still return 200 with the degraded
// flag set; contract violations return 400 naming the offending IDs.
func (s *Server) ComputeSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	schedule, err := cpm.Compute(req.Tasks, req.Edges)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if schedule.Degraded {
		s.logger.Warn("schedule computed from cyclic dependency graph",
			"tasks", len(req.Tasks), "edges", len(req.Edges))
	}
	writeJSON(w, http.StatusOK, schedule)
}

// allocationRequest is the commit-allocation request body.
type allocationRequest struct {
	Available float64                `json:"available"`
	Proposals []types.BudgetProposal `json:"proposals"`
}

type allocationResponse struct {
	Results []types.AllocationResult `json:"results"`
}

// CommitAllocation validates and commits a budget allocation batch for one
// project. Over-budget proposals come back all-rejected with 200; a failing
// store maps to 502.
func (s *Server) CommitAllocation(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	if project == "" {
		writeError(w, http.StatusBadRequest, "project is required")
		return
	}

	var req allocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	mu := s.projectMutex(project)
	mu.Lock()
	results, err := s.allocator.Commit(r.Context(), req.Available, req.Proposals)
	mu.Unlock()

	if err != nil {
		var se *budget.StorageError
		if errors.As(err, &se) {
			s.logger.Error("budget store unavailable", "project", project, "error", err)
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, allocationResponse{Results: results})
}

func (s *Server) projectMutex(project string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.commitMu[project]
	if !ok {
		mu = &sync.Mutex{}
		s.commitMu[project] = mu
	}
	return mu
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
