// Copyright (c) 2025 Plancore Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package types defines the data contracts shared between the scheduling
// engine, the budget allocator, and the transport adapters. These are data
// contracts, not serialization formats: the estimation collaborator hands the
// core a complete Task/Edge snapshot per request, and the core hands back a
// freshly computed Schedule. Nothing here is mutated after construction.
package types

// Priority classifies a task's importance as estimated upstream.
// Informational only; the scheduling algorithm never reads it.
type Priority string

const (
	PriorityUnset  Priority = ""
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Complexity classifies a task's estimated implementation difficulty.
// Informational only, like Priority.
type Complexity string

const (
	ComplexityUnset       Complexity = ""
	ComplexitySimple      Complexity = "simple"
	ComplexityModerate    Complexity = "moderate"
	ComplexityComplex     Complexity = "complex"
	ComplexityVeryComplex Complexity = "very_complex"
)

// Task is a single unit of work in a project snapshot.
//
// The ID is an opaque token chosen by the estimation collaborator and must be
// unique within one snapshot. DurationHours is the estimated effort in hours;
// zero is legal (a milestone-style task that consumes no time).
type Task struct {
	// ID uniquely identifies the task within a project snapshot
	ID string `json:"id" yaml:"id"`

	// DurationHours is the estimated duration in hours (>= 0)
	DurationHours float64 `json:"duration_hours" yaml:"duration_hours"`

	// Priority is the estimated importance classification (optional)
	Priority Priority `json:"priority,omitempty" yaml:"priority,omitempty"`

	// Complexity is the estimated difficulty classification (optional)
	Complexity Complexity `json:"complexity,omitempty" yaml:"complexity,omitempty"`
}

// DependencyEdge states that TaskID cannot start before DependsOn finishes.
// Both endpoints must name tasks present in the same snapshot.
type DependencyEdge struct {
	TaskID    string `json:"task" yaml:"task"`
	DependsOn string `json:"depends_on" yaml:"depends_on"`
}

// ScheduledTask is the per-task result of one critical-path computation.
// All times are hours from project start. Slack is LatestStart minus
// EarliestStart; Critical means Slack is exactly zero.
type ScheduledTask struct {
	TaskID         string  `json:"task_id"`
	EarliestStart  float64 `json:"earliest_start"`
	EarliestFinish float64 `json:"earliest_finish"`
	LatestStart    float64 `json:"latest_start"`
	LatestFinish   float64 `json:"latest_finish"`
	Slack          float64 `json:"slack"`
	Critical       bool    `json:"critical"`
}

// Schedule is the complete result of one scheduling run.
//
// Tasks holds every task in the order the forward pass processed them.
// CriticalPath holds the IDs of zero-slack tasks ordered by earliest start
// (ties broken by snapshot order). Waves groups task IDs by equal earliest
// start, a parallelism hint for reporting collaborators.
//
// Degraded is set when the dependency graph contained a cycle and the engine
// fell back to a deterministic processing order instead of failing; callers
// should surface degraded schedules to the user as a warning.
type Schedule struct {
	Tasks         []ScheduledTask `json:"tasks"`
	CriticalPath  []string        `json:"critical_path"`
	TotalDuration float64         `json:"total_duration"`
	Degraded      bool            `json:"degraded"`
	Waves         [][]string      `json:"waves,omitempty"`
}

// BudgetProposal is one holder's proposed allocation amount.
type BudgetProposal struct {
	// HolderID identifies the resource holder (opaque, chosen upstream)
	HolderID string `json:"holder_id" yaml:"holder_id"`

	// Amount is the proposed allocation (>= 0)
	Amount float64 `json:"amount" yaml:"amount"`
}

// AllocationResult reports the outcome of a commit attempt for one holder.
// When the batch is rejected, Committed carries the holder's previously
// committed amount (zero if the holder had none).
type AllocationResult struct {
	HolderID  string  `json:"holder_id"`
	Committed float64 `json:"committed"`
	Accepted  bool    `json:"accepted"`
}
