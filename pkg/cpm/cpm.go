// Copyright (c) 2025 Plancore Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package cpm implements the critical-path engine: a forward/backward pass
// over a task dependency graph that computes earliest and latest start/finish
// times, per-task slack, the critical path, and total project duration.
//
// The dependency graph arrives from an external estimation collaborator and
// is treated as untrusted: unknown task references and negative durations are
// rejected, while cycles degrade the computation to a deterministic fallback
// order instead of failing (the result is tagged Degraded so callers can warn
// the user). For a fixed snapshot the output is fully deterministic, including
// tie-breaking by snapshot order.
package cpm

import (
	"sort"

	"github.com/gammazero/toposort"

	"plancore/pkg/types"
)

// Compute runs one critical-path analysis over a complete task/edge snapshot.
//
// Every task must have a non-negative duration and a unique ID, and every
// edge must reference tasks present in the snapshot; violations return
// *InvalidTaskError or *UnknownDependencyError with the offending IDs. An
// empty edge set means all tasks are independent: everything starts at time
// zero and the critical path is the task(s) of maximum duration.
func Compute(tasks []types.Task, edges []types.DependencyEdge) (*types.Schedule, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	if err := validate(tasks, edges); err != nil {
		return nil, err
	}

	if len(edges) == 0 {
		return independentSchedule(tasks), nil
	}

	preds := make(map[string][]string, len(tasks))
	succs := make(map[string][]string, len(tasks))
	for _, e := range edges {
		preds[e.TaskID] = append(preds[e.TaskID], e.DependsOn)
		succs[e.DependsOn] = append(succs[e.DependsOn], e.TaskID)
	}

	order, degraded := executionOrder(tasks, edges, preds)

	durations := make(map[string]float64, len(tasks))
	for _, t := range tasks {
		durations[t.ID] = t.DurationHours
	}

	// Forward pass: ES = max(EF of predecessors), EF = ES + duration.
	// In a degraded (cyclic) run a predecessor may appear later in the
	// order; its still-unset EF contributes zero, matching the fallback
	// semantics of treating stranded dependencies as unconstrained.
	es := make(map[string]float64, len(tasks))
	ef := make(map[string]float64, len(tasks))
	for _, id := range order {
		start := 0.0
		for _, p := range preds[id] {
			if f, ok := ef[p]; ok && f > start {
				start = f
			}
		}
		es[id] = start
		ef[id] = start + durations[id]
	}

	total := 0.0
	for _, id := range order {
		if ef[id] > total {
			total = ef[id]
		}
	}

	// Backward pass in reverse order: LF = min(LS of successors), or the
	// project duration for tasks nothing depends on; LS = LF - duration.
	ls := make(map[string]float64, len(tasks))
	lf := make(map[string]float64, len(tasks))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		finish := total
		for _, s := range succs[id] {
			if v, ok := ls[s]; ok && v < finish {
				finish = v
			}
		}
		lf[id] = finish
		ls[id] = finish - durations[id]
	}

	scheduled := make([]types.ScheduledTask, 0, len(tasks))
	for _, t := range tasks {
		slack := ls[t.ID] - es[t.ID]
		scheduled = append(scheduled, types.ScheduledTask{
			TaskID:         t.ID,
			EarliestStart:  es[t.ID],
			EarliestFinish: ef[t.ID],
			LatestStart:    ls[t.ID],
			LatestFinish:   lf[t.ID],
			Slack:          slack,
			Critical:       slack == 0,
		})
	}
	// Stable sort keeps snapshot order as the tie-break for equal starts.
	sort.SliceStable(scheduled, func(a, b int) bool {
		return scheduled[a].EarliestStart < scheduled[b].EarliestStart
	})

	return &types.Schedule{
		Tasks:         scheduled,
		CriticalPath:  criticalPath(scheduled),
		TotalDuration: total,
		Degraded:      degraded,
		Waves:         waves(scheduled),
	}, nil
}

// CriticalPath returns the ordered critical-path task identifiers of a
// previously computed schedule.
func CriticalPath(s *types.Schedule) []string {
	if s == nil {
		return nil
	}
	return s.CriticalPath
}

// validate enforces the input contract: unique IDs, non-negative durations,
// and edges whose endpoints all exist in the task set.
func validate(tasks []types.Task, edges []types.DependencyEdge) error {
	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.DurationHours < 0 {
			return &InvalidTaskError{TaskID: t.ID, Reason: "negative duration"}
		}
		if known[t.ID] {
			return &InvalidTaskError{TaskID: t.ID, Reason: "duplicate task ID"}
		}
		known[t.ID] = true
	}
	for _, e := range edges {
		if !known[e.TaskID] {
			return &UnknownDependencyError{TaskID: e.TaskID, DependsOn: e.DependsOn, Missing: e.TaskID}
		}
		if !known[e.DependsOn] {
			return &UnknownDependencyError{TaskID: e.TaskID, DependsOn: e.DependsOn, Missing: e.DependsOn}
		}
	}
	return nil
}

// independentSchedule handles the degenerate edgeless graph: every task runs
// in parallel from time zero and the project cannot finish before its longest
// task does, so the maximum-duration task(s) form the critical path.
func independentSchedule(tasks []types.Task) *types.Schedule {
	total := 0.0
	for _, t := range tasks {
		if t.DurationHours > total {
			total = t.DurationHours
		}
	}

	scheduled := make([]types.ScheduledTask, 0, len(tasks))
	wave := make([]string, 0, len(tasks))
	for _, t := range tasks {
		slack := total - t.DurationHours
		scheduled = append(scheduled, types.ScheduledTask{
			TaskID:         t.ID,
			EarliestStart:  0,
			EarliestFinish: t.DurationHours,
			LatestStart:    slack,
			LatestFinish:   total,
			Slack:          slack,
			Critical:       slack == 0,
		})
		wave = append(wave, t.ID)
	}

	return &types.Schedule{
		Tasks:         scheduled,
		CriticalPath:  criticalPath(scheduled),
		TotalDuration: total,
		Waves:         [][]string{wave},
	}
}

// executionOrder topologically sorts the snapshot. Tasks that take part in no
// edge are appended in snapshot order; any valid topological order yields the
// same pass results. When the graph has a cycle the sort fails and we fall
// back to a deterministic walk instead, reporting the run as degraded.
func executionOrder(tasks []types.Task, edges []types.DependencyEdge, preds map[string][]string) ([]string, bool) {
	tedges := make([]toposort.Edge, 0, len(edges))
	for _, e := range edges {
		tedges = append(tedges, toposort.Edge{e.DependsOn, e.TaskID})
	}

	sorted, err := toposort.Toposort(tedges)
	if err != nil {
		return fallbackOrder(tasks, preds), true
	}

	order := make([]string, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for _, node := range sorted {
		id := node.(string)
		seen[id] = true
		order = append(order, id)
	}
	for _, t := range tasks {
		if !seen[t.ID] {
			order = append(order, t.ID)
		}
	}
	return order, false
}

// fallbackOrder processes tasks whose dependencies are all satisfied, in
// snapshot order, until the walk stalls on a cycle; the stranded remainder is
// then emitted in snapshot order as well.
func fallbackOrder(tasks []types.Task, preds map[string][]string) []string {
	order := make([]string, 0, len(tasks))
	done := make(map[string]bool, len(tasks))

	for len(order) < len(tasks) {
		progressed := false
		for _, t := range tasks {
			if done[t.ID] {
				continue
			}
			ready := true
			for _, p := range preds[t.ID] {
				if !done[p] {
					ready = false
					break
				}
			}
			if ready {
				order = append(order, t.ID)
				done[t.ID] = true
				progressed = true
			}
		}
		if !progressed {
			for _, t := range tasks {
				if !done[t.ID] {
					order = append(order, t.ID)
					done[t.ID] = true
				}
			}
		}
	}
	return order
}

// criticalPath extracts zero-slack task IDs from an already-ordered schedule.
func criticalPath(scheduled []types.ScheduledTask) []string {
	path := make([]string, 0, len(scheduled))
	for _, st := range scheduled {
		if st.Critical {
			path = append(path, st.TaskID)
		}
	}
	return path
}

// waves groups task IDs by equal earliest start. Starts are sums of the same
// duration values in a fixed order, so exact equality is safe here.
func waves(scheduled []types.ScheduledTask) [][]string {
	var out [][]string
	for i := 0; i < len(scheduled); {
		start := scheduled[i].EarliestStart
		var wave []string
		for i < len(scheduled) && scheduled[i].EarliestStart == start {
			wave = append(wave, scheduled[i].TaskID)
			i++
		}
		out = append(out, wave)
	}
	return out
}
