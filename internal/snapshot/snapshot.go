// Copyright (c) 2025 Plancore Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package snapshot decodes the task/edge snapshot files handed over by the
// estimation collaborator. The scheduling engine itself never reads files;
// keyword parsing and shape checks live here so malformed estimation output
// is reported before it reaches the algorithm.
package snapshot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"plancore/pkg/types"
)

// document is one complete scheduling request on disk: the full task list
// and the full (possibly empty) dependency edge list.
type document struct {
	Tasks []taskEntry `yaml:"tasks"`
	Edges []edgeEntry `yaml:"edges"`
}

type taskEntry struct {
	ID            string  `yaml:"id"`
	DurationHours float64 `yaml:"duration_hours"`
	Priority      string  `yaml:"priority"`
	Complexity    string  `yaml:"complexity"`
}

type edgeEntry struct {
	Task      string `yaml:"task"`
	DependsOn string `yaml:"depends_on"`
}

// Load reads and validates a snapshot file and returns the typed task and
// edge sets for the engine.
func Load(path string) ([]types.Task, []types.DependencyEdge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML snapshot document.
func Parse(data []byte) ([]types.Task, []types.DependencyEdge, error) {
	var snap document
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if len(snap.Tasks) == 0 {
		return nil, nil, fmt.Errorf("snapshot contains no tasks")
	}

	tasks := make([]types.Task, 0, len(snap.Tasks))
	for i, entry := range snap.Tasks {
		if entry.ID == "" {
			return nil, nil, fmt.Errorf("task %d: missing id", i)
		}
		priority, err := parsePriority(entry.Priority)
		if err != nil {
			return nil, nil, fmt.Errorf("task %q: %w", entry.ID, err)
		}
		complexity, err := parseComplexity(entry.Complexity)
		if err != nil {
			return nil, nil, fmt.Errorf("task %q: %w", entry.ID, err)
		}
		tasks = append(tasks, types.Task{
			ID:            entry.ID,
			DurationHours: entry.DurationHours,
			Priority:      priority,
			Complexity:    complexity,
		})
	}

	edges := make([]types.DependencyEdge, 0, len(snap.Edges))
	for i, entry := range snap.Edges {
		if entry.Task == "" || entry.DependsOn == "" {
			return nil, nil, fmt.Errorf("edge %d: both task and depends_on are required", i)
		}
		edges = append(edges, types.DependencyEdge{
			TaskID:    entry.Task,
			DependsOn: entry.DependsOn,
		})
	}

	return tasks, edges, nil
}

func parsePriority(s string) (types.Priority, error) {
	switch types.Priority(s) {
	case types.PriorityUnset, types.PriorityHigh, types.PriorityMedium, types.PriorityLow:
		return types.Priority(s), nil
	}
	return types.PriorityUnset, fmt.Errorf("unknown priority %q", s)
}

func parseComplexity(s string) (types.Complexity, error) {
	switch types.Complexity(s) {
	case types.ComplexityUnset, types.ComplexitySimple, types.ComplexityModerate,
		types.ComplexityComplex, types.ComplexityVeryComplex:
		return types.Complexity(s), nil
	}
	return types.ComplexityUnset, fmt.Errorf("unknown complexity %q", s)
}
