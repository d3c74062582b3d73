// Copyright (c) 2025 Plancore Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package cpm

import (
	"errors"
	"fmt"
)

// ErrNoTasks is returned when Compute is called with an empty task set.
var ErrNoTasks = errors.New("task set is empty")

// InvalidTaskError reports a task that fails the input contract: a negative
// duration or an identifier duplicated within the snapshot. The request is
// rejected whole; no partial schedule is returned.
type InvalidTaskError struct {
	// TaskID is the offending task identifier
	TaskID string

	// Reason describes which contract rule the task violates
	Reason string
}

// Error implements the error interface.
func (e *InvalidTaskError) Error() string {
	return fmt.Sprintf("invalid task %q: %s", e.TaskID, e.Reason)
}

// UnknownDependencyError reports an edge that references a task identifier
// absent from the snapshot's task set.
type UnknownDependencyError struct {
	// TaskID is the dependent end of the offending edge
	TaskID string

	// DependsOn is the prerequisite end of the offending edge
	DependsOn string

	// Missing is whichever of the two endpoints is not in the task set
	Missing string
}

// Error implements the error interface.
func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("edge %q depends_on %q references unknown task %q", e.TaskID, e.DependsOn, e.Missing)
}
