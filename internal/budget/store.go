// Copyright (c) 2025 Plancore Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package budget validates and commits budget allocations across resource
// holders. A proposed allocation is produced externally; this package only
// checks it against the available amount and, when it fits, writes the
// per-holder committed figures through a narrow storage interface. The commit
// decision is all-or-nothing: a proposal whose sum exceeds the available
// amount is rejected whole and no holder's committed amount changes.
package budget

import "context"

// Store persists the committed amount per resource holder. It is the only
// mutable state the scheduling core touches; implementations must be safe for
// concurrent use across projects, while commits within one project are
// serialized by the caller.
type Store interface {
	// GetCommitted returns the holder's committed amount, or zero if the
	// holder has no committed allocation yet.
	GetCommitted(ctx context.Context, holderID string) (float64, error)

	// SetCommitted records the holder's committed amount, replacing any
	// previous figure.
	SetCommitted(ctx context.Context, holderID string, amount float64) error
}
