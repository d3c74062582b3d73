// Copyright (c) 2025 Plancore Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package budget

import (
	"context"
	"errors"
	"fmt"

	"plancore/pkg/types"
)

// ErrNegativeAvailable is returned when the available amount is negative.
var ErrNegativeAvailable = errors.New("available amount is negative")

// InvalidProposalError reports a proposal entry that fails the input
// contract: a negative amount or a holder listed twice in one batch.
type InvalidProposalError struct {
	HolderID string
	Reason   string
}

// Error implements the error interface.
func (e *InvalidProposalError) Error() string {
	return fmt.Sprintf("invalid proposal for holder %q: %s", e.HolderID, e.Reason)
}

// StorageError wraps a failure of the committed-amount store. The commit is
// reported failed; retrying is the caller's decision, not this package's.
type StorageError struct {
	HolderID string
	Op       string
	Err      error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("budget store %s for holder %q: %v", e.Op, e.HolderID, e.Err)
}

// Unwrap exposes the underlying store failure.
func (e *StorageError) Unwrap() error { return e.Err }

// Allocator applies the all-or-nothing commit policy over a Store.
type Allocator struct {
	store Store
}

// NewAllocator creates an Allocator backed by the given store.
func NewAllocator(store Store) *Allocator {
	return &Allocator{store: store}
}

// Commit validates a proposed allocation against the available amount and
// either commits every entry or rejects every entry.
//
// When the proposed sum fits, each holder's committed amount is written
// through the store and every result is accepted. When it does not fit, the
// batch is rejected as a whole: no store write happens and each result
// carries the holder's previously committed amount. Over-budget is an
// expected business condition and therefore a result, not an error; only
// malformed input and storage failures return a non-nil error.
func (a *Allocator) Commit(ctx context.Context, available float64, proposals []types.BudgetProposal) ([]types.AllocationResult, error) {
	if available < 0 {
		return nil, ErrNegativeAvailable
	}

	seen := make(map[string]bool, len(proposals))
	sum := 0.0
	for _, p := range proposals {
		if p.Amount < 0 {
			return nil, &InvalidProposalError{HolderID: p.HolderID, Reason: "negative amount"}
		}
		if seen[p.HolderID] {
			return nil, &InvalidProposalError{HolderID: p.HolderID, Reason: "duplicate holder"}
		}
		seen[p.HolderID] = true
		sum += p.Amount
	}

	results := make([]types.AllocationResult, 0, len(proposals))

	if sum > available {
		// Rejected whole: report the untouched committed amounts.
		for _, p := range proposals {
			committed, err := a.store.GetCommitted(ctx, p.HolderID)
			if err != nil {
				return nil, &StorageError{HolderID: p.HolderID, Op: "get", Err: err}
			}
			results = append(results, types.AllocationResult{
				HolderID:  p.HolderID,
				Committed: committed,
				Accepted:  false,
			})
		}
		return results, nil
	}

	for _, p := range proposals {
		if err := a.store.SetCommitted(ctx, p.HolderID, p.Amount); err != nil {
			return nil, &StorageError{HolderID: p.HolderID, Op: "set", Err: err}
		}
		results = append(results, types.AllocationResult{
			HolderID:  p.HolderID,
			Committed: p.Amount,
			Accepted:  true,
		})
	}
	return results, nil
}
