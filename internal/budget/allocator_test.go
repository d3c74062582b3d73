// Copyright (c) 2025 Plancore Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package budget

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plancore/pkg/types"
)

func proposal(holder string, amount float64) types.BudgetProposal {
	return types.BudgetProposal{HolderID: holder, Amount: amount}
}

func TestCommit_AcceptsWithinBudget(t *testing.T) {
	store := NewMemoryStore()
	alloc := NewAllocator(store)
	ctx := context.Background()

	results, err := alloc.Commit(ctx, 100, []types.BudgetProposal{
		proposal("teamA", 40),
		proposal("teamB", 35),
		proposal("teamC", 25),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	total := 0.0
	for _, r := range results {
		assert.True(t, r.Accepted)
		total += r.Committed

		stored, err := store.GetCommitted(ctx, r.HolderID)
		require.NoError(t, err)
		assert.Equal(t, r.Committed, stored)
	}
	assert.Equal(t, 100.0, total)
}

func TestCommit_RejectsOverBudgetWhole(t *testing.T) {
	store := NewMemoryStore()
	alloc := NewAllocator(store)
	ctx := context.Background()

	// Seed a prior committed figure so rejection can report it.
	require.NoError(t, store.SetCommitted(ctx, "teamA", 10))

	results, err := alloc.Commit(ctx, 50, []types.BudgetProposal{
		proposal("teamA", 30),
		proposal("teamB", 30),
	})
	require.NoError(t, err, "over-budget is a result, not an error")
	require.Len(t, results, 2)

	for _, r := range results {
		assert.False(t, r.Accepted)
	}
	assert.Equal(t, 10.0, results[0].Committed, "previous figure reported")
	assert.Equal(t, 0.0, results[1].Committed)

	// Nothing was written.
	stored, err := store.GetCommitted(ctx, "teamA")
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored)
	stored, err = store.GetCommitted(ctx, "teamB")
	require.NoError(t, err)
	assert.Equal(t, 0.0, stored)
}

func TestCommit_ExactBudgetAccepted(t *testing.T) {
	alloc := NewAllocator(NewMemoryStore())

	results, err := alloc.Commit(context.Background(), 60, []types.BudgetProposal{
		proposal("a", 20), proposal("b", 40),
	})
	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, r.Accepted)
	}
}

func TestCommit_EmptyProposalList(t *testing.T) {
	alloc := NewAllocator(NewMemoryStore())

	results, err := alloc.Commit(context.Background(), 10, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCommit_InputErrors(t *testing.T) {
	tests := []struct {
		name      string
		available float64
		proposals []types.BudgetProposal
		wantErr   error
		holder    string
	}{
		{
			name:      "negative available",
			available: -1,
			wantErr:   ErrNegativeAvailable,
		},
		{
			name:      "negative amount",
			available: 10,
			proposals: []types.BudgetProposal{proposal("x", -5)},
			holder:    "x",
		},
		{
			name:      "duplicate holder",
			available: 10,
			proposals: []types.BudgetProposal{proposal("x", 1), proposal("x", 2)},
			holder:    "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := NewAllocator(NewMemoryStore())
			results, err := alloc.Commit(context.Background(), tt.available, tt.proposals)
			require.Error(t, err)
			assert.Nil(t, results)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.holder != "" {
				var ipe *InvalidProposalError
				require.ErrorAs(t, err, &ipe)
				assert.Equal(t, tt.holder, ipe.HolderID)
			}
		})
	}
}

// failingStore simulates an unavailable backing store.
type failingStore struct {
	err error
}

func (f *failingStore) GetCommitted(context.Context, string) (float64, error) { return 0, f.err }
func (f *failingStore) SetCommitted(context.Context, string, float64) error   { return f.err }

func TestCommit_StorageFailureSurfaces(t *testing.T) {
	cause := errors.New("disk on fire")
	alloc := NewAllocator(&failingStore{err: cause})

	_, err := alloc.Commit(context.Background(), 100, []types.BudgetProposal{proposal("a", 1)})
	require.Error(t, err)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "a", se.HolderID)
	assert.ErrorIs(t, err, cause)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.db")
	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()

	amount, err := store.GetCommitted(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0.0, amount, "unknown holder reads as zero")

	require.NoError(t, store.SetCommitted(ctx, "teamA", 42.5))
	amount, err = store.GetCommitted(ctx, "teamA")
	require.NoError(t, err)
	assert.Equal(t, 42.5, amount)

	// Replacing an existing figure keeps one row per holder.
	require.NoError(t, store.SetCommitted(ctx, "teamA", 7))
	amount, err = store.GetCommitted(ctx, "teamA")
	require.NoError(t, err)
	assert.Equal(t, 7.0, amount)
}

func TestSQLiteStore_BacksAllocator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.db")
	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	alloc := NewAllocator(store)
	ctx := context.Background()

	results, err := alloc.Commit(ctx, 20, []types.BudgetProposal{
		proposal("a", 12), proposal("b", 8),
	})
	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, r.Accepted)
	}

	// A second, over-budget batch leaves the first commit untouched.
	results, err = alloc.Commit(ctx, 20, []types.BudgetProposal{
		proposal("a", 15), proposal("b", 15),
	})
	require.NoError(t, err)
	assert.False(t, results[0].Accepted)
	assert.Equal(t, 12.0, results[0].Committed)
	assert.Equal(t, 8.0, results[1].Committed)
}
