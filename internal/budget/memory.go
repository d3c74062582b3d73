// Copyright (c) 2025 Plancore Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package budget

import (
	"context"
	"sync"
)

// MemoryStore implements Store with in-memory state and thread-safe access.
// Useful for tests and single-process deployments.
type MemoryStore struct {
	mu        sync.RWMutex
	committed map[string]float64
}

// NewMemoryStore creates an empty in-memory committed-amount store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		committed: make(map[string]float64),
	}
}

// GetCommitted returns the holder's committed amount, zero if absent.
func (s *MemoryStore) GetCommitted(_ context.Context, holderID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed[holderID], nil
}

// SetCommitted records the holder's committed amount.
func (s *MemoryStore) SetCommitted(_ context.Context, holderID string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed[holderID] = amount
	return nil
}
