// Package session carries a computed diagnosis from the result view to the
// detail view without re-deriving it.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/lovetype/internal/common"
	"github.com/Veraticus/lovetype/internal/model"
)

// ErrNotFound is returned by Take when no diagnosis has been stored for the
// session. Callers must send the user back to type selection.
var ErrNotFound = fmt.Errorf("session result %w", common.ErrNotFound)

// Store holds at most one diagnosis per session. Put replaces any previous
// value. Take reads without consuming, so the result and detail views can
// both read the same value.
type Store interface {
	Put(ctx context.Context, d *model.Diagnosis) error
	Take(ctx context.Context) (*model.Diagnosis, error)
	Clear(ctx context.Context) error
}

// MemoryStore keeps the diagnosis for the lifetime of the process, which is
// the session of the interactive UI.
type MemoryStore struct {
	current *model.Diagnosis
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Put stores a copy of d.
func (s *MemoryStore) Put(ctx context.Context, d *model.Diagnosis) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	if d == nil {
		return fmt.Errorf("diagnosis cannot be nil")
	}

	clone := cloneDiagnosis(d)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = clone
	return nil
}

// Take returns a copy of the stored diagnosis or ErrNotFound.
func (s *MemoryStore) Take(ctx context.Context) (*model.Diagnosis, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNotFound
	}
	return cloneDiagnosis(s.current), nil
}

// Clear forgets the stored diagnosis.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	return nil
}

// cloneDiagnosis deep-copies the mutable parts of a diagnosis.
func cloneDiagnosis(d *model.Diagnosis) *model.Diagnosis {
	c := *d

	c.Result.Candidates = append([]model.Candidate(nil), d.Result.Candidates...)
	if d.Result.Ratios != nil {
		c.Result.Ratios = make(map[string]float64, len(d.Result.Ratios))
		for k, v := range d.Result.Ratios {
			c.Result.Ratios[k] = v
		}
	}

	c.Payload.Macro.Candidates = append([]model.Candidate(nil), d.Payload.Macro.Candidates...)
	c.Payload.KnownTypes = append([]string(nil), d.Payload.KnownTypes...)
	c.Payload.Scores = cloneNumbers(d.Payload.Scores)
	c.Payload.Ratios = cloneNumbers(d.Payload.Ratios)
	return &c
}

func cloneNumbers(m map[string]model.Number) map[string]model.Number {
	if m == nil {
		return nil
	}
	out := make(map[string]model.Number, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
