package services

import (
	"context"
	"slices"
	"sync"

	"github.com/encryptogroup/dp-KRE/dataset"
	"github.com/encryptogroup/dp-KRE/harness"
)

// TrialStore persists accuracy trial records for downstream consumption.
type TrialStore interface {
	// SaveTrials appends trial records.
	SaveTrials(ctx context.Context, trials []harness.Trial) error

	// ListTrials returns all stored trials, optionally filtered by
	// statistic (empty filter returns everything).
	ListTrials(ctx context.Context, statistic dataset.Statistic) ([]harness.Trial, error)
}

// MemoryStore is an in-memory TrialStore for tests and short-lived runs.
type MemoryStore struct {
	mu     sync.RWMutex
	trials []harness.Trial
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveTrials implements TrialStore.
func (s *MemoryStore) SaveTrials(ctx context.Context, trials []harness.Trial) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trials = append(s.trials, trials...)
	return nil
}

// ListTrials implements TrialStore.
func (s *MemoryStore) ListTrials(ctx context.Context, statistic dataset.Statistic) ([]harness.Trial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if statistic == "" {
		return slices.Clone(s.trials), nil
	}
	out := make([]harness.Trial, 0, len(s.trials))
	for _, t := range s.trials {
		if t.Statistic == statistic {
			out = append(out, t)
		}
	}
	return out, nil
}
