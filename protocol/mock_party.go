package protocol

import "context"

// MockParty implements the Party interface for testing purposes.
// It allows customization of behavior by setting a respond function.
type MockParty struct {
	value       uint64
	respondFunc func(ctx context.Context, round int, threshold uint64) (bool, error)
}

// NewMockParty creates a mock party that answers comparisons honestly for
// the given value.
func NewMockParty(value uint64) *MockParty {
	return &MockParty{
		value: value,
		respondFunc: func(ctx context.Context, round int, threshold uint64) (bool, error) {
			return value >= threshold, nil
		},
	}
}

// WithRespondFunc overrides the comparison behavior, e.g. to simulate an
// unreachable or slow party.
func (m *MockParty) WithRespondFunc(f func(ctx context.Context, round int, threshold uint64) (bool, error)) *MockParty {
	m.respondFunc = f
	return m
}

// RespondToComparison implements the Party interface.
func (m *MockParty) RespondToComparison(ctx context.Context, round int, threshold uint64) (bool, error) {
	return m.respondFunc(ctx, round, threshold)
}
