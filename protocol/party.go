package protocol

import (
	"context"
	"fmt"
)

// Party is a capability-bearing unit holding one private value. Its single
// operation answers a secure comparison against a public threshold.
//
// Privacy contract: the returned bit ("value >= threshold") is the only
// information that crosses the trust boundary to the coordinator. The value
// itself must never be transmitted or reconstructable from an
// implementation's responses.
type Party interface {
	// RespondToComparison returns true iff the party's value is greater
	// than or equal to the public threshold. The round index identifies
	// the invocation for auditing. Implementations must honor ctx; a
	// party that does not answer in time is treated as absent for the
	// round, not as a run failure.
	RespondToComparison(ctx context.Context, round int, threshold uint64) (bool, error)
}

// LocalParty is an in-process Party. Its value is write-once at
// construction and read nowhere else.
type LocalParty struct {
	id    int
	value uint64
}

// NewLocalParty creates a party holding the given value. The value must lie
// inside the domain.
func NewLocalParty(id int, value uint64, domain Domain) (*LocalParty, error) {
	if !domain.Valid() {
		return nil, fmt.Errorf("%w: domain bit length %d outside [1, 64]", ErrInvalidConfiguration, domain.Bits)
	}
	if !domain.Contains(value) {
		return nil, fmt.Errorf("%w: party %d value %d outside domain %s", ErrInvalidConfiguration, id, value, domain)
	}
	return &LocalParty{id: id, value: value}, nil
}

// ID returns the party's ordinal identifier.
func (p *LocalParty) ID() int {
	return p.id
}

// RespondToComparison implements Party.
func (p *LocalParty) RespondToComparison(ctx context.Context, round int, threshold uint64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.value >= threshold, nil
}

// NewLocalParties creates one LocalParty per value, with ordinal IDs
// matching the value positions.
func NewLocalParties(values []uint64, domain Domain) ([]Party, error) {
	parties := make([]Party, 0, len(values))
	for i, v := range values {
		p, err := NewLocalParty(i, v, domain)
		if err != nil {
			return nil, err
		}
		parties = append(parties, p)
	}
	return parties, nil
}
