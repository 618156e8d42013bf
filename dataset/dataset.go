// Package dataset provides the value collections protocol runs operate
// on: literal datasets, synthetic generation with seedable randomness, and
// out-of-band ground truth for error measurement.
package dataset

import (
	"fmt"
	"slices"

	"golang.org/x/exp/rand"

	"github.com/encryptogroup/dp-KRE/protocol"
)

// Dataset is an ordered collection of domain values, one per party.
type Dataset struct {
	Values []uint64
	Domain protocol.Domain
}

// New creates a dataset from literal values, validating that every value
// lies inside the domain.
func New(values []uint64, bits uint8) (*Dataset, error) {
	d := protocol.Domain{Bits: bits}
	if !d.Valid() {
		return nil, fmt.Errorf("%w: domain bit length %d outside [1, 64]", protocol.ErrInvalidConfiguration, bits)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty dataset", protocol.ErrInvalidConfiguration)
	}
	for i, v := range values {
		if !d.Contains(v) {
			return nil, fmt.Errorf("%w: value %d at position %d outside domain %s", protocol.ErrInvalidConfiguration, v, i, d)
		}
	}
	return &Dataset{Values: slices.Clone(values), Domain: d}, nil
}

// Sample generates n values drawn uniformly from the full domain, using
// the given seed.
func Sample(n int, bits uint8, seed uint64) (*Dataset, error) {
	d := protocol.Domain{Bits: bits}
	return SampleRange(n, bits, 0, d.Max(), seed)
}

// SampleRange generates n values drawn uniformly from [min, max], using
// the given seed.
func SampleRange(n int, bits uint8, min, max uint64, seed uint64) (*Dataset, error) {
	d := protocol.Domain{Bits: bits}
	if !d.Valid() {
		return nil, fmt.Errorf("%w: domain bit length %d outside [1, 64]", protocol.ErrInvalidConfiguration, bits)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: dataset size %d must be positive", protocol.ErrInvalidConfiguration, n)
	}
	if min > max || !d.Contains(max) {
		return nil, fmt.Errorf("%w: sample range [%d, %d] invalid for domain %s", protocol.ErrInvalidConfiguration, min, max, d)
	}

	rng := rand.New(rand.NewSource(seed))
	values := make([]uint64, n)
	span := max - min
	for i := range values {
		if span == ^uint64(0) {
			values[i] = rng.Uint64()
			continue
		}
		values[i] = min + rng.Uint64n(span+1)
	}
	return &Dataset{Values: values, Domain: d}, nil
}

// N returns the number of values, which equals the number of parties.
func (d *Dataset) N() int {
	return len(d.Values)
}

// TrueKth returns the k-th smallest value (1-based). Rank is by count, not
// by distinct value: duplicates contribute their full multiplicity. This
// ground truth is for error measurement only and must never influence a
// protocol run.
func (d *Dataset) TrueKth(k int) (uint64, error) {
	if k < 1 || k > len(d.Values) {
		return 0, fmt.Errorf("%w: k=%d outside [1, %d]", protocol.ErrInvalidConfiguration, k, len(d.Values))
	}
	sorted := slices.Clone(d.Values)
	slices.Sort(sorted)
	return sorted[k-1], nil
}

// Parties constructs one in-process party per value.
func (d *Dataset) Parties() ([]protocol.Party, error) {
	return protocol.NewLocalParties(d.Values, d.Domain)
}
