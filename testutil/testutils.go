package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/encryptogroup/dp-KRE/dataset"
	"github.com/encryptogroup/dp-KRE/protocol"
)

// DefaultTestValues are the canonical worked-example inputs: eight parties
// in a 4-bit domain whose median is 3.
var DefaultTestValues = []uint64{3, 1, 4, 1, 5, 9, 2, 6}

// DefaultTestBits is the domain bit length matching DefaultTestValues.
const DefaultTestBits uint8 = 4

// DatasetOption customizes a generated test dataset.
type DatasetOption func(*datasetParams)

type datasetParams struct {
	values []uint64
	bits   uint8
}

// WithValues sets the party values of the generated dataset.
func WithValues(values []uint64) DatasetOption {
	return func(p *datasetParams) {
		p.values = values
	}
}

// WithBits sets the domain bit length of the generated dataset.
func WithBits(bits uint8) DatasetOption {
	return func(p *datasetParams) {
		p.bits = bits
	}
}

// NewTestDataset creates a dataset for testing, defaulting to the worked
// example of eight values in a 4-bit domain.
func NewTestDataset(options ...DatasetOption) *dataset.Dataset {
	params := &datasetParams{
		values: DefaultTestValues,
		bits:   DefaultTestBits,
	}
	for _, opt := range options {
		opt(params)
	}
	ds, err := dataset.New(params.values, params.bits)
	if err != nil {
		panic(fmt.Sprintf("testutil: invalid dataset fixture: %v", err))
	}
	return ds
}

// NewRandomDataset creates a reproducible random dataset.
func NewRandomDataset(n int, bits uint8, seed uint64) *dataset.Dataset {
	ds, err := dataset.Sample(n, bits, seed)
	if err != nil {
		panic(fmt.Sprintf("testutil: invalid random dataset fixture: %v", err))
	}
	return ds
}

// NewTestConfig builds a protocol configuration over the dataset's domain
// with a short party timeout suitable for unit tests.
func NewTestConfig(ds *dataset.Dataset, k int) protocol.Config {
	return protocol.Config{
		Domain:       ds.Domain,
		K:            k,
		PartyTimeout: time.Second,
	}
}

// PartyOption customizes a generated party set.
type PartyOption func(parties []protocol.Party)

// WithFailingParty replaces party i with one that always returns err.
func WithFailingParty(i int, err error) PartyOption {
	return func(parties []protocol.Party) {
		parties[i] = protocol.NewMockParty(0).WithRespondFunc(
			func(ctx context.Context, round int, threshold uint64) (bool, error) {
				return false, err
			})
	}
}

// WithSlowParty replaces party i with one that blocks until its context is
// canceled, simulating an unreachable endpoint.
func WithSlowParty(i int) PartyOption {
	return func(parties []protocol.Party) {
		parties[i] = protocol.NewMockParty(0).WithRespondFunc(
			func(ctx context.Context, round int, threshold uint64) (bool, error) {
				<-ctx.Done()
				return false, ctx.Err()
			})
	}
}

// NewTestParties creates mock parties holding the dataset values, with
// optional injected failures.
func NewTestParties(ds *dataset.Dataset, options ...PartyOption) []protocol.Party {
	parties := make([]protocol.Party, len(ds.Values))
	for i, v := range ds.Values {
		parties[i] = protocol.NewMockParty(v)
	}
	for _, opt := range options {
		opt(parties)
	}
	return parties
}
