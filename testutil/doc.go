/*
Package testutil provides testing utilities for the k-ranked element
protocol implementation.

It contains test data generators and fixtures shared by the package-level
test suites, so test writers can focus on test logic rather than fixture
assembly.

# Dataset Generators

Functions for creating datasets with known ground truth:

	// Eight fixed values in a 4-bit domain
	ds := testutil.NewTestDataset()

	// Customized via options
	ds := testutil.NewTestDataset(
	    testutil.WithValues([]uint64{7, 7, 7}),
	    testutil.WithBits(8),
	)

	// A random dataset with a reproducible seed
	ds := testutil.NewRandomDataset(100, 16, 42)

# Protocol Fixtures

Helpers for assembling protocol configurations and party sets:

	cfg := testutil.NewTestConfig(ds, k)
	parties := testutil.NewTestParties(ds)

	// Parties with injected failures
	parties := testutil.NewTestParties(ds,
	    testutil.WithFailingParty(2, errors.New("down")),
	)

All generators panic on invalid fixture parameters. They run only inside
tests, where a panic is the clearest possible failure report.
*/
package testutil
