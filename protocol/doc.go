// Package protocol implements a star-topology protocol for computing the
// k-th ranked element of values held by n mutually distrusting parties,
// based on a bitwise binary search over the value domain driven by a central
// coordinator.
//
// # Architecture
//
// The protocol operates over a star topology:
//
//  1. Parties: Each party holds exactly one private value in the configured
//     domain [0, 2^L). A party answers comparison requests from the
//     coordinator with a single bit ("my value >= threshold") and never
//     reveals the value itself.
//
//  2. Coordinator: Drives the binary search. Each round it picks the
//     midpoint of the current search interval as the public threshold,
//     fans the comparison out to every party in parallel, counts the
//     parties at or above the threshold, and narrows the interval based on
//     the count. The search settles on the k-th ranked value after at most
//     L rounds.
//
// The protocol is deliberately leaky: the coordinator learns one comparison
// bit per party per round. This is the acknowledged tradeoff against a
// fully oblivious design that would reveal only the final answer at much
// higher computational cost. The differentially private variant (DPRunner)
// bounds what the coordinator can additionally infer from the per-round
// counts by perturbing them with calibrated noise before branching, at the
// cost of exactness.
//
// # Round structure
//
// Per round the coordinator:
//
//  1. Selects the threshold as the ceiling midpoint of the search interval.
//  2. Invokes every party's RespondToComparison in parallel, bounded by a
//     per-party timeout. Parties that fail to answer are excluded from the
//     round's count and recorded in the round trace.
//  3. Branches: if at least n-k+1 parties are at or above the threshold,
//     the k-th ranked value lies in the upper half and the interval's low
//     bound is raised to the threshold; otherwise the high bound is lowered
//     to threshold-1.
//  4. Records the Round. The run terminates when the interval has settled
//     to a single value.
//
// Rounds are strictly sequential: round i+1's threshold depends on round
// i's outcome. Cancellation is honored between rounds, never mid-round.
//
// # Differential privacy
//
// DPRunner replaces the raw per-round count with a noisy count drawn from a
// NoiseMechanism before the branching decision, and tracks a privacy
// budget across rounds via a pluggable composition Schedule. A run refuses
// to start a round without remaining budget and reports the partial
// interval instead of proceeding unprotected. DP outputs are
// approximations; the true value can be computed out-of-band for error
// measurement but never influences the protocol itself.
package protocol
