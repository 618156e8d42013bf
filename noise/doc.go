// Package noise provides the mechanisms that perturb per-round comparison
// counts to make the protocol's intermediate signal differentially
// private.
//
// All mechanisms are calibrated to sensitivity 1 (one party's value moves
// a round's count by at most 1) and draw independently per round. Two
// families are provided:
//
//   - Seedable mechanisms (Laplace, TwoSidedGeometric) sample from an
//     explicitly injected random source. Reproducible draws are required
//     for tests and for independence across accuracy-harness repetitions,
//     which each get their own seed.
//
//   - SecureLaplace delegates sampling to the hardened geometric-based
//     sampler of the google differential-privacy library, which is robust
//     against floating-point artifacts but not seedable. Intended for
//     deployments where determinism is unacceptable.
//
// Noise levels (Low/Medium/High) are presets mapping to per-round epsilon
// magnitudes: higher noise means smaller epsilon, stronger privacy, and
// weaker accuracy.
package noise
