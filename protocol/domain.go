package protocol

import "fmt"

// Domain describes the fixed-width unsigned integer domain [0, 2^Bits) that
// all party values and thresholds live in. Every comparison in a run
// operates on values of this width.
type Domain struct {
	// Bits is the bit length L of the domain, in [1, 64].
	Bits uint8
}

// Valid reports whether the domain bit length is usable.
func (d Domain) Valid() bool {
	return d.Bits >= 1 && d.Bits <= 64
}

// Max returns the largest representable value, 2^Bits - 1.
func (d Domain) Max() uint64 {
	if d.Bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << d.Bits) - 1
}

// Contains reports whether v lies inside the domain.
func (d Domain) Contains(v uint64) bool {
	return v <= d.Max()
}

// FullInterval returns the initial search interval covering the whole domain.
func (d Domain) FullInterval() SearchInterval {
	return SearchInterval{Low: 0, High: d.Max()}
}

func (d Domain) String() string {
	return fmt.Sprintf("[0, 2^%d)", d.Bits)
}

// SearchInterval is the coordinator-owned candidate interval for the k-th
// ranked value. Invariant: Low <= High. It shrinks monotonically round by
// round until Low == High, whose value is the protocol's output.
type SearchInterval struct {
	Low  uint64 `json:"low"`
	High uint64 `json:"high"`
}

// Settled reports whether the interval has narrowed to a single value.
func (si SearchInterval) Settled() bool {
	return si.Low == si.High
}

// Span returns High - Low, the number of candidate values minus one.
// Expressed as a difference rather than a count so the full 64-bit domain
// does not overflow.
func (si SearchInterval) Span() uint64 {
	return si.High - si.Low
}

// Threshold returns the ceiling midpoint of the interval, the next public
// comparison threshold. For any unsettled interval the threshold is
// strictly greater than Low, so both branches of the round make progress.
func (si SearchInterval) Threshold() uint64 {
	d := si.Span()
	return si.Low + d/2 + d%2
}

// Midpoint returns the floor midpoint, used as the reported estimate when a
// run stops before the interval settles.
func (si SearchInterval) Midpoint() uint64 {
	return si.Low + si.Span()/2
}
