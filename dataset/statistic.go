package dataset

import "fmt"

// Statistic is a named rank target. It exists so callers can ask for the
// minimum, median or maximum without deriving k themselves.
type Statistic string

const (
	Minimum Statistic = "min"
	Median  Statistic = "median"
	Maximum Statistic = "max"
)

// Statistics lists all named rank targets.
var Statistics = []Statistic{Minimum, Median, Maximum}

// ParseStatistic converts a string into a Statistic.
func ParseStatistic(s string) (Statistic, error) {
	switch Statistic(s) {
	case Minimum, Median, Maximum:
		return Statistic(s), nil
	}
	return "", fmt.Errorf("unknown statistic %q", s)
}

// ToK derives the rank k in [1, n] the statistic selects: 1 for the
// minimum, n for the maximum, and ceil(n/2) for the median.
func (s Statistic) ToK(n int) int {
	switch s {
	case Minimum:
		return 1
	case Maximum:
		return n
	default:
		return (n + 1) / 2
	}
}

func (s Statistic) String() string {
	return string(s)
}
