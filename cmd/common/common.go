// Package common provides shared helpers for the CLI commands: value and
// endpoint list parsing, and rank-target resolution from flags.
package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/encryptogroup/dp-KRE/dataset"
)

// ParseValues parses a comma-separated list of unsigned integers.
func ParseValues(s string) ([]uint64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("no values given")
	}
	parts := strings.Split(s, ",")
	values := make([]uint64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", part, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// ParseEndpoints parses a comma-separated list of party base URLs.
func ParseEndpoints(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("no party endpoints given")
	}
	parts := strings.Split(s, ",")
	endpoints := make([]string, 0, len(parts))
	for _, part := range parts {
		ep := strings.TrimRight(strings.TrimSpace(part), "/")
		if ep == "" {
			return nil, fmt.Errorf("empty party endpoint")
		}
		endpoints = append(endpoints, ep)
	}
	return endpoints, nil
}

// ResolveK derives the rank target from either an explicit --k flag or a
// named --statistic flag, for n parties. Exactly one of the two must be
// set.
func ResolveK(kFlag int, statisticFlag string, n int) (int, error) {
	switch {
	case kFlag > 0 && statisticFlag != "":
		return 0, fmt.Errorf("--k and --statistic are mutually exclusive")
	case kFlag > 0:
		return kFlag, nil
	case statisticFlag != "":
		stat, err := dataset.ParseStatistic(statisticFlag)
		if err != nil {
			return 0, err
		}
		return stat.ToK(n), nil
	}
	return 0, fmt.Errorf("one of --k or --statistic is required")
}
