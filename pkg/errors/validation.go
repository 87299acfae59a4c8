package errors

import (
	"strconv"
	"strings"
)

// ParseDiskCount parses a disk count given on the command line or in a URL.
// It rejects empty input, non-integers and values outside 1..limit.
// A limit of zero or less disables the upper bound.
func ParseDiskCount(s string, limit int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, New(ErrCodeInvalidArgument, "disk count is required")
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidArgument, err, "disk count must be an integer, got %q", s)
	}

	if err := ValidateDiskCount(n, limit); err != nil {
		return 0, err
	}
	return n, nil
}

// ValidateDiskCount checks that n is at least 1 and, when limit > 0, at most limit.
func ValidateDiskCount(n, limit int) error {
	if n < 1 {
		return New(ErrCodeInvalidArgument, "disk count must be at least 1, got %d", n)
	}
	if limit > 0 && n > limit {
		return New(ErrCodeInvalidArgument, "disk count %d exceeds maximum of %d", n, limit)
	}
	return nil
}
