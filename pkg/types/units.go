package types

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// ErrUnknownUnit is returned for a unit token other than "", kB, MB or GB.
var ErrUnknownUnit = errors.New("types: unknown unit")

// ErrOverflow is returned when a scaled value does not fit in 64 bits.
var ErrOverflow = errors.New("types: value overflows uint64")

const (
	KiB uint64 = 1 << 10
	MiB uint64 = 1 << 20
	GiB uint64 = 1 << 30
)

// Multiplier maps a trailing unit token to its byte multiplier.
// Matching is case-insensitive; an empty token means plain bytes.
func Multiplier(unit string) (uint64, error) {
	switch strings.ToLower(unit) {
	case "":
		return 1, nil
	case "kb":
		return KiB, nil
	case "mb":
		return MiB, nil
	case "gb":
		return GiB, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
}

// Scale multiplies n by m, failing instead of wrapping around.
func Scale(n, m uint64) (Bytes, error) {
	hi, lo := bits.Mul64(n, m)
	if hi != 0 {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, n, m)
	}
	return Bytes(lo), nil
}
