package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EMA is an exponential moving average; the first sample seeds it.
type EMA struct {
	alpha, prev float64
	ok          bool
}

// NewEMA returns an EMA with alpha clamped to [0,1].
func NewEMA(alpha float64) *EMA { return &EMA{alpha: Clamp01(alpha)} }

func (e *EMA) Next(v float64) float64 {
	if !e.ok {
		e.prev, e.ok = v, true
		return v
	}
	e.prev = e.alpha*v + (1-e.alpha)*e.prev
	return e.prev
}

// DeltaU64 returns now-prev, or 0 when the counter went backwards.
func DeltaU64(now, prev uint64) uint64 {
	if now >= prev {
		return now - prev
	}
	return 0
}

// SafeDiv returns n/d, or 0 when |d| is negligible.
func SafeDiv(n, d float64) float64 {
	const eps = 1e-12
	if d > eps || d < -eps {
		return n / d
	}
	return 0
}

// PerSecond is the rate of a monotonic counter over dtSec seconds.
func PerSecond(now, prev uint64, dtSec float64) float64 {
	return SafeDiv(float64(DeltaU64(now, prev)), dtSec)
}

// Clamp01 limits x to [0,1]; NaN becomes 0.
func Clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

// ParsePID accepts "self" or a positive decimal PID and returns the
// directory name under the proc root.
func ParsePID(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" || arg == "self" {
		return "self", nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("invalid pid %q", arg)
	}
	return strconv.Itoa(n), nil
}
