// Package pagesize resolves the platform memory page size used to scale
// page-count fields (statm, stat rss) into bytes.
package pagesize

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// EnvKey overrides the detected page size, mainly for fixtures and tests.
const EnvKey = "PAGE_SIZE"

// ErrCapability indicates that the page size could not be determined.
// There is no fallback value: every page-scaled field would be wrong.
var ErrCapability = errors.New("pagesize: page size unavailable")

// Provider resolves the page size in bytes.
type Provider interface {
	PageSizeBytes() (uint64, error)
}

// Fixed is a constant page size.
type Fixed uint64

func (f Fixed) PageSizeBytes() (uint64, error) {
	if f == 0 {
		return 0, fmt.Errorf("%w: fixed size is zero", ErrCapability)
	}
	return uint64(f), nil
}

// Env reads the page size from an environment variable and defers to
// Fallback when the variable is unset. A set but invalid value is an error.
type Env struct {
	Key      string
	Fallback Provider
}

func (e Env) PageSizeBytes() (uint64, error) {
	key := e.Key
	if key == "" {
		key = EnvKey
	}
	if v := os.Getenv(key); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil || n == 0 {
			return 0, fmt.Errorf("%w: %s=%q", ErrCapability, key, v)
		}
		return n, nil
	}
	if e.Fallback == nil {
		return 0, fmt.Errorf("%w: %s unset and no fallback", ErrCapability, key)
	}
	return e.Fallback.PageSizeBytes()
}

// Once caches the first result of the wrapped provider, error included.
// It is safe for concurrent use.
type Once struct {
	p    Provider
	once sync.Once
	size uint64
	err  error
}

func NewOnce(p Provider) *Once { return &Once{p: p} }

func (o *Once) PageSizeBytes() (uint64, error) {
	o.once.Do(func() {
		if o.p == nil {
			o.err = fmt.Errorf("%w: no provider", ErrCapability)
			return
		}
		o.size, o.err = o.p.PageSizeBytes()
	})
	return o.size, o.err
}
