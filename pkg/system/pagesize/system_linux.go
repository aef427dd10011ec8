//go:build linux

package pagesize

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// System asks the kernel for the page size.
type System struct{}

func (System) PageSizeBytes() (uint64, error) {
	n := unix.Getpagesize()
	if n <= 0 {
		return 0, fmt.Errorf("%w: getpagesize returned %d", ErrCapability, n)
	}
	return uint64(n), nil
}

var process = NewOnce(Env{Key: EnvKey, Fallback: System{}})

// Default returns the process-wide provider: PAGE_SIZE if set, else the
// kernel value. It is resolved at most once.
func Default() Provider { return process }
