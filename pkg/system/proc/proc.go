//go:build linux

package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ja7ad/procview/pkg/system/pagesize"
)

// DefaultRoot is where procfs is normally mounted.
const DefaultRoot = "/proc"

// Reader decodes the pseudo-files of one process directory. Each call
// opens, reads and closes its file; a Reader holds no other state.
type Reader struct {
	dir   string
	pages pagesize.Provider
}

// NewReader reads from dir (for example /proc/self or a fixture directory).
// A nil provider means pagesize.Default().
func NewReader(dir string, pages pagesize.Provider) *Reader {
	if pages == nil {
		pages = pagesize.Default()
	}
	return &Reader{dir: dir, pages: pages}
}

// Self returns a Reader for <root>/self.
func Self(root string) *Reader {
	return NewReader(filepath.Join(root, "self"), nil)
}

// ForPID returns a Reader for <root>/<pid>.
func ForPID(root string, pid int) *Reader {
	return NewReader(filepath.Join(root, strconv.Itoa(pid)), nil)
}

// Dir is the process directory this Reader decodes from.
func (r *Reader) Dir() string { return r.dir }

// Exists reports whether the process directory is still present.
func (r *Reader) Exists() bool {
	fi, err := os.Stat(r.dir)
	return err == nil && fi.IsDir()
}

func (r *Reader) path(name string) string { return filepath.Join(r.dir, name) }

func (r *Reader) pageSize() (uint64, error) {
	n, err := r.pages.PageSizeBytes()
	if err != nil {
		return 0, fmt.Errorf("proc: %w", err)
	}
	return n, nil
}

// IoStatistics decodes <dir>/io.
func (r *Reader) IoStatistics() (IoStatistics, error) {
	return ReadIo(r.path("io"))
}

// Stat decodes <dir>/stat.
func (r *Reader) Stat() (ProcessStat, error) {
	ps, err := r.pageSize()
	if err != nil {
		return ProcessStat{}, err
	}
	return ReadStat(r.path("stat"), ps)
}

// MemoryUsage decodes <dir>/statm.
func (r *Reader) MemoryUsage() (MemoryUsageStatistics, error) {
	ps, err := r.pageSize()
	if err != nil {
		return MemoryUsageStatistics{}, err
	}
	return ReadStatm(r.path("statm"), ps)
}

// Status decodes <dir>/status.
func (r *Reader) Status() (ProcessStatus, error) {
	return ReadStatus(r.path("status"))
}

// Mappings decodes <dir>/maps.
func (r *Reader) Mappings() ([]Mapping, error) {
	return ReadMaps(r.path("maps"))
}

// MappingsString decodes <dir>/maps and renders the named mappings as a
// sep-delimited table.
func (r *Reader) MappingsString(sep rune) (string, error) {
	ms, err := r.Mappings()
	if err != nil {
		return "", err
	}
	return MappingTable(sep, ms), nil
}

// OomScore decodes <dir>/oom_score.
func (r *Reader) OomScore() (int32, error) {
	return ReadOomScore(r.path("oom_score"))
}

// Smaps is reserved for per-region accounting from <dir>/smaps.
// TODO: decode the Size/Rss/Pss/Swap blocks into a []SmapsRegion.
func (r *Reader) Smaps() (string, error) {
	return "", ErrNotImplemented
}

// ClockTicks returns the number of clock ticks per second used by the
// stat time fields. CLK_TCK overrides it; otherwise 100, the value every
// mainstream Linux architecture reports for sysconf(_SC_CLK_TCK).
func ClockTicks() uint64 {
	if v, err := strconv.ParseUint(os.Getenv("CLK_TCK"), 10, 64); err == nil && v > 0 {
		return v
	}
	return 100
}
