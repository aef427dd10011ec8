//go:build linux

package proc

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ja7ad/procview/pkg/system/cgroup"
	"github.com/ja7ad/procview/pkg/system/pagesize"
	"github.com/ja7ad/procview/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureReader() *Reader {
	return NewReader("testdata", pagesize.Fixed(4096))
}

func TestReader_Fixture(t *testing.T) {
	r := fixtureReader()
	assert.Equal(t, "testdata", r.Dir())
	assert.True(t, r.Exists())

	ioStats, err := r.IoStatistics()
	require.NoError(t, err)
	assert.Equal(t, uint64(469225655), ioStats.CharactersRead)

	st, err := r.Stat()
	require.NoError(t, err)
	assert.Equal(t, types.Bytes(206*4096), st.ResidentSetSize)

	mu, err := r.MemoryUsage()
	require.NoError(t, err)
	assert.Equal(t, types.Bytes(226084*4096), mu.ResidentSet)

	status, err := r.Status()
	require.NoError(t, err)
	assert.Equal(t, "S (sleeping)", status.State)

	ms, err := r.Mappings()
	require.NoError(t, err)
	assert.Len(t, ms, 10)

	table, err := r.MappingsString(',')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(table, "size,read,write,execute,shared,private,pathname\n"))

	oom, err := r.OomScore()
	require.NoError(t, err)
	assert.Equal(t, int32(13), oom)
}

func TestReader_PageSizeFailureIsFatal(t *testing.T) {
	r := NewReader("testdata", pagesize.Fixed(0))

	_, err := r.Stat()
	require.Error(t, err)
	assert.ErrorIs(t, err, pagesize.ErrCapability)

	_, err = r.MemoryUsage()
	assert.ErrorIs(t, err, pagesize.ErrCapability)

	// page size plays no part in these
	_, err = r.IoStatistics()
	assert.NoError(t, err)
}

func TestReader_MissingProcess(t *testing.T) {
	r := NewReader(filepath.Join(t.TempDir(), "999999"), pagesize.Fixed(4096))
	assert.False(t, r.Exists())

	_, err := r.Status()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = r.Stat()
	assert.ErrorIs(t, err, ErrIO)
}

func TestReader_Smaps(t *testing.T) {
	_, err := fixtureReader().Smaps()
	assert.True(t, errors.Is(err, ErrNotImplemented))
}

func TestForPID(t *testing.T) {
	r := ForPID(DefaultRoot, 1234)
	assert.Equal(t, "/proc/1234", r.Dir())
}

func TestClockTicks(t *testing.T) {
	t.Setenv("CLK_TCK", "")
	assert.Equal(t, uint64(100), ClockTicks())

	t.Setenv("CLK_TCK", "250")
	assert.Equal(t, uint64(250), ClockTicks())

	t.Setenv("CLK_TCK", "0")
	assert.Equal(t, uint64(100), ClockTicks())
}

func TestSelf_LiveProcess(t *testing.T) {
	if _, err := os.Stat("/proc/self/stat"); err != nil {
		t.Skipf("skipping: procfs not available: %v", err)
	}
	r := Self(DefaultRoot)

	st, err := r.Stat()
	require.NoError(t, err)
	assert.Equal(t, uint32(os.Getpid()), st.PID)
	assert.Greater(t, st.Threads, uint32(0))
	assert.Greater(t, st.ResidentSetSize, types.Bytes(0))

	status, err := r.Status()
	require.NoError(t, err)
	assert.NotEmpty(t, status.State)
	assert.Greater(t, status.ResidentSet, types.Bytes(0))

	mu, err := r.MemoryUsage()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, mu.TotalProgram, mu.ResidentSet)

	ms, err := r.Mappings()
	require.NoError(t, err)
	assert.NotEmpty(t, ms)

	if _, err := r.IoStatistics(); err != nil {
		// some sandboxes hide /proc/<pid>/io
		assert.ErrorIs(t, err, ErrIO)
	}

	_, err = r.OomScore()
	require.NoError(t, err)
}

func TestReader_Cgroup(t *testing.T) {
	info, err := fixtureReader().Cgroup()
	require.NoError(t, err)

	assert.Equal(t, cgroup.Hybrid, info.Version)
	assert.Equal(t, []string{"/sys/fs/cgroup/unified", "/sys/fs/cgroup/systemd", "/sys/fs/cgroup/cpu,cpuacct"}, info.Mounts)
	require.Len(t, info.Memberships, 4)
	assert.Equal(t, []string{"cpu", "cpuacct"}, info.Memberships[1].Controllers)
	assert.Equal(t, "/user.slice/user-1000.slice/session-2.scope", info.Unified)
}

func TestReader_CgroupMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cgroup"), []byte("garbage\n"), 0o644))

	_, err := NewReader(dir, pagesize.Fixed(4096)).Cgroup()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
	assert.ErrorIs(t, err, cgroup.ErrMalformed)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "cgroup", pe.Source)
}

func TestReader_CgroupMissingMountinfo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cgroup"), []byte("0::/\n"), 0o644))

	_, err := NewReader(dir, pagesize.Fixed(4096)).Cgroup()
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
