package cgroup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DecodeMembership(t *testing.T) {
	in := "12:pids:/user.slice\n" +
		"11:cpu,cpuacct:/\n" +
		"\n" +
		"0::/system.slice/a:b.service\n"

	ms, err := DecodeMembership(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, ms, 3)

	assert.Equal(t, Membership{HierarchyID: 12, Controllers: []string{"pids"}, Path: "/user.slice"}, ms[0])
	assert.Equal(t, []string{"cpu", "cpuacct"}, ms[1].Controllers)
	assert.Nil(t, ms[2].Controllers)
	assert.Equal(t, "/system.slice/a:b.service", ms[2].Path)
	assert.Equal(t, "11:cpu,cpuacct:/", ms[1].String())

	p, ok := Unified(ms)
	assert.True(t, ok)
	assert.Equal(t, "/system.slice/a:b.service", p)
}

func Test_DecodeMembership_Malformed(t *testing.T) {
	for _, in := range []string{"12:pids", "x::/", "-1::/"} {
		ms, err := DecodeMembership(strings.NewReader(in))
		assert.ErrorIs(t, err, ErrMalformed, "input %q", in)
		assert.Nil(t, ms)
	}
}

func Test_Unified_Absent(t *testing.T) {
	_, ok := Unified([]Membership{{HierarchyID: 3, Controllers: []string{"memory"}, Path: "/"}})
	assert.False(t, ok)
}

func Test_DecodeMounts(t *testing.T) {
	const (
		v2    = "30 25 0:26 / /sys/fs/cgroup rw,nosuid shared:4 - cgroup2 cgroup2 rw\n"
		v1    = "31 25 0:27 / /sys/fs/cgroup/memory rw shared:5 - cgroup cgroup rw,memory\n"
		other = "27 1 8:1 / / rw,relatime shared:1 - ext4 /dev/sda1 rw\n"
		junk  = "no separator here\n"
	)
	tests := []struct {
		name   string
		in     string
		want   Version
		mounts []string
	}{
		{"unified", other + v2, V2, []string{"/sys/fs/cgroup"}},
		{"legacy", v1 + junk, V1, []string{"/sys/fs/cgroup/memory"}},
		{"hybrid", v1 + v2, Hybrid, []string{"/sys/fs/cgroup", "/sys/fs/cgroup/memory"}},
		{"none", other, Unsupported, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ver, mounts, err := DecodeMounts(strings.NewReader(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ver)
			assert.Equal(t, tt.mounts, mounts)
		})
	}
}

func Test_Version(t *testing.T) {
	assert.Equal(t, "cgroup v2", V2.String())
	assert.Equal(t, "unsupported", Version(9).String())
	b, err := Hybrid.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "cgroup hybrid", string(b))
}

func Test_ReadMembership_Missing(t *testing.T) {
	_, err := ReadMembership(t.TempDir() + "/cgroup")
	assert.Error(t, err)
	_, _, err = ReadMounts(t.TempDir() + "/mountinfo")
	assert.Error(t, err)
}
