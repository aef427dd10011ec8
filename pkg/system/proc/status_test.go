package proc

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ja7ad/procview/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kB = 1024

func TestReadStatus_Fixture(t *testing.T) {
	s, err := ReadStatus(filepath.Join("testdata", "status"))
	require.NoError(t, err)

	assert.Equal(t, ProcessStatus{
		State:                        "S (sleeping)",
		FileDescriptorSlotsAllocated: 256,
		VirtualMemoryPeak:            8174616 * kB,
		VirtualMemory:                8174616 * kB,
		LockedMemory:                 0,
		PinnedMemory:                 0,
		ResidentSetPeak:              921468 * kB,
		ResidentSet:                  921468 * kB,
		ResidentSetAnonymous:         878424 * kB,
		ResidentSetFile:              43044 * kB,
		ResidentSetShared:            0,
		Data:                         1316324 * kB,
		Stack:                        132 * kB,
		Text:                         4 * kB,
		SharedLibraryCode:            19872 * kB,
		Swapped:                      0,
		Threads:                      38,
		ContextSwitchesVoluntary:     52,
		ContextSwitchesInvoluntary:   3,
	}, s)
}

func TestDecodeStatus_VmRSS(t *testing.T) {
	s, err := DecodeStatus(strings.NewReader("VmRSS:    921468 kB\n"))
	require.NoError(t, err)
	assert.Equal(t, types.Bytes(921468*1024), s.ResidentSet)
}

func TestDecodeStatus_MissingKeysDefault(t *testing.T) {
	s, err := DecodeStatus(strings.NewReader("Name:\tcat\nUmask:\t0022\n"))
	require.NoError(t, err)
	assert.Zero(t, s)
	assert.Equal(t, "", s.State)
}

func TestParseMemory(t *testing.T) {
	cases := []struct {
		in   string
		want types.Bytes
	}{
		{"0 kB", 0},
		{"0 KB", 0},
		{"  \t0 kB", 0},
		{"1003180 kB", 1003180 * 1024},
		{"\t 12 MB", 12 << 20},
		{"3 gb", 3 << 30},
		{"512", 512},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMemory(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// "0 kB" has a shortcut; it must agree with the general path.
func TestParseMemory_ZeroShortcutAgrees(t *testing.T) {
	fast, err := ParseMemory("0 kB")
	require.NoError(t, err)
	slow, err := ParseMemory(" 0 kB")
	require.NoError(t, err)
	assert.Equal(t, fast, slow)
	assert.Zero(t, fast)
}

func TestParseMemory_Errors(t *testing.T) {
	_, err := ParseMemory("12 TB")
	assert.ErrorIs(t, err, types.ErrUnknownUnit)

	_, err = ParseMemory("x kB")
	assert.Error(t, err)

	_, err = ParseMemory("")
	assert.Error(t, err)

	_, err = ParseMemory("1 2 kB")
	assert.Error(t, err)

	_, err = ParseMemory("18446744073709551615 kB")
	assert.ErrorIs(t, err, types.ErrOverflow)
}

func TestDecodeStatus_Malformed(t *testing.T) {
	cases := map[string]string{
		"missing_colon": "State S (sleeping)\n",
		"bad_unit":      "VmRSS:\t921468 pages\n",
		"bad_fdsize":    "FDSize:\tmany\n",
		"bad_threads":   "Threads:\t-1\n",
		"bad_ctxt":      "voluntary_ctxt_switches:\t1.5\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := DecodeStatus(strings.NewReader("Name:\tcat\n" + in))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
			assert.Zero(t, s)
		})
	}
}

func TestDecodeStatus_UnknownUnitIsParseError(t *testing.T) {
	_, err := DecodeStatus(strings.NewReader("VmSwap:\t1 pages\n"))
	assert.ErrorIs(t, err, ErrParse)
	assert.ErrorIs(t, err, types.ErrUnknownUnit)
}
