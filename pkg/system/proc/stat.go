package proc

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ja7ad/procview/pkg/types"
)

// State is the one-letter scheduler state from the third stat field.
type State byte

const (
	StateRunning     State = 'R'
	StateSleeping    State = 'S'
	StateDiskSleep   State = 'D'
	StateZombie      State = 'Z'
	StateStopped     State = 'T'
	StateTracingStop State = 't'
	StatePaging      State = 'W'
	StateDead        State = 'X'
	StateDeadOld     State = 'x'
	StateWakeKill    State = 'K'
	StateParked      State = 'P'
	StateIdle        State = 'I'
)

var stateNames = map[State]string{
	StateRunning:     "running",
	StateSleeping:    "sleeping",
	StateDiskSleep:   "disk sleep",
	StateZombie:      "zombie",
	StateStopped:     "stopped",
	StateTracingStop: "tracing stop",
	StatePaging:      "paging",
	StateDead:        "dead",
	StateDeadOld:     "dead",
	StateWakeKill:    "wakekill",
	StateParked:      "parked",
	StateIdle:        "idle",
}

// Valid reports whether s is one of the codes documented in proc(5).
func (s State) Valid() bool {
	_, ok := stateNames[s]
	return ok
}

// String renders the state the way /proc/<pid>/status does, e.g. "S (sleeping)".
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return fmt.Sprintf("%c (%s)", s, name)
	}
	return fmt.Sprintf("%c", s)
}

func (s State) MarshalText() ([]byte, error) { return []byte{byte(s)}, nil }

// ProcessStat is the subset of /proc/<pid>/stat this package extracts.
// UserTime, KernelTime, AggregatedBlockIoDelays and GuestTime are in clock ticks.
type ProcessStat struct {
	PID                     uint32      `json:"pid" yaml:"pid"`
	State                   State       `json:"state" yaml:"state"`
	MinorFaults             uint64      `json:"minor_faults" yaml:"minor_faults"`
	MajorFaults             uint64      `json:"major_faults" yaml:"major_faults"`
	UserTime                uint64      `json:"user_time" yaml:"user_time"`
	KernelTime              uint64      `json:"kernel_time" yaml:"kernel_time"`
	Threads                 uint32      `json:"threads" yaml:"threads"`
	VirtualMemorySize       types.Bytes `json:"virtual_memory_size" yaml:"virtual_memory_size"`
	ResidentSetSize         types.Bytes `json:"resident_set_size" yaml:"resident_set_size"`
	SoftLimit               uint64      `json:"soft_limit" yaml:"soft_limit"`
	PagesSwapped            uint64      `json:"pages_swapped" yaml:"pages_swapped"`
	AggregatedBlockIoDelays uint64      `json:"aggregated_block_io_delays" yaml:"aggregated_block_io_delays"`
	GuestTime               uint64      `json:"guest_time" yaml:"guest_time"`
}

// Unlimited is the rsslim sentinel meaning no limit is set.
const Unlimited = ^uint64(0)

// SoftLimitUnlimited reports whether the rss soft limit is the sentinel.
func (s ProcessStat) SoftLimitUnlimited() bool { return s.SoftLimit == Unlimited }

// Zero-based stat field positions, see proc(5).
const (
	statPID        = 0
	statState      = 2
	statMinFlt     = 9
	statMajFlt     = 11
	statUTime      = 13
	statSTime      = 14
	statNumThreads = 19
	statVSize      = 22
	statRSS        = 23
	statRSSLim     = 24
	statNSwap      = 35
	statBlkIO      = 41
	statGuestTime  = 42
)

// DecodeStat parses the single stat line.
//
// Fields are split on single spaces at fixed offsets. A comm (field 2)
// containing a space shifts every later field and is reported as a parse
// error or yields wrong values; this is a known limitation.
func DecodeStat(r io.Reader, pageSize uint64) (ProcessStat, error) {
	line, err := firstLine(r, "stat")
	if err != nil {
		return ProcessStat{}, err
	}
	fs := strings.Split(line, " ")
	if len(fs) <= statGuestTime {
		return ProcessStat{}, parseErr("stat", line, ErrShortStat)
	}

	var firstErr error
	u64 := func(idx int) uint64 {
		n, err := strconv.ParseUint(fs[idx], 10, 64)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("field %d: %w", idx, err)
		}
		return n
	}
	u32 := func(idx int) uint32 {
		n, err := strconv.ParseUint(fs[idx], 10, 32)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("field %d: %w", idx, err)
		}
		return uint32(n)
	}

	st := ProcessStat{
		PID:                     u32(statPID),
		MinorFaults:             u64(statMinFlt),
		MajorFaults:             u64(statMajFlt),
		UserTime:                u64(statUTime),
		KernelTime:              u64(statSTime),
		Threads:                 u32(statNumThreads),
		VirtualMemorySize:       types.Bytes(u64(statVSize)),
		SoftLimit:               u64(statRSSLim),
		PagesSwapped:            u64(statNSwap),
		AggregatedBlockIoDelays: u64(statBlkIO),
		GuestTime:               u64(statGuestTime),
	}
	rssPages := u64(statRSS)
	if firstErr != nil {
		return ProcessStat{}, parseErr("stat", line, firstErr)
	}

	code := fs[statState]
	if len(code) != 1 || !State(code[0]).Valid() {
		return ProcessStat{}, parseErr("stat", line, fmt.Errorf("field %d: invalid state %q", statState, code))
	}
	st.State = State(code[0])

	if st.ResidentSetSize, err = types.Scale(rssPages, pageSize); err != nil {
		return ProcessStat{}, parseErr("stat", line, err)
	}
	return st, nil
}

// ReadStat decodes the stat file at path.
func ReadStat(path string, pageSize uint64) (ProcessStat, error) {
	return readFile(path, func(r io.Reader) (ProcessStat, error) {
		return DecodeStat(r, pageSize)
	})
}
