package proc

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ja7ad/procview/pkg/types"
)

// ProcessStatus is the typed subset of /proc/<pid>/status.
// Memory fields are normalised to bytes; missing keys leave zero values.
type ProcessStatus struct {
	State                        string      `json:"state" yaml:"state"`
	FileDescriptorSlotsAllocated uint32      `json:"fd_slots_allocated" yaml:"fd_slots_allocated"`
	VirtualMemoryPeak            types.Bytes `json:"virtual_memory_peak" yaml:"virtual_memory_peak"`
	VirtualMemory                types.Bytes `json:"virtual_memory" yaml:"virtual_memory"`
	LockedMemory                 types.Bytes `json:"locked_memory" yaml:"locked_memory"`
	PinnedMemory                 types.Bytes `json:"pinned_memory" yaml:"pinned_memory"`
	ResidentSetPeak              types.Bytes `json:"resident_set_peak" yaml:"resident_set_peak"`
	ResidentSet                  types.Bytes `json:"resident_set" yaml:"resident_set"`
	ResidentSetAnonymous         types.Bytes `json:"resident_set_anonymous" yaml:"resident_set_anonymous"`
	ResidentSetFile              types.Bytes `json:"resident_set_file" yaml:"resident_set_file"`
	ResidentSetShared            types.Bytes `json:"resident_set_shared" yaml:"resident_set_shared"`
	Data                         types.Bytes `json:"data" yaml:"data"`
	Stack                        types.Bytes `json:"stack" yaml:"stack"`
	Text                         types.Bytes `json:"text" yaml:"text"`
	SharedLibraryCode            types.Bytes `json:"shared_library_code" yaml:"shared_library_code"`
	Swapped                      types.Bytes `json:"swapped" yaml:"swapped"`
	Threads                      uint32      `json:"threads" yaml:"threads"`
	ContextSwitchesVoluntary     uint64      `json:"context_switches_voluntary" yaml:"context_switches_voluntary"`
	ContextSwitchesInvoluntary   uint64      `json:"context_switches_involuntary" yaml:"context_switches_involuntary"`
}

// memoryField returns the destination for a memory-denominated key, or nil.
func (s *ProcessStatus) memoryField(key string) *types.Bytes {
	switch key {
	case "VmPeak":
		return &s.VirtualMemoryPeak
	case "VmSize":
		return &s.VirtualMemory
	case "VmLck":
		return &s.LockedMemory
	case "VmPin":
		return &s.PinnedMemory
	case "VmHWM":
		return &s.ResidentSetPeak
	case "VmRSS":
		return &s.ResidentSet
	case "RssAnon":
		return &s.ResidentSetAnonymous
	case "RssFile":
		return &s.ResidentSetFile
	case "RssShmem":
		return &s.ResidentSetShared
	case "VmData":
		return &s.Data
	case "VmStk":
		return &s.Stack
	case "VmExe":
		return &s.Text
	case "VmLib":
		return &s.SharedLibraryCode
	case "VmSwap":
		return &s.Swapped
	}
	return nil
}

// ParseMemory converts a "<n> kB|MB|GB" value to bytes. A bare number is
// taken as bytes. Leading spaces and tabs are skipped.
func ParseMemory(s string) (types.Bytes, error) {
	if s == "0 kB" {
		return 0, nil
	}
	fs := strings.Fields(s)
	var unit string
	switch len(fs) {
	case 1:
	case 2:
		unit = fs[1]
	default:
		return 0, fmt.Errorf("memory value %q: want \"<n> <unit>\"", s)
	}
	n, err := strconv.ParseUint(fs[0], 10, 64)
	if err != nil {
		return 0, err
	}
	m, err := types.Multiplier(unit)
	if err != nil {
		return 0, err
	}
	return types.Scale(n, m)
}

// DecodeStatus parses "Key:<tab>value" lines. Unknown keys are skipped.
func DecodeStatus(r io.Reader) (ProcessStatus, error) {
	var s ProcessStatus
	err := eachLine(r, func(line string) error {
		key, value, err := splitKey(line, "status")
		if err != nil {
			return err
		}
		value = strings.TrimSpace(value)

		if dst := s.memoryField(key); dst != nil {
			if *dst, err = ParseMemory(value); err != nil {
				return parseErr("status", line, err)
			}
			return nil
		}

		switch key {
		case "State":
			s.State = value
		case "FDSize":
			err = parseU32(value, &s.FileDescriptorSlotsAllocated)
		case "Threads":
			err = parseU32(value, &s.Threads)
		case "voluntary_ctxt_switches":
			s.ContextSwitchesVoluntary, err = strconv.ParseUint(value, 10, 64)
		case "nonvoluntary_ctxt_switches":
			s.ContextSwitchesInvoluntary, err = strconv.ParseUint(value, 10, 64)
		}
		if err != nil {
			return parseErr("status", line, err)
		}
		return nil
	})
	if err != nil {
		return ProcessStatus{}, err
	}
	return s, nil
}

// ReadStatus decodes the status file at path.
func ReadStatus(path string) (ProcessStatus, error) {
	return readFile(path, DecodeStatus)
}

func parseU32(s string, dst *uint32) error {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return err
	}
	*dst = uint32(n)
	return nil
}
