package proc

import (
	"io"
	"strconv"
	"strings"
)

// IoStatistics mirrors /proc/<pid>/io (rchar, wchar, syscr, syscw, read_bytes,
// write_bytes, cancelled_write_bytes). Keys missing from the input stay 0.
type IoStatistics struct {
	CharactersRead      uint64 `json:"characters_read" yaml:"characters_read"`
	CharactersWritten   uint64 `json:"characters_written" yaml:"characters_written"`
	ReadSyscalls        uint64 `json:"read_syscalls" yaml:"read_syscalls"`
	WriteSyscalls       uint64 `json:"write_syscalls" yaml:"write_syscalls"`
	BytesRead           uint64 `json:"bytes_read" yaml:"bytes_read"`
	BytesWritten        uint64 `json:"bytes_written" yaml:"bytes_written"`
	CancelledWriteBytes uint64 `json:"cancelled_write_bytes" yaml:"cancelled_write_bytes"`
}

// field returns the destination for a recognised key, or nil.
func (s *IoStatistics) field(key string) *uint64 {
	switch key {
	case "rchar":
		return &s.CharactersRead
	case "wchar":
		return &s.CharactersWritten
	case "syscr":
		return &s.ReadSyscalls
	case "syscw":
		return &s.WriteSyscalls
	case "read_bytes":
		return &s.BytesRead
	case "write_bytes":
		return &s.BytesWritten
	case "cancelled_write_bytes":
		return &s.CancelledWriteBytes
	}
	return nil
}

// DecodeIo parses "key: value" lines. Unknown keys are skipped without
// looking at their value.
func DecodeIo(r io.Reader) (IoStatistics, error) {
	var s IoStatistics
	err := eachLine(r, func(line string) error {
		key, value, err := splitKey(line, "io")
		if err != nil {
			return err
		}
		dst := s.field(key)
		if dst == nil {
			return nil
		}
		// exactly one separator space, as the kernel writes it
		value = strings.TrimPrefix(value, " ")
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return parseErr("io", line, err)
		}
		*dst = n
		return nil
	})
	if err != nil {
		return IoStatistics{}, err
	}
	return s, nil
}

// ReadIo decodes the io file at path.
func ReadIo(path string) (IoStatistics, error) {
	return readFile(path, DecodeIo)
}
