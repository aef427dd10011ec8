package proc

import (
	"io"
	"strconv"
	"strings"

	"github.com/ja7ad/procview/pkg/types"
)

// MemoryUsageStatistics mirrors /proc/<pid>/statm with page counts scaled to bytes.
type MemoryUsageStatistics struct {
	TotalProgram   types.Bytes `json:"total_program" yaml:"total_program"`
	ResidentSet    types.Bytes `json:"resident_set" yaml:"resident_set"`
	ResidentShared types.Bytes `json:"resident_shared" yaml:"resident_shared"`
	Text           types.Bytes `json:"text" yaml:"text"`
	Data           types.Bytes `json:"data" yaml:"data"`
}

// statm columns; lib (4) and dt (6) are unused since Linux 2.6.
const (
	statmSize = iota
	statmResident
	statmShared
	statmText
	_
	statmData
)

// DecodeStatm parses the single statm line, multiplying each page count by pageSize.
func DecodeStatm(r io.Reader, pageSize uint64) (MemoryUsageStatistics, error) {
	line, err := firstLine(r, "statm")
	if err != nil {
		return MemoryUsageStatistics{}, err
	}
	fs := strings.Fields(line)
	if len(fs) <= statmData {
		return MemoryUsageStatistics{}, parseErr("statm", line, ErrShortStatm)
	}

	pages := func(idx int) (types.Bytes, error) {
		n, err := strconv.ParseUint(fs[idx], 10, 64)
		if err != nil {
			return 0, parseErr("statm", line, err)
		}
		b, err := types.Scale(n, pageSize)
		if err != nil {
			return 0, parseErr("statm", line, err)
		}
		return b, nil
	}

	var m MemoryUsageStatistics
	for _, f := range []struct {
		idx int
		dst *types.Bytes
	}{
		{statmSize, &m.TotalProgram},
		{statmResident, &m.ResidentSet},
		{statmShared, &m.ResidentShared},
		{statmText, &m.Text},
		{statmData, &m.Data},
	} {
		if *f.dst, err = pages(f.idx); err != nil {
			return MemoryUsageStatistics{}, err
		}
	}
	return m, nil
}

// ReadStatm decodes the statm file at path.
func ReadStatm(path string, pageSize uint64) (MemoryUsageStatistics, error) {
	return readFile(path, func(r io.Reader) (MemoryUsageStatistics, error) {
		return DecodeStatm(r, pageSize)
	})
}
