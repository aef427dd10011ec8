package proc

import (
	"io"
	"strconv"
	"strings"
)

// DecodeOomScore parses the single integer in oom_score. Negative values
// are accepted.
func DecodeOomScore(r io.Reader) (int32, error) {
	line, err := firstLine(r, "oom_score")
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 32)
	if err != nil {
		return 0, parseErr("oom_score", line, err)
	}
	return int32(n), nil
}

// ReadOomScore decodes the oom_score file at path.
func ReadOomScore(path string) (int32, error) {
	return readFile(path, DecodeOomScore)
}
