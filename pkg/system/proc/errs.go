package proc

import (
	"errors"
	"fmt"
)

var (
	// ErrIO indicates that a pseudo-file could not be opened or read.
	// The underlying *fs.PathError stays reachable through errors.As.
	ErrIO = errors.New("proc: read failed")

	// ErrParse indicates that a line violated the expected grammar.
	ErrParse = errors.New("proc: malformed input")

	// ErrShortStat indicates that /proc/<pid>/stat had fewer fields than expected.
	ErrShortStat = errors.New("proc: short stat")

	// ErrShortStatm indicates that /proc/<pid>/statm had fewer than six fields.
	ErrShortStatm = errors.New("proc: short statm")

	// ErrEmpty indicates that a single-line file had no content.
	ErrEmpty = errors.New("proc: empty file")

	// ErrNoColon indicates a key/value line without a ':' separator.
	ErrNoColon = errors.New("proc: missing ':'")

	// ErrNotImplemented is returned by extension points such as smaps.
	ErrNotImplemented = errors.New("proc: not implemented")
)

// ParseError carries the offending line of a failed decode.
type ParseError struct {
	Source string // io, stat, statm, status, maps, oom_score
	Line   string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("proc: parse %s: %q: %v", e.Source, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes every ParseError match ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func parseErr(source, line string, err error) error {
	return &ParseError{Source: source, Line: line, Err: err}
}

func ioErr(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}
