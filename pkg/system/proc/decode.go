package proc

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// readFile opens path, runs decode over it and closes it on every exit path.
func readFile[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, ioErr(err)
	}
	defer func() {
		_ = f.Close()
	}()
	return decode(f)
}

// eachLine calls fn for every non-blank line; a read failure becomes ErrIO.
func eachLine(r io.Reader, fn func(line string) error) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return ioErr(err)
	}
	return nil
}

// firstLine returns the first line of r, or ErrEmpty wrapped for source.
func firstLine(r io.Reader, source string) (string, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", ioErr(err)
		}
		return "", parseErr(source, "", ErrEmpty)
	}
	return sc.Text(), nil
}

// splitKey splits "key: value" at the first colon.
func splitKey(line, source string) (key, value string, err error) {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return "", "", parseErr(source, line, ErrNoColon)
	}
	return line[:i], line[i+1:], nil
}
