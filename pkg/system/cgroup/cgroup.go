// Package cgroup decodes the cgroup view of a process: its membership lines
// from /proc/<pid>/cgroup and the cgroup filesystem mounts visible in
// /proc/<pid>/mountinfo.
package cgroup

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformed is returned for a membership line that is not
// "hierarchy-ID:controller-list:path".
var ErrMalformed = errors.New("cgroup: malformed line")

type Version int

const (
	Unsupported Version = iota // no cgroup mounts
	V1                         // legacy multi-hierarchy cgroup v1
	V2                         // unified cgroup v2
	Hybrid                     // both v1 and v2 present
)

func (v Version) String() string {
	switch v {
	case V1:
		return "cgroup v1"
	case V2:
		return "cgroup v2"
	case Hybrid:
		return "cgroup hybrid"
	default:
		return "unsupported"
	}
}

func (v Version) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Membership is one line of /proc/<pid>/cgroup. On the unified hierarchy
// HierarchyID is 0 and Controllers is empty.
type Membership struct {
	HierarchyID int      `json:"hierarchy_id" yaml:"hierarchy_id"`
	Controllers []string `json:"controllers" yaml:"controllers"`
	Path        string   `json:"path" yaml:"path"`
}

func (m Membership) String() string {
	return strconv.Itoa(m.HierarchyID) + ":" + strings.Join(m.Controllers, ",") + ":" + m.Path
}

// DecodeMembership parses every line of a cgroup file. The path keeps any
// colons it contains.
func DecodeMembership(r io.Reader) ([]Membership, error) {
	var out []Membership
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: %q", ErrMalformed, line)
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil || id < 0 {
			return nil, fmt.Errorf("%w: hierarchy id in %q", ErrMalformed, line)
		}
		m := Membership{HierarchyID: id, Path: parts[2]}
		if parts[1] != "" {
			m.Controllers = strings.Split(parts[1], ",")
		}
		out = append(out, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan cgroup: %w", err)
	}
	return out, nil
}

// Unified returns the cgroup v2 path of the process, if it has one.
func Unified(ms []Membership) (string, bool) {
	for _, m := range ms {
		if m.HierarchyID == 0 && len(m.Controllers) == 0 {
			return m.Path, true
		}
	}
	return "", false
}

// DecodeMounts scans mountinfo for cgroup filesystems and returns the
// detected version with the mount points of each kind, v2 first.
//
// The line format has a " - fstype " separator; only fstype and the mount
// point (field 5 before the separator) are used.
func DecodeMounts(r io.Reader) (Version, []string, error) {
	var (
		v1Pts []string
		v2Pts []string
		sc    = bufio.NewScanner(r)
	)
	for sc.Scan() {
		line := sc.Text()
		i := strings.LastIndex(line, " - ")
		if i < 0 {
			continue
		}
		fields := strings.Fields(line[i+3:])
		if len(fields) < 1 {
			continue
		}
		pre := strings.Fields(line[:i])
		if len(pre) < 5 {
			continue
		}

		switch fields[0] {
		case "cgroup2":
			v2Pts = append(v2Pts, pre[4])
		case "cgroup":
			v1Pts = append(v1Pts, pre[4])
		}
	}
	if err := sc.Err(); err != nil {
		return Unsupported, nil, fmt.Errorf("scan mountinfo: %w", err)
	}

	mounts := append(v2Pts, v1Pts...)
	switch {
	case len(v1Pts) > 0 && len(v2Pts) > 0:
		return Hybrid, mounts, nil
	case len(v2Pts) > 0:
		return V2, mounts, nil
	case len(v1Pts) > 0:
		return V1, mounts, nil
	default:
		return Unsupported, nil, nil
	}
}

// ReadMembership decodes the cgroup file at path.
func ReadMembership(path string) ([]Membership, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return DecodeMembership(f)
}

// ReadMounts decodes the mountinfo file at path.
func ReadMounts(path string) (Version, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unsupported, nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return DecodeMounts(f)
}
