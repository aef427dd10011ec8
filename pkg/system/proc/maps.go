package proc

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ja7ad/procview/pkg/types"
)

// Permission is a bit set of mapping access flags.
type Permission uint8

const (
	PermRead Permission = 1 << iota
	PermWrite
	PermExecute
	PermShared
	PermPrivate
)

// Has reports whether every bit of q is set in p.
func (p Permission) Has(q Permission) bool { return p&q == q }

// String renders p in maps notation, e.g. "r-xp".
func (p Permission) String() string {
	b := []byte("----")
	if p.Has(PermRead) {
		b[0] = 'r'
	}
	if p.Has(PermWrite) {
		b[1] = 'w'
	}
	if p.Has(PermExecute) {
		b[2] = 'x'
	}
	switch {
	case p.Has(PermShared):
		b[3] = 's'
	case p.Has(PermPrivate):
		b[3] = 'p'
	}
	return string(b)
}

// ParsePermissions reads the four-character permission column.
func ParsePermissions(s string) (Permission, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("permissions %q: want 4 characters", s)
	}
	var p Permission
	if s[0] == 'r' {
		p |= PermRead
	}
	if s[1] == 'w' {
		p |= PermWrite
	}
	if s[2] == 'x' {
		p |= PermExecute
	}
	switch s[3] {
	case 's':
		p |= PermShared
	case 'p':
		p |= PermPrivate
	}
	return p, nil
}

// Device is a major:minor device number pair.
type Device struct {
	Major uint32
	Minor uint32
}

func (d Device) String() string { return fmt.Sprintf("%02x:%02x", d.Major, d.Minor) }

// ParseDevice reads "major:minor". The kernel prints both halves in hex.
func ParseDevice(s string) (Device, error) {
	maj, mnr, ok := strings.Cut(s, ":")
	if !ok {
		return Device{}, fmt.Errorf("device %q: %w", s, ErrNoColon)
	}
	ma, err := strconv.ParseUint(maj, 16, 32)
	if err != nil {
		return Device{}, fmt.Errorf("device major: %w", err)
	}
	mi, err := strconv.ParseUint(mnr, 16, 32)
	if err != nil {
		return Device{}, fmt.Errorf("device minor: %w", err)
	}
	return Device{Major: uint32(ma), Minor: uint32(mi)}, nil
}

// ParsedMapping is one /proc/<pid>/maps line with every column kept.
type ParsedMapping struct {
	Start       uint64
	End         uint64
	Permissions Permission
	Offset      uint64
	Device      Device
	Inode       uint64
	Pathname    *string
}

func (m ParsedMapping) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%x-%x %s %x %s %d", m.Start, m.End, m.Permissions, m.Offset, m.Device, m.Inode)
	if m.Pathname != nil {
		b.WriteByte(' ')
		b.WriteString(*m.Pathname)
	}
	return b.String()
}

// ToMapping drops the address, offset, device and inode columns.
func (m ParsedMapping) ToMapping() Mapping {
	return Mapping{
		Size:     types.Bytes(m.End - m.Start),
		Read:     m.Permissions.Has(PermRead),
		Write:    m.Permissions.Has(PermWrite),
		Execute:  m.Permissions.Has(PermExecute),
		Shared:   m.Permissions.Has(PermShared),
		Private:  m.Permissions.Has(PermPrivate),
		Pathname: m.Pathname,
	}
}

// Mapping is the public view of one mapped region.
// Pathname is nil for anonymous regions without a name.
type Mapping struct {
	Size     types.Bytes `json:"size" yaml:"size"`
	Read     bool        `json:"read" yaml:"read"`
	Write    bool        `json:"write" yaml:"write"`
	Execute  bool        `json:"execute" yaml:"execute"`
	Shared   bool        `json:"shared" yaml:"shared"`
	Private  bool        `json:"private" yaml:"private"`
	Pathname *string     `json:"pathname" yaml:"pathname"`
}

// Path returns the pathname and whether one is present.
func (m Mapping) Path() (string, bool) {
	if m.Pathname == nil {
		return "", false
	}
	return *m.Pathname, true
}

var errShortMapping = errors.New("want start-end perms offset dev inode [pathname]")

// nextToken splits off the next blank-separated token of s.
func nextToken(s string) (tok, rest string) {
	s = strings.TrimLeft(s, " \t")
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// ParseMappingLine parses one maps line. Everything after the inode column,
// trimmed, is the pathname, so names with spaces and " (deleted)" survive.
func ParseMappingLine(line string) (ParsedMapping, error) {
	var cols [5]string
	rest := line
	for i := range cols {
		cols[i], rest = nextToken(rest)
		if cols[i] == "" {
			return ParsedMapping{}, parseErr("maps", line, errShortMapping)
		}
	}

	var (
		m   ParsedMapping
		err error
	)
	fail := func(err error) (ParsedMapping, error) {
		return ParsedMapping{}, parseErr("maps", line, err)
	}

	lo, hi, ok := strings.Cut(cols[0], "-")
	if !ok {
		return fail(fmt.Errorf("address range %q: missing '-'", cols[0]))
	}
	if m.Start, err = strconv.ParseUint(lo, 16, 64); err != nil {
		return fail(fmt.Errorf("start address: %w", err))
	}
	if m.End, err = strconv.ParseUint(hi, 16, 64); err != nil {
		return fail(fmt.Errorf("end address: %w", err))
	}
	if m.Start > m.End {
		return fail(fmt.Errorf("start %x after end %x", m.Start, m.End))
	}
	if m.Permissions, err = ParsePermissions(cols[1]); err != nil {
		return fail(err)
	}
	if m.Offset, err = strconv.ParseUint(cols[2], 16, 64); err != nil {
		return fail(fmt.Errorf("offset: %w", err))
	}
	if m.Device, err = ParseDevice(cols[3]); err != nil {
		return fail(err)
	}
	if m.Inode, err = strconv.ParseUint(cols[4], 10, 64); err != nil {
		return fail(fmt.Errorf("inode: %w", err))
	}
	if path := strings.TrimSpace(rest); path != "" {
		m.Pathname = &path
	}
	return m, nil
}

// DecodeMaps parses every line; the first malformed line aborts the decode.
func DecodeMaps(r io.Reader) ([]Mapping, error) {
	var out []Mapping
	err := eachLine(r, func(line string) error {
		pm, err := ParseMappingLine(line)
		if err != nil {
			return err
		}
		out = append(out, pm.ToMapping())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadMaps decodes the maps file at path.
func ReadMaps(path string) ([]Mapping, error) {
	return readFile(path, DecodeMaps)
}

var mappingColumns = []string{"size", "read", "write", "execute", "shared", "private", "pathname"}

// WriteMappingTable writes a header row and one sep-delimited row per
// mapping that has a pathname. Anonymous mappings are left out.
func WriteMappingTable(w io.Writer, sep rune, mappings []Mapping) error {
	var b strings.Builder
	for i, c := range mappingColumns {
		if i > 0 {
			b.WriteRune(sep)
		}
		b.WriteString(c)
	}
	b.WriteByte('\n')

	for _, m := range mappings {
		path, ok := m.Path()
		if !ok {
			continue
		}
		for i, v := range []string{
			m.Size.String(),
			strconv.FormatBool(m.Read),
			strconv.FormatBool(m.Write),
			strconv.FormatBool(m.Execute),
			strconv.FormatBool(m.Shared),
			strconv.FormatBool(m.Private),
			path,
		} {
			if i > 0 {
				b.WriteRune(sep)
			}
			b.WriteString(v)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// MappingTable returns the WriteMappingTable rendering as a string.
func MappingTable(sep rune, mappings []Mapping) string {
	var b strings.Builder
	_ = WriteMappingTable(&b, sep, mappings)
	return b.String()
}
