// Package proc decodes the per-process pseudo-files under /proc/<pid> into
// typed, unit-normalised records. It reads only; nothing is cached apart from
// the page size, which pkg/system/pagesize resolves once per process.
//
// # Files and records
//
//	io         -> IoStatistics           "key: value" counters
//	stat       -> ProcessStat            one line, 52 space-separated fields
//	statm      -> MemoryUsageStatistics  page counts scaled to bytes
//	status     -> ProcessStatus          "Key:\tvalue", memory as "<n> kB"
//	maps       -> []Mapping              one line per mapped region
//	oom_score  -> int32
//	cgroup     -> CgroupInfo             with mountinfo, via pkg/system/cgroup
//	smaps      -> not implemented (Reader.Smaps returns ErrNotImplemented)
//
// Every file has a stream decoder (DecodeIo, DecodeStat, ...) that takes an
// io.Reader, and a path form (ReadIo, ReadStat, ...) that opens the file,
// decodes it and closes it before returning. Reader binds the path forms to a
// process directory and a page size provider:
//
//	r := proc.Self(proc.DefaultRoot)
//	st, err := r.Stat()
//	if err != nil { ... }
//	fmt.Println(st.State, st.ResidentSetSize.Humanized())
//
// Fixture directories work the same way:
//
//	r := proc.NewReader("testdata", pagesize.Fixed(4096))
//
// # Errors
//
//   - ErrIO: open or read failed; the *fs.PathError is preserved, so
//     errors.Is(err, fs.ErrNotExist) detects a process that has exited.
//   - ErrParse: the content broke the grammar; errors.As with *ParseError
//     gives the source file kind and the offending line.
//   - pagesize.ErrCapability: the page size is unknown. stat and statm refuse
//     to guess.
//
// No decoder returns a partially filled record together with an error.
//
// # Key/value files
//
// io and status are scanned line by line in any order. Recognised keys fill
// their field; unknown keys are skipped so older and newer kernels decode.
//
// # Limitations
//
// stat is split on single spaces at fixed offsets. A comm containing a space
// (for example "(Web Content)") shifts the later fields and fails to decode.
package proc
