//go:build linux

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ja7ad/procview/pkg/system/pagesize"
	"github.com/ja7ad/procview/pkg/system/proc"
	"github.com/ja7ad/procview/pkg/system/util"
)

type opts struct {
	root     string
	pid      string
	dir      string
	format   string
	pageSize uint64
	verbose  bool
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "procview",
		Short: "Decode /proc/<pid> pseudo-files into typed records",
		Long: `procview reads the io, stat, statm, status, maps and oom_score files of a
process and prints them as unit-normalised records (bytes, clock ticks).

Examples:
  procview status
  procview stat --pid 1234 -o json
  procview maps --sep ';'
  procview statm --dir ./pkg/system/proc/testdata --page-size 4096 -o yaml
  procview watch --pid 1234 -i 500ms -s 20`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if o.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			switch o.format {
			case formatTable, formatJSON, formatYAML:
				return nil
			default:
				return fmt.Errorf("unknown format %q (want table, json or yaml)", o.format)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.root, "root", proc.DefaultRoot, "procfs mount point")
	pf.StringVarP(&o.pid, "pid", "p", "self", "process id, or 'self'")
	pf.StringVar(&o.dir, "dir", "", "process directory to read (overrides --root and --pid)")
	pf.StringVarP(&o.format, "format", "o", formatTable, "output format: table, json or yaml")
	pf.Uint64Var(&o.pageSize, "page-size", 0, "page size in bytes (0 = $PAGE_SIZE or the kernel value)")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		recordCmd(&o, "io", "I/O counters from io", (*proc.Reader).IoStatistics),
		recordCmd(&o, "stat", "Scheduling and fault counters from stat", (*proc.Reader).Stat),
		recordCmd(&o, "statm", "Memory usage from statm", (*proc.Reader).MemoryUsage),
		recordCmd(&o, "status", "Memory, thread and context switch summary from status", (*proc.Reader).Status),
		recordCmd(&o, "oom", "OOM killer score from oom_score", (*proc.Reader).OomScore),
		recordCmd(&o, "cgroup", "cgroup membership and mounted hierarchies from cgroup and mountinfo", (*proc.Reader).Cgroup),
		mapsCmd(&o),
		watchCmd(&o),
	)

	if err := root.Execute(); err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Error("process not found", "err", err)
		case errors.Is(err, proc.ErrParse):
			slog.Error("unexpected file format", "err", err)
		case errors.Is(err, pagesize.ErrCapability):
			slog.Error("page size unavailable, pass --page-size", "err", err)
		default:
			slog.Error(err.Error())
		}
		os.Exit(1)
	}
}

// reader builds the proc.Reader selected by the persistent flags.
func (o *opts) reader() (*proc.Reader, error) {
	dir := o.dir
	if dir == "" {
		name, err := util.ParsePID(o.pid)
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(o.root, name)
	}

	var pages pagesize.Provider
	if o.pageSize > 0 {
		pages = pagesize.Fixed(o.pageSize)
	}
	r := proc.NewReader(dir, pages)
	slog.Debug("reader", "dir", r.Dir(), "page_size_flag", o.pageSize)
	return r, nil
}
