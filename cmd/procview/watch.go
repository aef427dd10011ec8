//go:build linux

package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ja7ad/procview/pkg/system/proc"
	"github.com/ja7ad/procview/pkg/system/util"
	"github.com/ja7ad/procview/pkg/types"
)

type watchOpts struct {
	interval time.Duration
	samples  int
	ema      float64
	csvPath  string
}

func watchCmd(o *opts) *cobra.Command {
	var wo watchOpts

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sample stat and io periodically and print per-interval rates",
		Long: `Reads stat and io every --interval and prints CPU share, resident set,
I/O throughput and fault rates for the interval. Stops after --samples rows,
on Ctrl-C, or when the process exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if wo.interval <= 0 {
				return fmt.Errorf("interval must be > 0, got %s", wo.interval)
			}
			r, err := o.reader()
			if err != nil {
				return err
			}

			var csvW *csv.Writer
			if wo.csvPath != "" {
				if err := os.MkdirAll(filepath.Dir(wo.csvPath), 0o755); err != nil {
					return fmt.Errorf("csv: %w", err)
				}
				f, err := os.Create(wo.csvPath)
				if err != nil {
					return fmt.Errorf("csv: %w", err)
				}
				defer f.Close()
				csvW = csv.NewWriter(f)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watch(ctx, cmd.OutOrStdout(), csvW, r, wo)
		},
	}

	f := cmd.Flags()
	f.DurationVarP(&wo.interval, "interval", "i", time.Second, "sampling interval")
	f.IntVarP(&wo.samples, "samples", "s", 0, "number of rows to print (0 = until interrupted)")
	f.Float64Var(&wo.ema, "ema", 0, "EMA smoothing factor for the CPU share in (0,1]; 0 disables")
	f.StringVar(&wo.csvPath, "csv", "", "also write rows to this CSV file")
	return cmd
}

type sample struct {
	at   time.Time
	stat proc.ProcessStat
	io   proc.IoStatistics
}

// takeSample reads stat and io. io is mode 0400 for other users' processes,
// so a permission error there leaves the counters at zero.
func takeSample(r *proc.Reader) (sample, error) {
	s := sample{at: time.Now()}
	var err error
	if s.stat, err = r.Stat(); err != nil {
		return sample{}, err
	}
	if s.io, err = r.IoStatistics(); err != nil {
		if !errors.Is(err, fs.ErrPermission) {
			return sample{}, err
		}
		slog.Debug("io counters unavailable", "dir", r.Dir(), "err", err)
	}
	return s, nil
}

type rates struct {
	cpu            float64
	rss            types.Bytes
	readPS         float64
	writePS        float64
	minPS, majPS   float64
	threads        uint32
	intervalSecond float64
}

func computeRates(prev, cur sample, clk uint64, ncpu int) rates {
	dt := cur.at.Sub(prev.at).Seconds()
	ticks := util.DeltaU64(cur.stat.UserTime+cur.stat.KernelTime, prev.stat.UserTime+prev.stat.KernelTime)
	cpuSec := util.SafeDiv(float64(ticks), float64(clk))

	return rates{
		cpu:            util.Clamp01(util.SafeDiv(cpuSec, float64(ncpu)*dt)),
		rss:            cur.stat.ResidentSetSize,
		readPS:         util.PerSecond(cur.io.BytesRead, prev.io.BytesRead, dt),
		writePS:        util.PerSecond(cur.io.BytesWritten, prev.io.BytesWritten, dt),
		minPS:          util.PerSecond(cur.stat.MinorFaults, prev.stat.MinorFaults, dt),
		majPS:          util.PerSecond(cur.stat.MajorFaults, prev.stat.MajorFaults, dt),
		threads:        cur.stat.Threads,
		intervalSecond: dt,
	}
}

func watch(ctx context.Context, w io.Writer, csvW *csv.Writer, r *proc.Reader, wo watchOpts) error {
	prev, err := takeSample(r)
	if err != nil {
		return err
	}

	var smooth *util.EMA
	if wo.ema > 0 {
		smooth = util.NewEMA(wo.ema)
	}
	clk, ncpu := proc.ClockTicks(), runtime.NumCPU()
	slog.Debug("watch", "dir", r.Dir(), "interval", wo.interval, "clk_tck", clk, "cpus", ncpu)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tCPU\tRSS\tREAD/s\tWRITE/s\tMINFLT/s\tMAJFLT/s\tTHREADS")
	fmt.Fprintln(tw, "----\t---\t---\t------\t-------\t--------\t--------\t-------")
	tw.Flush()
	if csvW != nil {
		_ = csvW.Write([]string{
			"time", "cpu", "rss_bytes", "read_bytes_per_sec", "write_bytes_per_sec",
			"minflt_per_sec", "majflt_per_sec", "threads", "interval_sec",
		})
		csvW.Flush()
	}

	ticker := time.NewTicker(wo.interval)
	defer ticker.Stop()

	for n := 0; wo.samples <= 0 || n < wo.samples; {
		select {
		case <-ctx.Done():
			slog.Info("interrupted")
			return nil
		case <-ticker.C:
		}

		cur, err := takeSample(r)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || !r.Exists() {
				fmt.Fprintln(w, "# process exited")
				return nil
			}
			slog.Warn("sample error", "err", err)
			continue
		}

		rt := computeRates(prev, cur, clk, ncpu)
		if smooth != nil {
			rt.cpu = smooth.Next(rt.cpu)
		}
		ts := cur.at.Format("2006-01-02 15:04:05")

		fmt.Fprintf(tw, "%s\t%.2f%%\t%s\t%s\t%s\t%.1f\t%.1f\t%d\n",
			ts, rt.cpu*100, rt.rss.Humanized(),
			types.Bytes(rt.readPS).Humanized(), types.Bytes(rt.writePS).Humanized(),
			rt.minPS, rt.majPS, rt.threads,
		)
		tw.Flush()

		if csvW != nil {
			_ = csvW.Write([]string{
				ts,
				strconv.FormatFloat(rt.cpu, 'f', 4, 64),
				rt.rss.String(),
				strconv.FormatFloat(rt.readPS, 'f', 1, 64),
				strconv.FormatFloat(rt.writePS, 'f', 1, 64),
				strconv.FormatFloat(rt.minPS, 'f', 2, 64),
				strconv.FormatFloat(rt.majPS, 'f', 2, 64),
				strconv.FormatUint(uint64(rt.threads), 10),
				strconv.FormatFloat(rt.intervalSecond, 'f', 3, 64),
			})
			csvW.Flush()
		}

		prev = cur
		n++
	}
	return nil
}
