//go:build linux

package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ja7ad/procview/pkg/system/proc"
)

// recordCmd wires one Reader method to a subcommand that renders its result.
func recordCmd[T any](o *opts, use, short string, read func(*proc.Reader) (T, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := o.reader()
			if err != nil {
				return err
			}
			v, err := read(r)
			if err != nil {
				return fmt.Errorf("%s: %w", use, err)
			}
			return render(cmd.OutOrStdout(), o.format, use, v)
		},
	}
}

func mapsCmd(o *opts) *cobra.Command {
	var sep string

	cmd := &cobra.Command{
		Use:   "maps",
		Short: "Memory mappings from maps",
		Long: `Prints the memory mappings of the process.

The table format is a header plus one row per mapping that has a pathname,
columns joined by --sep. json and yaml list every mapping, anonymous ones
with a null pathname.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := o.reader()
			if err != nil {
				return err
			}
			ms, err := r.Mappings()
			if err != nil {
				return fmt.Errorf("maps: %w", err)
			}
			if o.format != formatTable {
				return render(cmd.OutOrStdout(), o.format, "maps", ms)
			}
			delim, err := separator(sep)
			if err != nil {
				return err
			}
			return proc.WriteMappingTable(cmd.OutOrStdout(), delim, ms)
		},
	}
	cmd.Flags().StringVar(&sep, "sep", ",", "column separator for the table format (single character, \\t for tab)")
	return cmd
}

func separator(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("separator %q must be a single character", s)
	}
	return r, nil
}
