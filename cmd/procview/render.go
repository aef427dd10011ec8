//go:build linux

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/ja7ad/procview/pkg/system/proc"
	"github.com/ja7ad/procview/pkg/types"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B4BEFE"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6ADC8"))
)

func render(w io.Writer, format, title string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatTable:
		return renderTable(w, title, v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// renderTable prints a struct as FIELD/VALUE rows keyed by json tag. Styling
// stays on the title line; escape codes inside tabwriter cells break alignment.
func renderTable(w io.Writer, title string, v any) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		_, err := fmt.Fprintf(w, "%s %s\n", titleStyle.Render(title), cell(rv))
		return err
	}

	if _, err := fmt.Fprintln(w, titleStyle.Render(title)); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", fieldName(f), cell(rv.Field(i)))
	}
	return tw.Flush()
}

func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func cell(v reflect.Value) string {
	if !v.IsValid() {
		return mutedStyle.Render("-")
	}
	switch x := v.Interface().(type) {
	case types.Bytes:
		if x.Uint64() < types.KiB {
			return x.String()
		}
		return fmt.Sprintf("%s (%s)", x.String(), x.Humanized())
	case proc.State:
		return x.String()
	case *string:
		if x == nil {
			return "-"
		}
		return *x
	}
	return fmt.Sprint(v.Interface())
}
