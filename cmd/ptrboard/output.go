package main

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/pterm/pterm"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/output"
)

// writeResult writes v as JSON, or calls table for the table format.
func writeResult(v any, table func(w io.Writer) error) error {
	return withOutput(func(w io.Writer) error {
		switch outputFormat {
		case "json":
			data, err := output.ToJSON(v, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			_, err = fmt.Fprintln(w, string(data))
			return err
		case "table":
			return table(w)
		default:
			return fmt.Errorf("unsupported output format: %s", outputFormat)
		}
	})
}

// withOutput runs fn against --output, or stdout when unset.
func withOutput(fn func(w io.Writer) error) error {
	if outputPath == "" {
		return fn(os.Stdout)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Append(header)
	for _, row := range rows {
		table.Append(row)
	}
	return table.Render()
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		pterm.Warning.WithWriter(os.Stderr).Println(w)
	}
}
