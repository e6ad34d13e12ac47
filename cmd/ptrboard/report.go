package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ukaji3/ptrboard-go/pkg/ptrboard"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/models"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/output"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/parser"
	"github.com/ukaji3/ptrboard-go/pkg/ptrboard/render"
)

func sheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets FILE",
		Short: "List the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := ptrboard.Inspect(args[0])
			if err != nil {
				return err
			}
			return writeResult(wb, func(w io.Writer) error {
				rows := make([][]string, len(wb.Sheets))
				for i, s := range wb.Sheets {
					rows[i] = []string{strconv.Itoa(i + 1), s}
				}
				return renderTable(w, []string{"#", "Sheet"}, rows)
			})
		},
	}
}

func normalizeCmd() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "normalize FILE",
		Short: "Normalize a PTR sheet into a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadSheet(args[0], sheet)
			if err != nil {
				return err
			}
			return writeResult(output.NewSheetJSON(data), func(w io.Writer) error {
				rows := make([][]string, len(data.Table.Rows))
				for i, rec := range data.Table.Rows {
					row := make([]string, len(data.Table.Columns))
					for j, col := range data.Table.Columns {
						row[j] = rec[col]
					}
					rows[i] = row
				}
				return renderTable(w, data.Table.Columns, rows)
			})
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name (required)")
	cmd.MarkFlagRequired("sheet")
	return cmd
}

func progressCmd() *cobra.Command {
	var sheet, version, chartPath string

	cmd := &cobra.Command{
		Use:   "progress FILE",
		Short: "Show the status percentages of a version per platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts := cfg.DashboardOptions()

			data, err := loadSheet(args[0], sheet)
			if err != nil {
				return err
			}
			if version, err = pickVersion(data, version); err != nil {
				return err
			}
			pcts, err := ptrboard.Percentages(data.Table, version, opts.PlatformList()...)
			if err != nil {
				return err
			}

			if chartPath != "" {
				if err := writeChart(chartPath, pcts); err != nil {
					return err
				}
				pterm.Success.WithWriter(os.Stderr).Printfln("Chart written to %s", chartPath)
			}

			return writeResult(pcts, func(w io.Writer) error {
				rows := make([][]string, len(pcts))
				for i, p := range pcts {
					rows[i] = []string{p.Platform, p.Status, fmt.Sprintf("%.2f%%", p.Percentage)}
				}
				return renderTable(w, []string{"Platform", "Status", "Percentage"}, rows)
			})
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name (required)")
	cmd.Flags().StringVar(&version, "version", "", "Version label (default: first version in the sheet)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "Also render a bar chart to this .svg or .png file")
	cmd.MarkFlagRequired("sheet")
	return cmd
}

func flowCmd() *cobra.Command {
	var sheet, version string

	cmd := &cobra.Command{
		Use:   "flow FILE",
		Short: "Build the feature to platform flow graph of a version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadSheet(args[0], sheet)
			if err != nil {
				return err
			}
			if version, err = pickVersion(data, version); err != nil {
				return err
			}
			graph, err := ptrboard.FlowGraph(data.Table, version)
			if err != nil {
				return err
			}

			return writeResult(render.Sankey(graph), func(w io.Writer) error {
				rows := make([][]string, len(graph.Nodes))
				for i, n := range graph.Nodes {
					rows[i] = []string{strconv.Itoa(n.ID), n.Label, string(n.Role), strconv.Itoa(n.Incoming), strconv.Itoa(n.Outgoing)}
				}
				return renderTable(w, []string{"ID", "Node", "Role", "In", "Out"}, rows)
			})
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name (required)")
	cmd.Flags().StringVar(&version, "version", "", "Version label (default: first version in the sheet)")
	cmd.MarkFlagRequired("sheet")
	return cmd
}

func overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview FILE",
		Short: "Show the overview heatmaps of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			blocks, err := ptrboard.LoadOverview(args[0], cfg.DashboardOptions())
			if err != nil {
				return err
			}

			return writeResult(render.Heatmaps(blocks), func(w io.Writer) error {
				for _, hm := range blocks {
					fmt.Fprintf(w, "%s (%s)\n", hm.Title, hm.Range)
					if err := renderTable(w, append([]string{parser.SheetNameColumn}, hm.Metrics...), heatmapRows(hm)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func loadSheet(path, sheet string) (*models.SheetData, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	data, err := ptrboard.Load(path, sheet, cfg.DashboardOptions().Normalize)
	if err != nil {
		return nil, err
	}
	printWarnings(data.Warnings)
	return data, nil
}

func pickVersion(data *models.SheetData, version string) (string, error) {
	if version != "" {
		return version, nil
	}
	if len(data.Versions) == 0 {
		return "", fmt.Errorf("sheet %q has no versions; pass --version", data.Sheet)
	}
	return data.Versions[0], nil
}

func writeChart(path string, pcts []models.Percentage) error {
	format, err := render.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	if err := render.ProgressChart(f, pcts, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func heatmapRows(hm models.Heatmap) [][]string {
	rows := make([][]string, len(hm.Sheets))
	for i, name := range hm.Sheets {
		row := []string{name}
		for _, v := range hm.Values[i] {
			if v == nil {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%.2f%%", *v))
		}
		rows[i] = row
	}
	return rows
}
