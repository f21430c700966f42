package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/crmchart/internal/chartconfig"
	"github.com/dbsmedya/crmchart/internal/resource"
	"github.com/dbsmedya/crmchart/internal/types"
)

// maxCellWidth caps a table cell; longer values are truncated.
const maxCellWidth = 40

var (
	describeRequest      string
	describeMetadataFile string
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Build a chart and print a summary of its series",
	Long: `Describe builds the chart exactly like build does, then prints the
chart type, axes and one table row per series point instead of JSON.

Example:
  crmchart describe --request pipeline.json`,
	RunE: runDescribe,
}

func init() {
	describeCmd.Flags().StringVarP(&describeRequest, "request", "r", "", "Path to the build request (required)")
	describeCmd.Flags().StringVar(&describeMetadataFile, "metadata-file", "", "Serve missing entity metadata from this file")
	_ = describeCmd.MarkFlagRequired("request")
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	if describeRequest == "" {
		return fmt.Errorf("--request is required")
	}

	cfg, env, err := buildChart(cmd, describeRequest, describeMetadataFile)
	if err != nil {
		return err
	}
	defer env.Close()

	writeSummary(cmd.OutOrStdout(), cfg)
	return nil
}

// writeSummary prints the chart header and its points table.
func writeSummary(w io.Writer, cfg *chartconfig.Config) {
	heading := color.New(color.FgCyan, color.OpBold)

	title := ""
	if cfg.Title != nil {
		title = cfg.Title.Text
	}
	fmt.Fprintln(w, heading.Sprint("Chart"))
	fmt.Fprintf(w, "  Title: %s\n", title)
	chartType := cfg.PrimaryKind().String()
	if cfg.Chart != nil && cfg.Chart.Type != "" {
		chartType = cfg.Chart.Type
	}
	fmt.Fprintf(w, "  Type:  %s\n", chartType)
	if len(cfg.XAxis) > 0 {
		fmt.Fprintf(w, "  Categories: %s\n", strings.Join(cfg.XAxis[0].Categories, ", "))
	}
	if tree, err := cfg.Tree(); err == nil {
		sections := make([]string, 0, len(tree))
		for k := range tree {
			sections = append(sections, k)
		}
		sort.Strings(sections)
		fmt.Fprintf(w, "  Sections: %s\n", strings.Join(sections, ", "))
	}
	fmt.Fprintln(w)

	totalLabel := resource.Default.Get(resource.TotalLabel)
	headers := []string{"Series", "Type", "Category", "Value", "Color"}
	var rows [][]string
	for _, s := range cfg.Series {
		var total float64
		for _, p := range s.Data {
			rows = append(rows, []string{s.Name, s.Type, p.Name, formatValue(p.Y), p.Color})
			if f, ok := types.ToFloat64(p.Y); ok {
				total += f
			}
		}
		if len(s.Data) > 0 {
			rows = append(rows, []string{s.Name, s.Type, totalLabel, types.ToString(total), ""})
		}
	}
	writeTable(w, heading, headers, rows)
}

// writeTable prints rows in columns sized by display width, so wide runes in
// labels keep the columns aligned.
func writeTable(w io.Writer, heading color.Style, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			row[i] = runewidth.Truncate(cell, maxCellWidth, "…")
			if cw := runewidth.StringWidth(row[i]); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	fmt.Fprintln(w, heading.Sprint(formatRow(headers, widths)))
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	fmt.Fprintln(w, formatRow(sep, widths))
	for _, row := range rows {
		fmt.Fprintln(w, formatRow(row, widths))
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no points)")
	}
}

func formatRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = runewidth.FillRight(cell, widths[i])
	}
	return strings.TrimRight(strings.Join(padded, "  "), " ")
}

func formatValue(v interface{}) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}
