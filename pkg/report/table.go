package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/halstead/pkg/halstead"
)

const (
	realDigits = 2
	bugsDigits = 4
	indentUnit = "  "
)

// tableColumns are the metrics shown in the text table, in column order.
var tableColumns = []halstead.MetricID{
	halstead.DistinctOperators,
	halstead.DistinctOperands,
	halstead.TotalOperators,
	halstead.TotalOperands,
	halstead.Vocabulary,
	halstead.Length,
	halstead.Volume,
	halstead.Difficulty,
	halstead.Effort,
	halstead.Time,
	halstead.Bugs,
}

// Table writes one go-pretty table per result.
func (r *Renderer) Table(w io.Writer, results []Result) error {
	for i, res := range results {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("write table: %w", err)
			}
		}

		if _, err := fmt.Fprintln(w, r.renderTable(res)); err != nil {
			return fmt.Errorf("write table: %w", err)
		}
	}

	return nil
}

func (r *Renderer) renderTable(res Result) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.SetTitle(res.Source)

	header := table.Row{"Scope", "Kind"}
	for _, id := range tableColumns {
		header = append(header, r.schema.Definition(id).Label)
	}

	header = append(header, "Effort level")
	tbl.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(tableColumns))
	for i := range tableColumns {
		configs = append(configs, table.ColumnConfig{Number: i + 3, Align: text.AlignRight})
	}

	tbl.SetColumnConfigs(configs)

	rows := Flatten(res.Root)
	for _, row := range rows {
		line := table.Row{strings.Repeat(indentUnit, row.Depth) + row.ID, row.Kind}
		for _, id := range tableColumns {
			line = append(line, r.FormatValue(id, row.Values[id]))
		}

		line = append(line, Assess(row.Values).Effort)
		tbl.AppendRow(line)
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d scopes", len(rows))})

	return tbl.Render()
}

// FormatValue renders v for display: counts with thousands separators,
// reals with two decimals and bugs with four.
func (r *Renderer) FormatValue(id halstead.MetricID, v float64) string {
	switch {
	case r.schema.Kind(id) == halstead.KindIntegerCount:
		return formatCount(v)
	case id == halstead.Bugs:
		return humanize.CommafWithDigits(roundTo(v, bugsDigits), bugsDigits)
	default:
		return humanize.CommafWithDigits(roundTo(v, realDigits), realDigits)
	}
}

// formatCount falls back to float formatting outside the int64 range.
func formatCount(v float64) string {
	if v >= math.MaxInt64 || v <= math.MinInt64 {
		return humanize.Commaf(math.Round(v))
	}

	return humanize.Comma(int64(math.Round(v)))
}

// roundTo rounds v half away from zero to digits decimals;
// CommafWithDigits only truncates.
func roundTo(v float64, digits int) float64 {
	scale := math.Pow10(digits)

	scaled := math.Round(v * scale)
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return v
	}

	return scaled / scale
}

// SchemaTable writes the metric catalogue as a table.
func (r *Renderer) SchemaTable(w io.Writer) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Header = text.FormatDefault
	tbl.SetTitle("Halstead metrics")
	tbl.AppendHeader(table.Row{"Key", "Label", "Kind", "Class", "Aggregation", "Dependencies"})

	for _, def := range r.schema.Definitions() {
		deps := make([]string, 0, len(def.Dependencies))
		for _, dep := range def.Dependencies {
			deps = append(deps, dep.ShortName())
		}

		tbl.AppendRow(table.Row{def.ID, def.Label, def.Kind, def.Class, def.Aggregation, strings.Join(deps, ", ")})
	}

	if _, err := fmt.Fprintln(w, tbl.Render()); err != nil {
		return fmt.Errorf("write schema table: %w", err)
	}

	return nil
}
