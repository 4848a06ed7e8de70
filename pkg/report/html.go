package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/halstead/pkg/halstead"
)

const (
	topScopesLimit    = 20
	xAxisRotate       = 45
	chartWidth        = "100%"
	chartHeight       = "500px"
	emptyChartHeight  = "400px"
	scatterSymbolSize = 15
	maxSymbolSize     = 50
	bugsMultiplier    = 10

	colorGood    = "#91cc75"
	colorWarning = "#fac858"
	colorBad     = "#ee6666"
	colorPrimary = "#5470c6"
)

// HTML writes a standalone page with an effort bar chart and a volume
// versus difficulty scatter plot of every leaf scope.
func (r *Renderer) HTML(w io.Writer, results []Result) error {
	leaves := leafRows(results)

	page := components.NewPage()
	page.PageTitle = "Halstead Complexity Analysis"
	page.AddCharts(effortBarChart(leaves), volumeDifficultyChart(leaves))

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}

	return nil
}

func leafRows(results []Result) []Row {
	var leaves []Row

	for _, res := range results {
		for _, row := range Flatten(res.Root) {
			if row.Leaf {
				leaves = append(leaves, row)
			}
		}
	}

	return leaves
}

func effortColor(effort float64) string {
	switch grade(effort, effortLow, effortMedium) {
	case LevelLow:
		return colorGood
	case LevelMedium:
		return colorWarning
	default:
		return colorBad
	}
}

func effortBarChart(rows []Row) *charts.Bar {
	bar := charts.NewBar()

	if len(rows) == 0 {
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: emptyChartHeight}),
			charts.WithTitleOpts(opts.Title{Title: "Scope Effort", Subtitle: "No data"}),
		)

		return bar
	}

	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b Row) int {
		return cmp.Compare(b.Values[halstead.Effort], a.Values[halstead.Effort])
	})

	if len(sorted) > topScopesLimit {
		sorted = sorted[:topScopesLimit]
	}

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Top Scopes by Effort",
			Subtitle: "Effort = Volume x Difficulty",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Effort"}),
	)

	labels := make([]string, len(sorted))
	data := make([]opts.BarData, len(sorted))

	for i, row := range sorted {
		effort := row.Values[halstead.Effort]
		labels[i] = row.Path
		data[i] = opts.BarData{Value: effort, ItemStyle: &opts.ItemStyle{Color: effortColor(effort)}}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("Effort", data)

	return bar
}

func volumeDifficultyChart(rows []Row) *charts.Scatter {
	scatter := charts.NewScatter()

	if len(rows) == 0 {
		scatter.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: emptyChartHeight}),
			charts.WithTitleOpts(opts.Title{Title: "Volume vs Difficulty", Subtitle: "No data"}),
		)

		return scatter
	}

	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Volume vs Difficulty",
			Subtitle: "Bubble size grows with estimated bugs",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Volume", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Difficulty", Type: "value"}),
	)

	data := make([]opts.ScatterData, len(rows))

	for i, row := range rows {
		bugs := row.Values[halstead.Bugs]
		data[i] = opts.ScatterData{
			Value:      []any{row.Values[halstead.Volume], row.Values[halstead.Difficulty], row.Path},
			SymbolSize: min(scatterSymbolSize+int(bugs*bugsMultiplier), maxSymbolSize),
		}
	}

	scatter.AddSeries("Scopes", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorPrimary}))

	return scatter
}
