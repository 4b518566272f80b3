package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/countrytech/internal/analysis"
	"github.com/KaramelBytes/countrytech/internal/dataset"
)

var heading = color.New(color.FgCyan, color.Bold)

// Heading prints a section title.
func Heading(w io.Writer, format string, args ...any) {
	heading.Fprintf(w, "\n"+format+"\n\n", args...)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	return tw
}

func formatNum(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// WriteTable renders key columns followed by every (Metric, Year) column
// and, once computed, the mean columns.
func WriteTable(w io.Writer, t *dataset.Table) {
	header := append([]string{}, keyHeaders...)
	for _, c := range t.Columns {
		header = append(header, c.String())
	}
	withMeans := t.HasMeans()
	if withMeans {
		for _, m := range dataset.Metrics {
			header = append(header, m.MeanColumn())
		}
	}
	tw := newTable(w, header)
	for _, r := range t.Rows {
		row := []string{r.Key.Region, r.Key.SubRegion, r.Key.Country}
		for _, v := range r.Values {
			row = append(row, formatNum(v))
		}
		if withMeans {
			for _, m := range dataset.Metrics {
				row = append(row, formatNum(r.Means[m]))
			}
		}
		tw.Append(row)
	}
	tw.Render()
}

// WriteQuery renders a single-metric slice with one column per year.
func WriteQuery(w io.Writer, t *dataset.Table) {
	header := append([]string{}, keyHeaders...)
	for _, c := range t.Columns {
		header = append(header, strconv.Itoa(c.Year))
	}
	tw := newTable(w, header)
	for _, r := range t.Rows {
		row := []string{r.Key.Region, r.Key.SubRegion, r.Key.Country}
		for _, v := range r.Values {
			row = append(row, formatNum(v))
		}
		tw.Append(row)
	}
	tw.Render()
}

// WriteDescribe renders one line of statistics per (Metric, Year) column.
func WriteDescribe(w io.Writer, stats []analysis.ColumnStats) {
	tw := newTable(w, []string{"metric", "year", "count", "mean", "std", "min", "25%", "50%", "75%", "max"})
	for _, s := range stats {
		tw.Append([]string{
			string(s.Column.Metric),
			strconv.Itoa(s.Column.Year),
			strconv.Itoa(s.Count),
			formatNum(s.Mean),
			formatNum(s.Std),
			formatNum(s.Min),
			formatNum(s.Q1),
			formatNum(s.Median),
			formatNum(s.Q3),
			formatNum(s.Max),
		})
	}
	tw.Render()
}

// WriteMeans renders the key columns with both mean columns.
func WriteMeans(w io.Writer, t *dataset.Table) error {
	if !t.HasMeans() {
		return analysis.ErrMeansMissing
	}
	header := append([]string{}, keyHeaders...)
	for _, m := range dataset.Metrics {
		header = append(header, m.MeanColumn())
	}
	tw := newTable(w, header)
	for _, r := range t.Rows {
		row := []string{r.Key.Region, r.Key.SubRegion, r.Key.Country}
		for _, m := range dataset.Metrics {
			row = append(row, formatNum(r.Means[m]))
		}
		tw.Append(row)
	}
	tw.Render()
	return nil
}

// WriteMedianFilter renders the countries above the median of m's mean.
func WriteMedianFilter(w io.Writer, m dataset.Metric, median float64, rows []analysis.CountryMean) {
	fmt.Fprintf(w, "median %s: %s\n", m.MeanColumn(), formatNum(median))
	tw := newTable(w, []string{dataset.CountryColumn, m.MeanColumn()})
	for _, r := range rows {
		tw.Append([]string{r.Country, formatNum(r.Mean)})
	}
	tw.Render()
}

// WritePivot renders the Region by Year maximum table.
func WritePivot(w io.Writer, p *Pivot) {
	header := []string{dataset.RegionColumn}
	for _, y := range p.Years {
		header = append(header, strconv.Itoa(y))
	}
	tw := newTable(w, header)
	for i, r := range p.Regions {
		row := []string{r}
		for _, v := range p.Values[i] {
			row = append(row, formatNum(v))
		}
		tw.Append(row)
	}
	tw.Render()
}
