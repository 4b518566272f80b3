package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/countrytech/internal/dataset"
	"github.com/KaramelBytes/countrytech/internal/utils"
)

// ChartOptions sets the rendered image size in inches.
type ChartOptions struct {
	WidthIn  float64
	HeightIn float64
}

// DefaultChartOptions matches a landscape 10x6 inch figure.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{WidthIn: 10, HeightIn: 6}
}

// ChartTitle is the title of the regional max chart for m.
func ChartTitle(m dataset.Metric) string {
	return fmt.Sprintf("max of %s vs. years", m)
}

// ChartFileName is the PNG file name of the regional max chart for m.
func ChartFileName(m dataset.Metric) string {
	return ChartTitle(m) + ".png"
}

// RenderBarChart draws p as grouped bars (one group per year, one bar per
// region) and writes a PNG to path.
func RenderBarChart(p *Pivot, path string, opt ChartOptions) error {
	if len(p.Regions) == 0 || len(p.Years) == 0 {
		return fmt.Errorf("chart %q: pivot is empty", ChartTitle(p.Metric))
	}
	if opt.WidthIn <= 0 || opt.HeightIn <= 0 {
		opt = DefaultChartOptions()
	}
	width := vg.Length(opt.WidthIn) * vg.Inch
	height := vg.Length(opt.HeightIn) * vg.Inch

	pl := plot.New()
	pl.Title.Text = ChartTitle(p.Metric)
	pl.X.Label.Text = "years"
	pl.Y.Label.Text = "max of " + string(p.Metric)
	pl.Y.Min = 0

	// Leave a fifth of each year slot as the gap between groups.
	slot := width * 0.8 / vg.Length(len(p.Years))
	barWidth := slot * 0.8 / vg.Length(len(p.Regions))
	if barWidth < 1 {
		barWidth = 1
	}
	n := len(p.Regions)
	for i, region := range p.Regions {
		vals := make(plotter.Values, len(p.Years))
		for j := range p.Years {
			v := p.Values[i][j]
			if math.IsNaN(v) {
				v = 0
			}
			vals[j] = v
		}
		bars, err := plotter.NewBarChart(vals, barWidth)
		if err != nil {
			return fmt.Errorf("bars for %s: %w", region, err)
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * barWidth
		pl.Add(bars)
		pl.Legend.Add(region, bars)
	}
	pl.Legend.Top = true

	labels := make([]string, len(p.Years))
	for j, y := range p.Years {
		labels[j] = strconv.Itoa(y)
	}
	pl.NominalX(labels...)
	pl.X.Tick.Label.Rotation = math.Pi / 2
	pl.X.Tick.Label.XAlign = draw.XRight
	pl.X.Tick.Label.YAlign = draw.YCenter
	pl.Add(plotter.NewGrid())

	wt, err := pl.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
