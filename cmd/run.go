package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/countrytech/internal/analysis"
	cfgpkg "github.com/KaramelBytes/countrytech/internal/config"
	"github.com/KaramelBytes/countrytech/internal/dataset"
	"github.com/KaramelBytes/countrytech/internal/report"
)

var (
	runSubRegion string
	runMetric    string
	runNoCharts  bool
	runMeansOnly bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full merge, query, statistics, chart and export sequence",
	Long: `run builds the combined table, asks for a UN sub-region and a metric
(re-asking until both are valid), prints the matching slice, the descriptive
statistics, the per-country means and the countries above the median mean,
draws the regional maximum charts and exports the final table.

With --sub-region and --metric the questions are skipped and an invalid
value fails the command instead of being asked again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		c := currentConfig()
		tbl, err := buildTable()
		if err != nil {
			return err
		}

		sub, metric, err := resolveSelection(cmd, tbl)
		if err != nil {
			return err
		}
		res, err := analysis.Query(tbl, sub, metric)
		if err != nil {
			return err
		}
		report.Heading(out, "The year by year data for %s on %s usage is", sub, metric)
		report.WriteQuery(out, res)

		report.Heading(out, "Year by year stats of internet and cellphone use globally")
		report.WriteDescribe(out, analysis.Describe(tbl))

		analysis.AddMeans(tbl)
		report.Heading(out, "The year by year data for cellphones and internet use globally including added mean value columns for each country")
		if runMeansOnly {
			if err := report.WriteMeans(out, tbl); err != nil {
				return err
			}
		} else {
			report.WriteTable(out, tbl)
		}

		for _, m := range dataset.Metrics {
			rows, med, err := analysis.MedianFilter(tbl, m)
			if err != nil {
				return err
			}
			report.Heading(out, "Countries that have a %s greater than the median for all countries", m.MeanColumn())
			report.WriteMedianFilter(out, m, med, rows)
		}

		for _, m := range []dataset.Metric{dataset.Internet, dataset.Cellphones} {
			if err := writePivot(out, tbl, m, !runNoCharts); err != nil {
				return err
			}
		}

		path := c.OutputPath(c.ExportFile)
		if err := report.Export(tbl, path, report.NewExportMeta(c.Sources(), c.CleanOptions())); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		logger.Info("exported table", zap.String("path", path), zap.Int("rows", len(tbl.Rows)))
		fmt.Fprintf(out, "✓ Exported table to %s\n", path)
		return nil
	},
}

// resolveSelection takes the sub-region and metric from flags when given,
// otherwise asks for them on the command's input.
func resolveSelection(cmd *cobra.Command, tbl *dataset.Table) (string, dataset.Metric, error) {
	out := cmd.OutOrStdout()
	var p *prompter
	if runSubRegion == "" || runMetric == "" {
		report.Heading(out, "User validation")
		p = newPrompter(cmd.InOrStdin(), out)
	}

	sub := runSubRegion
	if sub != "" {
		if err := analysis.ValidateSubRegion(tbl, sub); err != nil {
			return "", "", err
		}
	} else {
		s, err := p.subRegion(tbl)
		if err != nil {
			return "", "", err
		}
		sub = s
	}

	if runMetric != "" {
		m, err := analysis.ParseMetric(runMetric)
		if err != nil {
			return "", "", err
		}
		return sub, m, nil
	}
	m, err := p.metric()
	if err != nil {
		return "", "", err
	}
	return sub, m, nil
}

// writePivot prints the regional maximum pivot for m and optionally saves
// its bar chart into the output directory.
func writePivot(out io.Writer, tbl *dataset.Table, m dataset.Metric, chart bool) error {
	p, err := report.RegionalMaxPivot(tbl, m)
	if err != nil {
		return err
	}
	report.Heading(out, "Pivot table showing the max %s per year based on UN Region", m)
	report.WritePivot(out, p)
	if !chart {
		return nil
	}
	c := currentConfig()
	path := c.OutputPath(report.ChartFileName(m))
	if err := report.RenderBarChart(p, path, chartOptions(c)); err != nil {
		return err
	}
	logger.Info("saved chart", zap.String("path", path))
	fmt.Fprintf(out, "✓ Saved chart to %s\n", path)
	return nil
}

func chartOptions(c *cfgpkg.Global) report.ChartOptions {
	return report.ChartOptions{WidthIn: c.ChartWidthIn, HeightIn: c.ChartHeightIn}
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runSubRegion, "sub-region", "", "UN sub-region to show (skips the question)")
	runCmd.Flags().StringVar(&runMetric, "metric", "", "'total cellphones' or 'internet usage per population percentage' (skips the question)")
	runCmd.Flags().BoolVar(&runNoCharts, "no-charts", false, "print the pivot tables without saving charts")
	runCmd.Flags().BoolVar(&runMeansOnly, "means-only", false, "print only the key and Mean columns of the augmented table")
}
