package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/countrytech/internal/analysis"
)

var (
	pivotMetric string
	pivotChart  bool
)

var pivotCmd = &cobra.Command{
	Use:   "pivot",
	Short: "Print the per-region yearly maximum of a metric",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := analysis.ParseMetric(pivotMetric)
		if err != nil {
			return err
		}
		tbl, err := buildTable()
		if err != nil {
			return err
		}
		return writePivot(cmd.OutOrStdout(), tbl, m, pivotChart)
	},
}

func init() {
	rootCmd.AddCommand(pivotCmd)
	pivotCmd.Flags().StringVar(&pivotMetric, "metric", "", "'total cellphones' or 'internet usage per population percentage'")
	pivotCmd.Flags().BoolVar(&pivotChart, "chart", false, "also save the bar chart PNG to the output directory")
	_ = pivotCmd.MarkFlagRequired("metric")
}
