package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/countrytech/internal/analysis"
	"github.com/KaramelBytes/countrytech/internal/report"
)

var (
	querySubRegion string
	queryMetric    string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print one metric for every country of a UN sub-region",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := analysis.ParseMetric(queryMetric)
		if err != nil {
			return err
		}
		tbl, err := buildTable()
		if err != nil {
			return err
		}
		res, err := analysis.Query(tbl, querySubRegion, m)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		report.Heading(out, "The year by year data for %s on %s usage is", querySubRegion, m)
		report.WriteQuery(out, res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVar(&querySubRegion, "sub-region", "", "UN sub-region, e.g. 'Northern Europe'")
	queryCmd.Flags().StringVar(&queryMetric, "metric", "", "'total cellphones' or 'internet usage per population percentage'")
	_ = queryCmd.MarkFlagRequired("sub-region")
	_ = queryCmd.MarkFlagRequired("metric")
}
