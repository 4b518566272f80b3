package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/countrytech/internal/analysis"
	"github.com/KaramelBytes/countrytech/internal/report"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print descriptive statistics for every metric and year",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := buildTable()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		report.Heading(out, "Year by year stats of internet and cellphone use globally")
		report.WriteDescribe(out, analysis.Describe(tbl))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
