package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/countrytech/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show [export.xlsx]",
	Short: "Reload an exported workbook and print its countries and means",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		path := c.OutputPath(c.ExportFile)
		if len(args) == 1 {
			path = args[0]
		}
		tbl, err := report.ReadExport(path)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		report.Heading(out, "%s: %d countries, %d year columns", path, len(tbl.Rows), len(tbl.Columns))
		if !tbl.HasMeans() {
			report.WriteTable(out, tbl)
			return nil
		}
		if err := report.WriteMeans(out, tbl); err != nil {
			return fmt.Errorf("print means: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
