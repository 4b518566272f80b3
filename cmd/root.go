package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/countrytech/internal/config"
	"github.com/KaramelBytes/countrytech/internal/dataset"
	"github.com/KaramelBytes/countrytech/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Path flags (override config if set)
	flagDataDir   string
	flagOutputDir string

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "countrytech",
	Short: "Merge UN region codes with cellphone and internet usage data and report on it",
	Long: `countrytech joins the UN region/sub-region code table with per-country
cellphone totals and internet usage percentages, then queries, summarizes,
charts and exports the combined table.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.countrytech/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "directory holding the input spreadsheets (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "output-dir", "", "directory for charts and the exported workbook (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data-dir") && flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if f.Changed("output-dir") && flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	l, err := logging.New(level, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; logging disabled\n", err)
		l = zap.NewNop()
	}
	logger = l
}

func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Default()
	}
	return cfg
}

// buildTable loads, merges and cleans the three configured sources.
func buildTable() (*dataset.Table, error) {
	c := currentConfig()
	tbl, err := dataset.Build(c.Sources(), c.CleanOptions(), logger)
	if err != nil {
		return nil, err
	}
	logger.Info("table ready", zap.Int("rows", len(tbl.Rows)), zap.Int("columns", len(tbl.Columns)))
	return tbl, nil
}
