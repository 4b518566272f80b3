package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/countrytech/internal/dataset"
)

const (
	// DefaultExportFile is the workbook name written by run.
	DefaultExportFile = "Internet-Cellphone Dataframe.xlsx"

	defaultChartWidthIn  = 10.0
	defaultChartHeightIn = 6.0
)

// Global configuration structure.
type Global struct {
	// Input spreadsheets, resolved relative to DataDir.
	DataDir        string `mapstructure:"data_dir" yaml:"data_dir"`
	CodesFile      string `mapstructure:"codes_file" yaml:"codes_file"`
	CellphonesFile string `mapstructure:"cellphones_file" yaml:"cellphones_file"`
	InternetFile   string `mapstructure:"internet_file" yaml:"internet_file"`

	// Outputs
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir"`
	ExportFile string `mapstructure:"export_file" yaml:"export_file"`

	// Historical years excluded from both metrics (inclusive)
	DropYearsFrom int `mapstructure:"drop_years_from" yaml:"drop_years_from"`
	DropYearsTo   int `mapstructure:"drop_years_to" yaml:"drop_years_to"`

	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Sources resolves the three input paths.
func (g *Global) Sources() dataset.Sources {
	join := func(name string) string {
		if filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(g.DataDir, name)
	}
	return dataset.Sources{
		Codes:      join(g.CodesFile),
		Cellphones: join(g.CellphonesFile),
		Internet:   join(g.InternetFile),
	}
}

// CleanOptions returns the configured year exclusion.
func (g *Global) CleanOptions() dataset.CleanOptions {
	return dataset.CleanOptions{DropFrom: g.DropYearsFrom, DropTo: g.DropYearsTo}
}

// OutputPath places name inside OutputDir.
func (g *Global) OutputPath(name string) string {
	return filepath.Join(g.OutputDir, name)
}

func setDefaults(v *viper.Viper) {
	clean := dataset.DefaultCleanOptions()
	v.SetDefault("data_dir", "./Country Tech Use")
	v.SetDefault("codes_file", "UN Codes.xlsx")
	v.SetDefault("cellphones_file", "total_cell_phones_by_country.xlsx")
	v.SetDefault("internet_file", "percentage_population_internet_users.xlsx")
	v.SetDefault("output_dir", ".")
	v.SetDefault("export_file", DefaultExportFile)
	v.SetDefault("drop_years_from", clean.DropFrom)
	v.SetDefault("drop_years_to", clean.DropTo)
	v.SetDefault("chart_width_in", defaultChartWidthIn)
	v.SetDefault("chart_height_in", defaultChartHeightIn)
	v.SetDefault("log_level", "warn")
}

// Default returns the built-in configuration without reading any file.
func Default() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".countrytech", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.countrytech/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) (string, error) {
	path := cfgFile
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("COUNTRYTECH")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".countrytech"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
