package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/countrytech/internal/analysis"
	"github.com/KaramelBytes/countrytech/internal/dataset"
	"github.com/KaramelBytes/countrytech/internal/report"
	"github.com/KaramelBytes/countrytech/internal/testutil"
)

// resetFlags clears values and Changed state that persist on the command
// tree between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type cliEnv struct {
	dataDir   string
	outputDir string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	env := cliEnv{dataDir: filepath.Join(home, "data"), outputDir: filepath.Join(home, "out")}
	require.NoError(t, os.MkdirAll(env.dataDir, 0o755))
	testutil.WriteSampleSources(t, env.dataDir)
	return env
}

// runCLI executes the root command with args and stdin and returns the
// combined output.
func runCLI(t *testing.T, env cliEnv, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--data-dir", env.dataDir, "--output-dir", env.outputDir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_Query(t *testing.T) {
	env := newCLIEnv(t)
	out, err := runCLI(t, env, "", "query", "--sub-region", "Northern Europe", "--metric", "total cellphones")
	require.NoError(t, err)
	assert.Contains(t, out, "Sweden")
	assert.NotContains(t, out, "Nigeria")

	_, err = runCLI(t, env, "", "query", "--sub-region", "Northern Europe", "--metric", "1990")
	assert.ErrorIs(t, err, analysis.ErrInvalidMetric)

	_, err = runCLI(t, env, "", "query", "--sub-region", "Narnia", "--metric", "total cellphones")
	assert.ErrorIs(t, err, analysis.ErrUnknownSubRegion)
}

func TestCLI_RunInteractiveReprompts(t *testing.T) {
	env := newCLIEnv(t)
	stdin := "Atlantis\nNorthern Africa\n1990\ntotal cellphones\n"
	out, err := runCLI(t, env, stdin, "run", "--no-charts")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "You must enter a valid UN sub-region name."))
	assert.Equal(t, 1, strings.Count(out, "You must enter 'total cellphones' or 'internet usage per population percentage'."))
	assert.Contains(t, out, "The year by year data for Northern Africa on total cellphones usage is")
	assert.Contains(t, out, "Egypt")
	assert.Contains(t, out, "Pivot table showing the max internet usage per population percentage per year based on UN Region")
	assert.Less(t,
		strings.Index(out, "max internet usage per population percentage per year"),
		strings.Index(out, "max total cellphones per year"))

	_, err = os.Stat(filepath.Join(env.outputDir, report.ChartFileName(dataset.Cellphones)))
	assert.True(t, os.IsNotExist(err), "charts disabled")

	tbl, err := report.ReadExport(filepath.Join(env.outputDir, report.DefaultExportFile))
	require.NoError(t, err)
	assert.Equal(t, []string{"Egypt", "Nigeria", "Sweden", "Italy"}, tbl.Countries())
	assert.True(t, tbl.HasMeans())
	assert.InDelta(t, 17.0, tbl.Rows[1].Means[dataset.Cellphones], 1e-9)
}

// meansSection returns the output printed between the augmented table
// heading and the first median filter heading.
func meansSection(t *testing.T, out string) string {
	t.Helper()
	start := strings.Index(out, "including added mean value columns")
	end := strings.Index(out, "Countries that have a")
	require.True(t, start >= 0 && end > start, out)
	return out[start:end]
}

func TestCLI_RunPrintsFullAugmentedTable(t *testing.T) {
	env := newCLIEnv(t)
	args := []string{"run", "--no-charts", "--sub-region", "Northern Europe", "--metric", "total cellphones"}
	out, err := runCLI(t, env, "", args...)
	require.NoError(t, err)
	sec := meansSection(t, out)
	assert.Contains(t, sec, "total cellphones/1991")
	assert.Contains(t, sec, "internet usage per population percentage/1992")
	assert.Contains(t, sec, "Internet Mean")

	out, err = runCLI(t, env, "", append(args, "--means-only")...)
	require.NoError(t, err)
	sec = meansSection(t, out)
	assert.NotContains(t, sec, "total cellphones/1991")
	assert.Contains(t, sec, "Cellphone Mean")
}

func TestCLI_RunInputClosed(t *testing.T) {
	env := newCLIEnv(t)
	_, err := runCLI(t, env, "Atlantis\n", "run", "--no-charts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input closed")
}

func TestCLI_RunFlagsWriteChartsAndExport(t *testing.T) {
	env := newCLIEnv(t)
	out, err := runCLI(t, env, "", "run",
		"--sub-region", "Western Africa",
		"--metric", "internet usage per population percentage")
	require.NoError(t, err)
	assert.NotContains(t, out, "Please enter")
	for _, m := range dataset.Metrics {
		info, err := os.Stat(filepath.Join(env.outputDir, report.ChartFileName(m)))
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	out, err = runCLI(t, env, "", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "4 countries")
	assert.Contains(t, out, "Internet Mean")
}

func TestCLI_RunRejectsInvalidFlag(t *testing.T) {
	env := newCLIEnv(t)
	_, err := runCLI(t, env, "", "run", "--sub-region", "Atlantis", "--metric", "total cellphones")
	assert.ErrorIs(t, err, analysis.ErrUnknownSubRegion)
	_, err = os.Stat(filepath.Join(env.outputDir, report.DefaultExportFile))
	assert.True(t, os.IsNotExist(err))
}

func TestCLI_DescribeAndPivot(t *testing.T) {
	env := newCLIEnv(t)
	out, err := runCLI(t, env, "", "describe")
	require.NoError(t, err)
	assert.Contains(t, out, "75%")

	out, err = runCLI(t, env, "", "pivot", "--metric", "total cellphones", "--chart")
	require.NoError(t, err)
	assert.Contains(t, out, "Africa")
	assert.Contains(t, out, "Saved chart")
	_, err = os.Stat(filepath.Join(env.outputDir, report.ChartFileName(dataset.Cellphones)))
	assert.NoError(t, err)
}

func TestCLI_MissingInputFails(t *testing.T) {
	env := newCLIEnv(t)
	env.dataDir = filepath.Join(env.dataDir, "nowhere")
	_, err := runCLI(t, env, "", "describe")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCLI_ConfigInitAndSet(t *testing.T) {
	env := newCLIEnv(t)
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	out, err := runCLI(t, env, "", "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = runCLI(t, env, "", "--config", path, "config", "set", "drop_years_to", "1990")
	require.NoError(t, err)
	_, err = runCLI(t, env, "", "--config", path, "config", "set", "log_level", "chatty")
	assert.Error(t, err)

	out, err = runCLI(t, env, "", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "drop_years_to: 1990")
	assert.Contains(t, out, "export_file: Internet-Cellphone Dataframe.xlsx")
}
