package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/countrytech/internal/dataset"
	"github.com/KaramelBytes/countrytech/internal/testutil"
)

func sampleTable(t *testing.T) *dataset.Table {
	t.Helper()
	p := testutil.WriteSampleSources(t, t.TempDir())
	tbl, err := dataset.Build(dataset.Sources{Codes: p.Codes, Cellphones: p.Cellphones, Internet: p.Internet}, dataset.DefaultCleanOptions(), nil)
	require.NoError(t, err)
	return tbl
}

func TestQueryReturnsSubRegionRowsAndOneMetric(t *testing.T) {
	tbl := sampleTable(t)
	for _, sr := range tbl.SubRegions() {
		for _, m := range dataset.Metrics {
			res, err := Query(tbl, sr, m)
			require.NoError(t, err)
			require.NotEmpty(t, res.Rows)
			for _, r := range res.Rows {
				assert.Equal(t, sr, r.Key.SubRegion)
				assert.Len(t, r.Values, len(res.Columns))
			}
			for _, c := range res.Columns {
				assert.Equal(t, m, c.Metric)
			}
		}
	}

	res, err := Query(tbl, "Northern Europe", dataset.Cellphones)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sweden"}, res.Countries())
	assert.Equal(t, []float64{2, 40, 50}, res.Rows[0].Values)
}

func TestValidateSubRegion(t *testing.T) {
	tbl := sampleTable(t)
	assert.NoError(t, ValidateSubRegion(tbl, "Western Africa"))
	assert.ErrorIs(t, ValidateSubRegion(tbl, "western africa"), ErrUnknownSubRegion)
	assert.ErrorIs(t, ValidateSubRegion(tbl, "Africa"), ErrUnknownSubRegion)

	_, err := Query(tbl, "Atlantis", dataset.Internet)
	assert.ErrorIs(t, err, ErrUnknownSubRegion)
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("total cellphones")
	require.NoError(t, err)
	assert.Equal(t, dataset.Cellphones, m)

	m, err = ParseMetric("internet usage per population percentage")
	require.NoError(t, err)
	assert.Equal(t, dataset.Internet, m)

	for _, bad := range []string{"", "1990", "Total Cellphones", "internet", "Cellphone Mean"} {
		_, err := ParseMetric(bad)
		assert.ErrorIs(t, err, ErrInvalidMetric, bad)
	}
	_, err = ParseMetric("2001")
	assert.ErrorContains(t, err, "looks like a year")
}

func TestAddMeansEqualsRowAverage(t *testing.T) {
	tbl := sampleTable(t)
	AddMeans(tbl)
	require.True(t, tbl.HasMeans())

	want := map[string][2]float64{
		"Egypt":   {10.0 / 3, 1},
		"Nigeria": {17, 0.5 / 3},
		"Sweden":  {92.0 / 3, 16.0 / 3},
		"Italy":   {35, 6.5 / 3},
	}
	for r, row := range tbl.Rows {
		w := want[row.Key.Country]
		assert.InDelta(t, w[0], row.Means[dataset.Cellphones], 1e-9, row.Key.Country)
		assert.InDelta(t, w[1], row.Means[dataset.Internet], 1e-9, row.Key.Country)

		for _, m := range dataset.Metrics {
			var sum float64
			idx := tbl.ColumnIndexes(m)
			for _, i := range idx {
				sum += tbl.Rows[r].Values[i]
			}
			assert.InDelta(t, sum/float64(len(idx)), row.Means[m], 1e-9)
		}
	}
}

func TestMeansIncludeZeroFilledYears(t *testing.T) {
	// Three countries across two sub-regions, 1990-1991 only; country A is
	// missing 1991 and averages over the zero.
	tbl := &dataset.Table{
		Columns: []dataset.Column{
			{Metric: dataset.Cellphones, Year: 1990},
			{Metric: dataset.Internet, Year: 1990},
			{Metric: dataset.Cellphones, Year: 1991},
			{Metric: dataset.Internet, Year: 1991},
		},
		Rows: []dataset.Row{
			{Key: dataset.Key{Region: "R", SubRegion: "S1", Country: "A"}, Values: []float64{10, 0, 0, 5}, Missing: []bool{false, false, true, false}},
			{Key: dataset.Key{Region: "R", SubRegion: "S1", Country: "B"}, Values: []float64{20, 5, 30, 10}},
			{Key: dataset.Key{Region: "R", SubRegion: "S2", Country: "C"}, Values: []float64{30, 10, 40, 20}},
		},
	}
	dataset.Clean(tbl, dataset.DefaultCleanOptions())
	AddMeans(tbl)
	assert.InDelta(t, 5.0, tbl.Rows[0].Means[dataset.Cellphones], 1e-9)
	assert.InDelta(t, 2.5, tbl.Rows[0].Means[dataset.Internet], 1e-9)
}

func TestMedianFilterStrictlyGreater(t *testing.T) {
	tbl := sampleTable(t)
	_, _, err := MedianFilter(tbl, dataset.Cellphones)
	assert.ErrorIs(t, err, ErrMeansMissing)

	AddMeans(tbl)
	got, med, err := MedianFilter(tbl, dataset.Cellphones)
	require.NoError(t, err)
	assert.InDelta(t, (17+92.0/3)/2, med, 1e-9)
	require.Len(t, got, 2)
	assert.Equal(t, "Sweden", got[0].Country)
	assert.Equal(t, "Italy", got[1].Country)

	got, med, err = MedianFilter(tbl, dataset.Internet)
	require.NoError(t, err)
	assert.InDelta(t, (1+6.5/3)/2, med, 1e-9)
	for _, cm := range got {
		assert.Greater(t, cm.Mean, med)
	}
	assert.Less(t, len(got), len(tbl.Rows))
}

func TestMedianFilterExcludesTies(t *testing.T) {
	tbl := &dataset.Table{Columns: []dataset.Column{{Metric: dataset.Cellphones, Year: 1990}}}
	for i, v := range []float64{1, 5, 5, 5, 9} {
		tbl.Rows = append(tbl.Rows, dataset.Row{
			Key:    dataset.Key{Country: string(rune('A' + i))},
			Values: []float64{v},
		})
	}
	AddMeans(tbl)
	got, med, err := MedianFilter(tbl, dataset.Cellphones)
	require.NoError(t, err)
	assert.Equal(t, 5.0, med)
	assert.Equal(t, []CountryMean{{Country: "E", Mean: 9}}, got)

	m, err := Median(tbl, dataset.Cellphones)
	require.NoError(t, err)
	assert.Equal(t, med, m)
}

func TestDescribe(t *testing.T) {
	tbl := sampleTable(t)
	stats := Describe(tbl)
	require.Len(t, stats, len(tbl.Columns))

	var s ColumnStats
	for _, st := range stats {
		if st.Column == (dataset.Column{Metric: dataset.Cellphones, Year: 1990}) {
			s = st
		}
	}
	// 1990 cellphones: 10, 20, 40, 35
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 26.25, s.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(568.75/3), s.Std, 1e-9)
	assert.Equal(t, 10.0, s.Min)
	assert.InDelta(t, 17.5, s.Q1, 1e-9)
	assert.InDelta(t, 27.5, s.Median, 1e-9)
	assert.InDelta(t, 36.25, s.Q3, 1e-9)
	assert.Equal(t, 40.0, s.Max)
}

func TestDescribeSingleRow(t *testing.T) {
	s := describe(dataset.Column{Metric: dataset.Internet, Year: 2000}, []float64{3})
	assert.Equal(t, 1, s.Count)
	assert.True(t, math.IsNaN(s.Std))
	assert.Equal(t, 3.0, s.Median)

	s = describe(dataset.Column{}, nil)
	assert.Equal(t, 0, s.Count)
	assert.True(t, math.IsNaN(s.Mean))
}
