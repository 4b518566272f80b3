package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/countrytech/internal/dataset"
)

// ErrMeansMissing is returned when a mean column is read before AddMeans.
var ErrMeansMissing = errors.New("mean columns have not been computed")

// MeanByMetric averages each row over all retained years of each metric.
// The result is indexed like t.Rows. A metric with no columns averages to 0.
func MeanByMetric(t *dataset.Table) []map[dataset.Metric]float64 {
	idx := make(map[dataset.Metric][]int, len(dataset.Metrics))
	for _, m := range dataset.Metrics {
		idx[m] = t.ColumnIndexes(m)
	}
	out := make([]map[dataset.Metric]float64, len(t.Rows))
	for r, row := range t.Rows {
		means := make(map[dataset.Metric]float64, len(dataset.Metrics))
		for _, m := range dataset.Metrics {
			if len(idx[m]) == 0 {
				means[m] = 0
				continue
			}
			vals := make([]float64, len(idx[m]))
			for j, i := range idx[m] {
				vals[j] = row.Values[i]
			}
			means[m] = stat.Mean(vals, nil)
		}
		out[r] = means
	}
	return out
}

// AddMeans stores the Cellphone Mean and Internet Mean columns on every row.
func AddMeans(t *dataset.Table) {
	for r, means := range MeanByMetric(t) {
		t.Rows[r].Means = means
	}
}

// CountryMean is a row of a median-filter result, keyed by Country alone.
type CountryMean struct {
	Country string
	Mean    float64
}

// MeanColumn returns the mean of metric m for every row.
func MeanColumn(t *dataset.Table, m dataset.Metric) ([]float64, error) {
	if !t.HasMeans() {
		return nil, ErrMeansMissing
	}
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMetric, m)
	}
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Means[m]
	}
	return out, nil
}

// Median returns the median of the mean column of metric m.
func Median(t *dataset.Table, m dataset.Metric) (float64, error) {
	vals, err := MeanColumn(t, m)
	if err != nil {
		return 0, err
	}
	return median(vals), nil
}

// MedianFilter returns, in row order, the countries whose mean for m is
// strictly greater than the median of that mean column, together with
// the median itself.
func MedianFilter(t *dataset.Table, m dataset.Metric) ([]CountryMean, float64, error) {
	vals, err := MeanColumn(t, m)
	if err != nil {
		return nil, 0, err
	}
	med := median(vals)
	var out []CountryMean
	for i, v := range vals {
		if v > med {
			out = append(out, CountryMean{Country: t.Rows[i].Key.Country, Mean: v})
		}
	}
	return out, med, nil
}
