package analysis

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/KaramelBytes/countrytech/internal/dataset"
)

var (
	// ErrUnknownSubRegion is returned for a sub-region absent from the table.
	ErrUnknownSubRegion = errors.New("unknown UN sub-region")
	// ErrInvalidMetric is returned for anything other than the two metric names.
	ErrInvalidMetric = errors.New("invalid metric")
)

// ValidateSubRegion checks s against the distinct Sub-Region values of t.
func ValidateSubRegion(t *dataset.Table, s string) error {
	for _, sr := range t.SubRegions() {
		if sr == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownSubRegion, s)
}

// ParseMetric accepts exactly one of the metric names. Purely numeric input
// is rejected even if it would otherwise match.
func ParseMetric(s string) (dataset.Metric, error) {
	if isDigits(s) {
		return "", fmt.Errorf("%w: %q looks like a year; enter %q or %q", ErrInvalidMetric, s, dataset.Cellphones, dataset.Internet)
	}
	m := dataset.Metric(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q; enter %q or %q", ErrInvalidMetric, s, dataset.Cellphones, dataset.Internet)
	}
	return m, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}

// Query returns the rows of subRegion restricted to the columns of metric.
func Query(t *dataset.Table, subRegion string, metric dataset.Metric) (*dataset.Table, error) {
	if err := ValidateSubRegion(t, subRegion); err != nil {
		return nil, err
	}
	if !metric.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMetric, metric)
	}
	idx := t.ColumnIndexes(metric)
	out := &dataset.Table{Columns: make([]dataset.Column, len(idx))}
	for j, i := range idx {
		out.Columns[j] = t.Columns[i]
	}
	for _, r := range t.Rows {
		if r.Key.SubRegion != subRegion {
			continue
		}
		vals := make([]float64, len(idx))
		for j, i := range idx {
			vals[j] = r.Values[i]
		}
		out.Rows = append(out.Rows, dataset.Row{Key: r.Key, Values: vals})
	}
	return out, nil
}
