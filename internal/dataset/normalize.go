package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Source column names.
const (
	RegionColumn    = "UN Region"
	SubRegionColumn = "UN Sub-Region"
	CountryColumn   = "Country"
)

// ErrMissingColumn is returned when a source lacks a required key column.
var ErrMissingColumn = errors.New("missing required column")

// CodeTable maps countries to their UN Region and Sub-Region, sorted by Key.
type CodeTable struct {
	Keys []Key
}

// MetricRow is one country's measurements aligned with MetricTable.Years.
type MetricRow struct {
	Country      string
	Measurements []Measurement
}

// MetricTable is a per-country, per-year source for a single metric,
// sorted by Country.
type MetricTable struct {
	Metric Metric
	Years  []int
	Rows   []MetricRow
}

// NormalizeCodes keys the code table by (Region, Sub-Region, Country).
// Columns other than the three key columns are ignored.
func NormalizeCodes(raw *RawTable) (*CodeTable, error) {
	ri := raw.ColumnIndex(RegionColumn)
	si := raw.ColumnIndex(SubRegionColumn)
	ci := raw.ColumnIndex(CountryColumn)
	for name, i := range map[string]int{RegionColumn: ri, SubRegionColumn: si, CountryColumn: ci} {
		if i < 0 {
			return nil, fmt.Errorf("%s: %w %q", raw.Name, ErrMissingColumn, name)
		}
	}
	ct := &CodeTable{Keys: make([]Key, 0, len(raw.Rows))}
	for _, row := range raw.Rows {
		ct.Keys = append(ct.Keys, Key{
			Region:    strings.TrimSpace(row[ri]),
			SubRegion: strings.TrimSpace(row[si]),
			Country:   strings.TrimSpace(row[ci]),
		})
	}
	sort.SliceStable(ct.Keys, func(i, j int) bool { return ct.Keys[i].Less(ct.Keys[j]) })
	return ct, nil
}

// NormalizeMetric keys a metric source by Country. The lowercase "country"
// header is matched case-insensitively; every other non-blank header must
// be a year.
func NormalizeMetric(raw *RawTable, m Metric) (*MetricTable, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("unknown metric %q", m)
	}
	ci := raw.ColumnIndex("country")
	if ci < 0 {
		return nil, fmt.Errorf("%s: %w %q", raw.Name, ErrMissingColumn, "country")
	}
	type yearCol struct {
		year int
		pos  int
	}
	var cols []yearCol
	for i, h := range raw.Header {
		if i == ci || h == "" {
			continue
		}
		y, err := parseYear(h)
		if err != nil {
			return nil, fmt.Errorf("%s: column %d: %w", raw.Name, i+1, err)
		}
		cols = append(cols, yearCol{year: y, pos: i})
	}
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].year < cols[j].year })

	mt := &MetricTable{Metric: m, Years: make([]int, len(cols))}
	for i, c := range cols {
		mt.Years[i] = c.year
	}
	for r, row := range raw.Rows {
		mr := MetricRow{
			Country:      strings.TrimSpace(row[ci]),
			Measurements: make([]Measurement, len(cols)),
		}
		for i, c := range cols {
			v, ok, err := parseNumeric(row[c.pos])
			if err != nil {
				return nil, fmt.Errorf("%s: row %d, year %d: %w", raw.Name, r+2, c.year, err)
			}
			mr.Measurements[i] = Measurement{Metric: m, Year: c.year, Value: v, Missing: !ok}
		}
		mt.Rows = append(mt.Rows, mr)
	}
	sort.SliceStable(mt.Rows, func(i, j int) bool { return mt.Rows[i].Country < mt.Rows[j].Country })
	return mt, nil
}

func parseYear(h string) (int, error) {
	s := strings.TrimSpace(h)
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	// Numeric header cells may come back as "1990.0".
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
		return int(f), nil
	}
	return 0, fmt.Errorf("header %q is not a year", h)
}

// naTokens are the cell texts read as missing, the same set spreadsheet
// exports and pandas treat as NA by default.
var naTokens = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true,
	"-1.#IND": true, "-1.#QNAN": true, "1.#IND": true, "1.#QNAN": true,
	"-NaN": true, "-nan": true, "<NA>": true,
	"N/A": true, "n/a": true, "NA": true,
	"NULL": true, "null": true, "None": true,
}

// parseNumeric accepts plain numbers, comma thousands separators and the
// k/M/B magnitude suffixes used by the published datasets. Blank cells and
// NA markers report ok=false.
func parseNumeric(s string) (v float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || naTokens[s] {
		return 0, false, nil
	}
	s = strings.ReplaceAll(s, "−", "-")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false, nil
	}
	mult := 1.0
	switch s[len(s)-1] {
	case 'k', 'K':
		mult = 1e3
	case 'M':
		mult = 1e6
	case 'B':
		mult = 1e9
	}
	if mult != 1 {
		s = s[:len(s)-1]
	}
	f, perr := strconv.ParseFloat(s, 64)
	if perr != nil {
		return 0, false, fmt.Errorf("value %q is not numeric", s)
	}
	return f * mult, true, nil
}
