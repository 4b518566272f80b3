package dataset

import (
	"fmt"
	"strconv"
)

// Metric names one of the two measured quantities in the merged table.
type Metric string

const (
	Cellphones Metric = "total cellphones"
	Internet   Metric = "internet usage per population percentage"
)

// Metrics lists the known metrics in column order.
var Metrics = []Metric{Cellphones, Internet}

// Suffix is the join-side tag the metric carried in the raw merged labels.
func (m Metric) Suffix() string {
	switch m {
	case Cellphones:
		return "x"
	case Internet:
		return "y"
	}
	return ""
}

// MeanColumn is the header of the derived per-country mean column.
func (m Metric) MeanColumn() string {
	switch m {
	case Cellphones:
		return "Cellphone Mean"
	case Internet:
		return "Internet Mean"
	}
	return string(m) + " Mean"
}

// Valid reports whether m is one of the known metrics.
func (m Metric) Valid() bool {
	return m == Cellphones || m == Internet
}

// Key is the composite row key. Country is unique; Region and SubRegion
// come from the code table.
type Key struct {
	Region    string
	SubRegion string
	Country   string
}

func (k Key) Less(o Key) bool {
	if k.Region != o.Region {
		return k.Region < o.Region
	}
	if k.SubRegion != o.SubRegion {
		return k.SubRegion < o.SubRegion
	}
	return k.Country < o.Country
}

// Column is the composite (Metric, Year) column label.
type Column struct {
	Metric Metric
	Year   int
}

// Label renders the column the way the raw merged table named it,
// e.g. "1990_x". Column ordering follows this label.
func (c Column) Label() string {
	return strconv.Itoa(c.Year) + "_" + c.Metric.Suffix()
}

func (c Column) String() string {
	return fmt.Sprintf("%s/%d", c.Metric, c.Year)
}

// Measurement is one parsed cell of a metric source table.
type Measurement struct {
	Metric  Metric
	Year    int
	Value   float64
	Missing bool
}

// Row is one country in the merged table. Values is aligned with the
// owning Table's Columns.
type Row struct {
	Key    Key
	Values []float64
	// Missing marks cells that had no source value; cleared by Clean.
	Missing []bool
	Means   map[Metric]float64
}

// Table is the merged Region/Sub-Region/Country by Metric/Year table.
type Table struct {
	Columns []Column
	Rows    []Row
}

// HasMeans reports whether the derived mean columns have been added.
func (t *Table) HasMeans() bool {
	return len(t.Rows) > 0 && t.Rows[0].Means != nil
}

// ColumnIndexes returns the positions of every column of metric m.
func (t *Table) ColumnIndexes(m Metric) []int {
	var idx []int
	for i, c := range t.Columns {
		if c.Metric == m {
			idx = append(idx, i)
		}
	}
	return idx
}

// Years returns the ascending years present for metric m.
func (t *Table) Years(m Metric) []int {
	var years []int
	for _, i := range t.ColumnIndexes(m) {
		years = append(years, t.Columns[i].Year)
	}
	return years
}

// SubRegions returns the distinct Sub-Region values in row order.
func (t *Table) SubRegions() []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range t.Rows {
		if !seen[r.Key.SubRegion] {
			seen[r.Key.SubRegion] = true
			out = append(out, r.Key.SubRegion)
		}
	}
	return out
}

// Countries returns the Country of every row in row order.
func (t *Table) Countries() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Key.Country
	}
	return out
}

// Value returns the cell for (row, column), or false if the column is absent.
func (t *Table) Value(row int, c Column) (float64, bool) {
	for i, col := range t.Columns {
		if col == c {
			return t.Rows[row].Values[i], true
		}
	}
	return 0, false
}
