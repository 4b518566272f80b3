package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/countrytech/internal/dataset"
)

// Observation is one (row key, metric, year) cell of the unpivoted table.
type Observation struct {
	Key    dataset.Key
	Metric dataset.Metric
	Year   int
	Value  float64
}

// Melt moves the Year level out of the columns so each row key and year
// becomes its own record. Mean columns are not year-indexed and are left out.
func Melt(t *dataset.Table) []Observation {
	out := make([]Observation, 0, len(t.Rows)*len(t.Columns))
	for _, r := range t.Rows {
		for i, c := range t.Columns {
			out = append(out, Observation{Key: r.Key, Metric: c.Metric, Year: c.Year, Value: r.Values[i]})
		}
	}
	return out
}

// Pivot is a Region by Year table of the per-region maximum of a metric.
// Values[i][j] belongs to Regions[i] and Years[j]; NaN marks no data.
type Pivot struct {
	Metric  dataset.Metric
	Regions []string
	Years   []int
	Values  [][]float64
}

// RegionalMaxPivot reports, per UN Region and Year, the maximum of metric m
// across all countries of the region.
func RegionalMaxPivot(t *dataset.Table, m dataset.Metric) (*Pivot, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("pivot: unknown metric %q", m)
	}
	type cell struct {
		region string
		year   int
	}
	best := map[cell]float64{}
	regionSet := map[string]bool{}
	yearSet := map[int]bool{}
	for _, o := range Melt(t) {
		if o.Metric != m {
			continue
		}
		k := cell{o.Key.Region, o.Year}
		if cur, ok := best[k]; !ok || o.Value > cur {
			best[k] = o.Value
		}
		regionSet[o.Key.Region] = true
		yearSet[o.Year] = true
	}

	p := &Pivot{Metric: m}
	for r := range regionSet {
		p.Regions = append(p.Regions, r)
	}
	sort.Strings(p.Regions)
	for y := range yearSet {
		p.Years = append(p.Years, y)
	}
	sort.Ints(p.Years)
	p.Values = make([][]float64, len(p.Regions))
	for i, r := range p.Regions {
		p.Values[i] = make([]float64, len(p.Years))
		for j, y := range p.Years {
			v, ok := best[cell{r, y}]
			if !ok {
				v = math.NaN()
			}
			p.Values[i][j] = v
		}
	}
	return p, nil
}

// Get returns the pivot cell for region and year.
func (p *Pivot) Get(region string, year int) (float64, bool) {
	for i, r := range p.Regions {
		if r != region {
			continue
		}
		for j, y := range p.Years {
			if y == year {
				v := p.Values[i][j]
				return v, !math.IsNaN(v)
			}
		}
	}
	return 0, false
}
