package dataset

import (
	"sort"
)

type keyedRow struct {
	key Key
	ms  []Measurement
}

// joinCodes inner-joins a metric table onto the code table by Country.
// Rows follow code-table order; a country repeated in either input yields
// one output row per pairing.
func joinCodes(codes *CodeTable, mt *MetricTable) []keyedRow {
	byCountry := make(map[string][]int, len(mt.Rows))
	for i, r := range mt.Rows {
		byCountry[r.Country] = append(byCountry[r.Country], i)
	}
	var out []keyedRow
	for _, k := range codes.Keys {
		for _, i := range byCountry[k.Country] {
			out = append(out, keyedRow{key: k, ms: mt.Rows[i].Measurements})
		}
	}
	return out
}

// Merge joins both metric tables onto the code table and then joins the two
// results on the full Key. Countries missing from any input are dropped;
// their names are returned for logging.
func Merge(codes *CodeTable, cellphones, internet *MetricTable) (*Table, []string) {
	left := joinCodes(codes, cellphones)
	right := joinCodes(codes, internet)

	t := &Table{}
	type source struct {
		metric Metric
		pos    int
	}
	var srcs []source
	for i, y := range cellphones.Years {
		t.Columns = append(t.Columns, Column{Metric: Cellphones, Year: y})
		srcs = append(srcs, source{Cellphones, i})
	}
	for i, y := range internet.Years {
		t.Columns = append(t.Columns, Column{Metric: Internet, Year: y})
		srcs = append(srcs, source{Internet, i})
	}
	order := make([]int, len(t.Columns))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.Columns[order[a]].Label() < t.Columns[order[b]].Label()
	})
	cols := make([]Column, len(order))
	sorted := make([]source, len(order))
	for i, o := range order {
		cols[i] = t.Columns[o]
		sorted[i] = srcs[o]
	}
	t.Columns = cols

	byKey := make(map[Key][]int, len(right))
	for i, r := range right {
		byKey[r.key] = append(byKey[r.key], i)
	}
	kept := map[string]bool{}
	for _, l := range left {
		for _, ri := range byKey[l.key] {
			row := Row{
				Key:     l.key,
				Values:  make([]float64, len(t.Columns)),
				Missing: make([]bool, len(t.Columns)),
			}
			for i, s := range sorted {
				var m Measurement
				if s.metric == Cellphones {
					m = l.ms[s.pos]
				} else {
					m = right[ri].ms[s.pos]
				}
				row.Values[i] = m.Value
				row.Missing[i] = m.Missing
			}
			t.Rows = append(t.Rows, row)
			kept[l.key.Country] = true
		}
	}
	return t, droppedCountries(kept, codes, cellphones, internet)
}

func droppedCountries(kept map[string]bool, codes *CodeTable, sources ...*MetricTable) []string {
	seen := map[string]bool{}
	var out []string
	add := func(c string) {
		if !kept[c] && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, k := range codes.Keys {
		add(k.Country)
	}
	for _, s := range sources {
		for _, r := range s.Rows {
			add(r.Country)
		}
	}
	sort.Strings(out)
	return out
}
