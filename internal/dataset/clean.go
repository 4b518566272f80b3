package dataset

// CleanOptions controls which historical years are excluded.
type CleanOptions struct {
	// DropFrom and DropTo bound the inclusive year range removed from both
	// metrics. The range is empty when DropFrom > DropTo.
	DropFrom int
	DropTo   int
}

// DefaultCleanOptions drops 1975 through 1989, which carry no data.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{DropFrom: 1975, DropTo: 1989}
}

func (o CleanOptions) drops(year int) bool {
	return year >= o.DropFrom && year <= o.DropTo
}

// Clean removes the excluded year columns and fills every missing cell
// with 0. The table is modified in place.
func Clean(t *Table, opt CleanOptions) {
	keep := make([]int, 0, len(t.Columns))
	for i, c := range t.Columns {
		if !opt.drops(c.Year) {
			keep = append(keep, i)
		}
	}
	cols := make([]Column, len(keep))
	for j, i := range keep {
		cols[j] = t.Columns[i]
	}
	t.Columns = cols
	for r := range t.Rows {
		row := &t.Rows[r]
		vals := make([]float64, len(keep))
		for j, i := range keep {
			if row.Missing == nil || !row.Missing[i] {
				vals[j] = row.Values[i]
			}
		}
		row.Values = vals
		row.Missing = nil
	}
}
