package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/countrytech/internal/dataset"
	"github.com/KaramelBytes/countrytech/internal/utils"
)

const (
	// DefaultExportFile is the name of the exported workbook.
	DefaultExportFile = "Internet-Cellphone Dataframe.xlsx"

	dataSheet = "alldata"
	metaSheet = "metadata"
	// headerRows is the number of label rows before the data: metric names,
	// then years.
	headerRows = 2
)

var keyHeaders = []string{dataset.RegionColumn, dataset.SubRegionColumn, dataset.CountryColumn}

// ExportMeta describes the run that produced an export.
type ExportMeta struct {
	RunID     string
	CreatedAt time.Time
	Sources   dataset.Sources
	Clean     dataset.CleanOptions
}

// NewExportMeta stamps a fresh run id and the current time.
func NewExportMeta(src dataset.Sources, opt dataset.CleanOptions) ExportMeta {
	return ExportMeta{RunID: uuid.NewString(), CreatedAt: time.Now().UTC(), Sources: src, Clean: opt}
}

// Export writes t, including its key columns and any mean columns, to an
// xlsx workbook at path.
func Export(t *dataset.Table, path string, meta ExportMeta) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	metricRow := make([]any, 0, len(keyHeaders)+len(t.Columns)+len(dataset.Metrics))
	yearRow := make([]any, 0, cap(metricRow))
	for _, h := range keyHeaders {
		metricRow = append(metricRow, h)
		yearRow = append(yearRow, nil)
	}
	for _, c := range t.Columns {
		metricRow = append(metricRow, string(c.Metric))
		yearRow = append(yearRow, c.Year)
	}
	withMeans := t.HasMeans()
	if withMeans {
		for _, m := range dataset.Metrics {
			metricRow = append(metricRow, m.MeanColumn())
			yearRow = append(yearRow, nil)
		}
	}
	if err := setRow(f, dataSheet, 1, metricRow); err != nil {
		return err
	}
	if err := setRow(f, dataSheet, 2, yearRow); err != nil {
		return err
	}
	for i, r := range t.Rows {
		row := make([]any, 0, len(metricRow))
		row = append(row, r.Key.Region, r.Key.SubRegion, r.Key.Country)
		for _, v := range r.Values {
			row = append(row, v)
		}
		if withMeans {
			for _, m := range dataset.Metrics {
				row = append(row, r.Means[m])
			}
		}
		if err := setRow(f, dataSheet, headerRows+1+i, row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(dataSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      len(keyHeaders),
		YSplit:      headerRows,
		TopLeftCell: "D3",
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("freeze panes: %w", err)
	}

	if _, err := f.NewSheet(metaSheet); err != nil {
		return fmt.Errorf("add metadata sheet: %w", err)
	}
	meta.CreatedAt = meta.CreatedAt.UTC()
	metaRows := [][]any{
		{"run_id", meta.RunID},
		{"created_at", meta.CreatedAt.Format(time.RFC3339)},
		{"codes_file", meta.Sources.Codes},
		{"cellphones_file", meta.Sources.Cellphones},
		{"internet_file", meta.Sources.Internet},
		{"dropped_years", fmt.Sprintf("%d-%d", meta.Clean.DropFrom, meta.Clean.DropTo)},
		{"rows", len(t.Rows)},
	}
	for i, r := range metaRows {
		if err := setRow(f, metaSheet, i+1, r); err != nil {
			return err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

func setRow(f *excelize.File, sheet string, row int, vals []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// ReadExport loads a workbook written by Export back into a table.
func ReadExport(path string) (*dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()
	rows, err := f.GetRows(dataSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dataSheet, err)
	}
	if len(rows) < headerRows {
		return nil, fmt.Errorf("export %s: missing header rows", path)
	}
	metricRow, yearRow := rows[0], rows[1]
	for i, h := range keyHeaders {
		if i >= len(metricRow) || metricRow[i] != h {
			return nil, fmt.Errorf("export %s: expected key column %q in position %d", path, h, i+1)
		}
	}

	t := &dataset.Table{}
	var valuePos []int
	meanPos := map[dataset.Metric]int{}
	for i := len(keyHeaders); i < len(metricRow); i++ {
		name := strings.TrimSpace(metricRow[i])
		if m, ok := meanColumnMetric(name); ok {
			meanPos[m] = i
			continue
		}
		m := dataset.Metric(name)
		if !m.Valid() {
			return nil, fmt.Errorf("export %s: unknown column %q", path, name)
		}
		if i >= len(yearRow) {
			return nil, fmt.Errorf("export %s: column %d has no year", path, i+1)
		}
		y, err := strconv.Atoi(strings.TrimSpace(yearRow[i]))
		if err != nil {
			return nil, fmt.Errorf("export %s: column %d year %q: %w", path, i+1, yearRow[i], err)
		}
		t.Columns = append(t.Columns, dataset.Column{Metric: m, Year: y})
		valuePos = append(valuePos, i)
	}

	cellAt := func(rec []string, i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	num := func(rec []string, i, line int) (float64, error) {
		s := cellAt(rec, i)
		if s == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("export %s: row %d column %d: %w", path, line, i+1, err)
		}
		return v, nil
	}
	for n, rec := range rows[headerRows:] {
		line := headerRows + 1 + n
		r := dataset.Row{
			Key: dataset.Key{
				Region:    cellAt(rec, 0),
				SubRegion: cellAt(rec, 1),
				Country:   cellAt(rec, 2),
			},
			Values: make([]float64, len(valuePos)),
		}
		if r.Key.Country == "" {
			continue
		}
		for j, i := range valuePos {
			v, err := num(rec, i, line)
			if err != nil {
				return nil, err
			}
			r.Values[j] = v
		}
		if len(meanPos) > 0 {
			r.Means = make(map[dataset.Metric]float64, len(meanPos))
			for m, i := range meanPos {
				v, err := num(rec, i, line)
				if err != nil {
					return nil, err
				}
				r.Means[m] = v
			}
		}
		t.Rows = append(t.Rows, r)
	}
	return t, nil
}

func meanColumnMetric(name string) (dataset.Metric, bool) {
	for _, m := range dataset.Metrics {
		if m.MeanColumn() == name {
			return m, true
		}
	}
	return "", false
}
