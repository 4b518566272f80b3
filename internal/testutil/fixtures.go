// Package testutil writes small spreadsheet fixtures for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// SourcePaths locates the three sample input workbooks.
type SourcePaths struct {
	Codes      string
	Cellphones string
	Internet   string
}

// CodesRows is a code table with an extra numeric column and one country
// (Norway) that has no internet data.
var CodesRows = [][]any{
	{"M49", "UN Region", "UN Sub-Region", "Country"},
	{380, "Europe", "Southern Europe", "Italy"},
	{566, "Africa", "Western Africa", "Nigeria"},
	{818, "Africa", "Northern Africa", "Egypt"},
	{752, "Europe", "Northern Europe", "Sweden"},
	{578, "Europe", "Northern Europe", "Norway"},
}

// CellphoneRows carries 1974 (kept), 1975 and 1989 (dropped), and 1990-1991.
// Atlantis is absent from the code table.
var CellphoneRows = [][]any{
	{"country", "1974", "1975", "1989", "1990", "1991"},
	{"Sweden", 2, nil, nil, 40, 50},
	{"Egypt", nil, 5, 5, 10, nil},
	{"Nigeria", 1, nil, nil, 20, 30},
	{"Italy", nil, nil, nil, 35, 70},
	{"Norway", 3, nil, nil, 1, 2},
	{"Atlantis", 1, 1, 1, 1, 1},
}

// InternetRows uses numeric year headers.
var InternetRows = [][]any{
	{"country", 1990, 1991, 1992},
	{"Egypt", 0, 1, 2},
	{"Italy", 0.5, 2, 4},
	{"Nigeria", 0, 0.5, nil},
	{"Sweden", 1, 5, 10},
}

// WriteXLSX writes rows to the first sheet of a new workbook at path.
func WriteXLSX(t testing.TB, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}

// WriteSampleSources writes the sample workbooks into dir using the
// default file names.
func WriteSampleSources(t testing.TB, dir string) SourcePaths {
	t.Helper()
	p := SourcePaths{
		Codes:      filepath.Join(dir, "UN Codes.xlsx"),
		Cellphones: filepath.Join(dir, "total_cell_phones_by_country.xlsx"),
		Internet:   filepath.Join(dir, "percentage_population_internet_users.xlsx"),
	}
	WriteXLSX(t, p.Codes, CodesRows)
	WriteXLSX(t, p.Cellphones, CellphoneRows)
	WriteXLSX(t, p.Internet, InternetRows)
	return p
}
