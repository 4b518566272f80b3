package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RawTable is a sheet as read from disk: a header row plus string cells.
type RawTable struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Loader reads a tabular file into a RawTable.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string) (*RawTable, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates no registered loader handles the file.
var ErrUnsupported = errors.New("unsupported dataset format")

// LoadFile selects a loader based on the filename and reads the file.
func LoadFile(path string) (*RawTable, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			rt, err := l.Load(path)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
			}
			return rt, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

// newRawTable trims the header, drops blank rows and pads short rows to
// the header width.
func newRawTable(name string, records [][]string) *RawTable {
	rt := &RawTable{Name: name}
	if len(records) == 0 {
		return rt
	}
	rt.Header = make([]string, len(records[0]))
	for i, h := range records[0] {
		rt.Header[i] = strings.TrimSpace(h)
	}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := make([]string, len(rt.Header))
		copy(row, rec)
		rt.Rows = append(rt.Rows, row)
	}
	return rt
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ColumnIndex returns the position of the header matching name
// (case-insensitive), or -1.
func (rt *RawTable) ColumnIndex(name string) int {
	for i, h := range rt.Header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func init() {
	Register(xlsxLoader{})
	Register(csvLoader{})
}
