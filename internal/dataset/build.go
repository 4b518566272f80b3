package dataset

import (
	"fmt"

	"go.uber.org/zap"
)

// Sources holds the paths of the three input spreadsheets.
type Sources struct {
	Codes      string
	Cellphones string
	Internet   string
}

// Build runs load, normalize, merge and clean and returns the combined
// table. Any missing or malformed input aborts the build.
func Build(src Sources, opt CleanOptions, log *zap.Logger) (*Table, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rawCodes, err := LoadFile(src.Codes)
	if err != nil {
		return nil, err
	}
	codes, err := NormalizeCodes(rawCodes)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded code table", zap.String("file", rawCodes.Name), zap.Int("rows", len(codes.Keys)))

	metrics := make(map[Metric]*MetricTable, len(Metrics))
	for _, m := range Metrics {
		path := src.Cellphones
		if m == Internet {
			path = src.Internet
		}
		raw, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		mt, err := NormalizeMetric(raw, m)
		if err != nil {
			return nil, err
		}
		log.Debug("loaded metric table",
			zap.String("file", raw.Name),
			zap.String("metric", string(m)),
			zap.Int("rows", len(mt.Rows)),
			zap.Int("years", len(mt.Years)))
		metrics[m] = mt
	}

	t, dropped := Merge(codes, metrics[Cellphones], metrics[Internet])
	log.Debug("merged tables",
		zap.Int("rows", len(t.Rows)),
		zap.Int("columns", len(t.Columns)),
		zap.Int("unmatched_countries", len(dropped)),
		zap.Strings("unmatched", dropped))
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("merge produced no rows: no country appears in all three sources")
	}

	before := len(t.Columns)
	Clean(t, opt)
	log.Debug("cleaned table",
		zap.Int("dropped_columns", before-len(t.Columns)),
		zap.Int("from", opt.DropFrom),
		zap.Int("to", opt.DropTo))
	return t, nil
}
