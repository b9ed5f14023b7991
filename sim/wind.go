package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"
)

// WindTrace lazily reads a columnar CSV file of wind speeds, one row per
// simulation step and one column per time series:
//
//	3.5, 0.0, 2.3
//	3.5, 0.1, 2.2
//	3.6, 0.3, 2.3
//
// Files with an .xz suffix are LZMA-compressed. If the park has more WECS
// than the file has columns, series are reused modulo the column count.
type WindTrace struct {
	file   *os.File
	reader *csv.Reader
	count  int // number of WECS the trace is expanded to
	row    int
}

// OpenWindTrace opens the wind file at path for a park of count WECS.
func OpenWindTrace(path string, count int) (*WindTrace, error) {
	if count <= 0 {
		return nil, fmt.Errorf("wind trace needs a positive WECS count, got %d", count)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wind file: %w", err)
	}

	var src io.Reader = file
	if strings.HasSuffix(path, ".xz") {
		src, err = xz.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("open xz wind file %s: %w", path, err)
		}
	}

	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // column count is checked against the park, not the header

	return &WindTrace{file: file, reader: reader, count: count}, nil
}

// Next returns the wind speed vector for the next step, expanded to one
// value per WECS. It returns io.EOF once the trace is exhausted.
func (wt *WindTrace) Next() ([]float64, error) {
	record, err := wt.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("wind file row %d: %w", wt.row, err)
	}

	values := make([]float64, len(record))
	for i, field := range record {
		values[i], err = strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("wind file row %d column %d: %w", wt.row, i, err)
		}
	}
	wt.row++

	// Expand the series to the park size: ts_idx = wecs_idx % ts_count.
	v := make([]float64, wt.count)
	for i := range v {
		v[i] = values[i%len(values)]
	}
	return v, nil
}

// Close releases the underlying file.
func (wt *WindTrace) Close() error {
	return wt.file.Close()
}
