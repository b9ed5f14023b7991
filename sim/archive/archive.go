package archive

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// uncappedMarker is how a row without a power limit is serialized.
const uncappedMarker = "uncapped"

var header = []string{"time", "wecs", "v", "P", "P_max"}

// Writer appends records to a CSV-backed archive. A write or flush error is
// fatal for the run; no partial batch is ever accepted.
type Writer struct {
	csv    *csv.Writer
	closer io.Closer
	rows   int
}

// NewWriter wraps w into an archive writer and emits the header row.
func NewWriter(w io.Writer) (*Writer, error) {
	aw := &Writer{csv: csv.NewWriter(w)}
	if err := aw.csv.Write(header); err != nil {
		return nil, fmt.Errorf("writing archive header: %w", err)
	}
	return aw, nil
}

// Create opens (and truncates) the archive file at path.
func Create(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}
	aw, err := NewWriter(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	aw.closer = file
	return aw, nil
}

// Append writes one batch of records for a completed step and flushes it.
// Either the whole batch becomes durable or an error is returned.
func (aw *Writer) Append(batch []Record) error {
	for _, r := range batch {
		if err := aw.csv.Write(encode(r)); err != nil {
			return fmt.Errorf("archive row %d: %w", aw.rows, err)
		}
		aw.rows++
	}
	aw.csv.Flush()
	if err := aw.csv.Error(); err != nil {
		return fmt.Errorf("flushing archive: %w", err)
	}
	return nil
}

// Rows returns the number of rows appended so far.
func (aw *Writer) Rows() int {
	return aw.rows
}

// Close flushes and closes the underlying file, if the writer owns one.
func (aw *Writer) Close() error {
	aw.csv.Flush()
	if err := aw.csv.Error(); err != nil {
		return fmt.Errorf("flushing archive: %w", err)
	}
	if aw.closer != nil {
		return aw.closer.Close()
	}
	return nil
}

func encode(r Record) []string {
	pMax := uncappedMarker
	if !r.Uncapped() {
		pMax = formatFloat(r.PMax)
	}
	return []string{
		strconv.FormatInt(r.Time, 10),
		r.Wecs,
		formatFloat(r.V),
		formatFloat(r.P),
		pMax,
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ReadAll reads an entire archive back, in write order.
func ReadAll(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	first, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("archive is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading archive header: %w", err)
	}
	if len(first) != len(header) || first[0] != header[0] {
		return nil, fmt.Errorf("unexpected archive header %v", first)
	}

	var records []Record
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("archive row %d: %w", row, err)
		}
		record, err := decode(fields)
		if err != nil {
			return nil, fmt.Errorf("archive row %d: %w", row, err)
		}
		records = append(records, record)
	}
}

// ReadFile reads the archive file at path back, in write order.
func ReadFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer file.Close()
	return ReadAll(file)
}

func decode(fields []string) (Record, error) {
	var r Record
	var err error
	if r.Time, err = strconv.ParseInt(fields[0], 10, 64); err != nil {
		return r, fmt.Errorf("time: %w", err)
	}
	r.Wecs = fields[1]
	if r.V, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return r, fmt.Errorf("v: %w", err)
	}
	if r.P, err = strconv.ParseFloat(fields[3], 64); err != nil {
		return r, fmt.Errorf("P: %w", err)
	}
	if fields[4] == uncappedMarker {
		r.PMax = math.Inf(1)
	} else if r.PMax, err = strconv.ParseFloat(fields[4], 64); err != nil {
		return r, fmt.Errorf("P_max: %w", err)
	}
	return r, nil
}
