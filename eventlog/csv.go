package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{"campaign", "version", "id", "type", "at", "data"}

// WriteCSV writes the trail as CSV with a header row.
func (t *Trail) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range t.Entries {
		row := []string{
			e.Campaign,
			strconv.Itoa(e.Version),
			e.ID,
			e.Type,
			e.At.Format(time.RFC3339Nano),
			e.Data,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the trail to a CSV file.
func (t *Trail) WriteCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.WriteCSV(f)
}

// ReadCSV parses a trail previously written by WriteCSV.
func ReadCSV(r io.Reader) (*Trail, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &Trail{}, nil
	}

	trail := &Trail{}
	for i, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("eventlog: row %d has %d columns, want %d", i+2, len(row), len(csvHeader))
		}
		version, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("eventlog: row %d: bad version %q", i+2, row[1])
		}
		at, err := time.Parse(time.RFC3339Nano, row[4])
		if err != nil {
			return nil, fmt.Errorf("eventlog: row %d: bad timestamp %q", i+2, row[4])
		}
		trail.Entries = append(trail.Entries, Entry{
			Campaign: row[0],
			Version:  version,
			ID:       row[2],
			Type:     row[3],
			At:       at,
			Data:     row[5],
		})
	}
	trail.sort()
	return trail, nil
}
