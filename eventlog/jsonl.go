package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSONL writes the trail as one JSON object per line.
func (t *Trail) WriteJSONL(w io.Writer) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, e := range t.Entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteJSONLFile writes the trail to a JSONL file.
func (t *Trail) WriteJSONLFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.WriteJSONL(f)
}

// ReadJSONL parses a trail previously written by WriteJSONL. Blank lines
// are skipped.
func ReadJSONL(r io.Reader) (*Trail, error) {
	trail := &Trail{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("eventlog: line %d: %w", line, err)
		}
		trail.Entries = append(trail.Entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	trail.sort()
	return trail, nil
}
