package intake

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Row is one parsed data line. Err is set when the line could not be turned
// into a Record; the rest of the file is still read.
type Row struct {
	Line   int
	Record Record
	Err    error
}

var requiredColumns = []string{"age", "cp", "trestbps", "chol", "fbs", "thalach"}

// ReadCSV reads a dataset with a header row. Columns are matched by name, so
// order does not matter and extra columns are ignored.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	cols := make([]int, len(requiredColumns))
	for i, name := range requiredColumns {
		pos, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		cols[i] = pos
	}

	var rows []Row
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rows = append(rows, Row{Line: parseErr.StartLine, Err: err})
				continue
			}
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		if isBlank(fields) {
			continue
		}
		line, _ := cr.FieldPos(0)
		rec, err := parseRecord(fields, cols)
		rows = append(rows, Row{Line: line, Record: rec, Err: err})
	}

	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	return rows, nil
}

func parseRecord(fields []string, cols []int) (Record, error) {
	var vals [6]float64
	for i, pos := range cols {
		if pos >= len(fields) {
			return Record{}, fmt.Errorf("column %s: missing value", requiredColumns[i])
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[pos]), 64)
		if err != nil {
			return Record{}, fmt.Errorf("column %s: %w", requiredColumns[i], err)
		}
		vals[i] = v
	}
	return Record{
		Age:               vals[0],
		ChestPainType:     vals[1],
		RestingBP:         vals[2],
		Cholesterol:       vals[3],
		FastingBloodSugar: vals[4],
		MaxHeartRate:      vals[5],
	}, nil
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
