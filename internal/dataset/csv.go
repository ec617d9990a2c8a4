package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Raw is one row as the loader sees it: column name to raw value.
// Values are strings as read, or nil for an empty cell.
type Raw map[string]any

var (
	ErrEmptyDataset = errors.New("dataset has no rows")
	ErrNoIDColumn   = errors.New("dataset has no id column")
)

// ReadCSV decodes a CSV dump into raw rows. The header row names the
// columns and must include "id". Empty cells become nil; all other
// cells are kept as trimmed strings for the validator to coerce.
func ReadCSV(r io.Reader) ([]Raw, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// tolerate ragged rows; short rows are padded with nils
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	hasID := false
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		if header[i] == "id" {
			hasID = true
		}
	}
	if !hasID {
		return nil, ErrNoIDColumn
	}

	var rows []Raw
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		row := make(Raw, len(header))
		for i, h := range header {
			if i >= len(rec) {
				row[h] = nil
				continue
			}
			v := strings.TrimSpace(rec[i])
			if v == "" {
				row[h] = nil
			} else {
				row[h] = v
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	return rows, nil
}
