package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"michelin-scraper/models"
)

// ErrMissingURLColumn marks an input file that cannot be batched: without
// the identifier column there is nothing to visit. This failure is fatal
// for the detail run, never retried.
var ErrMissingURLColumn = errors.New("input csv has no url column")

// ReadReferences loads restaurant references from a listing CSV. Rows with
// a missing or sentinel url are filtered out; the optional name, location,
// stars, and distinction columns are carried into detail records.
func ReadReferences(path string) ([]models.Reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv: %q: %w", path, ErrMissingURLColumn)
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[name] = i
	}
	urlIdx, ok := cols["url"]
	if !ok {
		return nil, fmt.Errorf("csv: %q: %w", path, ErrMissingURLColumn)
	}

	var refs []models.Reference
	for _, row := range rows[1:] {
		url := cell(row, urlIdx, "")
		if url == "" || url == models.Unavailable {
			continue
		}

		stars, _ := strconv.Atoi(cell(row, colIdx(cols, "stars"), "0"))

		refs = append(refs, models.Reference{
			Name:        cell(row, colIdx(cols, "name"), models.Unavailable),
			URL:         url,
			Location:    cell(row, colIdx(cols, "location"), models.Unavailable),
			Stars:       stars,
			Distinction: cell(row, colIdx(cols, "distinction"), models.Unavailable),
		})
	}

	return refs, nil
}

func colIdx(cols map[string]int, name string) int {
	if i, ok := cols[name]; ok {
		return i
	}
	return -1
}

func cell(row []string, idx int, fallback string) string {
	if idx < 0 || idx >= len(row) || row[idx] == "" {
		return fallback
	}
	return row[idx]
}
