package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"michelin-scraper/models"
	"michelin-scraper/services"
)

// ListingCSVWriter writes listing records to a CSV file with the fixed
// listing schema header. It is safe for concurrent use.
type ListingCSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	norm   *services.Normalizer
}

// NewListingCSVWriter creates (or truncates) the CSV file at the given path
// and writes the header row. Intermediate directories are created
// automatically.
func NewListingCSVWriter(path string, norm *services.Normalizer) (*ListingCSVWriter, error) {
	f, w, err := createCSV(path)
	if err != nil {
		return nil, err
	}

	if err := w.Write(services.ListingHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &ListingCSVWriter{file: f, writer: w, norm: norm}, nil
}

// Write appends the restaurants in collection order.
func (c *ListingCSVWriter) Write(restaurants []models.Restaurant) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range restaurants {
		if err := c.writer.Write(c.norm.ListingRow(r)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *ListingCSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// DetailCSVWriter writes flattened detail results. The header cannot be
// fixed up front: degraded error records carry a different key set, so it
// is computed per batch as the sorted union of keys.
type DetailCSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	norm   *services.Normalizer

	wroteHeader bool
}

// NewDetailCSVWriter creates (or truncates) the CSV file at the given path.
// The header is written with the first batch.
func NewDetailCSVWriter(path string, norm *services.Normalizer) (*DetailCSVWriter, error) {
	f, w, err := createCSV(path)
	if err != nil {
		return nil, err
	}
	return &DetailCSVWriter{file: f, writer: w, norm: norm}, nil
}

// Write flattens and appends the results, emitting the union header first.
func (c *DetailCSVWriter) Write(results []models.DetailResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	header := c.norm.DetailHeader(results)
	if !c.wroteHeader {
		if err := c.writer.Write(header); err != nil {
			return fmt.Errorf("csv: write header: %w", err)
		}
		c.wroteHeader = true
	}

	for _, r := range results {
		if err := c.writer.Write(c.norm.DetailRow(header, r)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *DetailCSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func createCSV(path string) (*os.File, *csv.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	return f, csv.NewWriter(f), nil
}
