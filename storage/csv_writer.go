package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Koveh/scrape-yandex-maps/models"
)

// CSVWriter exports the flattened record set to a CSV file. The file is
// written with a UTF-8 BOM so Excel opens Cyrillic content correctly.
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a CSVWriter targeting the given file path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVWriter{path: path}, nil
}

// Write implements PlaceWriter.
func (c *CSVWriter) Write(places []*models.Place) error {
	if len(places) == 0 {
		return nil
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}
	defer f.Close()

	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("csv: write BOM: %w", err)
	}

	w := csv.NewWriter(f)

	columns, rows := Flatten(places)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
