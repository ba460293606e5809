package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Koveh/scrape-yandex-maps/models"
)

// JSONWriter persists the full structured record set. It is the only
// export that round-trips every field losslessly.
type JSONWriter struct {
	path string
}

// NewJSONWriter creates a JSONWriter targeting the given file path.
func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{path: path}
}

// Write implements PlaceWriter.
func (w *JSONWriter) Write(places []*models.Place) error {
	data, err := json.MarshalIndent(places, "", "  ")
	if err != nil {
		return fmt.Errorf("json: marshal: %w", err)
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("json: write %q: %w", w.path, err)
	}
	return nil
}
