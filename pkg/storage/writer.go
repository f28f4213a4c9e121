package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"igprofile/pkg/models"
)

// Writer persists a scrape result as JSON.
type Writer struct {
	path   string
	pretty bool
}

// NewWriter creates a writer for the given path. An empty path writes to
// stdout.
func NewWriter(path string, pretty bool) *Writer {
	return &Writer{path: path, pretty: pretty}
}

// Write serializes the result. File output is atomic: the document is
// written to a temp file and renamed into place.
func (w *Writer) Write(result *models.ScrapeResult) error {
	var data []byte
	var err error
	if w.pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	data = append(data, '\n')

	if w.path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmpPath := w.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		return fmt.Errorf("failed to replace output file: %w", err)
	}

	return nil
}
