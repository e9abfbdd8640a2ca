package registry

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source yields a read-only snapshot of the accessory registry.
type Source interface {
	Snapshot(ctx context.Context) ([]Accessory, error)
}

// export is the on-disk document produced by the companion app's
// "export accessories" action.
type export struct {
	Version     int         `yaml:"version"`
	Accessories []Accessory `yaml:"accessories"`
}

// FileSource reads accessory snapshots from a YAML export file.
type FileSource struct {
	Path string
}

// NewFileSource creates a Source backed by the export file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Snapshot loads and parses the export file. The file is re-read on every
// call so a refreshed export is picked up without restarting.
func (s *FileSource) Snapshot(ctx context.Context) ([]Accessory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry export: %w", err)
	}

	var doc export
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse registry export: %w", err)
	}

	if doc.Version != 1 {
		return nil, fmt.Errorf("unsupported registry export version: %d (expected 1)", doc.Version)
	}

	return doc.Accessories, nil
}
