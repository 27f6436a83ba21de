// Package store locates, reads and writes the taxonomy file.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/taxonomy"
)

// DefaultTaxonomyFile is the file name searched for when none is configured.
const DefaultTaxonomyFile = "taxonomy.yaml"

// EmbeddedSource is reported as the source when the built-in taxonomy is used.
const EmbeddedSource = "embedded"

// TaxonomySource loads the taxonomy the application runs with.
type TaxonomySource interface {
	Load() (*taxonomy.Taxonomy, string, error)
}

// TaxonomyStore loads the taxonomy from an override file or falls back to the
// embedded default.
type TaxonomyStore struct {
	File   string
	logger logging.Logger
}

// NewTaxonomyStore creates a store. An empty file means "search the standard
// locations for taxonomy.yaml, else use the embedded default".
func NewTaxonomyStore(file string, logger logging.Logger) *TaxonomyStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &TaxonomyStore{File: file, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *TaxonomyStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".gestor", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// Load returns the parsed taxonomy and where it came from. An explicitly
// configured file that cannot be found is an error; a missing default file is not.
func (s *TaxonomyStore) Load() (*taxonomy.Taxonomy, string, error) {
	filename := s.File
	explicit := filename != ""
	if !explicit {
		filename = DefaultTaxonomyFile
	}

	path, err := s.FindConfigFile(filename)
	if err != nil {
		if explicit {
			return nil, "", fmt.Errorf("taxonomy file %s: %w", filename, err)
		}
		tax, err := taxonomy.Default()
		if err != nil {
			return nil, "", fmt.Errorf("embedded taxonomy: %w", err)
		}
		s.logger.Debug("Using embedded taxonomy")
		return tax, EmbeddedSource, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("error reading taxonomy file: %w", err)
	}
	tax, err := taxonomy.Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("taxonomy file %s: %w", path, err)
	}

	s.logger.Info("Loaded taxonomy",
		logging.Field{Key: logging.FieldFileName, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(tax.Categories())})
	return tax, path, nil
}

// WriteDefault writes the embedded taxonomy to path so it can be customised.
// An existing file is only replaced when overwrite is set.
func (s *TaxonomyStore) WriteDefault(path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%s: %w", path, os.ErrExist)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error checking taxonomy file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if err := os.WriteFile(path, taxonomy.DefaultYAML(), models.PermissionExportFile); err != nil {
		return fmt.Errorf("error writing taxonomy file: %w", err)
	}

	s.logger.Info("Wrote default taxonomy", logging.Field{Key: logging.FieldOutputFile, Value: path})
	return nil
}
