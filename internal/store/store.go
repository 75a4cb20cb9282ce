// Package store provides loading and saving of the segment catalog.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"vorp/rfm-csv/internal/logging"
	"vorp/rfm-csv/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultCatalogFile is searched for when no catalog file is configured.
const DefaultCatalogFile = "segments.yaml"

type catalogFile struct {
	Segments []SegmentInfo `yaml:"segments"`
}

// CatalogStore loads segment catalog overrides from a YAML file
type CatalogStore struct {
	CatalogFile string
	logger      logging.Logger
}

// NewCatalogStore creates a store reading catalogFile (DefaultCatalogFile when empty)
func NewCatalogStore(catalogFile string, logger logging.Logger) *CatalogStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &CatalogStore{CatalogFile: catalogFile, logger: logger}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *CatalogStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,                            // Current directory
		filepath.Join("config", filename),   // ./config/ directory
		filepath.Join(".rfm-csv", filename), // ./.rfm-csv/ directory
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	// If still not found, check in user's home directory under .rfm-csv/
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".rfm-csv", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadCatalog returns the built-in catalog with the entries of the catalog file
// applied on top. A missing file is not an error. Entries naming an unknown
// segment or carrying an invalid color are skipped with a warning.
func (s *CatalogStore) LoadCatalog() (*SegmentCatalog, error) {
	catalog := DefaultCatalog()

	filename := s.CatalogFile
	if filename == "" {
		filename = DefaultCatalogFile
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		s.logger.WithField(logging.FieldFile, filename).Debug("Segment catalog file not found, using built-in catalog")
		return catalog, nil
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- config path
	if err != nil {
		return nil, fmt.Errorf("error reading segment catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing segment catalog file %s: %w", filePath, err)
	}

	applied := 0
	for _, entry := range file.Segments {
		if entry.Color != "" && !hexColor.MatchString(entry.Color) {
			s.logger.WithFields(
				logging.Field{Key: logging.FieldSegment, Value: entry.Name},
				logging.Field{Key: "color", Value: entry.Color},
			).Warn("Ignoring segment override with invalid color")
			continue
		}
		if !catalog.override(entry) {
			s.logger.WithField(logging.FieldSegment, entry.Name).Warn("Ignoring override for unknown segment")
			continue
		}
		applied++
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: applied},
	).Info("Loaded segment catalog overrides")
	return catalog, nil
}

// SaveCatalog writes catalog as YAML to path.
func (s *CatalogStore) SaveCatalog(catalog *SegmentCatalog, path string) error {
	data, err := yaml.Marshal(catalogFile{Segments: catalog.All()})
	if err != nil {
		return fmt.Errorf("error marshaling segment catalog: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error writing segment catalog file: %w", err)
	}
	return nil
}
