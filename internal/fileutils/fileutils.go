// Package fileutils provides the file operations shared by the analysis
// commands: locating input files and deriving output paths.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vorp/rfm-csv/internal/models"
)

// Output file suffixes appended to the input base name.
const (
	RecordsSuffix  = "_rfm.csv"
	SegmentsSuffix = "_segments.csv"
	ReportSuffix   = "_report"
)

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates dirPath and its parents when missing.
func EnsureDirectoryExists(dirPath string) error {
	if dirPath == "" || DirectoryExists(dirPath) {
		return nil
	}
	if err := os.MkdirAll(dirPath, models.PermissionDirectory); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// WriteFile writes data to filePath, creating parent directories if needed.
func WriteFile(filePath string, data []byte) error {
	if err := EnsureDirectoryExists(filepath.Dir(filePath)); err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	return nil
}

// BaseName returns the file name of path without directory and extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// OutputPath builds the path of an artifact derived from inputFile. The
// artifact lands in outputDir, or next to the input when outputDir is empty.
func OutputPath(inputFile, outputDir, suffix string) string {
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(inputFile)
	}
	return filepath.Join(dir, BaseName(inputFile)+suffix)
}

// ListCSVFiles returns the .csv files directly inside dirPath, sorted by name.
// Files previously written by an analysis (records and segment exports) are
// left out so a directory can be re-processed in place.
func ListCSVFiles(dirPath string) ([]string, error) {
	if !DirectoryExists(dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		if IsGeneratedOutput(name) {
			continue
		}
		files = append(files, filepath.Join(dirPath, name))
	}
	sort.Strings(files)
	return files, nil
}

// IsGeneratedOutput reports whether name looks like a file written by an
// analysis run.
func IsGeneratedOutput(name string) bool {
	lower := strings.ToLower(filepath.Base(name))
	return strings.HasSuffix(lower, RecordsSuffix) || strings.HasSuffix(lower, SegmentsSuffix)
}
