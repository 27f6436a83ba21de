// Package validation checks user-supplied paths and formats and the shape of
// records extracted from oracle output.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsValidPath checks if a given path exists and is a regular file or directory.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}

	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}
	return nil
}

// Export formats accepted by the batch command.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// OutputFormatFromPath derives the export format from a file extension.
func OutputFormatFromPath(path string) (string, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if err := IsValidOutputFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	switch format {
	case FormatCSV, FormatXLSX, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %q. Supported formats are 'csv', 'xlsx', 'json'", format)
	}
}
