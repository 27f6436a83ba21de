package validation_test

import (
	"os"
	"path/filepath"
	"testing"

	"gestorbot/gestor-receipts/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidPath(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "nota.jpg")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	tests := []struct {
		name        string
		path        string
		expectError bool
		errContains string
	}{
		{name: "file", path: testFile},
		{name: "directory", path: tmpDir},
		{name: "non-existent path", path: filepath.Join(tmpDir, "missing.jpg"), expectError: true, errContains: "path does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.IsValidPath(tt.path)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOutputFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
		wantErr  bool
	}{
		{"out.csv", validation.FormatCSV, false},
		{"OUT.XLSX", validation.FormatXLSX, false},
		{"dir/result.json", validation.FormatJSON, false},
		{"result.xml", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := validation.OutputFormatFromPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
