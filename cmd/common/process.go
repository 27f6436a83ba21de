// Package common contains shared functionality for command handlers
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/oracle"
	"gestorbot/gestor-receipts/internal/receipterror"
	"gestorbot/gestor-receipts/internal/validation"
)

// Result is the JSON printed by the single-document commands. It mirrors the
// upload API so scripts can share a parser.
type Result struct {
	Sucesso bool   `json:"sucesso"`
	Dados   any    `json:"dados,omitempty"`
	Erro    string `json:"erro,omitempty"`
}

// ReadDocument loads and validates a receipt document from disk.
func ReadDocument(path string, maxBytes int) (oracle.Document, error) {
	if err := validation.IsValidPath(path); err != nil {
		return oracle.Document{}, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is selected by the operator
	if err != nil {
		return oracle.Document{}, fmt.Errorf("error reading %s: %w", path, err)
	}
	return oracle.NewDocument(filepath.Base(path), data, maxBytes)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteResult prints rec, usually a record's View, or the rejection message of err. A rejection is
// reported in the output and also returned so the command exits non-zero.
func WriteResult(w io.Writer, rec any, err error) error {
	if err != nil {
		if werr := WriteJSON(w, Result{Erro: receipterror.UserMessage(err)}); werr != nil {
			return werr
		}
		return err
	}
	return WriteJSON(w, Result{Sucesso: true, Dados: rec})
}

// OpenOutput returns stdout for an empty path, or creates path.
func OpenOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return nil, nil, fmt.Errorf("error creating directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionExportFile) // #nosec G304 -- output path chosen by the operator
	if err != nil {
		return nil, nil, fmt.Errorf("error creating output file: %w", err)
	}
	return f, f.Close, nil
}
