// Package oracle talks to the vision model that reads receipt images.
// The rest of the application sees it as an opaque text producer behind the
// Oracle interface.
package oracle

import (
	"context"

	"gestorbot/gestor-receipts/internal/receipterror"
)

// Oracle extracts free text from a document following prompt.
// Implementations perform one blocking call with no retries.
type Oracle interface {
	Extract(ctx context.Context, doc Document, prompt string) (string, error)
}

// NotConfigured is the Oracle used when no API key is available. Every call
// fails with a user-facing "not configured" rejection.
type NotConfigured struct{}

// Extract implements Oracle.
func (NotConfigured) Extract(context.Context, Document, string) (string, error) {
	return "", receipterror.OracleUnavailable(receipterror.MsgOracleNotConfigured, nil)
}
