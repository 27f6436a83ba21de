package oracle

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"gestorbot/gestor-receipts/internal/receipterror"
)

// DefaultMaxDocumentBytes is the largest document sent to the oracle.
const DefaultMaxDocumentBytes = 4 << 20

// Document errors, wrapped in an invalid-document rejection.
var (
	ErrEmptyDocument       = errors.New("empty document")
	ErrDocumentTooLarge    = errors.New("document too large")
	ErrUnsupportedDocument = errors.New("unsupported document type")
)

// Supported MIME types. PDFs go to the oracle as-is.
var supportedMIME = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
	"image/heic",
	"image/heif",
	"application/pdf",
}

// Document is a validated upload ready to be sent to the oracle.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Size returns the document size in bytes.
func (d Document) Size() int {
	return len(d.Data)
}

// NewDocument validates raw bytes and detects their MIME type.
// maxBytes <= 0 means DefaultMaxDocumentBytes.
func NewDocument(name string, data []byte, maxBytes int) (Document, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDocumentBytes
	}
	if len(data) == 0 {
		return Document{}, receipterror.InvalidDocument(ErrEmptyDocument)
	}
	if len(data) > maxBytes {
		return Document{}, receipterror.InvalidDocument(
			fmt.Errorf("%w: %.2fMB, limit %.2fMB", ErrDocumentTooLarge, megabytes(len(data)), megabytes(maxBytes)))
	}

	mtype := mimetype.Detect(data)
	for _, supported := range supportedMIME {
		if mtype.Is(supported) {
			return Document{Name: name, MIMEType: supported, Data: data}, nil
		}
	}
	return Document{}, receipterror.InvalidDocument(fmt.Errorf("%w: %s", ErrUnsupportedDocument, mtype.String()))
}

// DecodeDocument decodes base64 content, with or without a
// "data:<mime>;base64," prefix, and validates it like NewDocument.
func DecodeDocument(name, encoded string, maxBytes int) (Document, error) {
	if _, after, found := strings.Cut(encoded, "base64,"); found {
		encoded = after
	}
	encoded = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, encoded)
	if encoded == "" {
		return Document{}, receipterror.InvalidDocument(ErrEmptyDocument)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// Some clients strip the padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		if err != nil {
			return Document{}, receipterror.InvalidDocument(fmt.Errorf("decode base64: %w", err))
		}
	}
	return NewDocument(name, data, maxBytes)
}

func megabytes(n int) float64 {
	return float64(n) / (1024 * 1024)
}
