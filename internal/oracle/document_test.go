package oracle

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestorbot/gestor-receipts/internal/receipterror"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	pdfBytes  = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
)

func TestNewDocument(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		max      int
		wantMIME string
		wantErr  error
	}{
		{name: "png", data: pngBytes, wantMIME: "image/png"},
		{name: "jpeg", data: jpegBytes, wantMIME: "image/jpeg"},
		{name: "pdf", data: pdfBytes, wantMIME: "application/pdf"},
		{name: "empty", data: nil, wantErr: ErrEmptyDocument},
		{name: "too large", data: pngBytes, max: 8, wantErr: ErrDocumentTooLarge},
		{name: "plain text", data: []byte("just some text"), wantErr: ErrUnsupportedDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := NewDocument("nota", tt.data, tt.max)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, receipterror.ErrInvalidDocument)
				assert.Equal(t, receipterror.MsgInvalidDocument, receipterror.UserMessage(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMIME, doc.MIMEType)
			assert.Equal(t, "nota", doc.Name)
			assert.Equal(t, len(tt.data), doc.Size())
		})
	}
}

func TestDecodeDocument(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pngBytes)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain base64", input: encoded},
		{name: "data url", input: "data:image/png;base64," + encoded},
		{name: "with line breaks", input: encoded[:10] + "\n" + encoded[10:20] + "\r\n" + encoded[20:]},
		{name: "without padding", input: base64.RawStdEncoding.EncodeToString(pngBytes)},
		{name: "garbage", input: "%%%not-base64%%%", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "empty after prefix", input: "data:image/png;base64,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeDocument("upload.png", tt.input, 0)
			if tt.wantErr {
				assert.ErrorIs(t, err, receipterror.ErrInvalidDocument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, pngBytes, doc.Data)
			assert.Equal(t, "image/png", doc.MIMEType)
		})
	}
}
