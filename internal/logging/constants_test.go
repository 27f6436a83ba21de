package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldConstantsAreDistinct(t *testing.T) {
	keys := []string{
		FieldReceiptID, FieldFileName, FieldKind, FieldCategory, FieldSubcategory,
		FieldPaymentType, FieldAmount, FieldDate, FieldKeyword, FieldStrategy,
		FieldReason, FieldOperation, FieldStatus, FieldError, FieldDuration,
		FieldCount, FieldMIME, FieldModel, FieldRequestID, FieldOutputFile,
	}

	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		assert.NotEmpty(t, k)
		assert.False(t, seen[k], "duplicate field key %q", k)
		seen[k] = true
	}
}
