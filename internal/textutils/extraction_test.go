package textutils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]any
		ok       bool
	}{
		{
			name:     "plain object",
			input:    `{"valor": 100}`,
			expected: map[string]any{"valor": json.Number("100")},
			ok:       true,
		},
		{
			name:     "fenced json block",
			input:    "```json\n{\"data\": \"2025-12-26\"}\n```",
			expected: map[string]any{"data": "2025-12-26"},
			ok:       true,
		},
		{
			name:     "untagged fence inside prose",
			input:    "Segue o resultado:\n```\n{\"categoria\": \"Bebidas\"}\n```\nObrigado!",
			expected: map[string]any{"categoria": "Bebidas"},
			ok:       true,
		},
		{
			name:     "braces inside prose",
			input:    `Aqui está: {"valor_total": "R$ 10,00", "erro": null} espero ter ajudado`,
			expected: map[string]any{"valor_total": "R$ 10,00", "erro": nil},
			ok:       true,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{\"a\": true}\n ",
			expected: map[string]any{"a": true},
			ok:       true,
		},
		{name: "no json", input: "no json here", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "array is not a record", input: `[1, 2]`, ok: false},
		{name: "broken object", input: `{"valor": }`, ok: false},
		{name: "reversed braces", input: `} nothing {`, ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestExtractJSONObject_TwoObjectsFallsBackToSpan(t *testing.T) {
	// The whole text holds two objects; first-to-last brace spans both and is invalid.
	_, ok := ExtractJSONObject(`{"a": 1} {"b": 2}`)
	assert.False(t, ok)

	obj, ok := ExtractJSONObject("```json\n{\"a\": 1}\n```\n```json\n{\"b\": 2}\n```")
	require.True(t, ok)
	assert.Equal(t, json.Number("1"), obj["a"])
}

func TestStringField(t *testing.T) {
	assert.Equal(t, "CEASA", StringField("  CEASA "))
	assert.Equal(t, "12.50", StringField(json.Number("12.50")))
	assert.Equal(t, "", StringField(nil))
	assert.Equal(t, "", StringField(true))
}
