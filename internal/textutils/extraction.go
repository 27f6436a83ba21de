// Package textutils provides text extraction and manipulation utilities.
package textutils

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
)

// extractor is one strategy for pulling a JSON object out of free text.
type extractor func(text string) (map[string]any, bool)

var fencedBlock = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

// ExtractJSONObject pulls a single JSON object out of text that may carry
// prose or code fences around it. Strategies run in order and the first
// success wins:
//  1. the whole trimmed text
//  2. the interior of a fenced block, optionally tagged json
//  3. the substring from the first '{' to the last '}'
//
// Numbers are decoded as json.Number so amounts keep their exact digits.
func ExtractJSONObject(text string) (map[string]any, bool) {
	for _, try := range []extractor{wholeText, fencedText, bracedText} {
		if obj, ok := try(text); ok {
			return obj, true
		}
	}
	return nil, false
}

func wholeText(text string) (map[string]any, bool) {
	return decodeObject(strings.TrimSpace(text))
}

func fencedText(text string) (map[string]any, bool) {
	for _, m := range fencedBlock.FindAllStringSubmatch(text, -1) {
		if obj, ok := decodeObject(m[1]); ok {
			return obj, true
		}
	}
	return nil, false
}

func bracedText(text string) (map[string]any, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	return decodeObject(text[start : end+1])
}

func decodeObject(s string) (map[string]any, bool) {
	if s == "" {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	// Reject trailing content such as a second object.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return obj, true
}

// StringField returns v as trimmed text. Numbers are rendered with their
// original digits, other types yield "".
func StringField(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
