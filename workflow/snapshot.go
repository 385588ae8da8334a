package workflow

import (
	"bytes"
	"encoding/json"
)

// marshalSnapshot serializes a stage's output list field-for-field, without
// escaping multibyte text so the artifacts stay human-readable.
func marshalSnapshot(payload interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
