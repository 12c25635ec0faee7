package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject is returned when a config payload is valid JSON but not an object.
var ErrNotObject = errors.New("document is not a JSON object")

// Document is a resource configuration: an arbitrary JSON object.
// Only a handful of fields are ever inspected; everything else is carried opaquely.
type Document map[string]any

// Decode parses raw JSON into a Document. Numbers are kept as json.Number so that
// large identifiers and integer-valued settings survive a round trip unchanged.
func Decode(raw []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("invalid JSON: trailing data after document")
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return Document(obj), nil
}

// Encode renders the document with two-space indentation and a trailing newline,
// the layout used for every file written to a project.
func (d Document) Encode() ([]byte, error) {
	return EncodeValue(map[string]any(d))
}

// EncodeValue renders any JSON value the same way Encode does.
func EncodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Name returns the display name of the resource, or "" when absent.
func (d Document) Name() string {
	return d.String("name")
}

// String returns the string value at key, or "" when absent or not a string.
func (d Document) String(key string) string {
	if d == nil {
		return ""
	}
	s, _ := d[key].(string)
	return s
}

// Object returns the nested object at key.
func (d Document) Object(key string) (Document, bool) {
	if d == nil {
		return nil, false
	}
	switch v := d[key].(type) {
	case map[string]any:
		return Document(v), true
	case Document:
		return v, true
	default:
		return nil, false
	}
}

// Without returns a shallow copy of the document with the given keys removed.
func (d Document) Without(keys ...string) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(cloneValue(map[string]any(d)).(map[string]any))
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = cloneValue(child)
		}
		return out
	case Document:
		return cloneValue(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = cloneValue(child)
		}
		return out
	default:
		return t
	}
}
