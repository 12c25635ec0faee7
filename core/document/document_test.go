package document_test

import (
	"encoding/json"
	"testing"

	"agents-manager/core/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("Object", func(t *testing.T) {
		doc, err := document.Decode([]byte(`{"name":"Support","id":12345678901234567890}`))
		require.NoError(t, err)
		assert.Equal(t, "Support", doc.Name())
		assert.Equal(t, json.Number("12345678901234567890"), doc["id"])
	})

	t.Run("NotObject", func(t *testing.T) {
		_, err := document.Decode([]byte(`["a"]`))
		assert.ErrorIs(t, err, document.ErrNotObject)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := document.Decode([]byte(`{"name":`))
		assert.Error(t, err)
	})

	t.Run("TrailingData", func(t *testing.T) {
		_, err := document.Decode([]byte(`{} {}`))
		assert.Error(t, err)
	})
}

func TestEncode(t *testing.T) {
	doc := document.Document{"name": "A & B", "n": json.Number("1")}

	raw, err := doc.Encode()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"n\": 1,\n  \"name\": \"A & B\"\n}\n", string(raw))
}

func TestAccessors(t *testing.T) {
	doc := mustDecode(t, `{"name":"Support","tool_config":{"name":"inner"},"count":3}`)

	assert.Equal(t, "", doc.String("count"))
	assert.Equal(t, "", doc.String("missing"))

	inner, ok := doc.Object("tool_config")
	require.True(t, ok)
	assert.Equal(t, "inner", inner.Name())

	_, ok = doc.Object("name")
	assert.False(t, ok)

	trimmed := doc.Without("count", "tool_config")
	assert.Equal(t, document.Document{"name": "Support"}, trimmed)
	assert.Contains(t, doc, "count", "Without does not mutate the receiver")

	var nilDoc document.Document
	assert.Equal(t, "", nilDoc.Name())
}

func TestClone_IsDeep(t *testing.T) {
	doc := mustDecode(t, `{"a":{"b":[1,{"c":2}]}}`)

	cp := doc.Clone()
	inner, _ := cp.Object("a")
	inner["b"].([]any)[1].(map[string]any)["c"] = "changed"

	assert.NotEqual(t, document.Hash(doc), document.Hash(cp))
}
