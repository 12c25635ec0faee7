package document_test

import (
	"testing"

	"agents-manager/core/document"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, raw string) document.Document {
	t.Helper()
	doc, err := document.Decode([]byte(raw))
	require.NoError(t, err)
	return doc
}

func TestHash_KeyOrderIndependent(t *testing.T) {
	a := mustDecode(t, `{"name":"Support","conversation_config":{"tts":{"voice_id":"abc","stability":0.5},"agent":{"first_message":"hi"}},"tags":["a","b"]}`)
	b := mustDecode(t, `{"tags":["a","b"],"conversation_config":{"agent":{"first_message":"hi"},"tts":{"stability":0.5,"voice_id":"abc"}},"name":"Support"}`)

	assert.Equal(t, document.Hash(a), document.Hash(b))
}

func TestHash_ObjectsInsideArrays(t *testing.T) {
	a := mustDecode(t, `{"tools":[{"id":"1","type":"webhook"},{"id":"2","type":"client"}]}`)
	b := mustDecode(t, `{"tools":[{"type":"webhook","id":"1"},{"type":"client","id":"2"}]}`)
	reordered := mustDecode(t, `{"tools":[{"id":"2","type":"client"},{"id":"1","type":"webhook"}]}`)

	assert.Equal(t, document.Hash(a), document.Hash(b))
	assert.NotEqual(t, document.Hash(a), document.Hash(reordered), "array element order is significant")
}

func TestHash_LeafChanges(t *testing.T) {
	base := mustDecode(t, `{"name":"Support","prompt":"be nice"}`)

	tests := []struct {
		name string
		doc  string
	}{
		{"ExtraSpace", `{"name":"Support","prompt":"be nice "}`},
		{"DifferentValue", `{"name":"Support","prompt":"be rude"}`},
		{"ExtraKey", `{"name":"Support","prompt":"be nice","x":null}`},
		{"TypeChange", `{"name":"Support","prompt":["be nice"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, document.Hash(base), document.Hash(mustDecode(t, tt.doc)))
		})
	}
}

func TestHash_LargeNumbers(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"BeyondInt64", `{"n":12345678901234567890}`, `{"n":12345678901234567891}`},
		{"BeyondFloat64Precision", `{"n":0.10000000000000000001}`, `{"n":0.10000000000000000002}`},
		{"LongInteger", `{"n":9007199254740993}`, `{"n":9007199254740992}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, document.Hash(mustDecode(t, tt.a)), document.Hash(mustDecode(t, tt.b)))
		})
	}

	assert.Equal(t, `{"n":12345678901234567890}`, string(document.Canonical(mustDecode(t, `{"n":12345678901234567890}`))))
	assert.Equal(t, `{"n":12345678901234567890}`, string(document.Canonical(mustDecode(t, `{"n":1.234567890123456789e19}`))))
}

func TestHash_NumberSpelling(t *testing.T) {
	a := mustDecode(t, `{"n":1,"f":0.25,"big":10000000}`)
	b := mustDecode(t, `{"n":1.0,"f":2.5e-1,"big":1e7}`)

	assert.Equal(t, document.Hash(a), document.Hash(b))
}

func TestHash_GoValues(t *testing.T) {
	fromJSON := mustDecode(t, `{"name":"x","count":3,"ok":true}`)
	native := map[string]any{"ok": true, "count": 3, "name": "x"}

	assert.Equal(t, document.Hash(fromJSON), document.Hash(native))
	assert.Len(t, document.Hash(native), 64)
}

func TestCanonical_Form(t *testing.T) {
	doc := mustDecode(t, `{ "b": [1, {"d": 1, "c": "<x>"}], "a": null }`)

	assert.Equal(t, `{"a":null,"b":[1,{"c":"<x>","d":1}]}`, string(document.Canonical(doc)))
}
