package document_test

import (
	"testing"

	"agents-manager/core/document"

	"github.com/stretchr/testify/assert"
)

func TestSnakeKey(t *testing.T) {
	tests := map[string]string{
		"firstMessage":   "first_message",
		"first_message":  "first_message",
		"first-message":  "first_message",
		"FirstMessage":   "first_message",
		"voiceID":        "voice_id",
		"HTTPServer":     "http_server",
		"apiUrlV2":       "api_url_v2",
		"item_1":         "item_1",
		"Content-Type":   "content_type",
		"x.y":            "x.y",
		"with space":     "with space",
		"":               "",
		"_internalField": "_internal_field",
	}

	for in, want := range tests {
		assert.Equal(t, want, document.SnakeKey(in), in)
	}
}

func TestCamelKey(t *testing.T) {
	tests := map[string]string{
		"first_message":  "firstMessage",
		"first-message":  "firstMessage",
		"firstMessage":   "firstMessage",
		"item_1":         "item_1",
		"_internal_id":   "_internalId",
		"api_url_v2":     "apiUrlV2",
		"x.y_z":          "x.y_z",
		"tool_config":    "toolConfig",
		"already":        "already",
		"trailing_":      "trailing",
		"double__under":  "doubleUnder",
	}

	for in, want := range tests {
		assert.Equal(t, want, document.CamelKey(in), in)
	}
}

func TestNormalizer_RoundTrip(t *testing.T) {
	snake := mustDecode(t, `{
		"name": "Support",
		"conversation_config": {
			"agent": {"first_message": "hi", "prompt": {"tool_ids": ["t1"]}},
			"tts": {"voice_id": "abc", "optimize_streaming_latency": 3}
		},
		"platform_settings": {"widget": {"item_1": true}}
	}`)

	camel := document.DefaultNormalizer.Apply(document.Camel, snake)
	cc, ok := camel.Object("conversationConfig")
	assert.True(t, ok)
	agent, ok := cc.Object("agent")
	assert.True(t, ok)
	assert.Equal(t, "hi", agent.String("firstMessage"))

	back := document.DefaultNormalizer.Apply(document.Snake, camel)
	assert.Equal(t, document.Hash(snake), document.Hash(back))
}

func TestNormalizer_PreservesHeaderMaps(t *testing.T) {
	camel := mustDecode(t, `{
		"apiSchema": {
			"url": "https://example.com",
			"requestHeaders": {"Content-Type": "application/json", "X-Api-Key": "secret"},
			"requestBodySchema": {
				"type": "object",
				"properties": {"customerId": {"type": "string", "valueType": "llm_prompt"}}
			}
		},
		"headers": [{"name": "Content-Type", "value": "application/json"}],
		"dynamicVariables": {"dynamicVariablePlaceholders": {"userName": "Bob"}}
	}`)

	snake := document.ToSnake(camel).(map[string]any)

	api := snake["api_schema"].(map[string]any)
	assert.Equal(t, map[string]any{"Content-Type": "application/json", "X-Api-Key": "secret"}, api["request_headers"])

	body := api["request_body_schema"].(map[string]any)
	props := body["properties"].(map[string]any)
	assert.Contains(t, props, "customerId", "schema property names are user data")
	assert.Contains(t, props["customerId"].(map[string]any), "value_type", "values under an opaque map are still walked")

	headers := snake["headers"].([]any)
	assert.Equal(t, "Content-Type", headers[0].(map[string]any)["name"])

	vars := snake["dynamic_variables"].(map[string]any)
	assert.Contains(t, vars["dynamic_variable_placeholders"], "userName")
}

func TestNormalizer_CustomPredicate(t *testing.T) {
	n := document.NewNormalizer(func(path []string, _ map[string]any) bool {
		return len(path) == 1 && path[0] == "labels"
	})

	out := n.ToSnake(map[string]any{
		"labels":    map[string]any{"teamName": "core"},
		"ownerInfo": map[string]any{"teamName": "core"},
	}).(map[string]any)

	assert.Contains(t, out["labels"], "teamName")
	assert.Contains(t, out["owner_info"], "team_name")
}

func TestNormalizer_NilPredicateRewritesEverything(t *testing.T) {
	n := document.NewNormalizer(nil)

	out := n.ToSnake(map[string]any{"requestHeaders": map[string]any{"XApiKey": "1"}}).(map[string]any)

	assert.Contains(t, out["request_headers"], "x_api_key")
}

func TestNormalizer_CollidingKeys(t *testing.T) {
	out := document.ToSnake(map[string]any{"fooBar": 1, "foo_bar": 2}).(map[string]any)

	assert.Equal(t, map[string]any{"foo_bar": 2}, out)
}

func TestParseCase(t *testing.T) {
	c, ok := document.ParseCase("")
	assert.True(t, ok)
	assert.Equal(t, document.Snake, c)

	c, ok = document.ParseCase("Camel")
	assert.True(t, ok)
	assert.Equal(t, document.Camel, c)

	_, ok = document.ParseCase("kebab")
	assert.False(t, ok)
}
