package gateway

import (
	"net/http"

	"agents-manager/core/document"
	"agents-manager/core/resource"
)

// route describes how one resource kind is exposed by the remote API.
type route struct {
	base string
	// createPath is appended to base for creation.
	createPath   string
	updateMethod string
	// idField names the identifier in create responses and list items.
	idField string
	// listField is the array holding list items.
	listField string
	// envelope wraps request and response bodies when set.
	envelope string
}

var routes = map[resource.Kind]route{
	resource.Agent: {
		base:         "/v1/convai/agents",
		createPath:   "/create",
		updateMethod: http.MethodPatch,
		idField:      "agent_id",
		listField:    "agents",
	},
	resource.Tool: {
		base:         "/v1/convai/tools",
		updateMethod: http.MethodPatch,
		idField:      "id",
		listField:    "tools",
		envelope:     "tool_config",
	},
	resource.Test: {
		base:         "/v1/convai/agent-testing",
		createPath:   "/create",
		updateMethod: http.MethodPut,
		idField:      "id",
		listField:    "tests",
	},
}

// serverOwned fields are assigned by the remote and never written to local configs.
var serverOwned = []string{
	"agent_id",
	"id",
	"tool_id",
	"test_id",
	"metadata",
	"access_info",
	"usage_stats",
	"version_id",
	"branch_id",
	"created_at_unix_secs",
}

func (r route) wrap(config document.Document) document.Document {
	if r.envelope == "" {
		return config
	}
	return document.Document{r.envelope: map[string]any(config)}
}

func (r route) unwrap(body document.Document) document.Document {
	if r.envelope != "" {
		if inner, ok := body.Object(r.envelope); ok {
			return inner.Without(serverOwned...)
		}
	}
	return body.Without(serverOwned...)
}

func (r route) summary(item document.Document) Summary {
	id := item.String(r.idField)
	if id == "" {
		id = item.String("id")
	}
	name := item.Name()
	if name == "" && r.envelope != "" {
		if inner, ok := item.Object(r.envelope); ok {
			name = inner.Name()
		}
	}
	return Summary{RemoteID: id, Name: name}
}
