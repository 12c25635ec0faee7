package resource_test

import (
	"testing"

	"agents-manager/core/resource"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	for _, in := range []string{"agent", "Agents", " AGENT "} {
		k, err := resource.Parse(in)
		assert.NoError(t, err)
		assert.Equal(t, resource.Agent, k)
	}

	k, err := resource.Parse("tools")
	assert.NoError(t, err)
	assert.Equal(t, resource.Tool, k)

	_, err = resource.Parse("widget")
	assert.Error(t, err)
}

func TestKindPaths(t *testing.T) {
	assert.Equal(t, "tests", resource.Test.Plural())
	assert.Equal(t, "tests.json", resource.Test.ManifestFile())
	assert.Equal(t, "test_configs", resource.Test.ConfigDir())
	assert.Equal(t, "Tool", resource.Tool.Title())
	assert.Equal(t, []resource.Kind{resource.Agent, resource.Tool, resource.Test}, resource.All())
}
