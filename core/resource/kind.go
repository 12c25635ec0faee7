// Package resource enumerates the kinds of remote resources a project manages.
package resource

import (
	"fmt"
	"strings"
)

// Kind is a resource kind. Each kind has its own manifest and config directory
// but shares the reconciliation algorithm.
type Kind string

const (
	Agent Kind = "agent"
	Tool  Kind = "tool"
	Test  Kind = "test"
)

// All returns every kind in a stable order.
func All() []Kind {
	return []Kind{Agent, Tool, Test}
}

// Parse accepts the singular or plural form, case-insensitively.
func Parse(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "agent", "agents":
		return Agent, nil
	case "tool", "tools":
		return Tool, nil
	case "test", "tests":
		return Test, nil
	default:
		return "", fmt.Errorf("unknown resource kind %q (expected agent, tool or test)", s)
	}
}

// Plural is the manifest's top-level key ("agents").
func (k Kind) Plural() string {
	return string(k) + "s"
}

// ManifestFile is the manifest file name relative to the project root.
func (k Kind) ManifestFile() string {
	return k.Plural() + ".json"
}

// ConfigDir is the directory, relative to the project root, holding config files.
func (k Kind) ConfigDir() string {
	return string(k) + "_configs"
}

// Title is the capitalised singular name used in log and CLI output.
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}
