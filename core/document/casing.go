package document

import (
	"sort"
	"strings"
	"unicode"
)

// Case is a key-casing convention.
type Case string

const (
	// Snake is the remote API convention (snake_case).
	Snake Case = "snake"
	// Camel is the alternate local convention (camelCase).
	Camel Case = "camel"
)

// ParseCase validates a configured key case.
func ParseCase(s string) (Case, bool) {
	switch Case(strings.ToLower(strings.TrimSpace(s))) {
	case Snake, "":
		return Snake, true
	case Camel:
		return Camel, true
	default:
		return "", false
	}
}

// OpaquePredicate reports whether the object at path holds free-form keys that
// must not be rewritten. path lists the object keys leading to value, already in
// the target case; array indices are not part of the path.
type OpaquePredicate func(path []string, value map[string]any) bool

// opaqueFields are fields whose values are string-keyed dictionaries of user data:
// outbound header maps, dynamic variable placeholders, JSON-schema property names
// and environment variable maps.
var opaqueFields = map[string]struct{}{
	"request_headers":               {},
	"headers":                       {},
	"dynamic_variable_placeholders": {},
	"properties":                    {},
	"environment_variables":         {},
}

// DefaultOpaque matches objects stored under one of the known dictionary fields,
// whatever the casing of the field name itself.
func DefaultOpaque(path []string, _ map[string]any) bool {
	if len(path) == 0 {
		return false
	}
	_, ok := opaqueFields[SnakeKey(path[len(path)-1])]
	return ok
}

// Normalizer rewrites object keys between snake_case and camelCase.
type Normalizer struct {
	opaque OpaquePredicate
}

// NewNormalizer builds a normalizer. A nil predicate rewrites every key.
func NewNormalizer(opaque OpaquePredicate) *Normalizer {
	if opaque == nil {
		opaque = func([]string, map[string]any) bool { return false }
	}
	return &Normalizer{opaque: opaque}
}

// DefaultNormalizer uses DefaultOpaque.
var DefaultNormalizer = NewNormalizer(DefaultOpaque)

// ToSnake rewrites keys with DefaultNormalizer.
func ToSnake(v any) any { return DefaultNormalizer.ToSnake(v) }

// ToCamel rewrites keys with DefaultNormalizer.
func ToCamel(v any) any { return DefaultNormalizer.ToCamel(v) }

// ToSnake returns a copy of v with every structural key in snake_case.
func (n *Normalizer) ToSnake(v any) any {
	return n.walk(nil, v, SnakeKey)
}

// ToCamel returns a copy of v with every structural key in camelCase.
func (n *Normalizer) ToCamel(v any) any {
	return n.walk(nil, v, CamelKey)
}

// Apply converts a document to the given case.
func (n *Normalizer) Apply(c Case, doc Document) Document {
	var out any
	if c == Camel {
		out = n.ToCamel(doc)
	} else {
		out = n.ToSnake(doc)
	}
	m, _ := out.(map[string]any)
	return Document(m)
}

func (n *Normalizer) walk(path []string, v any, convert func(string) string) any {
	switch t := v.(type) {
	case Document:
		return n.walkObject(path, map[string]any(t), convert)
	case map[string]any:
		return n.walkObject(path, t, convert)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = n.walk(path, item, convert)
		}
		return out
	default:
		return t
	}
}

func (n *Normalizer) walkObject(path []string, m map[string]any, convert func(string) string) map[string]any {
	opaque := n.opaque(path, m)

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(m))
	for _, k := range keys {
		target := k
		if !opaque {
			target = convert(k)
		}
		// "fooBar" and "foo_bar" in the same object: the key already in target form wins.
		if _, taken := out[target]; taken && k != target {
			continue
		}
		child := append(append(make([]string, 0, len(path)+1), path...), target)
		out[target] = n.walk(child, m[k], convert)
	}
	return out
}

func rewritable(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r > unicode.MaxASCII {
			return false
		}
		if !(r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

// SnakeKey converts camelCase, PascalCase and kebab-case keys to snake_case.
// Keys containing anything but ASCII letters, digits, '_' and '-' are returned unchanged.
func SnakeKey(key string) string {
	if !rewritable(key) {
		return key
	}

	runes := []rune(key)
	var b strings.Builder
	b.Grow(len(key) + 4)
	for i, r := range runes {
		if r == '-' {
			b.WriteByte('_')
			continue
		}
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CamelKey converts snake_case and kebab-case keys to camelCase. Leading
// underscores are kept, as is the separator before a digit so that
// "item_1" survives a round trip.
func CamelKey(key string) string {
	if !rewritable(key) || !strings.ContainsAny(key, "_-") {
		return key
	}

	trimmed := strings.TrimLeft(key, "_")
	prefix := key[:len(key)-len(trimmed)]
	if trimmed == "" {
		return key
	}

	parts := strings.FieldsFunc(trimmed, func(r rune) bool { return r == '_' || r == '-' })
	if len(parts) == 0 {
		return key
	}

	var b strings.Builder
	b.Grow(len(key))
	b.WriteString(prefix)
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		first := rune(part[0])
		if unicode.IsDigit(first) {
			b.WriteByte('_')
			b.WriteString(part)
			continue
		}
		b.WriteRune(unicode.ToUpper(first))
		b.WriteString(part[1:])
	}
	return b.String()
}
