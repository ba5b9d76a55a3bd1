package record

import (
	"strings"
	"unicode"
)

// Field names that collide with Go or Ruby keywords on one side of the mapping.
var (
	wireOverrides  = map[string]string{"klass": "class"}
	fieldOverrides = map[string]string{"class": "klass"}
)

// WireName maps a snake_case field name to its lowerCamel wire name.
func WireName(name string) string {
	if w, ok := wireOverrides[name]; ok {
		return w
	}

	parts := strings.Split(name, "_")
	var b strings.Builder
	b.Grow(len(name))
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// FieldName maps a lowerCamel wire name back to its snake_case field name.
func FieldName(wire string) string {
	if f, ok := fieldOverrides[wire]; ok {
		return f
	}

	var b strings.Builder
	b.Grow(len(wire) + 4)
	for i, r := range wire {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeKey turns an attribute key into a field name. It accepts "@internal_id",
// camelCase wire names and snake_case names.
func NormalizeKey(key string) string {
	k := strings.TrimPrefix(strings.TrimSpace(key), "@")
	if strings.IndexFunc(k, unicode.IsUpper) >= 0 {
		return FieldName(k)
	}
	return k
}
