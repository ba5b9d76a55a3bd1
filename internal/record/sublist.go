package record

import (
	"fmt"
	"strconv"

	"github.com/aalvaropc/suitemap/internal/domain"
)

// SublistSpec declares a named, ordered collection of nested records of type T.
type SublistSpec[T any] struct {
	// Item is the snake_case name of each entry, e.g. "expense".
	Item string
	// Aliases are legacy names accepted for Item.
	Aliases []string
	Schema  *Schema[T]
}

func (s SublistSpec[T]) itemQName() string {
	return s.Schema.Namespace.Q(WireName(s.Item))
}

// Encode renders items under an element named qname.
func (s SublistSpec[T]) Encode(qname string, replaceAll *bool, items []*T) *domain.Node {
	n := domain.NewNode(qname)
	if replaceAll != nil {
		n.SetAttr("replaceAll", strconv.FormatBool(*replaceAll))
	}
	for _, it := range items {
		n.Append(s.Schema.Element(s.itemQName(), it))
	}
	return n
}

// Validate checks every item against the item schema.
func (s SublistSpec[T]) Validate(items []*T) error {
	for i, it := range items {
		if err := s.Schema.Validate(it); err != nil {
			return fmt.Errorf("%s[%d]: %w", s.Item, i, err)
		}
	}
	return nil
}

// Decode reads items and the replaceAll flag from a sub-list element.
func (s SublistSpec[T]) Decode(n *domain.Node) ([]*T, *bool, error) {
	var replaceAll *bool
	if v, ok := n.Attr("replaceAll"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, nil, fmt.Errorf("replaceAll: %w", err)
		}
		replaceAll = &b
	}

	children := n.ChildrenNamed(WireName(s.Item))
	items := make([]*T, 0, len(children))
	for _, c := range children {
		it := new(T)
		if err := s.Schema.Decode(it, c); err != nil {
			return nil, nil, err
		}
		items = append(items, it)
	}
	return items, replaceAll, nil
}

// Assign builds items from {item: [...]} / {item: {...}} mappings or a bare list.
func (s SublistSpec[T]) Assign(v any) ([]*T, *bool, error) {
	var raw any
	var replaceAll *bool

	if m, ok := AsMap(v); ok {
		for _, key := range sortedKeys(m) {
			switch {
			case key == s.Item || s.isAlias(key):
				raw = m[key]
			case key == "replace_all":
				b, err := AsBool(m[key])
				if err != nil {
					return nil, nil, fmt.Errorf("replace_all: %w", err)
				}
				replaceAll = &b
			default:
				return nil, nil, fmt.Errorf("unknown key %q", key)
			}
		}
	} else {
		raw = v
	}

	if typed, ok := raw.([]*T); ok {
		return typed, replaceAll, nil
	}

	list := asList(raw)
	items := make([]*T, 0, len(list))
	for i, entry := range list {
		switch t := entry.(type) {
		case *T:
			items = append(items, t)
			continue
		case T:
			cp := t
			items = append(items, &cp)
			continue
		}

		attrs, ok := AsMap(entry)
		if !ok {
			return nil, nil, fmt.Errorf("%s[%d]: cannot use %T as %s", s.Item, i, entry, s.Schema.Name)
		}
		it := new(T)
		if err := s.Schema.Assign(it, attrs); err != nil {
			return nil, nil, fmt.Errorf("%s[%d]: %w", s.Item, i, err)
		}
		items = append(items, it)
	}
	return items, replaceAll, nil
}

// JSON returns the JSON view of the sub-list.
func (s SublistSpec[T]) JSON(replaceAll *bool, items []*T) any {
	list := make([]any, 0, len(items))
	for _, it := range items {
		list = append(list, s.Schema.JSON(it))
	}
	out := map[string]any{s.Item: list}
	if replaceAll != nil {
		out["replace_all"] = *replaceAll
	}
	return out
}

func (s SublistSpec[T]) isAlias(key string) bool {
	for _, a := range s.Aliases {
		if a == key {
			return true
		}
	}
	return false
}
