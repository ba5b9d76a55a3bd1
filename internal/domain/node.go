package domain

import "strings"

// Attr is an XML-style attribute on a Node. Name may be qualified ("xsi:type").
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a namespaced record tree.
//
// Names are qualified with a namespace prefix ("tranBank:memo"). A Node carries either
// Text or Children; attributes are kept in declaration order.
type Node struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// NewNode returns an empty element.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// TextNode returns an element holding a scalar value.
func TextNode(name, text string) *Node {
	return &Node{Name: name, Text: text}
}

// Prefix returns the namespace prefix of the node name, if any.
func (n *Node) Prefix() string {
	prefix, _ := splitQName(n.Name)
	return prefix
}

// Local returns the node name without its namespace prefix.
func (n *Node) Local() string {
	_, local := splitQName(n.Name)
	return local
}

// Attr returns the attribute value matching name. Unqualified names also match
// qualified attributes with the same local part.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	_, wantLocal := splitQName(name)
	qualified := strings.Contains(name, ":")
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
		if !qualified {
			if _, local := splitQName(a.Name); local == wantLocal {
				return a.Value, true
			}
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func (n *Node) SetAttr(name, value string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	return n
}

// Append adds children, skipping nil nodes.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Child returns the first child whose local name matches.
func (n *Node) Child(local string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Local() == local {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child whose local name matches.
func (n *Node) ChildrenNamed(local string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Local() == local {
			out = append(out, c)
		}
	}
	return out
}

// Find walks children by local name.
func (n *Node) Find(path ...string) *Node {
	cur := n
	for _, p := range path {
		cur = cur.Child(p)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Tree renders nodes as a namespaced key/value mapping: scalar elements become strings,
// elements with children become nested maps, repeated names become slices and attributes
// are keyed "@name".
func Tree(nodes []*Node) map[string]any {
	out := map[string]any{}
	for _, n := range nodes {
		v := nodeValue(n)
		if prev, ok := out[n.Name]; ok {
			if list, isList := prev.([]any); isList {
				out[n.Name] = append(list, v)
			} else {
				out[n.Name] = []any{prev, v}
			}
			continue
		}
		out[n.Name] = v
	}
	return out
}

func nodeValue(n *Node) any {
	if len(n.Children) == 0 && len(n.Attrs) == 0 {
		return n.Text
	}
	m := Tree(n.Children)
	for _, a := range n.Attrs {
		m["@"+a.Name] = a.Value
	}
	if n.Text != "" {
		m["#text"] = n.Text
	}
	return m
}

func splitQName(name string) (string, string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
