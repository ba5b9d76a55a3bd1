package record

import (
	"fmt"
	"sort"

	"github.com/aalvaropc/suitemap/internal/domain"
)

// Record is a value that renders itself into the remote wire format.
type Record interface {
	// RecordType returns the qualified SOAP type, e.g. "tranBank:Check".
	RecordType() string
	// TypeName returns the platformCore RecordType enum value, e.g. "check".
	TypeName() string
	// ToRecord renders every set field as namespaced elements.
	ToRecord() []*domain.Node
	IDs() *Identity
}

// Validator is implemented by values that can tell, before encoding, whether they
// render completely.
type Validator interface {
	Validate() error
}

// Schema is the static declaration of a record type.
type Schema[R any] struct {
	Name      string
	TypeName  string
	Namespace Namespace
	Actions   []domain.Action
	Fields    []Field[R]

	// Aliases map alternate attribute names to declared fields.
	Aliases map[string]string

	// SearchClass names the search record family, e.g. "Transaction".
	SearchClass     string
	SearchNamespace Namespace

	// IDs locates the identity of r; nil for nested types without identifiers.
	IDs func(r *R) *Identity
}

// RecordType returns the qualified SOAP type name.
func (s *Schema[R]) RecordType() string {
	return s.Namespace.Q(s.Name)
}

// Supports reports whether the action is declared for the type.
func (s *Schema[R]) Supports(a domain.Action) bool {
	if a == domain.ActionSearchMore {
		a = domain.ActionSearch
	}
	for _, x := range s.Actions {
		if x == a {
			return true
		}
	}
	return false
}

func (s *Schema[R]) field(name string) (*Field[R], bool) {
	key := NormalizeKey(name)
	if target, ok := s.Aliases[key]; ok {
		key = target
	}
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Name == key || f.Wire == key {
			return f, true
		}
	}
	return nil, false
}

// HasField reports whether name is a declared non-ref field (aliases included).
func (s *Schema[R]) HasField(name string) bool {
	f, ok := s.field(name)
	return ok && f.Kind != KindRecordRef
}

// HasRecordRef reports whether name is a declared record ref field.
func (s *Schema[R]) HasRecordRef(name string) bool {
	f, ok := s.field(name)
	return ok && f.Kind == KindRecordRef
}

// Encode renders set fields in declaration order.
func (s *Schema[R]) Encode(r *R) []*domain.Node {
	out := make([]*domain.Node, 0, len(s.Fields))
	for i := range s.Fields {
		if n := s.Fields[i].encode(r, s.Namespace); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks the nested objects of r, such as custom field lists.
func (s *Schema[R]) Validate(r *R) error {
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.check == nil {
			continue
		}
		if err := f.check(r); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
	}
	return nil
}

// Element renders r as an element named qname carrying its identifiers.
func (s *Schema[R]) Element(qname string, r *R) *domain.Node {
	n := domain.NewNode(qname)
	if s.IDs != nil {
		ids := s.IDs(r)
		if ids.internalID != "" {
			n.SetAttr("internalId", ids.internalID)
		}
		if ids.ExternalID != "" {
			n.SetAttr("externalId", ids.ExternalID)
		}
	}
	return n.Append(s.Encode(r)...)
}

// Decode populates r from a response element. Unknown children are ignored.
func (s *Schema[R]) Decode(r *R, n *domain.Node) error {
	if s.IDs != nil {
		ids := s.IDs(r)
		if v, ok := n.Attr("internalId"); ok {
			ids.internalID = v
		}
		if v, ok := n.Attr("externalId"); ok {
			ids.ExternalID = v
		}
	}

	for _, c := range n.Children {
		f, ok := s.field(c.Local())
		if !ok {
			continue
		}
		if err := f.decode(r, c); err != nil {
			return &domain.OpError{
				Op:   "record.decode",
				Kind: domain.KindInvalidRecord,
				Path: s.Name + "." + f.Name,
				Err:  err,
			}
		}
	}
	return nil
}

// Assign sets every attribute on r. Unknown attributes are rejected.
func (s *Schema[R]) Assign(r *R, attrs Attributes) error {
	m, _ := AsMap(attrs)
	for _, key := range sortedKeys(m) {
		if err := s.set(r, key, m[key], true); err != nil {
			return err
		}
	}
	return nil
}

// Set assigns a single attribute on a built record, resolving aliases. The internal
// id is read-only here; it is only taken from Assign or a remote response.
func (s *Schema[R]) Set(r *R, name string, v any) error {
	return s.set(r, name, v, false)
}

func (s *Schema[R]) set(r *R, name string, v any, building bool) error {
	key := NormalizeKey(name)
	if s.IDs != nil && key == "internal_id" && !building {
		return s.invalid(key, fmt.Errorf("internal_id is read-only: %w", domain.ErrInvalidRecord))
	}
	if s.IDs != nil && (key == "internal_id" || key == "external_id") {
		id, err := AsString(v)
		if err != nil {
			return s.invalid(key, err)
		}
		ids := s.IDs(r)
		if key == "internal_id" {
			ids.internalID = id
		} else {
			ids.ExternalID = id
		}
		return nil
	}

	f, ok := s.field(key)
	if !ok {
		return s.invalid(key, fmt.Errorf("unknown field: %w", domain.ErrInvalidRecord))
	}
	if err := f.assign(r, v); err != nil {
		return s.invalid(f.Name, err)
	}
	return nil
}

// Value returns the JSON view of one field (aliases resolved), nil when unset.
func (s *Schema[R]) Value(r *R, name string) any {
	f, ok := s.field(name)
	if !ok {
		return nil
	}
	return f.value(r)
}

// JSON returns the snake_case JSON view of r.
func (s *Schema[R]) JSON(r *R) map[string]any {
	out := map[string]any{}
	if s.IDs != nil {
		ids := s.IDs(r)
		if ids.internalID != "" {
			out["internal_id"] = ids.internalID
		}
		if ids.ExternalID != "" {
			out["external_id"] = ids.ExternalID
		}
	}
	for i := range s.Fields {
		if v := s.Fields[i].value(r); v != nil {
			out[s.Fields[i].Name] = v
		}
	}
	return out
}

func (s *Schema[R]) invalid(field string, err error) error {
	return &domain.OpError{
		Op:   "record.assign",
		Kind: domain.KindInvalidRecord,
		Path: s.Name + "." + field,
		Err:  err,
	}
}

// FieldInfo describes one declared field.
type FieldInfo struct {
	Name string `json:"name"`
	Wire string `json:"wire"`
	Kind Kind   `json:"kind"`
	Type string `json:"type,omitempty"`
}

// Description is a printable summary of a schema.
type Description struct {
	Name        string            `json:"name"`
	TypeName    string            `json:"type_name"`
	RecordType  string            `json:"record_type"`
	Actions     []domain.Action   `json:"actions"`
	Fields      []FieldInfo       `json:"fields"`
	Aliases     map[string]string `json:"aliases,omitempty"`
	SearchClass string            `json:"search_class,omitempty"`
}

// Describe summarizes the schema for listings.
func (s *Schema[R]) Describe() Description {
	d := Description{
		Name:       s.Name,
		TypeName:   s.TypeName,
		RecordType: s.RecordType(),
		Actions:    append([]domain.Action(nil), s.Actions...),
		Fields:     make([]FieldInfo, 0, len(s.Fields)),
	}
	for _, f := range s.Fields {
		d.Fields = append(d.Fields, FieldInfo{Name: f.Name, Wire: f.Wire, Kind: f.Kind, Type: f.Type})
	}
	if len(s.Aliases) > 0 {
		d.Aliases = make(map[string]string, len(s.Aliases))
		for k, v := range s.Aliases {
			d.Aliases[k] = v
		}
	}
	if s.SearchClass != "" {
		d.SearchClass = s.searchNamespace().Q(s.SearchClass)
	}
	sort.Slice(d.Actions, func(i, j int) bool { return d.Actions[i] < d.Actions[j] })
	return d
}

func (s *Schema[R]) searchNamespace() Namespace {
	if s.SearchNamespace.Prefix != "" {
		return s.SearchNamespace
	}
	return s.Namespace
}
