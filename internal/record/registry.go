package record

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aalvaropc/suitemap/internal/domain"
)

// Type is the type-erased view of a record schema.
type Type interface {
	Name() string
	TypeName() string
	RecordType() string
	Supports(a domain.Action) bool
	New(attrs Attributes) (Record, error)
	Decode(n *domain.Node) (Record, error)
	JSON(r Record) (map[string]any, error)
	Describe() Description
	// SearchRecordType returns the qualified search type, e.g.
	// "tranSales:TransactionSearch", or "" when search is not declared.
	SearchRecordType() string
}

// TypeOf adapts a schema to the Type interface.
func TypeOf[R any, PR interface {
	*R
	Record
}](s *Schema[R]) Type {
	return schemaType[R, PR]{s: s}
}

type schemaType[R any, PR interface {
	*R
	Record
}] struct {
	s *Schema[R]
}

func (t schemaType[R, PR]) Name() string                  { return t.s.Name }
func (t schemaType[R, PR]) TypeName() string              { return t.s.TypeName }
func (t schemaType[R, PR]) RecordType() string            { return t.s.RecordType() }
func (t schemaType[R, PR]) Supports(a domain.Action) bool { return t.s.Supports(a) }
func (t schemaType[R, PR]) Describe() Description         { return t.s.Describe() }

func (t schemaType[R, PR]) New(attrs Attributes) (Record, error) {
	r := new(R)
	if err := t.s.Assign(r, attrs); err != nil {
		return nil, err
	}
	return PR(r), nil
}

func (t schemaType[R, PR]) Decode(n *domain.Node) (Record, error) {
	r := new(R)
	if err := t.s.Decode(r, n); err != nil {
		return nil, err
	}
	return PR(r), nil
}

func (t schemaType[R, PR]) JSON(rec Record) (map[string]any, error) {
	r, ok := rec.(PR)
	if !ok {
		return nil, fmt.Errorf("record %T is not a %s", rec, t.s.Name)
	}
	return t.s.JSON((*R)(r)), nil
}

func (t schemaType[R, PR]) SearchRecordType() string {
	if t.s.SearchClass == "" || !t.s.Supports(domain.ActionSearch) {
		return ""
	}
	return t.s.searchNamespace().Q(t.s.SearchClass + "Search")
}

// Registry maps record type names to their schemas.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
}

func NewRegistry(types ...Type) (*Registry, error) {
	r := &Registry{types: map[string]Type{}}
	for _, t := range types {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a type; names must be unique.
func (r *Registry) Register(t Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(t.TypeName())
	if _, exists := r.types[key]; exists {
		return &domain.OpError{
			Op:   "record.register",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("record type %q already registered", t.TypeName()),
		}
	}
	r.types[key] = t
	return nil
}

// Lookup accepts the enum name ("check"), the type name ("Check") or the qualified
// SOAP type ("tranBank:Check").
func (r *Registry) Lookup(name string) (Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	if t, ok := r.types[key]; ok {
		return t, nil
	}
	for _, t := range r.types {
		if strings.EqualFold(t.Name(), name) || t.RecordType() == name {
			return t, nil
		}
	}
	return nil, &domain.OpError{
		Op:   "record.lookup",
		Kind: domain.KindNotFound,
		Err:  fmt.Errorf("record type %q: %w", name, domain.ErrNotFound),
	}
}

// Types returns every registered type ordered by name.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
