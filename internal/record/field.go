package record

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aalvaropc/suitemap/internal/domain"
)

// Kind classifies a declared field.
type Kind string

const (
	KindString    Kind = "string"
	KindBoolean   Kind = "boolean"
	KindDecimal   Kind = "decimal"
	KindLong      Kind = "long"
	KindDateTime  Kind = "dateTime"
	KindRecordRef Kind = "recordRef"
	KindObject    Kind = "object"
)

// Field describes one declared attribute of record type R.
type Field[R any] struct {
	Name string
	Wire string
	Kind Kind
	// Type names the nested type of object fields.
	Type string

	encode func(r *R, ns Namespace) *domain.Node
	decode func(r *R, n *domain.Node) error
	assign func(r *R, v any) error
	value  func(r *R) any
	check  func(r *R) error
}

// Value is implemented by nested object types such as sub-lists and custom field lists.
type Value[V any] interface {
	*V
	EncodeAs(qname string) *domain.Node
	Decode(n *domain.Node) error
	Assign(v any) error
	JSON() any
}

// scalar builds a field around a pointer slot and a text codec.
func scalar[R, T any](name string, kind Kind, slot func(*R) **T, format func(T) string, parse func(string) (T, error), coerce func(any) (T, error), view func(T) any) Field[R] {
	return Field[R]{
		Name: name,
		Wire: WireName(name),
		Kind: kind,
		encode: func(r *R, ns Namespace) *domain.Node {
			p := *slot(r)
			if p == nil {
				return nil
			}
			return domain.TextNode(ns.Q(WireName(name)), format(*p))
		},
		decode: func(r *R, n *domain.Node) error {
			v, err := parse(n.Text)
			if err != nil {
				return err
			}
			*slot(r) = &v
			return nil
		},
		assign: func(r *R, v any) error {
			if v == nil {
				*slot(r) = nil
				return nil
			}
			t, err := coerce(v)
			if err != nil {
				return err
			}
			*slot(r) = &t
			return nil
		},
		value: func(r *R) any {
			p := *slot(r)
			if p == nil {
				return nil
			}
			return view(*p)
		},
	}
}

func String[R any](name string, slot func(*R) **string) Field[R] {
	return scalar(name, KindString, slot,
		func(s string) string { return s },
		func(s string) (string, error) { return s, nil },
		AsString,
		func(s string) any { return s },
	)
}

func Bool[R any](name string, slot func(*R) **bool) Field[R] {
	return scalar(name, KindBoolean, slot,
		strconv.FormatBool,
		strconv.ParseBool,
		AsBool,
		func(b bool) any { return b },
	)
}

func Decimal[R any](name string, slot func(*R) **decimal.Decimal) Field[R] {
	return scalar(name, KindDecimal, slot,
		decimal.Decimal.String,
		decimal.NewFromString,
		AsDecimal,
		func(d decimal.Decimal) any { return d.String() },
	)
}

func Long[R any](name string, slot func(*R) **int64) Field[R] {
	return scalar(name, KindLong, slot,
		func(i int64) string { return strconv.FormatInt(i, 10) },
		func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) },
		AsInt64,
		func(i int64) any { return i },
	)
}

func DateTime[R any](name string, slot func(*R) **time.Time) Field[R] {
	return scalar(name, KindDateTime, slot,
		func(t time.Time) string { return t.Format(time.RFC3339) },
		ParseTime,
		AsTime,
		func(t time.Time) any { return t.Format(time.RFC3339) },
	)
}

// Ref declares a record ref field.
func Ref[R any](name string, slot func(*R) **domain.RecordRef) Field[R] {
	return Field[R]{
		Name: name,
		Wire: WireName(name),
		Kind: KindRecordRef,
		Type: "RecordRef",
		encode: func(r *R, ns Namespace) *domain.Node {
			p := *slot(r)
			if p == nil {
				return nil
			}
			return EncodeRef(ns.Q(WireName(name)), *p)
		},
		decode: func(r *R, n *domain.Node) error {
			ref := DecodeRef(n)
			*slot(r) = &ref
			return nil
		},
		assign: func(r *R, v any) error {
			if v == nil {
				*slot(r) = nil
				return nil
			}
			ref, err := AsRef(v)
			if err != nil {
				return err
			}
			*slot(r) = &ref
			return nil
		},
		value: func(r *R) any {
			p := *slot(r)
			if p == nil {
				return nil
			}
			return RefJSON(*p)
		},
	}
}

// Object declares a nested object field. Assigning a *V keeps it by identity; any
// other value is handed to V's Assign.
func Object[R, V any, PV Value[V]](name, typeName string, slot func(*R) **V) Field[R] {
	return Field[R]{
		Name: name,
		Wire: WireName(name),
		Kind: KindObject,
		Type: typeName,
		encode: func(r *R, ns Namespace) *domain.Node {
			p := *slot(r)
			if p == nil {
				return nil
			}
			return PV(p).EncodeAs(ns.Q(WireName(name)))
		},
		decode: func(r *R, n *domain.Node) error {
			p := new(V)
			if err := PV(p).Decode(n); err != nil {
				return err
			}
			*slot(r) = p
			return nil
		},
		assign: func(r *R, v any) error {
			switch t := v.(type) {
			case nil:
				*slot(r) = nil
				return nil
			case *V:
				*slot(r) = t
				return nil
			case V:
				cp := t
				*slot(r) = &cp
				return nil
			}
			p := new(V)
			if err := PV(p).Assign(v); err != nil {
				return fmt.Errorf("%s: %w", typeName, err)
			}
			*slot(r) = p
			return nil
		},
		value: func(r *R) any {
			p := *slot(r)
			if p == nil {
				return nil
			}
			return PV(p).JSON()
		},
		check: func(r *R) error {
			p := *slot(r)
			if p == nil {
				return nil
			}
			if v, ok := any(PV(p)).(Validator); ok {
				return v.Validate()
			}
			return nil
		},
	}
}
