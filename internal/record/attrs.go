package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aalvaropc/suitemap/internal/domain"
)

// Attributes is the attribute mapping a record is built from.
type Attributes = map[string]any

// Time layouts accepted when decoding dateTime values, most specific first.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func AsString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	case decimal.Decimal:
		return t.String(), nil
	case time.Time:
		return t.Format(time.RFC3339), nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", fmt.Errorf("cannot use %T as string", v)
	}
}

func AsBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, fmt.Errorf("cannot use %q as boolean", t)
		}
		return b, nil
	default:
		return false, fmt.Errorf("cannot use %T as boolean", v)
	}
}

func AsDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case *decimal.Decimal:
		if t == nil {
			return decimal.Decimal{}, fmt.Errorf("nil decimal")
		}
		return *t, nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case float64:
		return decimal.NewFromFloat(t), nil
	case json.Number:
		return decimal.NewFromString(t.String())
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("cannot use %q as decimal", t)
		}
		return d, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("cannot use %T as decimal", v)
	}
}

func AsInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case float64:
		if t != float64(int64(t)) {
			return 0, fmt.Errorf("cannot use %v as long", t)
		}
		return int64(t), nil
	case json.Number:
		return t.Int64()
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot use %q as long", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot use %T as long", v)
	}
}

func AsTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return ParseTime(t)
	default:
		return time.Time{}, fmt.Errorf("cannot use %T as dateTime", v)
	}
}

// ParseTime parses a SuiteTalk dateTime in any accepted layout.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot use %q as dateTime", s)
}

// AsMap returns v as an attribute map with normalized keys.
func AsMap(v any) (map[string]any, bool) {
	var in map[string]any
	switch t := v.(type) {
	case map[string]any:
		in = t
	case map[any]any:
		in = make(map[string]any, len(t))
		for k, vv := range t {
			in[fmt.Sprint(k)] = vv
		}
	default:
		return nil, false
	}

	out := make(map[string]any, len(in))
	for k, vv := range in {
		out[NormalizeKey(k)] = vv
	}
	return out, true
}

// AsRef builds a record ref from a ref value, a mapping with id keys, or a bare
// internal id.
func AsRef(v any) (domain.RecordRef, error) {
	switch t := v.(type) {
	case domain.RecordRef:
		return t, nil
	case *domain.RecordRef:
		if t == nil {
			return domain.RecordRef{}, fmt.Errorf("nil record ref")
		}
		return *t, nil
	case string, int, int64, json.Number:
		id, err := AsString(t)
		if err != nil {
			return domain.RecordRef{}, err
		}
		return domain.RecordRef{InternalID: id}, nil
	}

	m, ok := AsMap(v)
	if !ok {
		return domain.RecordRef{}, fmt.Errorf("cannot use %T as record ref", v)
	}

	var ref domain.RecordRef
	for k, vv := range m {
		s, err := AsString(vv)
		if err != nil {
			return domain.RecordRef{}, fmt.Errorf("record ref %s: %w", k, err)
		}
		switch k {
		case "internal_id":
			ref.InternalID = s
		case "external_id":
			ref.ExternalID = s
		case "type":
			ref.Type = s
		case "name":
			ref.Name = s
		default:
			return domain.RecordRef{}, fmt.Errorf("record ref: unknown key %q", k)
		}
	}
	return ref, nil
}

// asList wraps a single item into a list so callers can accept both shapes.
func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []map[string]any:
		out := make([]any, 0, len(t))
		for _, m := range t {
			out = append(out, m)
		}
		return out
	default:
		return []any{v}
	}
}
