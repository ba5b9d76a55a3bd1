package record

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aalvaropc/suitemap/internal/domain"
)

// Custom field value types (platformCore xsi:type names).
const (
	StringCustomFieldRef      = "StringCustomFieldRef"
	BooleanCustomFieldRef     = "BooleanCustomFieldRef"
	LongCustomFieldRef        = "LongCustomFieldRef"
	DoubleCustomFieldRef      = "DoubleCustomFieldRef"
	DateCustomFieldRef        = "DateCustomFieldRef"
	SelectCustomFieldRef      = "SelectCustomFieldRef"
	MultiSelectCustomFieldRef = "MultiSelectCustomFieldRef"
)

// CustomField is one entry of a customFieldList.
type CustomField struct {
	InternalID string
	ScriptID   string
	Type       string
	Value      any
}

// CustomFieldList holds the custom fields attached to a record or line.
type CustomFieldList struct {
	CustomFields []CustomField
}

// NewCustomFieldList builds a list from attributes such as
// {custom_field: [{script_id: "custbody_x", value: "v"}]}.
func NewCustomFieldList(attrs Attributes) (*CustomFieldList, error) {
	l := &CustomFieldList{}
	if err := l.Assign(attrs); err != nil {
		return nil, err
	}
	return l, nil
}

// Field returns the custom field matching a script id or internal id.
func (l *CustomFieldList) Field(id string) (CustomField, bool) {
	for _, f := range l.CustomFields {
		if f.ScriptID == id || f.InternalID == id {
			return f, true
		}
	}
	return CustomField{}, false
}

// Assign replaces the list contents from an attribute value.
func (l *CustomFieldList) Assign(v any) error {
	var items []any
	if m, ok := AsMap(v); ok {
		if raw, has := m["custom_field"]; has {
			items = asList(raw)
		} else if len(m) > 0 {
			return fmt.Errorf("custom field list: expected custom_field key")
		}
	} else {
		items = asList(v)
	}

	fields := make([]CustomField, 0, len(items))
	for i, it := range items {
		f, err := customFieldFrom(it)
		if err != nil {
			return fmt.Errorf("custom_field[%d]: %w", i, err)
		}
		fields = append(fields, f)
	}
	l.CustomFields = fields
	return nil
}

func customFieldFrom(v any) (CustomField, error) {
	switch t := v.(type) {
	case CustomField:
		return t, checkCustomField(t)
	case *CustomField:
		return *t, checkCustomField(*t)
	}

	m, ok := AsMap(v)
	if !ok {
		return CustomField{}, fmt.Errorf("cannot use %T as custom field", v)
	}

	var f CustomField
	keys := sortedKeys(m)
	for _, k := range keys {
		vv := m[k]
		switch k {
		case "internal_id":
			s, err := AsString(vv)
			if err != nil {
				return CustomField{}, err
			}
			f.InternalID = s
		case "script_id":
			s, err := AsString(vv)
			if err != nil {
				return CustomField{}, err
			}
			f.ScriptID = s
		case "type":
			s, err := AsString(vv)
			if err != nil {
				return CustomField{}, err
			}
			f.Type = s
		case "value":
			f.Value = vv
		default:
			// Legacy shape: the value is keyed by the field's own name, e.g. {amount: 10}.
			if f.Value != nil {
				return CustomField{}, fmt.Errorf("unexpected key %q", k)
			}
			f.Value = vv
		}
	}

	if f.InternalID == "" && f.ScriptID == "" {
		return CustomField{}, fmt.Errorf("internal_id or script_id is required")
	}
	if f.Type == "" {
		f.Type = inferCustomType(f.Value)
	}
	if err := checkCustomField(f); err != nil {
		return CustomField{}, err
	}
	return f, nil
}

func checkCustomField(f CustomField) error {
	if _, err := encodeCustomField(f); err != nil {
		return fmt.Errorf("%s %s: %w", f.Type, f.id(), err)
	}
	return nil
}

func (f CustomField) id() string {
	if f.ScriptID != "" {
		return f.ScriptID
	}
	return f.InternalID
}

func inferCustomType(v any) string {
	switch t := v.(type) {
	case bool:
		return BooleanCustomFieldRef
	case int, int64:
		return LongCustomFieldRef
	case float64, decimal.Decimal:
		return DoubleCustomFieldRef
	case time.Time:
		return DateCustomFieldRef
	case domain.RecordRef, *domain.RecordRef:
		return SelectCustomFieldRef
	case []domain.RecordRef:
		return MultiSelectCustomFieldRef
	case map[string]any:
		if _, err := AsRef(t); err == nil {
			return SelectCustomFieldRef
		}
	case []any:
		return MultiSelectCustomFieldRef
	}
	return StringCustomFieldRef
}

// Validate reports the first field whose value does not fit its type.
func (l *CustomFieldList) Validate() error {
	for i, f := range l.CustomFields {
		if err := checkCustomField(f); err != nil {
			return fmt.Errorf("custom_field[%d]: %w", i, err)
		}
	}
	return nil
}

// EncodeAs renders the list as an element named qname. Write actions call
// Validate first, so entries that fail to encode never reach the wire.
func (l *CustomFieldList) EncodeAs(qname string) *domain.Node {
	n := domain.NewNode(qname)
	for _, f := range l.CustomFields {
		if c, err := encodeCustomField(f); err == nil {
			n.Append(c)
		}
	}
	return n
}

// encodeCustomField renders f. A nil value renders without a value child.
func encodeCustomField(f CustomField) (*domain.Node, error) {
	n := domain.NewNode(PlatformCore.Q("customField"))
	n.SetAttr("xsi:type", PlatformCore.Q(f.Type))
	if f.InternalID != "" {
		n.SetAttr("internalId", f.InternalID)
	}
	if f.ScriptID != "" {
		n.SetAttr("scriptId", f.ScriptID)
	}

	if f.Value == nil {
		return n, nil
	}

	valueName := PlatformCore.Q("value")
	var text string
	switch f.Type {
	case SelectCustomFieldRef:
		ref, err := AsRef(f.Value)
		if err != nil {
			return nil, err
		}
		return n.Append(EncodeRef(valueName, ref)), nil
	case MultiSelectCustomFieldRef:
		refs, err := customRefs(f.Value)
		if err != nil {
			return nil, err
		}
		for _, it := range refs {
			n.Append(EncodeRef(valueName, it))
		}
		return n, nil
	case DateCustomFieldRef:
		t, err := AsTime(f.Value)
		if err != nil {
			return nil, err
		}
		text = t.Format(time.RFC3339)
	case BooleanCustomFieldRef:
		b, err := AsBool(f.Value)
		if err != nil {
			return nil, err
		}
		text = strconv.FormatBool(b)
	case LongCustomFieldRef:
		i, err := AsInt64(f.Value)
		if err != nil {
			return nil, err
		}
		text = strconv.FormatInt(i, 10)
	case DoubleCustomFieldRef:
		d, err := AsDecimal(f.Value)
		if err != nil {
			return nil, err
		}
		text = d.String()
	default:
		s, err := AsString(f.Value)
		if err != nil {
			return nil, err
		}
		text = s
	}
	return n.Append(domain.TextNode(valueName, text)), nil
}

func customRefs(v any) ([]domain.RecordRef, error) {
	if refs, ok := v.([]domain.RecordRef); ok {
		return refs, nil
	}
	var out []domain.RecordRef
	for i, it := range asList(v) {
		ref, err := AsRef(it)
		if err != nil {
			return nil, fmt.Errorf("value[%d]: %w", i, err)
		}
		out = append(out, ref)
	}
	return out, nil
}

// Decode reads custom fields from a customFieldList element.
func (l *CustomFieldList) Decode(n *domain.Node) error {
	l.CustomFields = nil
	for _, c := range n.ChildrenNamed("customField") {
		f := CustomField{}
		f.InternalID, _ = c.Attr("internalId")
		f.ScriptID, _ = c.Attr("scriptId")
		if typ, ok := c.Attr("xsi:type"); ok {
			_, f.Type = splitPrefix(typ)
		}

		values := c.ChildrenNamed("value")
		switch f.Type {
		case SelectCustomFieldRef:
			if len(values) > 0 {
				f.Value = DecodeRef(values[0])
			}
		case MultiSelectCustomFieldRef:
			refs := make([]domain.RecordRef, 0, len(values))
			for _, v := range values {
				refs = append(refs, DecodeRef(v))
			}
			f.Value = refs
		case BooleanCustomFieldRef:
			if len(values) > 0 {
				b, err := strconv.ParseBool(values[0].Text)
				if err != nil {
					return fmt.Errorf("custom field %s: %w", f.ScriptID, err)
				}
				f.Value = b
			}
		case LongCustomFieldRef:
			if len(values) > 0 {
				i, err := strconv.ParseInt(values[0].Text, 10, 64)
				if err != nil {
					return fmt.Errorf("custom field %s: %w", f.ScriptID, err)
				}
				f.Value = i
			}
		case DoubleCustomFieldRef:
			if len(values) > 0 {
				d, err := decimal.NewFromString(values[0].Text)
				if err != nil {
					return fmt.Errorf("custom field %s: %w", f.ScriptID, err)
				}
				f.Value = d
			}
		case DateCustomFieldRef:
			if len(values) > 0 {
				t, err := ParseTime(values[0].Text)
				if err != nil {
					return fmt.Errorf("custom field %s: %w", f.ScriptID, err)
				}
				f.Value = t
			}
		default:
			if len(values) > 0 {
				f.Value = values[0].Text
			}
		}
		l.CustomFields = append(l.CustomFields, f)
	}
	return nil
}

// JSON returns the JSON view of the list.
func (l *CustomFieldList) JSON() any {
	items := make([]any, 0, len(l.CustomFields))
	for _, f := range l.CustomFields {
		m := map[string]any{"type": f.Type}
		if f.InternalID != "" {
			m["internal_id"] = f.InternalID
		}
		if f.ScriptID != "" {
			m["script_id"] = f.ScriptID
		}
		m["value"] = customJSONValue(f.Value)
		items = append(items, m)
	}
	return map[string]any{"custom_field": items}
}

func customJSONValue(v any) any {
	switch t := v.(type) {
	case domain.RecordRef:
		return RefJSON(t)
	case []domain.RecordRef:
		out := make([]any, 0, len(t))
		for _, r := range t {
			out = append(out, RefJSON(r))
		}
		return out
	case decimal.Decimal:
		return t.String()
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return v
	}
}

func splitPrefix(qname string) (string, string) {
	for i := 0; i < len(qname); i++ {
		if qname[i] == ':' {
			return qname[:i], qname[i+1:]
		}
	}
	return "", qname
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
