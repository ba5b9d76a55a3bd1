package record

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/suitemap/internal/domain"
)

var searchFieldTypes = map[domain.SearchFieldKind]string{
	domain.SearchString:          "SearchStringField",
	domain.SearchBoolean:         "SearchBooleanField",
	domain.SearchDate:            "SearchDateField",
	domain.SearchLong:            "SearchLongField",
	domain.SearchDouble:          "SearchDoubleField",
	domain.SearchMultiSelect:     "SearchMultiSelectField",
	domain.SearchEnumMultiSelect: "SearchEnumMultiSelectField",
}

var defaultOperators = map[domain.SearchFieldKind]string{
	domain.SearchString:          "is",
	domain.SearchDate:            "on",
	domain.SearchLong:            "equalTo",
	domain.SearchDouble:          "equalTo",
	domain.SearchMultiSelect:     "anyOf",
	domain.SearchEnumMultiSelect: "anyOf",
}

// SearchRecord renders basic search criteria for t as a searchRecord element typed
// <ns>:<Class>Search, with the conditions under its <ns>:basic child.
//
// When t searches through a shared class (a Check searches Transaction), a type
// condition restricting results to t is prepended.
func SearchRecord(t Type, c domain.SearchCriteria) (*domain.Node, error) {
	searchType := t.SearchRecordType()
	if searchType == "" {
		return nil, &domain.OpError{
			Op:   "record.search",
			Kind: domain.KindUnsupportedAction,
			Err:  fmt.Errorf("%s: %w", t.Name(), domain.ErrUnsupportedAction),
		}
	}

	prefix, local := splitPrefix(searchType)
	basic := domain.NewNode(prefix + ":basic")
	n := domain.NewNode(PlatformMsgs.Q("searchRecord")).
		SetAttr("xsi:type", searchType).
		Append(basic)

	if class := strings.TrimSuffix(local, "Search"); class != t.Name() {
		basic.Append(searchCondition(domain.SearchCondition{
			Field:  "type",
			Kind:   domain.SearchEnumMultiSelect,
			Values: []string{"_" + t.TypeName()},
		}))
	}

	for i, cond := range c.Basic {
		if strings.TrimSpace(cond.Field) == "" {
			return nil, invalidCondition(i, "field is required")
		}
		if _, ok := searchFieldTypes[cond.Kind]; !ok {
			return nil, invalidCondition(i, fmt.Sprintf("unsupported kind %q", cond.Kind))
		}
		if len(cond.Values) == 0 {
			return nil, invalidCondition(i, "at least one value is required")
		}
		basic.Append(searchCondition(cond))
	}
	return n, nil
}

func searchCondition(c domain.SearchCondition) *domain.Node {
	n := domain.NewNode(PlatformCommon.Q(WireName(NormalizeKey(c.Field))))
	n.SetAttr("xsi:type", PlatformCore.Q(searchFieldTypes[c.Kind]))

	if c.Kind != domain.SearchBoolean {
		op := c.Operator
		if op == "" {
			op = defaultOperators[c.Kind]
		}
		n.SetAttr("operator", op)
	}

	value := PlatformCore.Q("searchValue")
	switch c.Kind {
	case domain.SearchMultiSelect:
		for _, v := range c.Values {
			n.Append(EncodeRef(value, domain.RecordRef{InternalID: v}))
		}
	case domain.SearchEnumMultiSelect:
		for _, v := range c.Values {
			n.Append(domain.TextNode(value, v))
		}
	case domain.SearchDate, domain.SearchLong, domain.SearchDouble:
		n.Append(domain.TextNode(value, c.Values[0]))
		if len(c.Values) > 1 {
			n.Append(domain.TextNode(PlatformCore.Q("searchValue2"), c.Values[1]))
		}
	default:
		n.Append(domain.TextNode(value, c.Values[0]))
	}
	return n
}

func invalidCondition(i int, msg string) error {
	return &domain.OpError{
		Op:   "record.search",
		Kind: domain.KindInvalidConfig,
		Path: fmt.Sprintf("basic[%d]", i),
		Err:  fmt.Errorf("%s: %w", msg, domain.ErrInvalidConfig),
	}
}
