package domain

import (
	"fmt"
	"strings"
)

// SearchFieldKind selects the platformCore search field type of a condition.
type SearchFieldKind string

const (
	SearchString          SearchFieldKind = "string"
	SearchBoolean         SearchFieldKind = "boolean"
	SearchDate            SearchFieldKind = "date"
	SearchLong            SearchFieldKind = "long"
	SearchDouble          SearchFieldKind = "double"
	SearchMultiSelect     SearchFieldKind = "multi_select"
	SearchEnumMultiSelect SearchFieldKind = "enum_multi_select"
)

// SearchCondition is one basic search criterion, e.g. memo contains "rent".
type SearchCondition struct {
	Field    string
	Kind     SearchFieldKind
	Operator string
	Values   []string
}

// SearchCriteria describes a basic search over one record type.
type SearchCriteria struct {
	RecordType string
	Basic      []SearchCondition
	PageSize   int
	All        bool
}

// ParseSearchFieldKind accepts the kinds above case-insensitively; "" means string.
func ParseSearchFieldKind(k string) (SearchFieldKind, error) {
	norm := strings.ToLower(strings.TrimSpace(k))
	if norm == "" {
		return SearchString, nil
	}
	switch kind := SearchFieldKind(norm); kind {
	case SearchString,
		SearchBoolean,
		SearchDate,
		SearchLong,
		SearchDouble,
		SearchMultiSelect,
		SearchEnumMultiSelect:
		return kind, nil
	default:
		return "", fmt.Errorf("unsupported search field kind %q", k)
	}
}
