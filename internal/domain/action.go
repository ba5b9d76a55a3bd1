package domain

import (
	"fmt"
	"strings"
)

// Action is one of the fixed remote operations a record type may support.
type Action string

const (
	ActionGet        Action = "get"
	ActionGetList    Action = "get_list"
	ActionInitialize Action = "initialize"
	ActionAdd        Action = "add"
	ActionDelete     Action = "delete"
	ActionUpdate     Action = "update"
	ActionUpsert     Action = "upsert"
	ActionSearch     Action = "search"

	// ActionSearchMore continues a search by id; it is implied by ActionSearch.
	ActionSearchMore Action = "search_more_with_id"
)

// Operation returns the SOAP operation name for the action.
func (a Action) Operation() string {
	switch a {
	case ActionGetList:
		return "getList"
	case ActionSearchMore:
		return "searchMoreWithId"
	default:
		return string(a)
	}
}

// ParseAction accepts snake_case, kebab-case and SOAP operation spellings.
func ParseAction(s string) (Action, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "_")
	switch norm {
	case "get":
		return ActionGet, nil
	case "get_list", "getlist":
		return ActionGetList, nil
	case "initialize":
		return ActionInitialize, nil
	case "add":
		return ActionAdd, nil
	case "delete":
		return ActionDelete, nil
	case "update":
		return ActionUpdate, nil
	case "upsert":
		return ActionUpsert, nil
	case "search":
		return ActionSearch, nil
	case "search_more_with_id", "searchmorewithid":
		return ActionSearchMore, nil
	default:
		return "", fmt.Errorf("unsupported action %q", s)
	}
}
