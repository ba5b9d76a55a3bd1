package domain

import (
	"fmt"
	"strings"
)

// StatusDetail is one entry of a remote status block.
type StatusDetail struct {
	Type    string // ERROR, WARN or INFO
	Code    string
	Message string
}

func (d StatusDetail) String() string {
	if d.Code == "" {
		return d.Message
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// Response is the transport-agnostic outcome of one remote action.
//
// Body holds the action payload: the record element for get/initialize, the base
// ref for writes. GetList fills Items; search calls fill Page.
type Response struct {
	Success bool
	Body    *Node
	Details []StatusDetail
	Items   []Response
	Page    *SearchPage
}

// ErrorMessages joins every ERROR-level detail.
func (r Response) ErrorMessages() string {
	var parts []string
	for _, d := range r.Details {
		if d.Type == "" || strings.EqualFold(d.Type, "ERROR") {
			parts = append(parts, d.String())
		}
	}
	return strings.Join(parts, "; ")
}

// SearchPage is one page of search results.
type SearchPage struct {
	TotalRecords int
	PageSize     int
	TotalPages   int
	PageIndex    int
	SearchID     string
	Records      []*Node
}

// RecordRef references another record by internal or external id.
type RecordRef struct {
	InternalID string `json:"internal_id,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
	Type       string `json:"type,omitempty"`
	Name       string `json:"name,omitempty"`
}

// IsZero reports whether neither id nor name is set.
func (r RecordRef) IsZero() bool {
	return r.InternalID == "" && r.ExternalID == "" && r.Name == ""
}

func (r RecordRef) String() string {
	var parts []string
	if r.InternalID != "" {
		parts = append(parts, fmt.Sprintf("internal_id: %q", r.InternalID))
	}
	if r.ExternalID != "" {
		parts = append(parts, fmt.Sprintf("external_id: %q", r.ExternalID))
	}
	if r.Type != "" {
		parts = append(parts, fmt.Sprintf("type: %q", r.Type))
	}
	if r.Name != "" {
		parts = append(parts, fmt.Sprintf("name: %q", r.Name))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
