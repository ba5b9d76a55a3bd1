package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/records"
)

func fixedClock(step time.Duration) func() time.Time {
	cur := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		t := cur
		cur = cur.Add(step)
		return t
	}
}

func TestStepExecutor_AddAdoptsInternalID(t *testing.T) {
	d := newScripted().on("add", baseRef("991"))
	exec := NewStepExecutor(records.Registry(), d, fixedClock(20*time.Millisecond))

	out, err := exec.Execute(context.Background(), domain.StepSpec{
		Name:       "create",
		Action:     domain.ActionAdd,
		RecordType: "check",
		Attributes: map[string]any{"memo": "Office rent"},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !out.Success {
		t.Fatalf("expected success")
	}
	if out.LatencyMS != 20 {
		t.Fatalf("expected latency 20ms, got %d", out.LatencyMS)
	}
	view := out.Output.(map[string]any)
	if view["internal_id"] != "991" || view["memo"] != "Office rent" {
		t.Fatalf("unexpected output: %v", view)
	}
}

func TestStepExecutor_GetNotFoundIsUnsuccessful(t *testing.T) {
	d := newScripted().on("get", domain.Response{
		Success: false,
		Details: []domain.StatusDetail{{Type: "ERROR", Code: "RCRD_DSNT_EXIST", Message: "missing"}},
	})
	exec := NewStepExecutor(records.Registry(), d, nil)

	out, err := exec.Execute(context.Background(), domain.StepSpec{
		Action:     domain.ActionGet,
		RecordType: "check",
		Ref:        &domain.RecordRef{InternalID: "5"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Success || out.Output != nil {
		t.Fatalf("expected unsuccessful outcome without output, got %+v", out)
	}
	if len(out.Details) != 1 || out.Details[0].Code != "RCRD_DSNT_EXIST" {
		t.Fatalf("expected status details, got %+v", out.Details)
	}
	if d.refs[0].Type != "check" {
		t.Fatalf("expected typed ref, got %+v", d.refs[0])
	}
}

func TestStepExecutor_GetListReportsFailures(t *testing.T) {
	d := newScripted().on("getList", domain.Response{
		Success: true,
		Items: []domain.Response{
			{Success: true, Body: checkBody("1", "a")},
			{Success: false, Details: []domain.StatusDetail{{Code: "RCRD_DSNT_EXIST"}}},
		},
	})
	exec := NewStepExecutor(records.Registry(), d, nil)

	out, err := exec.Execute(context.Background(), domain.StepSpec{
		Action:     domain.ActionGetList,
		RecordType: "check",
		Refs:       []domain.RecordRef{{InternalID: "1"}, {InternalID: "2"}},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if out.Success {
		t.Fatalf("expected partial failure to be unsuccessful")
	}
	recs := out.Output.(map[string]any)["records"].([]map[string]any)
	if len(recs) != 1 || recs[0]["memo"] != "a" {
		t.Fatalf("unexpected records: %v", recs)
	}
	if len(out.Details) != 1 {
		t.Fatalf("expected 1 failure detail, got %d", len(out.Details))
	}
}

func TestStepExecutor_DeleteOutputsRef(t *testing.T) {
	d := newScripted().on("delete", domain.Response{Success: true})
	exec := NewStepExecutor(records.Registry(), d, nil)

	out, err := exec.Execute(context.Background(), domain.StepSpec{
		Action:     domain.ActionDelete,
		RecordType: "check",
		Ref:        &domain.RecordRef{InternalID: "7"},
	})
	if err != nil || !out.Success {
		t.Fatalf("expected delete to succeed: %v", err)
	}
	ref := out.Output.(map[string]any)
	if ref["internal_id"] != "7" || ref["type"] != "check" {
		t.Fatalf("unexpected output: %v", ref)
	}
	if d.refs[0].InternalID != "7" {
		t.Fatalf("unexpected ref sent: %+v", d.refs[0])
	}
}

func TestStepExecutor_SearchAllCollectsPages(t *testing.T) {
	d := newScripted().
		on("search", domain.Response{Success: true, Page: &domain.SearchPage{
			TotalRecords: 2, TotalPages: 2, PageIndex: 1, PageSize: 1, SearchID: "s-1",
			Records: []*domain.Node{checkBody("1", "a")},
		}}).
		on("searchMoreWithId", domain.Response{Success: true, Page: &domain.SearchPage{
			TotalRecords: 2, TotalPages: 2, PageIndex: 2, PageSize: 1, SearchID: "s-1",
			Records: []*domain.Node{checkBody("2", "b")},
		}})
	exec := NewStepExecutor(records.Registry(), d, nil)

	out, err := exec.Execute(context.Background(), domain.StepSpec{
		Action:     domain.ActionSearch,
		RecordType: "check",
		Search: &domain.SearchCriteria{
			All:   true,
			Basic: []domain.SearchCondition{{Field: "memo", Kind: domain.SearchString, Operator: "contains", Values: []string{"rent"}}},
		},
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	page := out.Output.(map[string]any)
	if page["total_records"] != 2 || page["page_index"] != 2 {
		t.Fatalf("unexpected page: %v", page)
	}
	if recs := page["records"].([]map[string]any); len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
}

func TestStepExecutor_TransportErrorPropagates(t *testing.T) {
	d := newScripted()
	d.err = errors.New("connection refused")
	exec := NewStepExecutor(records.Registry(), d, nil)

	_, err := exec.Execute(context.Background(), domain.StepSpec{
		Action:     domain.ActionGet,
		RecordType: "check",
		Ref:        &domain.RecordRef{InternalID: "1"},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestPrepare(t *testing.T) {
	reg := records.Registry()

	cases := []struct {
		name string
		step domain.StepSpec
		kind domain.ErrorKind
	}{
		{"unknown type", domain.StepSpec{Action: domain.ActionGet, RecordType: "invoice", Ref: &domain.RecordRef{InternalID: "1"}}, domain.KindNotFound},
		{"unknown attribute", domain.StepSpec{Action: domain.ActionAdd, RecordType: "check", Attributes: map[string]any{"colour": "red"}}, domain.KindInvalidRecord},
		{"bad decimal", domain.StepSpec{Action: domain.ActionAdd, RecordType: "check", Attributes: map[string]any{"balance": "lots"}}, domain.KindInvalidRecord},
		{"get without ref", domain.StepSpec{Action: domain.ActionGet, RecordType: "check"}, domain.KindInvalidConfig},
		{"search without values", domain.StepSpec{Action: domain.ActionSearch, RecordType: "check", Search: &domain.SearchCriteria{
			Basic: []domain.SearchCondition{{Field: "memo", Kind: domain.SearchString}},
		}}, domain.KindInvalidConfig},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Prepare(reg, tc.step)
			if !domain.IsKind(err, tc.kind) {
				t.Fatalf("expected %s, got %v", tc.kind, err)
			}
		})
	}

	p, err := Prepare(reg, domain.StepSpec{Action: domain.ActionSearch, RecordType: "tranBank:Check"})
	if err != nil {
		t.Fatalf("Prepare search: %v", err)
	}
	if p.Search == nil || p.Type.Name() != "Check" {
		t.Fatalf("expected search element for Check, got %+v", p)
	}
}
