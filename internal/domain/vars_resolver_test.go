package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testRuntime(t *testing.T, vars Vars) *RuntimeResolver {
	t.Helper()
	vr := NewVarResolver(
		WithNow(func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }),
		WithUUID(func() (string, error) { return "00000000-0000-0000-0000-000000000000", nil }),
	)
	rt, err := vr.NewRuntime(vars)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	return rt
}

func TestResolveString_SimpleVar(t *testing.T) {
	rt := testRuntime(t, Vars{"vendor_id": "42"})
	got, err := rt.ResolveString("vendor-{{vendor_id}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "vendor-42" {
		t.Fatalf("expected vendor-42, got %q", got)
	}
}

func TestResolveString_Builtins(t *testing.T) {
	rt := testRuntime(t, Vars{})
	got, err := rt.ResolveString("{{$uuid}}|{{ $timestamp }}|{{$today}}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "00000000-0000-0000-0000-000000000000|1709985600|2024-03-09"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveString_MissingVar(t *testing.T) {
	rt := testRuntime(t, Vars{})
	_, err := rt.ResolveString("{{token}}")
	if !IsKind(err, KindMissingVar) {
		t.Fatalf("expected KindMissingVar, got: %v", err)
	}
	if !strings.Contains(err.Error(), "missing variable: token") {
		t.Fatalf("expected variable name in error, got: %v", err)
	}
}

func TestResolveString_Malformed(t *testing.T) {
	rt := testRuntime(t, Vars{})
	for _, in := range []string{"{{unclosed", "{{ }}"} {
		_, err := rt.ResolveString(in)
		if !IsKind(err, KindInvalidConfig) {
			t.Errorf("%q: expected KindInvalidConfig, got %v", in, err)
		}
	}
}

func TestResolveStep_DoesNotMutateInput(t *testing.T) {
	rt := testRuntime(t, Vars{"acct": "12", "check_id": "99"})
	in := StepSpec{
		Action: ActionAdd,
		Attributes: map[string]any{
			"external_id": "chk-{{$uuid}}",
			"expense_list": map[string]any{
				"expense": []any{
					map[string]any{"amount": 5000, "account": map[string]any{"internal_id": "{{acct}}"}},
				},
			},
		},
		Ref:    &RecordRef{InternalID: "{{check_id}}"},
		Search: &SearchCriteria{Basic: []SearchCondition{{Field: "memo", Values: []string{"{{acct}}"}}}},
	}

	out, err := rt.ResolveStep(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Attributes["external_id"] != "chk-00000000-0000-0000-0000-000000000000" {
		t.Fatalf("unexpected external id %v", out.Attributes["external_id"])
	}
	expense := out.Attributes["expense_list"].(map[string]any)["expense"].([]any)[0].(map[string]any)
	if expense["account"].(map[string]any)["internal_id"] != "12" {
		t.Fatalf("expected nested ref to resolve")
	}
	if expense["amount"] != 5000 {
		t.Fatalf("expected numbers to pass through")
	}
	if out.Ref.InternalID != "99" || in.Ref.InternalID != "{{check_id}}" {
		t.Fatalf("expected resolved copy of ref")
	}
	if out.Search.Basic[0].Values[0] != "12" || in.Search.Basic[0].Values[0] != "{{acct}}" {
		t.Fatalf("expected resolved copy of search values")
	}
}

func TestResolveStep_WrapsFieldContext(t *testing.T) {
	rt := testRuntime(t, Vars{})
	_, err := rt.ResolveStep(StepSpec{Ref: &RecordRef{InternalID: "{{missing}}"}})
	if !IsKind(err, KindMissingVar) {
		t.Fatalf("expected KindMissingVar, got %v", err)
	}
	if !strings.Contains(err.Error(), "step.ref") {
		t.Fatalf("expected field context, got %v", err)
	}
}

func TestWithUUID_Error(t *testing.T) {
	vr := NewVarResolver(WithUUID(func() (string, error) { return "", errors.New("no entropy") }))
	_, err := vr.NewRuntime(nil)
	if !IsKind(err, KindExecution) {
		t.Fatalf("expected KindExecution, got %v", err)
	}
}

func TestResolveStep_ResolvesAssertionValues(t *testing.T) {
	rt := testRuntime(t, Vars{"memo": "Office rent"})
	want := "{{memo}}"
	in := StepSpec{
		Action: ActionGet,
		Assert: AssertionsSpec{JSONPath: map[string]JSONPathAssertion{
			"$.memo": {Contains: &want},
			"$.id":   {Exists: true},
		}},
	}

	out, err := rt.ResolveStep(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := *out.Assert.JSONPath["$.memo"].Contains; got != "Office rent" {
		t.Fatalf("expected resolved contains, got %q", got)
	}
	if *in.Assert.JSONPath["$.memo"].Contains != "{{memo}}" {
		t.Fatalf("expected input assertion untouched")
	}
	if !out.Assert.JSONPath["$.id"].Exists {
		t.Fatalf("expected exists check carried over")
	}
}
