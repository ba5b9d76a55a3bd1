package assert

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aalvaropc/suitemap/internal/domain"
)

func parse(t *testing.T, s string) any {
	t.Helper()
	var doc any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return doc
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

// --- Success ---

func TestSuccess_Equal(t *testing.T) {
	r := Success(true, true)
	if !r.Passed {
		t.Fatalf("expected Passed=true for equal status")
	}
	if r.Name != "success" {
		t.Fatalf("expected Name=success, got %q", r.Name)
	}
}

func TestSuccess_FailMessage(t *testing.T) {
	r := Success(true, false)
	if r.Passed {
		t.Fatalf("expected fail")
	}
	if r.Message != "expected success true, got false" {
		t.Fatalf("unexpected message: %q", r.Message)
	}
}

func TestSuccess_ExpectingFailure(t *testing.T) {
	if r := Success(false, false); !r.Passed {
		t.Fatalf("expected a failed call to satisfy success: false")
	}
}

// --- MaxLatency ---

func TestMaxLatency_ExactlyEqual(t *testing.T) {
	if r := MaxLatency(100, 100); !r.Passed {
		t.Fatalf("expected Passed=true at the threshold")
	}
}

func TestMaxLatency_FailMessage(t *testing.T) {
	r := MaxLatency(100, 250)
	if r.Passed {
		t.Fatalf("expected fail")
	}
	if r.Message != "expected latency <= 100ms, got 250ms" {
		t.Fatalf("unexpected message: %q", r.Message)
	}
}

// --- Evaluate ---

func TestEvaluate_NoAssertions(t *testing.T) {
	results := Evaluate(domain.AssertionsSpec{}, true, 50, parse(t, `{}`))
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}

func TestEvaluate_JSONPathChecks(t *testing.T) {
	doc := parse(t, `{"memo":"Office rent","tran_id":"CHK-0042","balance":"125.5","line":2,"expense_list":{"expense":[{"amount":"10"}]}}`)

	cases := []struct {
		name   string
		expr   string
		check  domain.JSONPathAssertion
		passed bool
	}{
		{"exists", "$.memo", domain.JSONPathAssertion{Exists: true}, true},
		{"exists missing", "$.currency_name", domain.JSONPathAssertion{Exists: true}, false},
		{"eq", "$.tran_id", domain.JSONPathAssertion{Eq: strPtr("CHK-0042")}, true},
		{"eq mismatch", "$.tran_id", domain.JSONPathAssertion{Eq: strPtr("CHK-1")}, false},
		{"eq number", "$.line", domain.JSONPathAssertion{Eq: strPtr("2")}, true},
		{"contains", "$.memo", domain.JSONPathAssertion{Contains: strPtr("rent")}, true},
		{"matches", "$.tran_id", domain.JSONPathAssertion{Matches: strPtr(`^CHK-\d+$`)}, true},
		{"matches invalid regex", "$.tran_id", domain.JSONPathAssertion{Matches: strPtr(`(`)}, false},
		{"gt decimal string", "$.balance", domain.JSONPathAssertion{Gt: floatPtr(100)}, true},
		{"lt decimal string", "$.balance", domain.JSONPathAssertion{Lt: floatPtr(100)}, false},
		{"gt nested", "$.expense_list.expense[0].amount", domain.JSONPathAssertion{Gt: floatPtr(5)}, true},
		{"gt non numeric", "$.memo", domain.JSONPathAssertion{Gt: floatPtr(1)}, false},
		{"invalid expression", "$.memo[", domain.JSONPathAssertion{Exists: true}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := domain.AssertionsSpec{JSONPath: map[string]domain.JSONPathAssertion{tc.expr: tc.check}}
			out := Evaluate(spec, true, 10, doc)
			if len(out) != 1 {
				t.Fatalf("expected 1 result, got=%d", len(out))
			}
			if out[0].Passed != tc.passed {
				t.Fatalf("expected passed=%v, got %+v", tc.passed, out[0])
			}
		})
	}
}

func TestEvaluate_NilDocumentFailsJSONPath(t *testing.T) {
	spec := domain.AssertionsSpec{
		JSONPath: map[string]domain.JSONPathAssertion{
			"$.memo":    {Exists: true},
			"$.tran_id": {Exists: true},
		},
	}
	out := Evaluate(spec, false, 50, nil)
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	for _, r := range out {
		if r.Passed || !strings.Contains(r.Message, "no output") {
			t.Errorf("expected failure for missing output, got %+v", r)
		}
	}
}

func TestEvaluate_MultipleAssertionsCombined(t *testing.T) {
	ok := true
	ms := 500
	spec := domain.AssertionsSpec{
		Success:      &ok,
		MaxLatencyMS: &ms,
		JSONPath: map[string]domain.JSONPathAssertion{
			"$.tran_id":     {Exists: true},
			"$.internal_id": {Exists: true},
		},
	}
	results := Evaluate(spec, true, 100, parse(t, `{"internal_id":"1","tran_id":"7"}`))
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if results[0].Name != "success" || results[1].Name != "max_ms" {
		t.Fatalf("expected success then max_ms first, got %q, %q", results[0].Name, results[1].Name)
	}
	// JSONPath results follow in expression order.
	if !strings.Contains(results[2].Message, "$.internal_id") || !strings.Contains(results[3].Message, "$.tran_id") {
		t.Fatalf("expected sorted jsonpath results, got %+v", results[2:])
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("expected pass, got %+v", r)
		}
	}
}

func TestEvaluate_JSONPathExistsFalseSkipped(t *testing.T) {
	spec := domain.AssertionsSpec{
		JSONPath: map[string]domain.JSONPathAssertion{
			"$.memo": {Exists: false},
		},
	}
	results := Evaluate(spec, true, 50, parse(t, `{"memo":"x"}`))
	if len(results) != 0 {
		t.Fatalf("expected 0 results for Exists=false, got %d", len(results))
	}
}
