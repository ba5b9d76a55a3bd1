package domain

import "testing"

func TestParseAction(t *testing.T) {
	cases := []struct {
		input string
		want  Action
	}{
		{"get", ActionGet},
		{"GET", ActionGet},
		{"get-list", ActionGetList},
		{"getList", ActionGetList},
		{"upsert", ActionUpsert},
		{"searchMoreWithId", ActionSearchMore},
	}
	for _, c := range cases {
		got, err := ParseAction(c.input)
		if err != nil {
			t.Errorf("ParseAction(%q) error: %v", c.input, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseAction(%q) = %s, want %s", c.input, got, c.want)
		}
	}

	if _, err := ParseAction("patch"); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestActionOperation(t *testing.T) {
	if ActionGetList.Operation() != "getList" {
		t.Fatalf("unexpected operation %s", ActionGetList.Operation())
	}
	if ActionSearchMore.Operation() != "searchMoreWithId" {
		t.Fatalf("unexpected operation %s", ActionSearchMore.Operation())
	}
	if ActionAdd.Operation() != "add" {
		t.Fatalf("unexpected operation %s", ActionAdd.Operation())
	}
}
