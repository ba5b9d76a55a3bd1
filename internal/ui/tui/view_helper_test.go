package tui

import "testing"

func TestClampString(t *testing.T) {
	if got := clampString("expenseList", 7); got != "expense…" {
		t.Fatalf("unexpected clamp %q", got)
	}
	if got := clampString("memo", 7); got != "memo" {
		t.Fatalf("unexpected clamp %q", got)
	}
	if got := clampString("memo", 0); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
