package domain

import (
	"reflect"
	"testing"
)

func TestNodeLookup(t *testing.T) {
	rec := NewNode("ns0:record").
		SetAttr("xsi:type", "tranBank:Check").
		SetAttr("internalId", "1").
		Append(
			TextNode("tranBank:memo", "rent"),
			NewNode("tranBank:expenseList").Append(
				NewNode("tranBank:expense").Append(TextNode("tranBank:amount", "10")),
				NewNode("tranBank:expense").Append(TextNode("tranBank:amount", "20")),
			),
		)

	if rec.Local() != "record" || rec.Prefix() != "ns0" {
		t.Fatalf("unexpected qname split: %s / %s", rec.Prefix(), rec.Local())
	}
	if v, ok := rec.Attr("type"); !ok || v != "tranBank:Check" {
		t.Fatalf("expected unqualified attr lookup, got %q", v)
	}
	if _, ok := rec.Attr("xsi:internalId"); ok {
		t.Fatalf("qualified lookup must match exactly")
	}
	if got := rec.Find("memo"); got == nil || got.Text != "rent" {
		t.Fatalf("expected memo child")
	}
	if n := len(rec.Find("expenseList").ChildrenNamed("expense")); n != 2 {
		t.Fatalf("expected 2 expenses, got %d", n)
	}
	if rec.Find("expenseList", "missing") != nil {
		t.Fatalf("expected nil for missing path")
	}
}

func TestTree(t *testing.T) {
	nodes := []*Node{
		TextNode("tranBank:memo", "some check"),
		TextNode("tranBank:tranId", "TRAN-REF-1"),
	}
	want := map[string]any{
		"tranBank:memo":   "some check",
		"tranBank:tranId": "TRAN-REF-1",
	}
	if got := Tree(nodes); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	nested := Tree([]*Node{
		NewNode("tranBank:account").SetAttr("internalId", "7"),
		TextNode("tranBank:line", "1"),
		TextNode("tranBank:line", "2"),
	})
	acct, ok := nested["tranBank:account"].(map[string]any)
	if !ok || acct["@internalId"] != "7" {
		t.Fatalf("expected attribute map, got %v", nested["tranBank:account"])
	}
	if lines, ok := nested["tranBank:line"].([]any); !ok || len(lines) != 2 {
		t.Fatalf("expected repeated names to collapse into a slice, got %v", nested["tranBank:line"])
	}
}
