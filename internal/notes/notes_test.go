package notes

import "testing"

const sample = `---
title: Tax prep
due: 2024-04-15
---
# Taxes

Bring receipts
and the W-2.

- call [accountant](https://example.com/acct)
  - ask about deductions
- mail forms

> keep copies

` + "```\ntotal = 42\n```\n"

func TestParseFrontmatterAndLinks(t *testing.T) {
	n := Parse(sample)
	if n.Title != "Tax prep" {
		t.Errorf("expected frontmatter title, got %q", n.Title)
	}
	if _, ok := n.Meta["due"]; !ok {
		t.Error("expected due key in meta")
	}
	if _, ok := n.Meta["title"]; ok {
		t.Error("title should be removed from meta")
	}
	if len(n.Links) != 1 || n.Links[0] != "https://example.com/acct" {
		t.Errorf("unexpected links %v", n.Links)
	}
}

func TestTitleFallbacks(t *testing.T) {
	if got := Title("## Groceries\n- milk"); got != "Groceries" {
		t.Errorf("expected heading title, got %q", got)
	}
	if got := Title("just a line\nand more"); got != "just a line" {
		t.Errorf("expected first line, got %q", got)
	}
	if got := Title("   "); got != "" {
		t.Errorf("expected empty title, got %q", got)
	}
}

func TestRender(t *testing.T) {
	lines := Render(sample)

	want := []Line{
		{Kind: LineHeading, Text: "Taxes", Depth: 1},
		{Kind: LineText, Text: "Bring receipts and the W-2."},
		{Kind: LineBullet, Text: "call accountant", Depth: 1},
		{Kind: LineBullet, Text: "ask about deductions", Depth: 2},
		{Kind: LineBullet, Text: "mail forms", Depth: 1},
		{Kind: LineQuote, Text: "keep copies"},
		{Kind: LineCode, Text: "total = 42"},
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %+v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %+v, want %+v", i, lines[i], want[i])
		}
	}
}

func TestMalformedFrontmatterStaysInBody(t *testing.T) {
	n := Parse("---\n: [\n---\nbody")
	if len(n.Meta) != 0 {
		t.Errorf("expected no meta, got %v", n.Meta)
	}
	if n.Body == "body" {
		t.Error("malformed frontmatter should not be stripped")
	}
}
