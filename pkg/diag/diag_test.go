package diag

import (
	"testing"

	"modlint/pkg/ast"
)

func TestSeverityString(t *testing.T) {
	cases := []struct {
		sev  Severity
		want string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{Severity(99), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.sev.String(); got != tc.want {
			t.Fatalf("Severity(%d).String() = %q, want %q", tc.sev, got, tc.want)
		}
	}
}

func TestTypeConstructors(t *testing.T) {
	e := Error("E1", "an error")
	if e.ID != "E1" || e.Severity != SeverityError || e.Message != "an error" {
		t.Fatalf("unexpected error type: %+v", e)
	}
	w := Warning("W1", "a warning")
	if w.ID != "W1" || w.Severity != SeverityWarning || w.Message != "a warning" {
		t.Fatalf("unexpected warning type: %+v", w)
	}
}

func TestCollectorPreservesOrderAndLocation(t *testing.T) {
	first := Error("FIRST", "first finding")
	second := Warning("SECOND", "second finding")

	name := ast.ID("x")
	ast.SetSpan(name, ast.Span{
		Start: ast.Position{Line: 3, Column: 7},
		End:   ast.Position{Line: 3, Column: 8},
	})
	ast.Script("a.js", ast.ExprStmt(name))

	c := NewCollector()
	c.Report(first, name)
	c.Report(second, nil)

	if c.Len() != 2 {
		t.Fatalf("expected 2 findings, got %d", c.Len())
	}
	diags := c.Diagnostics()
	if diags[0].ID != "FIRST" || diags[1].ID != "SECOND" {
		t.Fatalf("report order not preserved: %v", diags)
	}
	if diags[0].File != "a.js" {
		t.Fatalf("expected file from enclosing script, got %q", diags[0].File)
	}
	if diags[0].Span.Start.Line != 3 || diags[0].Span.Start.Column != 7 {
		t.Fatalf("span not carried onto the diagnostic: %+v", diags[0].Span)
	}
	if diags[0].Sev != SeverityError || diags[1].Sev != SeverityWarning {
		t.Fatalf("severities not mirrored from the types: %v", diags)
	}
	if diags[1].File != "" {
		t.Fatalf("nil node must leave the file empty, got %q", diags[1].File)
	}
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		ID:      "SOME_RULE",
		Sev:     SeverityError,
		Message: "something is off",
		File:    "a.js",
		Span:    ast.Span{Start: ast.Position{Line: 2, Column: 5}},
	}
	want := "a.js:2:5: error: something is off [SOME_RULE]"
	if got := d.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
