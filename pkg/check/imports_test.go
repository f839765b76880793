package check

import (
	"testing"

	"modlint/pkg/ast"
	"modlint/pkg/diag"
)

func checkImports(t *testing.T, scripts ...*ast.Node) []diag.Diagnostic {
	t.Helper()
	collector := diag.NewCollector()
	externs := ast.NewNode(ast.KindRoot)
	NewImportChecker(collector).Process(externs, ast.Root(scripts...))
	return collector.Diagnostics()
}

func TestRequireArgumentMustBeStringLiteral(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.ExprStmt(ast.CallExpr(ast.Qual("goog.require"), ast.ID("ns"))),
	)

	diags := checkImports(t, script)
	if got := countID(diags, "INVALID_REQUIRE_ARGUMENT"); got != 1 {
		t.Fatalf("expected INVALID_REQUIRE_ARGUMENT, got %v", ids(diags))
	}
}

func TestRequireArgumentCount(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.ExprStmt(ast.CallExpr(ast.Qual("goog.require"))),
		ast.ExprStmt(ast.CallExpr(ast.Qual("goog.require"), ast.Str("a.b"), ast.Str("c.d"))),
	)

	diags := checkImports(t, script)
	if got := countID(diags, "INVALID_REQUIRE_ARGUMENT"); got != 2 {
		t.Fatalf("expected two INVALID_REQUIRE_ARGUMENT, got %v", ids(diags))
	}
}

func TestDuplicateRequire(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.GoogRequire("x.y"),
		ast.GoogRequire("x.y"),
		ast.GoogRequire("x.z"),
	)

	diags := checkImports(t, script)
	if got := countID(diags, "DUPLICATE_REQUIRE"); got != 1 {
		t.Fatalf("expected one DUPLICATE_REQUIRE, got %v", ids(diags))
	}
}

func TestRequireStateResetsPerFile(t *testing.T) {
	fileA := ast.Script("a.js",
		ast.GoogModule("a.mod"),
		ast.GoogRequire("x.y"),
	)
	fileB := ast.Script("b.js",
		ast.GoogModule("b.mod"),
		ast.GoogRequire("x.y"),
	)

	diags := checkImports(t, fileA, fileB)
	if got := countID(diags, "DUPLICATE_REQUIRE"); got != 0 {
		t.Fatalf("requires in separate files are independent, got %v", ids(diags))
	}
}
