package check

import (
	"testing"

	"modlint/pkg/ast"
	"modlint/pkg/diag"
)

// checkProgram runs a fresh module checker (and its sibling import checker)
// over the given scripts and returns findings in report order.
func checkProgram(t *testing.T, scripts ...*ast.Node) []diag.Diagnostic {
	t.Helper()
	collector := diag.NewCollector()
	externs := ast.NewNode(ast.KindRoot)
	NewModuleChecker(collector).Process(externs, ast.Root(scripts...))
	return collector.Diagnostics()
}

func ids(diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.ID)
	}
	return out
}

func countID(diags []diag.Diagnostic, id string) int {
	n := 0
	for _, d := range diags {
		if d.ID == id {
			n++
		}
	}
	return n
}

func TestSingleModuleDeclarationIsClean(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.GoogRequire("other.ns"),
		ast.ExprStmt(ast.AssignExpr(ast.ID("exports"), ast.ObjLit(ast.Key("a", ast.Num("1"))))),
	)

	diags := checkProgram(t, script)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", ids(diags))
	}
}

func TestMultipleModulesInFile(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.GoogModule("my.other"),
		ast.GoogModule("my.third"),
	)

	diags := checkProgram(t, script)
	if got := countID(diags, "MULTIPLE_MODULES_IN_FILE"); got != 2 {
		t.Fatalf("expected one diagnostic per call beyond the first (2), got %d: %v", got, ids(diags))
	}
}

func TestModuleAndProvides(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.ExprStmt(ast.CallExpr(ast.Qual("goog.provide"), ast.Str("my.legacy"))),
		// The provide must not suppress the module-name state update.
		ast.ExprStmt(ast.Qual("my.module")),
	)

	diags := checkProgram(t, script)
	if got := countID(diags, "MODULE_AND_PROVIDES"); got != 1 {
		t.Fatalf("expected exactly one MODULE_AND_PROVIDES, got %d: %v", got, ids(diags))
	}
	if got := countID(diags, "REFERENCE_TO_MODULE_GLOBAL_NAME"); got != 1 {
		t.Fatalf("module state should still be set after provide, got %v", ids(diags))
	}
}

func TestReferenceToModuleGlobalName(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.ExprStmt(ast.Qual("my.module")),
	)

	diags := checkProgram(t, script)
	if got := countID(diags, "REFERENCE_TO_MODULE_GLOBAL_NAME"); got != 1 {
		t.Fatalf("expected REFERENCE_TO_MODULE_GLOBAL_NAME, got %v", ids(diags))
	}
}

func TestLongerPathIsNotAGlobalNameReference(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.ExprStmt(ast.Qual("my.module.Foo")),
	)

	diags := checkProgram(t, script)
	if got := countID(diags, "REFERENCE_TO_MODULE_GLOBAL_NAME"); got != 0 {
		t.Fatalf("a longer path must not match the module name, got %v", ids(diags))
	}
}

func TestNonLiteralModuleNameDeclaresEmptyName(t *testing.T) {
	script := ast.Script("a.js",
		ast.ExprStmt(ast.CallExpr(ast.Qual("goog.module"), ast.ID("dynamicName"))),
		ast.GoogModule("second"),
	)
	// Scripts are pruned unless they open with goog.module; hand-build one
	// whose first statement is a non-literal declaration.
	diags := checkProgram(t, script)
	if got := countID(diags, "MULTIPLE_MODULES_IN_FILE"); got != 1 {
		t.Fatalf("empty-name declaration still counts as the module, got %v", ids(diags))
	}
}

func TestThisAtTopLevel(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.ExprStmt(ast.This()),
	)

	diags := checkProgram(t, script)
	if got := countID(diags, "GOOG_MODULE_REFERENCES_THIS"); got != 1 {
		t.Fatalf("expected GOOG_MODULE_REFERENCES_THIS, got %v", ids(diags))
	}
}

func TestThisInsideFunctionIsAllowed(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.Fn("f", nil, ast.ExprStmt(ast.This())),
	)

	diags := checkProgram(t, script)
	if got := countID(diags, "GOOG_MODULE_REFERENCES_THIS"); got != 0 {
		t.Fatalf("this inside a function body is fine, got %v", ids(diags))
	}
}

func TestThrowAtTopLevel(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.ThrowStmt(ast.Str("boom")),
	)

	diags := checkProgram(t, script)
	if got := countID(diags, "GOOG_MODULE_USES_THROW"); got != 1 {
		t.Fatalf("expected GOOG_MODULE_USES_THROW, got %v", ids(diags))
	}
}

func TestThrowInsideFunctionIsAllowed(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.Fn("f", nil, ast.ThrowStmt(ast.Str("boom"))),
	)

	diags := checkProgram(t, script)
	if got := countID(diags, "GOOG_MODULE_USES_THROW"); got != 0 {
		t.Fatalf("throw inside a function body is fine, got %v", ids(diags))
	}
}

func TestRequireBoundToSingleName(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.Decl(ast.Declarator("a", ast.CallExpr(ast.Qual("goog.require"), ast.Str("x.y")))),
	)

	diags := checkProgram(t, script)
	if len(diags) != 0 {
		t.Fatalf("single binding is valid, got %v", ids(diags))
	}
}

func TestRequireDestructuredIntoTwoBindings(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.Decl(ast.PatternDeclarator([]string{"a", "b"},
			ast.CallExpr(ast.Qual("goog.require"), ast.Str("x.y")))),
	)

	diags := checkProgram(t, script)
	if got := countID(diags, "ONE_REQUIRE_PER_DECLARATION"); got != 1 {
		t.Fatalf("expected ONE_REQUIRE_PER_DECLARATION, got %v", ids(diags))
	}
}

func TestRequireDestructuredIntoOneBinding(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.Decl(ast.PatternDeclarator([]string{"a"},
			ast.CallExpr(ast.Qual("goog.require"), ast.Str("x.y")))),
	)

	diags := checkProgram(t, script)
	if got := countID(diags, "ONE_REQUIRE_PER_DECLARATION"); got != 0 {
		t.Fatalf("one destructured binding is valid, got %v", ids(diags))
	}
}

func TestRequireChainedThroughProperty(t *testing.T) {
	// const x = goog.require('a.b').c
	access := ast.NewValueNode(ast.KindGetProp, "c").
		AddChild(ast.CallExpr(ast.Qual("goog.require"), ast.Str("a.b")))
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.Decl(ast.Declarator("x", access)),
	)

	diags := checkProgram(t, script)
	if len(diags) != 0 {
		t.Fatalf("property-chained require in a single declaration is valid, got %v", ids(diags))
	}
}

func TestRequireAsSubexpressionNotAtTopLevel(t *testing.T) {
	// f(goog.require('x.y'))
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.ExprStmt(ast.CallExpr(ast.ID("f"),
			ast.CallExpr(ast.Qual("goog.require"), ast.Str("x.y")))),
	)

	diags := checkProgram(t, script)
	if got := countID(diags, "REQUIRE_NOT_AT_TOP_LEVEL"); got != 1 {
		t.Fatalf("expected REQUIRE_NOT_AT_TOP_LEVEL, got %v", ids(diags))
	}
}

func TestExportsShorthandKey(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.ExprStmt(ast.AssignExpr(ast.ID("exports"),
			ast.ObjLit(ast.ShorthandKey("a"), ast.Key("b", ast.Num("1"))))),
	)

	diags := checkProgram(t, script)
	if got := countID(diags, "SHORTHAND_OBJLIT_NOT_ALLOWED"); got != 1 {
		t.Fatalf("expected exactly one SHORTHAND_OBJLIT_NOT_ALLOWED, got %v", ids(diags))
	}
}

func TestExportsExplicitValuesAreClean(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.ExprStmt(ast.AssignExpr(ast.ID("exports"),
			ast.ObjLit(ast.Key("a", ast.Num("1")), ast.Key("b", ast.Num("2"))))),
	)

	diags := checkProgram(t, script)
	if len(diags) != 0 {
		t.Fatalf("explicit values are valid, got %v", ids(diags))
	}
}

func TestExportsNonObjectIsUnconstrained(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.ExprStmt(ast.AssignExpr(ast.ID("exports"), ast.ID("someIdentifier"))),
	)

	diags := checkProgram(t, script)
	if len(diags) != 0 {
		t.Fatalf("exporting a single reference is valid, got %v", ids(diags))
	}
}

func TestStateIsolationAcrossFiles(t *testing.T) {
	fileA := ast.Script("a.js",
		ast.GoogModule("a.b"),
	)
	// File B declares no module; its reference to a.b must not be judged
	// against file A's name.
	fileB := ast.Script("b.js",
		ast.ExprStmt(ast.Qual("a.b")),
	)
	fileC := ast.Script("c.js",
		ast.GoogModule("c.mod"),
		ast.ExprStmt(ast.Qual("a.b")),
	)

	diags := checkProgram(t, fileA, fileB, fileC)
	if got := countID(diags, "REFERENCE_TO_MODULE_GLOBAL_NAME"); got != 0 {
		t.Fatalf("module name must not leak across file units, got %v", ids(diags))
	}
}

func TestNonModuleScriptIsPruned(t *testing.T) {
	script := ast.Script("legacy.js",
		ast.ExprStmt(ast.CallExpr(ast.Qual("goog.provide"), ast.Str("legacy.ns"))),
		ast.ThrowStmt(ast.Str("fine in a script file")),
	)

	diags := checkProgram(t, script)
	if len(diags) != 0 {
		t.Fatalf("non-module files are outside this checker's scope, got %v", ids(diags))
	}
}

func TestRecheckScriptSkipsImportChecker(t *testing.T) {
	script := ast.Script("a.js",
		ast.GoogModule("my.module"),
		ast.GoogRequire("dup.ns"),
		ast.GoogRequire("dup.ns"),
		ast.GoogModule("extra"),
	)

	collector := diag.NewCollector()
	NewModuleChecker(collector).RecheckScript(script, script)

	diags := collector.Diagnostics()
	if got := countID(diags, "MULTIPLE_MODULES_IN_FILE"); got != 1 {
		t.Fatalf("module rules must run on the incremental path, got %v", ids(diags))
	}
	if got := countID(diags, "DUPLICATE_REQUIRE"); got != 0 {
		t.Fatalf("the sibling import checker must not run on the incremental path, got %v", ids(diags))
	}
}

func TestDiagnosticCarriesFileAndSpan(t *testing.T) {
	bad := ast.GoogModule("my.other")
	ast.SetSpan(bad.FirstChild(), ast.Span{
		Start: ast.Position{Line: 2, Column: 1},
		End:   ast.Position{Line: 2, Column: 24},
	})
	script := ast.Script("a.js", ast.GoogModule("my.module"), bad)

	diags := checkProgram(t, script)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", ids(diags))
	}
	if diags[0].File != "a.js" {
		t.Fatalf("expected file a.js, got %q", diags[0].File)
	}
	if diags[0].Span.Start.Line != 2 {
		t.Fatalf("expected line 2, got %d", diags[0].Span.Start.Line)
	}
}
