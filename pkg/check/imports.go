package check

import (
	"modlint/pkg/ast"
	"modlint/pkg/diag"
	"modlint/pkg/traversal"
)

var (
	InvalidRequireArgument = diag.Error(
		"INVALID_REQUIRE_ARGUMENT",
		"goog.require() must be given a single constant string literal.")

	DuplicateRequire = diag.Error(
		"DUPLICATE_REQUIRE",
		"This namespace is already required in this file.")
)

// ImportChecker validates the shape of goog.require() statements. It runs
// after ModuleChecker's full-program traversal, over the same externs/root
// pair, and keeps its own per-file state.
type ImportChecker struct {
	reporter diag.Reporter

	// required holds the namespaces seen so far in the current script.
	required map[string]bool
}

// NewImportChecker returns an import checker reporting into the given sink.
func NewImportChecker(reporter diag.Reporter) *ImportChecker {
	return &ImportChecker{reporter: reporter}
}

// Process traverses the whole program. The externs tree carries no require
// statements and is not walked.
func (c *ImportChecker) Process(externs, root *ast.Node) {
	traversal.New(c.reporter).Traverse(root, c)
}

// ShouldTraverse prunes non-module scripts, like the module checker.
func (c *ImportChecker) ShouldTraverse(t *traversal.Traversal, n, parent *ast.Node) bool {
	if n.IsScript() {
		return ast.IsModuleFile(n)
	}
	return true
}

func (c *ImportChecker) Visit(t *traversal.Traversal, n, parent *ast.Node) {
	switch n.Kind {
	case ast.KindCall:
		if n.FirstChild().MatchesQualifiedName("goog.require") {
			c.checkRequireArguments(t, n)
		}
	case ast.KindScript:
		c.required = nil
	}
}

func (c *ImportChecker) checkRequireArguments(t *traversal.Traversal, call *ast.Node) {
	if call.ChildCount() != 2 {
		t.Report(call, InvalidRequireArgument)
		return
	}
	arg := call.SecondChild()
	if !arg.IsString() {
		t.Report(call, InvalidRequireArgument)
		return
	}
	if c.required[arg.Value] {
		t.Report(call, DuplicateRequire)
		return
	}
	if c.required == nil {
		c.required = make(map[string]bool)
	}
	c.required[arg.Value] = true
}
