// Package check validates that goog.module() is used correctly.
//
// Only per-file structural checks live here. Whole-program consistency is the
// rewriting stage's job and is out of scope.
package check

import (
	"modlint/pkg/ast"
	"modlint/pkg/diag"
	"modlint/pkg/traversal"
)

var (
	MultipleModulesInFile = diag.Error(
		"MULTIPLE_MODULES_IN_FILE",
		"There should only be a single goog.module() statement per file.")

	ModuleAndProvides = diag.Error(
		"MODULE_AND_PROVIDES",
		"A file using goog.module() may not also use goog.provide() statements.")

	GoogModuleReferencesThis = diag.Error(
		"GOOG_MODULE_REFERENCES_THIS",
		"The body of a goog.module cannot reference 'this'.")

	GoogModuleUsesThrow = diag.Error(
		"GOOG_MODULE_USES_THROW",
		"The body of a goog.module cannot use 'throw'.")

	ReferenceToModuleGlobalName = diag.Error(
		"REFERENCE_TO_MODULE_GLOBAL_NAME",
		"References to the global name of a module are not allowed. Perhaps you meant exports?")

	RequireNotAtTopLevel = diag.Error(
		"REQUIRE_NOT_AT_TOP_LEVEL",
		"goog.require() must be called at file scope.")

	OneRequirePerDeclaration = diag.Error(
		"ONE_REQUIRE_PER_DECLARATION",
		"There may only be one goog.require() per var/let/const declaration.")

	ShorthandObjlitNotAllowed = diag.Error(
		"SHORTHAND_OBJLIT_NOT_ALLOWED",
		"Shorthand object literal keys are not allowed in the exports object.")
)

// ModuleChecker walks one program (or one file unit) and reports goog.module
// convention violations. Construct a fresh instance per run: the only state is
// the current file's declared module name, reset at every script boundary, so
// separate instances may check disjoint files in parallel.
type ModuleChecker struct {
	reporter diag.Reporter

	// currentModuleName is non-nil only between a goog.module() call and the
	// end of the enclosing script.
	currentModuleName *string
}

// NewModuleChecker returns a checker reporting into the given sink.
func NewModuleChecker(reporter diag.Reporter) *ModuleChecker {
	return &ModuleChecker{reporter: reporter}
}

// Process traverses the whole program, then hands the same externs/root pair
// to the sibling import checker.
func (c *ModuleChecker) Process(externs, root *ast.Node) {
	traversal.New(c.reporter).Traverse(root, c)
	NewImportChecker(c.reporter).Process(externs, root)
}

// RecheckScript re-runs the checks over a single file unit, the incremental
// path used when one file changes. The sibling import checker is not invoked.
func (c *ModuleChecker) RecheckScript(scriptRoot, originalRoot *ast.Node) {
	traversal.New(c.reporter).Traverse(scriptRoot, c)
}

// ShouldTraverse prunes scripts that do not use the module convention; every
// other node always descends.
func (c *ModuleChecker) ShouldTraverse(t *traversal.Traversal, n, parent *ast.Node) bool {
	if n.IsScript() {
		return ast.IsModuleFile(n)
	}
	return true
}

// Visit dispatches the structural rules by node kind.
func (c *ModuleChecker) Visit(t *traversal.Traversal, n, parent *ast.Node) {
	switch n.Kind {
	case ast.KindCall:
		callee := n.FirstChild()
		if callee.MatchesQualifiedName("goog.module") {
			if c.currentModuleName == nil {
				name := ""
				if arg := n.SecondChild(); arg != nil && arg.IsString() {
					name = arg.Value
				}
				c.currentModuleName = &name
			} else {
				t.Report(n, MultipleModulesInFile)
			}
		} else if callee.MatchesQualifiedName("goog.provide") {
			t.Report(n, ModuleAndProvides)
		} else if callee.MatchesQualifiedName("goog.require") {
			c.checkRequireCall(t, n, parent)
		}
	case ast.KindAssign:
		if n.FirstChild().MatchesQualifiedName("exports") {
			c.checkExportsAssignment(t, n)
		}
	case ast.KindThis:
		if t.InGlobalHoistScope() {
			t.Report(n, GoogModuleReferencesThis)
		}
	case ast.KindThrow:
		if t.InGlobalHoistScope() {
			t.Report(n, GoogModuleUsesThrow)
		}
	case ast.KindGetProp:
		// Only the outermost node of a property chain is a reference on its
		// own; `my.module` inside `my.module.Foo` is just the object part.
		if parent != nil && parent.Kind == ast.KindGetProp {
			return
		}
		if c.currentModuleName != nil && n.MatchesQualifiedName(*c.currentModuleName) {
			t.Report(n, ReferenceToModuleGlobalName)
		}
	case ast.KindScript:
		c.currentModuleName = nil
	}
}

// checkRequireCall classifies what a goog.require() result is used for by
// ascending parent links from the call. Each step moves strictly toward the
// root, so the loop terminates at the AST's actual depth; an explicit loop
// keeps pathological nesting off the goroutine stack.
func (c *ModuleChecker) checkRequireCall(t *traversal.Traversal, callNode, parent *ast.Node) {
	if !callNode.IsCall() {
		// Contract breach by the driver, not user input.
		return
	}
	for parent != nil {
		switch parent.Kind {
		case ast.KindExprResult:
			// Bare statement, result discarded.
			return
		case ast.KindGetProp:
			if grand := parent.Parent(); grand != nil && grand.Kind == ast.KindName {
				// `const x = goog.require('a').b` chains through the name.
				parent = grand
				continue
			}
		case ast.KindName, ast.KindObjectPattern:
			if declaration := parent.Parent(); declaration != nil && declaration.Kind == ast.KindDeclaration {
				if bindingCount(declaration) != 1 {
					t.Report(declaration, OneRequirePerDeclaration)
				}
				return
			}
		}
		break
	}
	t.Report(callNode, RequireNotAtTopLevel)
}

// bindingCount counts the names a declaration introduces: one per plain
// declarator, one per key bound by a destructuring pattern.
func bindingCount(declaration *ast.Node) int {
	count := 0
	for _, declarator := range declaration.Children() {
		switch declarator.Kind {
		case ast.KindName:
			count++
		case ast.KindObjectPattern, ast.KindArrayPattern:
			for _, entry := range declarator.Children() {
				if entry.Kind == ast.KindStringKey || entry.Kind == ast.KindName {
					count++
				}
			}
		}
	}
	return count
}

// checkExportsAssignment flags shorthand keys in `exports = {...}`. Exporting
// anything other than an object literal is unconstrained, and entries with an
// explicit value, spreads and computed keys are left alone.
func (c *ModuleChecker) checkExportsAssignment(t *traversal.Traversal, assign *ast.Node) {
	rhs := assign.LastChild()
	if rhs == nil || rhs.Kind != ast.KindObjectLit {
		return
	}
	for _, entry := range rhs.Children() {
		if entry.Kind == ast.KindStringKey && !entry.HasChildren() {
			t.Report(entry, ShorthandObjlitNotAllowed)
		}
	}
}
