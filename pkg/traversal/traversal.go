// Package traversal drives depth-first walks over JavaScript ASTs. Callbacks
// see each node twice: a pre-visit hook that decides whether to descend and a
// post-order visit hook that does the actual work.
package traversal

import (
	"modlint/pkg/ast"
	"modlint/pkg/diag"
)

// Callback receives traversal events.
type Callback interface {
	// ShouldTraverse is called before a node's children are visited and
	// returns whether to descend into the subtree.
	ShouldTraverse(t *Traversal, n, parent *ast.Node) bool

	// Visit is called after a node's children have been visited.
	Visit(t *Traversal, n, parent *ast.Node)
}

// Traversal is the per-walk context handed to callbacks. It exposes the
// reporting sink and scope queries for the current position. A Traversal is
// single-use state for one walk at a time; it is not safe for concurrent use.
type Traversal struct {
	reporter diag.Reporter

	// functionDepth counts how many function bodies enclose the current
	// position. Zero means the file's top-level executable scope: blocks and
	// control flow do not open a new hoist scope, only functions do.
	functionDepth int
}

// New returns a traversal context reporting into the given sink.
func New(reporter diag.Reporter) *Traversal {
	return &Traversal{reporter: reporter}
}

// Report records a finding at a node. Traversal continues regardless.
func (t *Traversal) Report(n *ast.Node, typ *diag.Type) {
	if t.reporter == nil || typ == nil {
		return
	}
	t.reporter.Report(typ, n)
}

// InGlobalHoistScope reports whether the current position sits in the file's
// top-level executable scope, i.e. not nested inside any function body.
func (t *Traversal) InGlobalHoistScope() bool { return t.functionDepth == 0 }

type frame struct {
	node, parent *ast.Node
	expanded     bool
}

// Traverse walks the tree rooted at root depth-first. The walk is iterative:
// tree depth is author-controlled, so recursion depth must not scale with it.
func (t *Traversal) Traverse(root *ast.Node, cb Callback) {
	if root == nil || cb == nil {
		return
	}
	t.functionDepth = 0

	stack := []frame{{node: root, parent: root.Parent()}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if !top.expanded {
			if !cb.ShouldTraverse(t, top.node, top.parent) {
				stack = stack[:len(stack)-1]
				continue
			}
			stack[len(stack)-1].expanded = true
			if top.node.Kind == ast.KindFunction {
				t.functionDepth++
			}
			children := top.node.Children()
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: children[i], parent: top.node})
			}
			continue
		}

		stack = stack[:len(stack)-1]
		if top.node.Kind == ast.KindFunction {
			t.functionDepth--
		}
		cb.Visit(t, top.node, top.parent)
	}
}
