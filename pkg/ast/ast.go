package ast

import "strings"

type Kind string

const (
	// Structure.
	KindRoot       Kind = "Root"
	KindScript     Kind = "Script"
	KindBlock      Kind = "Block"
	KindExprResult Kind = "ExprResult"

	// Expressions.
	KindCall     Kind = "Call"
	KindAssign   Kind = "Assign"
	KindGetProp  Kind = "GetProp"
	KindName     Kind = "Name"
	KindString   Kind = "String"
	KindNumber   Kind = "Number"
	KindThis     Kind = "This"
	KindFunction Kind = "Function"
	KindParams   Kind = "Params"

	// Object literals and patterns.
	KindObjectLit     Kind = "ObjectLit"
	KindStringKey     Kind = "StringKey"
	KindComputedKey   Kind = "ComputedKey"
	KindSpread        Kind = "Spread"
	KindObjectPattern Kind = "ObjectPattern"
	KindArrayPattern  Kind = "ArrayPattern"

	// Statements.
	KindThrow       Kind = "Throw"
	KindDeclaration Kind = "Declaration"

	// Anything the checker has no rule for. Children are still converted so
	// traversal reaches every nested shape.
	KindOther Kind = "Other"
)

// Position is a 1-based line/column location in a source file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span covers a node's source range.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Node is a single AST node. The tree is homogeneous: every construct is a
// Node tagged with a Kind, with ordered children and a parent back-link. The
// string payload holds identifier names, property names and literal values.
type Node struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value,omitempty"`

	// SourceName is set on Script nodes only: the path of the file unit.
	SourceName string `json:"sourceName,omitempty"`

	Span Span `json:"span"`

	children []*Node
	parent   *Node
}

// NewNode constructs a childless node of the given kind.
func NewNode(kind Kind) *Node {
	return &Node{Kind: kind}
}

// NewValueNode constructs a node carrying a string payload.
func NewValueNode(kind Kind, value string) *Node {
	return &Node{Kind: kind, Value: value}
}

// AddChild appends children in order and takes ownership of their parent link.
func (n *Node) AddChild(children ...*Node) *Node {
	for _, child := range children {
		if child == nil {
			continue
		}
		child.parent = n
		n.children = append(n.children, child)
	}
	return n
}

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) ChildCount() int { return len(n.children) }

func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) FirstChild() *Node  { return n.Child(0) }
func (n *Node) SecondChild() *Node { return n.Child(1) }

func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// Children returns the ordered child slice. Callers must not mutate it.
func (n *Node) Children() []*Node { return n.children }

// Next returns the node's following sibling, if any.
func (n *Node) Next() *Node {
	if n.parent == nil {
		return nil
	}
	siblings := n.parent.children
	for i, sibling := range siblings {
		if sibling == n && i+1 < len(siblings) {
			return siblings[i+1]
		}
	}
	return nil
}

func (n *Node) IsScript() bool { return n.Kind == KindScript }
func (n *Node) IsCall() bool   { return n.Kind == KindCall }
func (n *Node) IsString() bool { return n.Kind == KindString }

// HasChildren reports whether the node has at least one child.
func (n *Node) HasChildren() bool { return len(n.children) > 0 }

// SetSpan annotates the node with a source range.
func SetSpan(n *Node, span Span) {
	if n == nil {
		return
	}
	n.Span = span
}

// EnclosingScript walks parent links to the file unit containing the node.
func (n *Node) EnclosingScript() *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.Kind == KindScript {
			return cur
		}
	}
	return nil
}

// QualifiedName flattens a Name/GetProp chain into its dotted path. The
// second result is false when the subtree does not spell a plain dotted
// identifier path (any computed access or non-name leaf disqualifies it).
func (n *Node) QualifiedName() (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind {
	case KindName:
		if n.Value == "" {
			return "", false
		}
		return n.Value, true
	case KindGetProp:
		if n.Value == "" || len(n.children) != 1 {
			return "", false
		}
		prefix, ok := n.FirstChild().QualifiedName()
		if !ok {
			return "", false
		}
		return prefix + "." + n.Value, true
	default:
		return "", false
	}
}

// MatchesQualifiedName reports whether the subtree rooted at n spells exactly
// the given dotted path. The empty path never matches.
func (n *Node) MatchesQualifiedName(path string) bool {
	if n == nil || path == "" {
		return false
	}
	switch n.Kind {
	case KindName:
		return n.Value == path && !strings.Contains(path, ".")
	case KindGetProp:
		dot := strings.LastIndexByte(path, '.')
		if dot < 0 || len(n.children) != 1 {
			return false
		}
		return n.Value == path[dot+1:] && n.FirstChild().MatchesQualifiedName(path[:dot])
	default:
		return false
	}
}

// IsModuleFile reports whether a script opens with a goog.module declaration,
// i.e. whether the file uses the module convention at all.
func IsModuleFile(script *Node) bool {
	if script == nil || script.Kind != KindScript {
		return false
	}
	first := script.FirstChild()
	if first == nil || first.Kind != KindExprResult {
		return false
	}
	call := first.FirstChild()
	if call == nil || call.Kind != KindCall {
		return false
	}
	return call.FirstChild().MatchesQualifiedName("goog.module")
}
