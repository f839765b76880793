package ast

import "strings"

// Compact constructors for building trees by hand, used heavily by tests and
// by fixtures. They keep parent links consistent via AddChild.

// ID builds a bare identifier reference.
func ID(name string) *Node { return NewValueNode(KindName, name) }

// Str builds a string literal.
func Str(value string) *Node { return NewValueNode(KindString, value) }

// Num builds a numeric literal from its source text.
func Num(text string) *Node { return NewValueNode(KindNumber, text) }

// Qual builds the Name/GetProp chain spelling a dotted path, e.g.
// Qual("goog.module") => GetProp{module}(Name{goog}).
func Qual(path string) *Node {
	parts := strings.Split(path, ".")
	node := ID(parts[0])
	for _, part := range parts[1:] {
		node = NewValueNode(KindGetProp, part).AddChild(node)
	}
	return node
}

// CallExpr builds a call with the given callee and arguments.
func CallExpr(callee *Node, args ...*Node) *Node {
	return NewNode(KindCall).AddChild(append([]*Node{callee}, args...)...)
}

// ExprStmt wraps an expression in a statement whose result is discarded.
func ExprStmt(expr *Node) *Node { return NewNode(KindExprResult).AddChild(expr) }

// AssignExpr builds lhs = rhs.
func AssignExpr(lhs, rhs *Node) *Node { return NewNode(KindAssign).AddChild(lhs, rhs) }

// ThrowStmt builds a throw statement.
func ThrowStmt(expr *Node) *Node { return NewNode(KindThrow).AddChild(expr) }

// This builds a this-reference.
func This() *Node { return NewNode(KindThis) }

// ObjLit builds an object literal from its entries.
func ObjLit(entries ...*Node) *Node { return NewNode(KindObjectLit).AddChild(entries...) }

// Key builds an object-literal entry with an explicit value.
func Key(name string, value *Node) *Node {
	return NewValueNode(KindStringKey, name).AddChild(value)
}

// ShorthandKey builds a bare object-literal entry with no explicit value.
func ShorthandKey(name string) *Node { return NewValueNode(KindStringKey, name) }

// Decl builds a var/let/const declaration from its declarators.
func Decl(declarators ...*Node) *Node {
	return NewNode(KindDeclaration).AddChild(declarators...)
}

// Declarator builds a single name binding with an optional initializer.
func Declarator(name string, init *Node) *Node {
	d := NewValueNode(KindName, name)
	if init != nil {
		d.AddChild(init)
	}
	return d
}

// PatternDeclarator builds an object-destructuring binding. The bound keys
// come first; the initializer is the last child.
func PatternDeclarator(names []string, init *Node) *Node {
	pattern := NewNode(KindObjectPattern)
	for _, name := range names {
		pattern.AddChild(ShorthandKey(name))
	}
	if init != nil {
		pattern.AddChild(init)
	}
	return pattern
}

// Fn builds a function with the given parameter names and body statements.
func Fn(name string, params []string, body ...*Node) *Node {
	paramList := NewNode(KindParams)
	for _, p := range params {
		paramList.AddChild(ID(p))
	}
	block := NewNode(KindBlock).AddChild(body...)
	return NewValueNode(KindFunction, name).AddChild(paramList, block)
}

// Script builds a file unit from its top-level statements.
func Script(path string, statements ...*Node) *Node {
	script := NewNode(KindScript).AddChild(statements...)
	script.SourceName = path
	return script
}

// Root hangs one or more scripts under a program root.
func Root(scripts ...*Node) *Node { return NewNode(KindRoot).AddChild(scripts...) }

// GoogModule builds the statement `goog.module('name');`.
func GoogModule(name string) *Node {
	return ExprStmt(CallExpr(Qual("goog.module"), Str(name)))
}

// GoogRequire builds the bare statement `goog.require('ns');`.
func GoogRequire(ns string) *Node {
	return ExprStmt(CallExpr(Qual("goog.require"), Str(ns)))
}
