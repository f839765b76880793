package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"modlint/pkg/ast"
)

// maxConvertDepth bounds the conversion's descent into the parse tree. Source
// nesting is author-controlled, so the cap turns a potential stack exhaustion
// into a parse error.
const maxConvertDepth = 10000

// converter carries per-parse state: the raw source and the current descent
// depth.
type converter struct {
	source  []byte
	depth   int
	tooDeep bool
}

// convert maps one tree-sitter node to the checker's AST. The mapping is
// deliberately permissive: shapes the checker has no rule for collapse into
// generic nodes whose named children are still converted, so traversal
// reaches every nested construct.
func (c *converter) convert(node *sitter.Node) *ast.Node {
	if node == nil {
		return nil
	}
	if c.depth >= maxConvertDepth {
		c.tooDeep = true
		return nil
	}
	c.depth++
	defer func() { c.depth-- }()

	var out *ast.Node
	switch node.Kind() {
	case "expression_statement":
		out = ast.NewNode(ast.KindExprResult)
		out.AddChild(c.convert(firstNamedChild(node)))

	case "call_expression":
		out = ast.NewNode(ast.KindCall)
		out.AddChild(c.convert(node.ChildByFieldName("function")))
		if args := node.ChildByFieldName("arguments"); args != nil {
			for i := uint(0); i < args.NamedChildCount(); i++ {
				arg := args.NamedChild(i)
				if arg.Kind() == "comment" {
					continue
				}
				out.AddChild(c.convert(arg))
			}
		}

	case "member_expression":
		prop := node.ChildByFieldName("property")
		out = ast.NewValueNode(ast.KindGetProp, sliceContent(prop, c.source))
		out.AddChild(c.convert(node.ChildByFieldName("object")))

	case "assignment_expression":
		out = ast.NewNode(ast.KindAssign)
		out.AddChild(
			c.convert(node.ChildByFieldName("left")),
			c.convert(node.ChildByFieldName("right")))

	case "identifier", "property_identifier":
		out = ast.NewValueNode(ast.KindName, sliceContent(node, c.source))

	case "this":
		out = ast.NewNode(ast.KindThis)

	case "throw_statement":
		out = ast.NewNode(ast.KindThrow)
		out.AddChild(c.convert(firstNamedChild(node)))

	case "string":
		out = ast.NewValueNode(ast.KindString, stringValue(node, c.source))

	case "number":
		out = ast.NewValueNode(ast.KindNumber, sliceContent(node, c.source))

	case "variable_declaration", "lexical_declaration":
		out = ast.NewNode(ast.KindDeclaration)
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child.Kind() != "variable_declarator" {
				continue
			}
			out.AddChild(c.convertDeclarator(child))
		}

	case "object":
		out = ast.NewNode(ast.KindObjectLit)
		for i := uint(0); i < node.NamedChildCount(); i++ {
			entry := c.convertObjectEntry(node.NamedChild(i))
			if entry != nil {
				out.AddChild(entry)
			}
		}

	case "object_pattern":
		out = c.convertObjectPattern(node, nil)

	case "array_pattern":
		out = ast.NewNode(ast.KindArrayPattern)
		for i := uint(0); i < node.NamedChildCount(); i++ {
			out.AddChild(c.convert(node.NamedChild(i)))
		}

	case "function_declaration", "function_expression", "generator_function",
		"generator_function_declaration", "arrow_function", "method_definition":
		out = c.convertFunction(node)

	case "statement_block":
		out = ast.NewNode(ast.KindBlock)
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child.Kind() == "comment" {
				continue
			}
			out.AddChild(c.convert(child))
		}

	case "spread_element", "rest_pattern":
		out = ast.NewNode(ast.KindSpread)
		out.AddChild(c.convert(firstNamedChild(node)))

	case "comment":
		return nil

	default:
		out = ast.NewNode(ast.KindOther)
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			if child.Kind() == "comment" {
				continue
			}
			out.AddChild(c.convert(child))
		}
	}

	annotateSpan(out, node)
	return out
}

// convertDeclarator maps a variable_declarator: a plain name binding with an
// optional initializer, or a destructuring pattern whose initializer rides as
// the pattern's last child.
func (c *converter) convertDeclarator(node *sitter.Node) *ast.Node {
	name := node.ChildByFieldName("name")
	value := node.ChildByFieldName("value")

	if name != nil && (name.Kind() == "object_pattern" || name.Kind() == "array_pattern") {
		pattern := c.convertObjectPattern(name, value)
		annotateSpan(pattern, node)
		return pattern
	}

	declarator := ast.NewValueNode(ast.KindName, sliceContent(name, c.source))
	if value != nil {
		declarator.AddChild(c.convert(value))
	}
	annotateSpan(declarator, node)
	return declarator
}

// convertObjectPattern flattens a destructuring pattern into its bound keys,
// appending the initializer (when part of a declarator) as the last child.
func (c *converter) convertObjectPattern(node *sitter.Node, init *sitter.Node) *ast.Node {
	kind := ast.KindObjectPattern
	if node.Kind() == "array_pattern" {
		kind = ast.KindArrayPattern
	}
	pattern := ast.NewNode(kind)
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		var entry *ast.Node
		switch child.Kind() {
		case "shorthand_property_identifier_pattern":
			entry = ast.NewValueNode(ast.KindStringKey, sliceContent(child, c.source))
		case "pair_pattern":
			entry = ast.NewValueNode(ast.KindStringKey, sliceContent(child.ChildByFieldName("key"), c.source))
			entry.AddChild(c.convert(child.ChildByFieldName("value")))
		case "object_assignment_pattern":
			entry = ast.NewValueNode(ast.KindStringKey, sliceContent(child.ChildByFieldName("left"), c.source))
			entry.AddChild(c.convert(child.ChildByFieldName("right")))
		case "comment":
			continue
		default:
			entry = c.convert(child)
		}
		annotateSpan(entry, child)
		pattern.AddChild(entry)
	}
	if init != nil {
		pattern.AddChild(c.convert(init))
	}
	annotateSpan(pattern, node)
	return pattern
}

// convertObjectEntry maps one object-literal member. Shorthand keys become
// childless StringKey nodes; everything with an explicit value keeps it as a
// child.
func (c *converter) convertObjectEntry(node *sitter.Node) *ast.Node {
	var entry *ast.Node
	switch node.Kind() {
	case "shorthand_property_identifier":
		entry = ast.NewValueNode(ast.KindStringKey, sliceContent(node, c.source))
	case "pair":
		key := node.ChildByFieldName("key")
		if key != nil && key.Kind() == "computed_property_name" {
			entry = ast.NewNode(ast.KindComputedKey)
			entry.AddChild(
				c.convert(firstNamedChild(key)),
				c.convert(node.ChildByFieldName("value")))
		} else {
			keyText := sliceContent(key, c.source)
			if key != nil && key.Kind() == "string" {
				keyText = stringValue(key, c.source)
			}
			entry = ast.NewValueNode(ast.KindStringKey, keyText)
			entry.AddChild(c.convert(node.ChildByFieldName("value")))
		}
	case "method_definition":
		entry = ast.NewValueNode(ast.KindStringKey, sliceContent(node.ChildByFieldName("name"), c.source))
		entry.AddChild(c.convertFunction(node))
	case "spread_element":
		entry = ast.NewNode(ast.KindSpread)
		entry.AddChild(c.convert(firstNamedChild(node)))
	case "comment":
		return nil
	default:
		entry = c.convert(node)
	}
	annotateSpan(entry, node)
	return entry
}

// convertFunction maps any function-like construct: declarations,
// expressions, generators, arrows and class/object methods. All of them open
// a new hoist scope for the checker's this/throw rules.
func (c *converter) convertFunction(node *sitter.Node) *ast.Node {
	name := ""
	if n := node.ChildByFieldName("name"); n != nil {
		name = sliceContent(n, c.source)
	}
	fn := ast.NewValueNode(ast.KindFunction, name)

	params := ast.NewNode(ast.KindParams)
	if p := node.ChildByFieldName("parameters"); p != nil {
		for i := uint(0); i < p.NamedChildCount(); i++ {
			child := p.NamedChild(i)
			if child.Kind() == "comment" {
				continue
			}
			params.AddChild(c.convert(child))
		}
	} else if p := node.ChildByFieldName("parameter"); p != nil {
		// Single-parameter arrow without parentheses.
		params.AddChild(c.convert(p))
	}
	fn.AddChild(params)

	if body := node.ChildByFieldName("body"); body != nil {
		fn.AddChild(c.convert(body))
	}
	annotateSpan(fn, node)
	return fn
}
