// Package parser turns JavaScript sources into the checker's AST using the
// tree-sitter JavaScript grammar.
package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"modlint/pkg/ast"
)

// ScriptParser wraps a tree-sitter parser configured for JavaScript.
type ScriptParser struct {
	parser *sitter.Parser
}

// NewScriptParser constructs a parser with the JavaScript language loaded.
func NewScriptParser() (*ScriptParser, error) {
	lang := sitter.NewLanguage(tree_sitter_javascript.Language())
	if lang == nil {
		return nil, fmt.Errorf("parser: javascript language not available")
	}

	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("parser: %w", err)
	}

	return &ScriptParser{parser: p}, nil
}

// Close releases parser resources.
func (p *ScriptParser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
}

// ParseScript parses one source file into a Script node. Sources with syntax
// errors are rejected: the checker only sees well-formed trees.
func (p *ScriptParser) ParseScript(path string, source []byte) (*ast.Node, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}

	tree := p.parser.Parse(source, nil)
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.Kind() != "program" {
		return nil, fmt.Errorf("parser: unexpected root node")
	}
	if root.HasError() {
		return nil, fmt.Errorf("parser: %s: syntax errors present", path)
	}

	conv := &converter{source: source}
	script := ast.NewNode(ast.KindScript)
	script.SourceName = path
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child.Kind() == "comment" {
			continue
		}
		script.AddChild(conv.convert(child))
	}
	if conv.tooDeep {
		return nil, fmt.Errorf("parser: %s: nesting exceeds %d levels", path, maxConvertDepth)
	}
	annotateSpan(script, root)
	return script, nil
}
