// Package diag defines diagnostic types and the sink that collects findings
// during a check run. Types are defined once, at package init, and never
// mutated; reporting never halts a traversal.
package diag

import (
	"fmt"

	"modlint/pkg/ast"
)

// Severity indicates the importance of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Type identifies one kind of finding: a stable ID plus a fixed message.
type Type struct {
	ID       string
	Severity Severity
	Message  string
}

// Error defines an error-severity diagnostic type.
func Error(id, message string) *Type {
	return &Type{ID: id, Severity: SeverityError, Message: message}
}

// Warning defines a warning-severity diagnostic type.
func Warning(id, message string) *Type {
	return &Type{ID: id, Severity: SeverityWarning, Message: message}
}

// Diagnostic is one finding located at a node.
type Diagnostic struct {
	Type *Type  `json:"-"`
	ID   string `json:"id"`
	// Sev mirrors Type.Severity for rendering and JSON output.
	Sev     Severity `json:"-"`
	Message string   `json:"message"`
	File    string   `json:"file,omitempty"`
	Span    ast.Span `json:"span"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s [%s]",
		d.File, d.Span.Start.Line, d.Span.Start.Column, d.Sev, d.Message, d.ID)
}

// Reporter accepts findings. Implementations must not stop the caller's
// traversal.
type Reporter interface {
	Report(t *Type, n *ast.Node)
}

// Collector is a Reporter that accumulates diagnostics in report order.
type Collector struct {
	diags []Diagnostic
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) Report(t *Type, n *ast.Node) {
	d := Diagnostic{Type: t, ID: t.ID, Sev: t.Severity, Message: t.Message}
	if n != nil {
		d.Span = n.Span
		if script := n.EnclosingScript(); script != nil {
			d.File = script.SourceName
		}
	}
	c.diags = append(c.diags, d)
}

// Diagnostics returns everything reported so far, in order.
func (c *Collector) Diagnostics() []Diagnostic { return c.diags }

// Len returns the number of findings collected.
func (c *Collector) Len() int { return len(c.diags) }
