package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"modlint/pkg/diag"
)

var (
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	locationStyle = lipgloss.NewStyle().Faint(true)
	ruleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

type renderer struct {
	out    io.Writer
	format string
}

func newRenderer(out io.Writer, format string) *renderer {
	return &renderer{out: out, format: format}
}

func (r *renderer) Render(diags []diag.Diagnostic) error {
	if r.format == "json" {
		return r.renderJSON(diags)
	}
	return r.renderText(diags)
}

type jsonDiagnostic struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

func (r *renderer) renderJSON(diags []diag.Diagnostic) error {
	out := make([]jsonDiagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, jsonDiagnostic{
			ID:       d.ID,
			Severity: d.Sev.String(),
			Message:  d.Message,
			File:     d.File,
			Line:     d.Span.Start.Line,
			Column:   d.Span.Start.Column,
		})
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func (r *renderer) renderText(diags []diag.Diagnostic) error {
	for _, d := range diags {
		sev := warningStyle.Render(d.Sev.String())
		if d.Sev == diag.SeverityError {
			sev = errorStyle.Render(d.Sev.String())
		}
		location := locationStyle.Render(
			fmt.Sprintf("%s:%d:%d", d.File, d.Span.Start.Line, d.Span.Start.Column))
		if _, err := fmt.Fprintf(r.out, "%s: %s: %s %s\n",
			location, sev, d.Message, ruleStyle.Render("["+d.ID+"]")); err != nil {
			return err
		}
	}
	if len(diags) > 0 {
		if _, err := fmt.Fprintf(r.out, "\n%d problem(s) found\n", len(diags)); err != nil {
			return err
		}
	}
	return nil
}
