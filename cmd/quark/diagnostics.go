package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mgomes/quark/quark"
)

var (
	diagErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	diagWarnStyle = lipgloss.NewStyle().
			Foreground(highlightColor).
			Bold(true)

	diagPathStyle = lipgloss.NewStyle().
			Bold(true)
)

// compileErrors flattens the error returned by Engine.Compile.
func compileErrors(err error) []error {
	if err == nil {
		return nil
	}
	var list quark.ErrorList
	if errors.As(err, &list) {
		return list
	}
	return []error{err}
}

// writeDiagnostics prints one block per error: a located header, then the
// code frame when the source is known.
func writeDiagnostics(w io.Writer, path string, err error) {
	for _, e := range compileErrors(err) {
		var qe *quark.Error
		if !errors.As(e, &qe) {
			fmt.Fprintf(w, "%s: %s\n", diagPathStyle.Render(path), diagErrorStyle.Render(e.Error()))
			continue
		}
		location := fmt.Sprintf("%s:%d:%d", path, qe.Pos.Line, qe.Pos.Column)
		label := diagErrorStyle.Render(qe.Kind.String() + " error")
		fmt.Fprintf(w, "%s: %s: %s\n", diagPathStyle.Render(location), label, qe.Msg)
		if frame := qe.Frame(); frame != "" {
			for _, line := range strings.Split(frame, "\n") {
				fmt.Fprintln(w, mutedStyle.Render(line))
			}
		}
	}
}

func writeWarnings(w io.Writer, path string, warnings []quark.Warning) {
	for _, warning := range warnings {
		line := max(warning.Pos.Line, 1)
		column := max(warning.Pos.Column, 1)
		location := fmt.Sprintf("%s:%d:%d", path, line, column)
		fmt.Fprintf(w, "%s: %s: %s\n", diagPathStyle.Render(location), diagWarnStyle.Render("warning"), warning.Message)
	}
}
