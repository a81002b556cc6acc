package quark

import (
	"fmt"
	"strconv"
	"strings"
)

// formatCodeFrame renders the line at pos with a caret under the column.
// Tabs before the column are kept in the caret padding so the caret lines
// up in a terminal.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	text := []rune(strings.TrimRight(lines[pos.Line-1], "\r"))
	col := min(max(pos.Column, 1), len(text)+1)

	var pad strings.Builder
	for _, r := range text[:col-1] {
		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteByte(' ')
		}
	}

	label := strconv.Itoa(pos.Line)
	gutter := strings.Repeat(" ", len(label))

	var b strings.Builder
	fmt.Fprintf(&b, "  --> line %d, column %d\n", pos.Line, col)
	fmt.Fprintf(&b, " %s | %s\n", label, string(text))
	fmt.Fprintf(&b, " %s | %s^", gutter, pad.String())
	return b.String()
}
