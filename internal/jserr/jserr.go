// Package jserr formats host-side diagnostics — parse errors and uncaught
// guest exceptions — with source context and a caret pointing at the
// offending offset, in the style of a compiler's batched error report.
package jserr

import (
	"fmt"
	"strings"
)

// SourceError is a single diagnostic anchored to a character offset in a
// named source (a file path, or "<eval>"/"<repl>" for dynamically appended
// code).
type SourceError struct {
	Message string
	Source  string
	File    string
	Offset  int
}

func New(offset int, message, source, file string) *SourceError {
	return &SourceError{Offset: offset, Message: message, Source: source, File: file}
}

func (e *SourceError) Error() string { return e.Format(false) }

// Format renders the error with a line/column header, the offending source
// line, and a caret under the offset. color adds ANSI styling for a TTY.
func (e *SourceError) Format(color bool) string {
	var sb strings.Builder

	line, col, lineText := locate(e.Source, e.Offset)

	if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", e.File, line, col)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", line, col)
	}

	if lineText != "" {
		prefix := fmt.Sprintf("%4d | ", line)
		sb.WriteString(prefix)
		sb.WriteString(lineText)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+col-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

// locate converts a character (rune) offset into 1-based line/column and
// returns the containing source line's text.
func locate(source string, offset int) (line, col int, lineText string) {
	runes := []rune(source)
	if offset < 0 {
		offset = 0
	}
	if offset > len(runes) {
		offset = len(runes)
	}
	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if runes[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	col = offset - lineStart + 1
	lineEnd := lineStart
	for lineEnd < len(runes) && runes[lineEnd] != '\n' {
		lineEnd++
	}
	lineText = string(runes[lineStart:lineEnd])
	return
}

// FormatAll renders multiple errors, numbering them when there is more than
// one, for batched parse diagnostics.
func FormatAll(errs []*SourceError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s):\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&sb, "[Error %d of %d]\n", i+1, len(errs))
		sb.WriteString(e.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
