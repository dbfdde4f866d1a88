// Package cerrors formats lexer/parser/runtime errors with source
// context and a caret pointing at the failing column.
package cerrors

import (
	"fmt"
	"strings"

	"github.com/mirelson/hscript/internal/token"
)

// Kind distinguishes the three error kinds: lexical, syntactic, and
// runtime.
type Kind int

const (
	LexKind Kind = iota
	ParseKind
	RuntimeKind
)

func (k Kind) String() string {
	switch k {
	case LexKind:
		return "lex error"
	case ParseKind:
		return "parse error"
	case RuntimeKind:
		return "runtime error"
	default:
		return "error"
	}
}

// capitalize upper-cases the first rune of s; Kind.String() values are
// plain ASCII so a byte-level tweak is enough.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// CompilerError is a single error with position and optional source
// context, formatted for terminal display.
type CompilerError struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     token.Position
	HasPos  bool
}

// New creates a CompilerError carrying Pos.
func New(kind Kind, pos token.Position, message, source, file string) *CompilerError {
	return &CompilerError{Kind: kind, Message: message, Source: source, File: file, Pos: pos, HasPos: true}
}

// NewNoPos creates a CompilerError without a known position: a
// RuntimeError's position is optional when the failing AST node doesn't
// supply one.
func NewNoPos(kind Kind, message string) *CompilerError {
	return &CompilerError{Kind: kind, Message: message}
}

// Error implements the error interface.
func (e *CompilerError) Error() string { return e.Format(false) }

// Format renders the error with a one-line header, the offending source
// line, and a caret under the failing column. If color is true, ANSI
// escapes highlight the caret.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.HasPos {
		if e.File != "" {
			fmt.Fprintf(&sb, "%s in %s:%d:%d\n", capitalize(e.Kind.String()), e.File, e.Pos.Line, e.Pos.Column)
		} else {
			fmt.Fprintf(&sb, "%s at %d:%d\n", capitalize(e.Kind.String()), e.Pos.Line, e.Pos.Column)
		}
	} else {
		fmt.Fprintf(&sb, "%s\n", capitalize(e.Kind.String()))
	}

	if e.HasPos {
		if line := e.sourceLine(e.Pos.Line); line != "" {
			lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
			sb.WriteString(lineNumStr)
			sb.WriteString(line)
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
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

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatWithContext renders the error with contextLines of surrounding
// source above and below the failing line.
func (e *CompilerError) FormatWithContext(contextLines int, color bool) string {
	if !e.HasPos || e.Source == "" {
		return e.Format(color)
	}
	lines := strings.Split(e.Source, "\n")
	start := e.Pos.Line - contextLines
	if start < 1 {
		start = 1
	}
	end := e.Pos.Line + contextLines
	if end > len(lines) {
		end = len(lines)
	}

	var sb strings.Builder
	if e.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d\n", capitalize(e.Kind.String()), e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s at %d:%d\n", capitalize(e.Kind.String()), e.Pos.Line, e.Pos.Column)
	}

	for ln := start; ln <= end; ln++ {
		lineNumStr := fmt.Sprintf("%4d | ", ln)
		sb.WriteString(lineNumStr)
		sb.WriteString(lines[ln-1])
		sb.WriteString("\n")
		if ln == e.Pos.Line {
			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

// FormatErrors formats a batch of errors, numbering them when there is
// more than one.
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s):\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&sb, "[%d/%d] ", i+1, len(errs))
		sb.WriteString(e.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
