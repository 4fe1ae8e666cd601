package sksl

import (
	"fmt"
	"strings"
)

// SourceError represents an error with source location information.
// Offset is a byte offset into the source; line and column are derived
// lazily from it when formatting.
type SourceError struct {
	Message string
	Offset  int
	Source  string
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	line, col := offsetToLineCol(e.Source, e.Offset)
	if line == 0 {
		return "error: " + e.Message
	}
	return fmt.Sprintf("%d:%d: %s", line, col, e.Message)
}

// FormatWithContext returns the error message with source context.
// Shows the problematic line with a caret pointing to the error location.
func (e *SourceError) FormatWithContext() string {
	line, col := offsetToLineCol(e.Source, e.Offset)
	if e.Source == "" || line == 0 {
		return e.Error()
	}

	lines := strings.Split(e.Source, "\n")
	if line < 1 || line > len(lines) {
		return e.Error()
	}

	text := lines[line-1]
	if col < 1 {
		col = 1
	}
	if col > len(text)+1 {
		col = len(text) + 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Message)
	fmt.Fprintf(&sb, "  --> line %d:%d\n", line, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", line, text)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))

	return sb.String()
}

func offsetToLineCol(source string, offset int) (int, int) {
	if offset < 0 || offset > len(source) {
		return 0, 0
	}
	line, col := 1, 1
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// SourceErrors represents a list of source errors.
type SourceErrors []*SourceError

// Error implements the error interface.
func (el SourceErrors) Error() string {
	if len(el) == 0 {
		return "no errors"
	}
	if len(el) == 1 {
		return el[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
}

// FormatAll returns all errors formatted with context.
func (el SourceErrors) FormatAll() string {
	var sb strings.Builder
	for i, e := range el {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.FormatWithContext())
	}
	return sb.String()
}

// HasErrors returns true if there are any errors.
func (el SourceErrors) HasErrors() bool {
	return len(el) > 0
}

// errorReporter accumulates errors during parsing and IR generation.
// Reporting never aborts; callers produce poison values and keep going
// so one compile surfaces as many errors as possible.
type errorReporter struct {
	source string
	errors SourceErrors
}

func (r *errorReporter) error(offset int, msg string) {
	r.errors = append(r.errors, &SourceError{Message: msg, Offset: offset, Source: r.source})
}

func (r *errorReporter) errorf(offset int, format string, args ...interface{}) {
	r.error(offset, fmt.Sprintf(format, args...))
}

func (r *errorReporter) count() int { return len(r.errors) }
