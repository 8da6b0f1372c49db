// Package output provides consistent CLI output formatting with optional color.
package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// Writer provides formatted output for the CLI.
type Writer struct {
	out    io.Writer
	styles Styles
}

// New creates a Writer without color.
func New(out io.Writer) *Writer {
	return &Writer{out: out, styles: NoColorStyles()}
}

// NewForMode creates a Writer whose color follows mode ("auto", "always"
// or "never"); see ColorEnabled.
func NewForMode(out io.Writer, mode string) *Writer {
	return &Writer{out: out, styles: StylesFor(out, mode)}
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", w.styles.Success.Render(msg))
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", w.styles.Warning.Render(msg))
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", w.styles.Error.Render(msg))
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Field prints "label: value" with the label styled.
func (w *Writer) Field(label string, value any) {
	_, _ = fmt.Fprintf(w.out, "%s %v\n", w.styles.Label.Render(label+":"), value)
}

// Match prints the found word, highlighted.
func (w *Writer) Match(word string) {
	_, _ = fmt.Fprintf(w.out, "%s %s\n", w.styles.Label.Render("Found match:"), w.styles.Header.Render(word))
}

// Plain prints msg unstyled.
func (w *Writer) Plain(msg string) {
	_, _ = fmt.Fprintln(w.out, msg)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

// JSON writes v as one line of JSON.
func (w *Writer) JSON(v any) error {
	return json.NewEncoder(w.out).Encode(v)
}
