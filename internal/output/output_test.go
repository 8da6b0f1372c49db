package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Status_PrintsIconAndMessage(t *testing.T) {
	// Given: a writer with a buffer
	buf := &bytes.Buffer{}
	w := New(buf)

	// When: printing a status message
	w.Status("🔍", "Searching...")

	// Then: output contains icon and message
	assert.Equal(t, "🔍 Searching...\n", buf.String())
}

func TestWriter_Status_NoIconIndents(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf).Status("", "detail")

	assert.Equal(t, "   detail\n", buf.String())
}

func TestWriter_Icons(t *testing.T) {
	tests := []struct {
		name  string
		write func(*Writer)
		icon  string
		text  string
	}{
		{"success", func(w *Writer) { w.Successf("Indexed %d", 3) }, "✅", "Indexed 3"},
		{"warning", func(w *Writer) { w.Warningf("skipped %d", 2) }, "⚠️", "skipped 2"},
		{"error", func(w *Writer) { w.Errorf("failed %s", "x") }, "❌", "failed x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.write(New(buf))

			assert.Contains(t, buf.String(), tt.icon)
			assert.Contains(t, buf.String(), tt.text)
		})
	}
}

func TestWriter_FieldAndMatch_PlainText(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Field("Detected Hash Type", "MD5")
	w.Match("banana")
	w.Plain("No match found")

	assert.Equal(t, "Detected Hash Type: MD5\nFound match: banana\nNo match found\n", buf.String())
}

func TestWriter_JSON_OneLine(t *testing.T) {
	buf := &bytes.Buffer{}

	require.NoError(t, New(buf).JSON(map[string]any{"found": true}))

	assert.Equal(t, "{\"found\":true}\n", buf.String())
}

func TestColorEnabled(t *testing.T) {
	buf := &bytes.Buffer{}

	assert.True(t, ColorEnabled(buf, "always"))
	assert.False(t, ColorEnabled(buf, "never"))
	assert.False(t, ColorEnabled(buf, "auto"), "a buffer is not a terminal")
}

func TestIsTTY_RegularFileIsNotTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.False(t, IsTTY(f))
	assert.False(t, IsTTY(nil))
}

func TestNewForMode_AlwaysEmitsANSI(t *testing.T) {
	buf := &bytes.Buffer{}

	NewForMode(buf, "always").Match("banana")

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "banana")
}

func TestNewForMode_NeverIsPlain(t *testing.T) {
	buf := &bytes.Buffer{}

	NewForMode(buf, "never").Match("banana")

	assert.Equal(t, "Found match: banana\n", buf.String())
}

func TestDetectNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, DetectNoColor())
}
