package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `{"time":"2026-01-02T10:00:00.000Z","level":"INFO","msg":"crack_started","run_id":"r1","workers":2}
{"time":"2026-01-02T10:00:01.000Z","level":"DEBUG","msg":"index_lookup","run_id":"r1","status":"no_index"}
not json at all
{"time":"2026-01-02T10:00:02.000Z","level":"WARN","msg":"dictionary_lines_skipped","run_id":"r2","skipped":3}
{"time":"2026-01-02T10:00:03.000Z","level":"ERROR","msg":"crack_failed","run_id":"r2","error":"boom"}
`

func writeSampleLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "digestcrack.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o644))
	return path
}

func TestViewer_Tail(t *testing.T) {
	v := NewViewer(ViewerConfig{NoColor: true}, &bytes.Buffer{})

	entries, err := v.Tail(writeSampleLog(t), 2)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "dictionary_lines_skipped", entries[0].Msg)
	assert.Equal(t, "crack_failed", entries[1].Msg)
}

func TestViewer_TailAll(t *testing.T) {
	v := NewViewer(ViewerConfig{NoColor: true}, &bytes.Buffer{})

	entries, err := v.Tail(writeSampleLog(t), 0)

	require.NoError(t, err)
	assert.Len(t, entries, 5)
	assert.False(t, entries[2].IsValid)
}

func TestViewer_Filters(t *testing.T) {
	tests := []struct {
		name string
		cfg  ViewerConfig
		want []string
	}{
		{"level", ViewerConfig{Level: "warn"}, []string{"dictionary_lines_skipped", "crack_failed"}},
		{"run id", ViewerConfig{RunID: "r1"}, []string{"crack_started", "index_lookup"}},
		{"pattern", ViewerConfig{Pattern: regexp.MustCompile(`lookup`)}, []string{"index_lookup"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.NoColor = true
			v := NewViewer(tt.cfg, &bytes.Buffer{})

			entries, err := v.Tail(writeSampleLog(t), 100)
			require.NoError(t, err)

			var msgs []string
			for _, e := range entries {
				msgs = append(msgs, e.Msg)
			}
			assert.Equal(t, tt.want, msgs)
		})
	}
}

func TestViewer_FormatEntry(t *testing.T) {
	v := NewViewer(ViewerConfig{NoColor: true}, &bytes.Buffer{})
	entry := parseLine(`{"time":"2026-01-02T10:00:00.123Z","level":"INFO","msg":"search_complete","run_id":"r","found":true,"workers":2}`)

	line := v.FormatEntry(entry)

	assert.Equal(t, "10:00:00.123 INFO  search_complete found=true workers=2", line)
	assert.Equal(t, "raw text", v.FormatEntry(parseLine("raw text")))
}

func TestViewer_Print(t *testing.T) {
	var out bytes.Buffer
	v := NewViewer(ViewerConfig{NoColor: true}, &out)

	entries, err := v.Tail(writeSampleLog(t), 1)
	require.NoError(t, err)
	v.Print(entries)

	assert.Equal(t, "10:00:03.000 ERROR crack_failed error=boom\n", out.String())
}

func TestViewer_Follow(t *testing.T) {
	// Given: a viewer following a log file
	path := writeSampleLog(t)
	v := NewViewer(ViewerConfig{NoColor: true}, &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	entries := make(chan LogEntry, 4)
	done := make(chan error, 1)
	go func() { done <- v.Follow(ctx, path, entries) }()

	// When: a line is appended
	time.Sleep(150 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"time":"2026-01-02T10:00:04Z","level":"INFO","msg":"appended"}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// Then: only the new entry is delivered
	select {
	case e := <-entries:
		assert.Equal(t, "appended", e.Msg)
	case <-time.After(2 * time.Second):
		t.Fatal("appended entry not delivered")
	}

	cancel()
	require.NoError(t, <-done)
	assert.True(t, strings.HasSuffix(path, ".log"))
}
