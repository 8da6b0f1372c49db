// Package dictionary loads wordlists for the search engine.
//
// Lines are split on '\n' with any '\r' removed and surrounding whitespace
// trimmed. Blank lines are kept as candidates. A line that is not valid
// UTF-8 is skipped and counted instead of aborting the load; callers surface
// the count as a summary once the run completes.
package dictionary

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	crackerrors "github.com/Aman-CERP/digestcrack/internal/errors"
)

// maxRecordedLines caps how many skipped line numbers are kept for the summary.
const maxRecordedLines = 10

// Stats describes how a wordlist was read.
type Stats struct {
	// Lines is the number of lines read, including skipped ones.
	Lines int
	// Skipped is the number of unreadable lines.
	Skipped int
	// SkippedLines holds the first few 1-based line numbers that were skipped.
	SkippedLines []int
}

// Wordlist is a loaded dictionary.
type Wordlist struct {
	// Path is the path the wordlist was loaded from, as given.
	Path string
	// Words are the candidate lines in file order.
	Words []string
	Stats Stats
}

// Identity returns the stable identity used to key persisted indexes.
func (w *Wordlist) Identity() string {
	return Identity(w.Path)
}

// Identity returns the absolute, cleaned form of path, or path itself if it
// cannot be made absolute.
func Identity(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// SkippedError returns a LineUnreadable warning summarising skipped lines,
// or nil when every line was readable.
func (w *Wordlist) SkippedError() error {
	if w.Stats.Skipped == 0 {
		return nil
	}
	return crackerrors.New(crackerrors.ErrCodeLineUnreadable,
		fmt.Sprintf("skipped %d unreadable line(s) in %s", w.Stats.Skipped, w.Path), nil).
		WithDetail("lines", fmt.Sprint(w.Stats.SkippedLines)).
		WithSuggestion("Convert the dictionary to UTF-8 to search those entries")
}

// Load reads the wordlist at path.
func Load(path string) (*Wordlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, crackerrors.DictionaryError(path, err).
			WithSuggestion("Check the path passed to --dict")
	}
	defer func() { _ = f.Close() }()

	wl, err := Read(f)
	if err != nil {
		return nil, crackerrors.DictionaryError(path, err)
	}
	wl.Path = path
	return wl, nil
}

// Read reads a wordlist from r. A final line without a trailing newline is
// kept; the empty remainder after a trailing newline is not a word.
func Read(r io.Reader) (*Wordlist, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	wl := &Wordlist{}

	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			wl.add(line)
		}
		if errors.Is(err, io.EOF) {
			return wl, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", wl.Stats.Lines+1, err)
		}
	}
}

func (w *Wordlist) add(line []byte) {
	w.Stats.Lines++

	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.ReplaceAll(line, []byte("\r"), nil)

	if !utf8.Valid(line) {
		w.Stats.Skipped++
		if len(w.Stats.SkippedLines) < maxRecordedLines {
			w.Stats.SkippedLines = append(w.Stats.SkippedLines, w.Stats.Lines)
		}
		return
	}
	w.Words = append(w.Words, string(bytes.TrimSpace(line)))
}
