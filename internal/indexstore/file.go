package indexstore

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	crackerrors "github.com/Aman-CERP/digestcrack/internal/errors"
)

const (
	// DefaultCacheSize is the number of loaded text indexes kept in memory.
	DefaultCacheSize = 8

	// recordSeparator splits a stored line into digest and word.
	recordSeparator = ": "

	backendText = "text"
)

// FileOptions configures a FileStore.
type FileOptions struct {
	// Dir relocates index files into one directory. Empty keeps each index
	// next to its dictionary.
	Dir string

	// CacheSize is the number of parsed indexes kept in memory.
	CacheSize int

	// Retry controls how long Persist waits for a busy index lock.
	Retry crackerrors.RetryConfig
}

// FileStore stores each index as a text file of "<digest>: <word>" lines.
type FileStore struct {
	dir   string
	retry crackerrors.RetryConfig
	cache *lru.Cache[string, *loadedIndex]
}

// loadedIndex is a parsed index file together with the file state it was
// parsed from, so a changed file is never served stale.
type loadedIndex struct {
	size     int64
	modTime  time.Time
	byDigest map[string]string
	records  int
	skipped  int
}

// NewFileStore creates a text-file index store.
func NewFileStore(opts FileOptions) *FileStore {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, *loadedIndex](size)

	retry := opts.Retry
	if retry.InitialDelay <= 0 {
		retry = crackerrors.DefaultRetryConfig()
	}

	return &FileStore{
		dir:   opts.Dir,
		retry: retry,
		cache: cache,
	}
}

// Path returns the index file path for key: the dictionary path with its
// extension replaced by the hash type ("words.txt" -> "words.md5").
func (s *FileStore) Path(key Key) string {
	dict := key.Dictionary
	ext := "." + key.HashType.Ext()

	path := strings.TrimSuffix(dict, filepath.Ext(dict)) + ext
	if path == dict {
		// Dictionary already carries the index extension.
		path = dict + ext
	}
	if s.dir != "" {
		path = filepath.Join(s.dir, filepath.Base(path))
	}
	return path
}

// Lookup implements Store.
func (s *FileStore) Lookup(ctx context.Context, key Key, target string) (LookupResult, error) {
	if err := ctx.Err(); err != nil {
		return LookupResult{}, err
	}

	idx, err := s.load(s.Path(key))
	if err != nil {
		return LookupResult{}, err
	}
	if idx == nil {
		return LookupResult{Status: StatusNoIndex}, nil
	}

	result := LookupResult{
		Status:  StatusMiss,
		Records: idx.records,
		Skipped: idx.skipped,
	}
	if word, ok := idx.byDigest[target]; ok {
		result.Status = StatusHit
		result.Word = word
	}
	return result, nil
}

// Persist implements Store. The file is written to a temporary sibling and
// renamed into place while holding the index lock.
func (s *FileStore) Persist(ctx context.Context, key Key, records []Record) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	path := s.Path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, crackerrors.IndexError("cannot create index directory", err).
			WithDetail("path", dir)
	}

	lock := NewFileLock(path + ".lock")
	err := crackerrors.Retry(ctx, s.retry, func() error {
		acquired, err := lock.TryLock()
		if err != nil {
			return crackerrors.IndexError("cannot lock index", err).WithDetail("path", lock.Path())
		}
		if !acquired {
			return crackerrors.New(crackerrors.ErrCodeIndexLocked,
				fmt.Sprintf("index %s is locked by another process", path), nil).
				WithSuggestion("Wait for the other digestcrack process to finish")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	defer func() { _ = lock.Unlock() }()

	if err := writeIndex(path, records); err != nil {
		return 0, crackerrors.IndexError("cannot write index", err).WithDetail("path", path)
	}
	s.cache.Remove(path)
	return len(records), nil
}

// Info implements Store.
func (s *FileStore) Info(ctx context.Context, key Key) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}

	path := s.Path(key)
	info := Info{Backend: backendText, Location: path}

	idx, err := s.load(path)
	if err != nil {
		return info, err
	}
	if idx == nil {
		return info, nil
	}

	info.Exists = true
	info.Records = idx.records
	info.Skipped = idx.skipped
	info.UpdatedAt = idx.modTime
	return info, nil
}

// Close drops all cached indexes.
func (s *FileStore) Close() error {
	s.cache.Purge()
	return nil
}

// load returns the parsed index at path, or nil if the file does not exist.
func (s *FileStore) load(path string) (*loadedIndex, error) {
	fi, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		s.cache.Remove(path)
		return nil, nil
	}
	if err != nil {
		return nil, crackerrors.IndexError("cannot stat index", err).WithDetail("path", path)
	}

	if idx, ok := s.cache.Get(path); ok && idx.size == fi.Size() && idx.modTime.Equal(fi.ModTime()) {
		return idx, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, crackerrors.IndexError("cannot open index", err).WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	idx, err := parseIndex(f)
	if err != nil {
		return nil, crackerrors.IndexError("cannot read index", err).WithDetail("path", path)
	}
	idx.size = fi.Size()
	idx.modTime = fi.ModTime()

	s.cache.Add(path, idx)
	return idx, nil
}

// parseIndex reads "<digest>: <word>" lines. Lines without the separator or
// with a non-hex digest are counted as skipped. The first record for a
// digest wins.
func parseIndex(r io.Reader) (*loadedIndex, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	idx := &loadedIndex{byDigest: make(map[string]string)}

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			idx.add(line)
		}
		if errors.Is(err, io.EOF) {
			return idx, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (idx *loadedIndex) add(line string) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	rec, ok := ParseRecord(line)
	if !ok {
		idx.skipped++
		return
	}
	idx.records++
	if _, exists := idx.byDigest[rec.Digest]; !exists {
		idx.byDigest[rec.Digest] = rec.Word
	}
}

// ParseRecord parses one stored index line.
func ParseRecord(line string) (Record, bool) {
	d, word, ok := strings.Cut(line, recordSeparator)
	if !ok || d == "" || len(d)%2 != 0 {
		return Record{}, false
	}
	if _, err := hex.DecodeString(d); err != nil {
		return Record{}, false
	}
	return Record{Digest: strings.ToLower(d), Word: word}, true
}

// FormatRecord renders rec as a stored index line without the newline.
func FormatRecord(rec Record) string {
	return rec.Digest + recordSeparator + rec.Word
}

func writeIndex(path string, records []Record) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return err
	}

	w := bufio.NewWriterSize(tmp, 64*1024)
	for _, rec := range records {
		if _, err = w.WriteString(FormatRecord(rec)); err != nil {
			return err
		}
		if err = w.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
