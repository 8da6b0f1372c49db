package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crackerrors "github.com/Aman-CERP/digestcrack/internal/errors"
)

func TestCrack_FindsWord(t *testing.T) {
	// Given: a three-word dictionary
	work := isolate(t)
	dict := writeFile(t, work, "words.txt", "apple", "banana", "cherry")

	// When: cracking MD5("banana") with two workers
	stdout, _, err := execute(t, "-c", md5Banana, "-d", dict, "-t", "2")

	// Then: the word is reported with the detected hash type
	require.NoError(t, err)
	assert.Contains(t, stdout, "Detected Hash Type: MD5")
	assert.Contains(t, stdout, "Found match: banana")
	assert.Contains(t, stdout, "Time elapsed:")
	assert.NotContains(t, stdout, "Indexed records")
}

func TestCrack_NoMatchIsNotAnError(t *testing.T) {
	// Given: a dictionary without the target word
	work := isolate(t)
	dict := writeFile(t, work, "words.txt", "x", "y")

	// When: cracking with more workers than words
	stdout, _, err := execute(t, "-c", md5Apple, "-d", dict, "-t", "3")

	// Then: the run succeeds and reports no match
	require.NoError(t, err)
	assert.Contains(t, stdout, "No match found")
	assert.NotContains(t, stdout, "Found match")
}

func TestCrack_UppercaseTargetMatches(t *testing.T) {
	// Given: a dictionary containing "apple"
	work := isolate(t)
	dict := writeFile(t, work, "words.txt", "apple")

	// When: the target is given in uppercase hex with surrounding spaces
	stdout, _, err := execute(t, "-c", "  "+strings.ToUpper(md5Apple)+" ", "-d", dict)

	// Then: it is normalized before searching
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found match: apple")
}

func TestCrack_EmptyLineIsACandidate(t *testing.T) {
	// Given: a dictionary with an empty line
	work := isolate(t)
	dict := writeFile(t, work, "words.txt", "apple", "", "banana")

	// When: cracking the digest of the empty string
	stdout, _, err := execute(t, "-c", md5Empty, "-d", dict, "--format", "json")

	// Then: the empty word is found
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, true, report["found"])
	assert.Equal(t, "", report["word"])
}

func TestCrack_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		args func(dict string) []string
		code string
	}{
		{
			name: "digest length matches no hash type",
			args: func(dict string) []string { return []string{"-c", "abc", "-d", dict} },
			code: crackerrors.ErrCodeInvalidDigestLength,
		},
		{
			name: "digest is not hex",
			args: func(dict string) []string { return []string{"-c", strings.Repeat("z", 32), "-d", dict} },
			code: crackerrors.ErrCodeInvalidInput,
		},
		{
			name: "zero threads",
			args: func(dict string) []string { return []string{"-c", md5Apple, "-d", dict, "-t", "0"} },
			code: crackerrors.ErrCodeConfigOutOfRange,
		},
		{
			name: "threads above max_workers",
			args: func(dict string) []string { return []string{"-c", md5Apple, "-d", dict, "-t", "11"} },
			code: crackerrors.ErrCodeConfigOutOfRange,
		},
		{
			name: "missing dictionary flag",
			args: func(string) []string { return []string{"-c", md5Apple} },
			code: crackerrors.ErrCodeInvalidInput,
		},
		{
			name: "missing target",
			args: func(dict string) []string { return []string{"-d", dict} },
			code: crackerrors.ErrCodeInvalidInput,
		},
		{
			name: "hash and hash file together",
			args: func(dict string) []string { return []string{"-c", md5Apple, "-f", dict, "-d", dict} },
			code: crackerrors.ErrCodeInvalidInput,
		},
		{
			name: "unknown format",
			args: func(dict string) []string { return []string{"-c", md5Apple, "-d", dict, "--format", "xml"} },
			code: crackerrors.ErrCodeInvalidInput,
		},
		{
			name: "unreadable dictionary",
			args: func(dict string) []string { return []string{"-c", md5Apple, "-d", dict + ".missing"} },
			code: crackerrors.ErrCodeDictionaryUnreadable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a valid dictionary
			work := isolate(t)
			dict := writeFile(t, work, "words.txt", "apple")

			// When: running with invalid input
			stdout, _, err := execute(t, tt.args(dict)...)

			// Then: the run fails with the expected code before printing results
			require.Error(t, err)
			assert.True(t, crackerrors.HasCode(err, tt.code), "got %v", err)
			assert.NotContains(t, stdout, "Detected Hash Type")
		})
	}
}

func TestCrack_IndexIsReusedOnNextRun(t *testing.T) {
	// Given: a dictionary and no index
	work := isolate(t)
	dict := writeFile(t, work, "words.txt", "apple", "banana", "cherry")

	// When: cracking twice with --index
	first, _, err := execute(t, "-c", md5Banana, "-d", dict, "-i")
	require.NoError(t, err)
	second, _, err := execute(t, "-c", md5Banana, "-d", dict, "-i")
	require.NoError(t, err)

	// Then: the first run writes words.md5 and the second answers from it
	assert.Contains(t, first, "Indexed records:")
	assert.FileExists(t, filepath.Join(work, "words.md5"))
	assert.Contains(t, second, "Found match: banana")
	assert.Contains(t, second, "Source: index")
}

func TestCrack_IndexEnabledByProjectConfig(t *testing.T) {
	// Given: a project config that enables indexing
	work := isolate(t)
	dict := writeFile(t, work, "words.txt", "apple", "banana")
	writeFile(t, work, ".digestcrack.yaml", "index:", "  enabled: true")

	// When: cracking without -i
	stdout, _, err := execute(t, "-c", md5Apple, "-d", dict)

	// Then: an index is written anyway
	require.NoError(t, err)
	assert.Contains(t, stdout, "Indexed records:")
	assert.FileExists(t, filepath.Join(work, "words.md5"))
}

func TestCrack_SQLiteBackend(t *testing.T) {
	// Given: the sqlite backend selected through the environment
	work := isolate(t)
	dict := writeFile(t, work, "words.txt", "apple", "banana")
	dbPath := filepath.Join(work, "index.db")
	t.Setenv("DIGESTCRACK_INDEX_BACKEND", "sqlite")
	t.Setenv("DIGESTCRACK_SQLITE_PATH", dbPath)

	// When: cracking twice with --index
	_, _, err := execute(t, "-c", md5Apple, "-d", dict, "-i")
	require.NoError(t, err)
	second, _, err := execute(t, "-c", md5Apple, "-d", dict, "-i")
	require.NoError(t, err)

	// Then: the database holds the index and serves the second run
	assert.FileExists(t, dbPath)
	assert.NoFileExists(t, filepath.Join(work, "words.md5"))
	assert.Contains(t, second, "Source: index")
}

func TestCrack_JSONOutput(t *testing.T) {
	// Given: a dictionary
	work := isolate(t)
	dict := writeFile(t, work, "words.txt", "apple", "banana", "cherry")

	// When: cracking with --format json
	stdout, _, err := execute(t, "-c", md5Banana, "-d", dict, "-t", "2", "--format", "json")

	// Then: one JSON object describes the result
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, md5Banana, report["target"])
	assert.Equal(t, "MD5", report["hash_type"])
	assert.Equal(t, true, report["found"])
	assert.Equal(t, "banana", report["word"])
	assert.Equal(t, false, report["from_index"])
	assert.EqualValues(t, 2, report["workers"])
	assert.NotEmpty(t, report["run_id"])
}

func TestCrack_HashFile(t *testing.T) {
	// Given: a hash file with a comment, a blank line and three digests
	work := isolate(t)
	dict := writeFile(t, work, "words.txt", "apple", "banana")
	hashes := writeFile(t, work, "hashes.txt",
		"# targets", md5Apple, "", md5Banana, md5Empty)

	// When: cracking every target with JSON output
	stdout, _, err := execute(t, "-f", hashes, "-d", dict, "--format", "json")
	require.NoError(t, err)

	// Then: one report per target, in file order, sharing a run id
	dec := json.NewDecoder(strings.NewReader(stdout))
	var reports []map[string]any
	for {
		var r map[string]any
		err := dec.Decode(&r)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		reports = append(reports, r)
	}
	require.Len(t, reports, 3)
	assert.Equal(t, "apple", reports[0]["word"])
	assert.Equal(t, "banana", reports[1]["word"])
	assert.Equal(t, false, reports[2]["found"])
	assert.Equal(t, reports[0]["run_id"], reports[2]["run_id"])
}

func TestCrack_HashFileTextShowsTargets(t *testing.T) {
	// Given: a hash file with two digests
	work := isolate(t)
	dict := writeFile(t, work, "words.txt", "apple", "banana")
	hashes := writeFile(t, work, "hashes.txt", md5Apple, md5Banana)

	// When: cracking with text output
	stdout, _, err := execute(t, "-f", hashes, "-d", dict)

	// Then: each block names its target
	require.NoError(t, err)
	assert.Contains(t, stdout, "Target: "+md5Apple)
	assert.Contains(t, stdout, "Target: "+md5Banana)
	assert.Equal(t, 2, strings.Count(stdout, "Found match:"))
}

func TestCrack_HashFileInvalidLineFailsBeforeSearching(t *testing.T) {
	// Given: a hash file whose second digest has a bad length
	work := isolate(t)
	dict := writeFile(t, work, "words.txt", "apple")
	hashes := writeFile(t, work, "hashes.txt", md5Apple, "1234")

	// When: cracking
	stdout, _, err := execute(t, "-f", hashes, "-d", dict)

	// Then: the line is named and nothing was searched
	require.Error(t, err)
	ce, ok := crackerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, crackerrors.ErrCodeInvalidDigestLength, ce.Code)
	assert.Equal(t, "2", ce.Details["line"])
	assert.Empty(t, stdout)
}

func TestCrack_ReportsSkippedLines(t *testing.T) {
	// Given: a dictionary with an invalid UTF-8 line
	work := isolate(t)
	dict := filepath.Join(work, "words.txt")
	require.NoError(t, os.WriteFile(dict, []byte("apple\n\xff\xfe\nbanana\n"), 0o644))

	// When: cracking a word after the bad line
	stdout, _, err := execute(t, "-c", md5Banana, "-d", dict)

	// Then: the search still succeeds and the skipped line is summarised
	require.NoError(t, err)
	assert.Contains(t, stdout, "Skipped 1 unreadable dictionary line(s): lines 2")
	assert.Contains(t, stdout, "Found match: banana")
}

func TestCrack_ProjectConfigOutOfRangeWorkers(t *testing.T) {
	// Given: a project config asking for more workers than allowed
	work := isolate(t)
	dict := writeFile(t, work, "words.txt", "apple")
	writeFile(t, work, ".digestcrack.yaml", "search:", "  workers: 20")

	// When: cracking
	_, _, err := execute(t, "-c", md5Apple, "-d", dict)

	// Then: configuration is rejected before any work
	require.Error(t, err)
	assert.True(t, crackerrors.HasCode(err, crackerrors.ErrCodeConfigOutOfRange))
}

func TestFormatLines(t *testing.T) {
	tests := []struct {
		lines []int
		total int
		want  string
	}{
		{[]int{2}, 1, "lines 2"},
		{[]int{2, 5}, 2, "lines 2, 5"},
		{[]int{1, 3}, 5, "lines 1, 3 and 3 more"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatLines(tt.lines, tt.total))
	}
}
