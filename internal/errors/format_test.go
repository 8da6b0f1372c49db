package errors

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForCLI_IncludesHintAndCode(t *testing.T) {
	// Given: a dictionary error with a suggestion
	err := DictionaryError("words.txt", errors.New("no such file or directory")).
		WithSuggestion("Check the --dict path")

	// When: formatting for CLI
	result := FormatForCLI(err)

	// Then: message, cause, hint and code are all present
	assert.Contains(t, result, "Error: cannot read dictionary words.txt")
	assert.Contains(t, result, "Cause: no such file or directory")
	assert.Contains(t, result, "Hint: Check the --dict path")
	assert.Contains(t, result, "Code: ERR_201_DICTIONARY_UNREADABLE")
}

func TestFormatForCLI_StandardErrorIsWrappedAsInternal(t *testing.T) {
	result := FormatForCLI(errors.New("boom"))

	assert.Contains(t, result, "Error: boom")
	assert.Contains(t, result, ErrCodeInternal)
	assert.NotContains(t, result, "Cause:")
}

func TestFormatForCLI_Nil(t *testing.T) {
	assert.Equal(t, "", FormatForCLI(nil))
}

func TestFormatJSON_RoundTripsFields(t *testing.T) {
	err := OutOfRangeError("threads", 42, 1, 10)

	data, jerr := FormatJSON(err)
	require.NoError(t, jerr)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ErrCodeConfigOutOfRange, decoded["code"])
	assert.Equal(t, "CONFIG", decoded["category"])
	assert.Equal(t, false, decoded["retryable"])
	assert.Equal(t, "42", decoded["details"].(map[string]any)["value"])
}

func TestFormatForLog_FlattensDetails(t *testing.T) {
	err := IndexError("cannot open index", errors.New("EACCES")).WithDetail("path", "words.md5")

	fields := FormatForLog(err)

	assert.Equal(t, ErrCodeIndexIO, fields["error_code"])
	assert.Equal(t, "EACCES", fields["cause"])
	assert.Equal(t, "words.md5", fields["detail_path"])
}

func TestFormatForLog_StandardError(t *testing.T) {
	fields := FormatForLog(errors.New("plain"))
	assert.Equal(t, map[string]any{"error": "plain"}, fields)
	assert.Nil(t, FormatForLog(nil))
}
