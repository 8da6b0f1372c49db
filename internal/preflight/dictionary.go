package preflight

import (
	"context"
	"fmt"

	"github.com/Aman-CERP/digestcrack/internal/dictionary"
	"github.com/Aman-CERP/digestcrack/internal/indexstore"
)

// CheckDictionary loads the wordlist at path. It returns the number of
// words, or -1 when the dictionary cannot be read.
func (c *Checker) CheckDictionary(path string) (CheckResult, int) {
	result := CheckResult{
		Name:     "dictionary",
		Required: true,
	}

	wl, err := dictionary.Load(path)
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("cannot read %s", path)
		result.Details = err.Error()
		return result, -1
	}

	result.Message = fmt.Sprintf("%d words", len(wl.Words))
	if wl.Stats.Skipped > 0 {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("%d words, %d unreadable line(s)", len(wl.Words), wl.Stats.Skipped)
		result.Details = fmt.Sprintf("first unreadable lines: %v", wl.Stats.SkippedLines)
		return result, len(wl.Words)
	}

	result.Status = StatusPass
	return result, len(wl.Words)
}

// CheckIndex reports whether the dictionary's index exists and covers
// every word. A partial index is normal after a run that stopped early.
func (c *Checker) CheckIndex(ctx context.Context, path string, words int) CheckResult {
	result := CheckResult{
		Name: "index_" + c.hashType.Ext(),
	}

	key := indexstore.Key{Dictionary: dictionary.Identity(path), HashType: c.hashType}
	info, err := c.store.Info(ctx, key)
	if err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("cannot read index: %v", err)
		return result
	}
	result.Details = info.Location

	switch {
	case !info.Exists:
		result.Status = StatusWarn
		result.Message = "not built (run 'digestcrack index build')"
	case info.Skipped > 0:
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("%d records, %d unreadable", info.Records, info.Skipped)
	case info.Records < words:
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("partial: %d of %d words", info.Records, words)
	default:
		result.Status = StatusPass
		result.Message = fmt.Sprintf("%d records", info.Records)
	}
	return result
}
