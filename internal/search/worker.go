package search

import (
	"strings"

	"github.com/Aman-CERP/digestcrack/internal/digest"
	"github.com/Aman-CERP/digestcrack/internal/indexstore"
)

// Outcome is what one worker reports when it stops.
type Outcome struct {
	Worker    int
	Match     string
	Matched   bool
	Exhausted bool
	// Scanned is the number of words hashed.
	Scanned int
	// Index holds one record per scanned word when indexing was requested.
	Index []indexstore.Record
}

// runWorker scans chunk in order for a word whose digest equals target.
// It checks the coordinator before every word and stops early once the
// search has stopped. An empty target never matches.
func runWorker(id int, chunk []string, target string, fn digest.Func, coord *Coordinator, buildIndex bool) Outcome {
	out := Outcome{Worker: id}
	if buildIndex {
		out.Index = make([]indexstore.Record, 0, len(chunk))
	}

	for _, raw := range chunk {
		if coord.Stopped() {
			return out
		}

		word := strings.TrimSpace(raw)
		sum := fn(word)
		out.Scanned++

		if buildIndex {
			out.Index = append(out.Index, indexstore.Record{Digest: sum, Word: word})
		}

		if target != "" && sum == target {
			out.Matched = true
			out.Match = word
			coord.SignalFound()
			return out
		}
	}

	out.Exhausted = true
	coord.SignalExhausted()
	return out
}
