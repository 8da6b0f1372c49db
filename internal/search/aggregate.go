package search

import "github.com/Aman-CERP/digestcrack/internal/indexstore"

// Aggregate concatenates the local indexes of outcomes in the order given.
// Records keep their scan order within each worker.
func Aggregate(outcomes []Outcome) []indexstore.Record {
	total := 0
	for _, o := range outcomes {
		total += len(o.Index)
	}

	records := make([]indexstore.Record, 0, total)
	for _, o := range outcomes {
		records = append(records, o.Index...)
	}
	return records
}
