package search

// Partition splits words into at most workers contiguous chunks of
// ceil(len(words)/workers) words each, preserving order. The chunks share
// the backing array of words. An empty wordlist yields no chunks.
func Partition(words []string, workers int) [][]string {
	if workers < 1 {
		workers = 1
	}
	if len(words) == 0 {
		return nil
	}
	workers = min(workers, len(words))

	size := (len(words) + workers - 1) / workers
	chunks := make([][]string, 0, workers)
	for start := 0; start < len(words); start += size {
		end := min(start+size, len(words))
		chunks = append(chunks, words[start:end:end])
	}
	return chunks
}
