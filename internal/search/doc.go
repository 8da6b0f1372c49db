// Package search runs a parallel dictionary search for a target digest.
//
// The wordlist is split into contiguous chunks, one goroutine scans each
// chunk, and a Coordinator tracks the shared stop state: the first match
// stops every worker, and the search ends without a match only once every
// worker has exhausted its chunk. Workers optionally record every digest
// they compute so the orchestrating Engine can persist an index.
package search
