// Package indexstore persists and queries precomputed digest indexes.
//
// An index maps every word of a dictionary to its digest under one hash
// type. Two backends are provided: FileStore keeps one text file per
// dictionary next to it, SQLiteStore keeps all indexes in one database.
package indexstore

import (
	"context"
	"time"

	"github.com/Aman-CERP/digestcrack/internal/digest"
)

// Key identifies one index: a dictionary hashed with one hash type.
type Key struct {
	// Dictionary is the dictionary identity, normally its absolute path.
	Dictionary string
	HashType   digest.HashType
}

// Record is one precomputed (digest, word) pair.
type Record struct {
	Digest string
	Word   string
}

// Status is the outcome of a lookup.
type Status int

const (
	// StatusNoIndex means no index exists for the key.
	StatusNoIndex Status = iota
	// StatusMiss means the index was checked and the target is absent.
	StatusMiss
	// StatusHit means the index holds the target.
	StatusHit
)

// String returns the status name used in logs.
func (s Status) String() string {
	switch s {
	case StatusHit:
		return "hit"
	case StatusMiss:
		return "miss"
	default:
		return "no_index"
	}
}

// LookupResult is returned by Store.Lookup.
type LookupResult struct {
	Status Status
	// Word is the matching word when Status is StatusHit.
	Word string
	// Records is the number of records in the index that was checked.
	Records int
	// Skipped counts stored entries that could not be parsed.
	Skipped int
}

// Info describes a stored index.
type Info struct {
	Backend   string
	Location  string
	Exists    bool
	Records   int
	Skipped   int
	UpdatedAt time.Time
}

// Store persists indexes.
//
// Implementations must be safe for use by one writer at a time per key;
// the search engine only calls Persist from its orchestrating goroutine.
type Store interface {
	// Lookup checks the index for key for an entry whose digest equals target.
	Lookup(ctx context.Context, key Key, target string) (LookupResult, error)

	// Persist replaces the index for key with records and returns the
	// number of records written.
	Persist(ctx context.Context, key Key, records []Record) (int, error)

	// Info reports where the index for key lives and how large it is.
	Info(ctx context.Context, key Key) (Info, error)

	Close() error
}
