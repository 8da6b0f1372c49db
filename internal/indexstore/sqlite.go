package indexstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	crackerrors "github.com/Aman-CERP/digestcrack/internal/errors"
)

const backendSQLite = "sqlite"

var sqliteSchema = []string{`
CREATE TABLE IF NOT EXISTS indexes (
	dictionary TEXT NOT NULL,
	hash_type  TEXT NOT NULL,
	records    INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (dictionary, hash_type)
)`, `
CREATE TABLE IF NOT EXISTS records (
	dictionary TEXT NOT NULL,
	hash_type  TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	digest     TEXT NOT NULL,
	word       TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_records_digest ON records(dictionary, hash_type, digest)`,
}

// SQLiteStore keeps every index in a single SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// validateSQLiteIntegrity checks an existing database before it is opened
// for writing. A missing file is valid.
func validateSQLiteIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("cannot open for validation: %w", err)
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check returned: %s", result)
	}
	return nil
}

// NewSQLiteStore opens (creating if needed) the index database at path.
// An empty path opens an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := ":memory:"
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, crackerrors.IndexError("cannot create index directory", err).
				WithDetail("path", dir)
		}

		// A corrupted index database is cleared and rebuilt.
		if validErr := validateSQLiteIntegrity(path); validErr != nil {
			slog.Warn("sqlite_index_corrupted",
				slog.String("path", path),
				slog.String("error", validErr.Error()))

			if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
				return nil, crackerrors.IndexError("index database corrupted and cannot be removed", removeErr).
					WithDetail("path", path)
			}
			_ = os.Remove(path + "-wal")
			_ = os.Remove(path + "-shm")
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, crackerrors.IndexError("cannot open index database", err).WithDetail("path", path)
	}

	// Single connection: one writer, and an in-memory database stays shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, crackerrors.IndexError("cannot configure index database", err)
		}
	}

	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, crackerrors.IndexError("cannot create index schema", err)
		}
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Lookup implements Store.
func (s *SQLiteStore) Lookup(ctx context.Context, key Key, target string) (LookupResult, error) {
	records, ok, err := s.recordCount(ctx, key)
	if err != nil {
		return LookupResult{}, err
	}
	if !ok {
		return LookupResult{Status: StatusNoIndex}, nil
	}

	result := LookupResult{Status: StatusMiss, Records: records}

	var word string
	err = s.db.QueryRowContext(ctx, `
		SELECT word FROM records
		WHERE dictionary = ? AND hash_type = ? AND digest = ?
		ORDER BY seq LIMIT 1`,
		key.Dictionary, key.HashType.Ext(), target).Scan(&word)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return result, nil
	case err != nil:
		return LookupResult{}, crackerrors.IndexError("cannot query index", err)
	}

	result.Status = StatusHit
	result.Word = word
	return result, nil
}

// Persist implements Store. The key's previous records are replaced in a
// single transaction.
func (s *SQLiteStore) Persist(ctx context.Context, key Key, records []Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, crackerrors.IndexError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	hashType := key.HashType.Ext()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM records WHERE dictionary = ? AND hash_type = ?`,
		key.Dictionary, hashType); err != nil {
		return 0, crackerrors.IndexError("cannot clear index", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (dictionary, hash_type, seq, digest, word)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, crackerrors.IndexError("prepare insert", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, key.Dictionary, hashType, i, rec.Digest, rec.Word); err != nil {
			return 0, crackerrors.IndexError("cannot insert record", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO indexes (dictionary, hash_type, records, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(dictionary, hash_type) DO UPDATE SET
			records = excluded.records,
			updated_at = excluded.updated_at`,
		key.Dictionary, hashType, len(records), time.Now().Unix()); err != nil {
		return 0, crackerrors.IndexError("cannot record index metadata", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, crackerrors.IndexError("commit transaction", err)
	}
	return len(records), nil
}

// Info implements Store.
func (s *SQLiteStore) Info(ctx context.Context, key Key) (Info, error) {
	info := Info{
		Backend:  backendSQLite,
		Location: fmt.Sprintf("%s#%s/%s", s.location(), key.Dictionary, key.HashType.Ext()),
	}

	var records int
	var updated int64
	err := s.db.QueryRowContext(ctx, `
		SELECT records, updated_at FROM indexes
		WHERE dictionary = ? AND hash_type = ?`,
		key.Dictionary, key.HashType.Ext()).Scan(&records, &updated)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return info, nil
	case err != nil:
		return info, crackerrors.IndexError("cannot query index metadata", err)
	}

	info.Exists = true
	info.Records = records
	info.UpdatedAt = time.Unix(updated, 0)
	return info, nil
}

// Close checkpoints the WAL and closes the database.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.db.Close()
}

func (s *SQLiteStore) location() string {
	if s.path == "" {
		return ":memory:"
	}
	return s.path
}

func (s *SQLiteStore) recordCount(ctx context.Context, key Key) (int, bool, error) {
	var records int
	err := s.db.QueryRowContext(ctx, `
		SELECT records FROM indexes WHERE dictionary = ? AND hash_type = ?`,
		key.Dictionary, key.HashType.Ext()).Scan(&records)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, false, nil
	case err != nil:
		return 0, false, crackerrors.IndexError("cannot query index metadata", err)
	}
	return records, true, nil
}
