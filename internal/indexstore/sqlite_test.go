package indexstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/digestcrack/internal/digest"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_LookupWithoutIndex(t *testing.T) {
	store := newTestSQLiteStore(t)
	key := Key{Dictionary: "/data/words.txt", HashType: digest.MD5}

	res, err := store.Lookup(context.Background(), key, "00")

	require.NoError(t, err)
	assert.Equal(t, StatusNoIndex, res.Status)
}

func TestSQLiteStore_PersistThenLookup_RoundTrip(t *testing.T) {
	// Given: a persisted index
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	key := Key{Dictionary: "/data/words.txt", HashType: digest.MD5}
	records := md5Records("apple", "banana", "cherry")

	n, err := store.Persist(ctx, key, records)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Then: each record is found and an absent digest is a miss, not no-index
	for _, rec := range records {
		res, err := store.Lookup(ctx, key, rec.Digest)
		require.NoError(t, err)
		assert.Equal(t, StatusHit, res.Status)
		assert.Equal(t, rec.Word, res.Word)
		assert.Equal(t, 3, res.Records)
	}

	res, err := store.Lookup(ctx, key, digest.MD5.Func()("durian"))
	require.NoError(t, err)
	assert.Equal(t, StatusMiss, res.Status)
}

func TestSQLiteStore_KeysAreIsolated(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	md5Key := Key{Dictionary: "/data/words.txt", HashType: digest.MD5}
	sha1Key := Key{Dictionary: "/data/words.txt", HashType: digest.SHA1}

	_, err := store.Persist(ctx, md5Key, md5Records("apple"))
	require.NoError(t, err)

	res, err := store.Lookup(ctx, sha1Key, digest.MD5.Func()("apple"))
	require.NoError(t, err)
	assert.Equal(t, StatusNoIndex, res.Status)
}

func TestSQLiteStore_PersistReplaces(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	key := Key{Dictionary: "/data/words.txt", HashType: digest.MD5}

	_, err := store.Persist(ctx, key, md5Records("apple", "banana"))
	require.NoError(t, err)
	_, err = store.Persist(ctx, key, md5Records("cherry"))
	require.NoError(t, err)

	res, err := store.Lookup(ctx, key, digest.MD5.Func()("apple"))
	require.NoError(t, err)
	assert.Equal(t, StatusMiss, res.Status)

	info, err := store.Info(ctx, key)
	require.NoError(t, err)
	assert.True(t, info.Exists)
	assert.Equal(t, 1, info.Records)
	assert.Equal(t, "sqlite", info.Backend)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	ctx := context.Background()
	key := Key{Dictionary: "/data/words.txt", HashType: digest.MD5}

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = store.Persist(ctx, key, md5Records("banana"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	res, err := reopened.Lookup(ctx, key, "72b302bf297a228a75730123efef7c41")
	require.NoError(t, err)
	assert.Equal(t, StatusHit, res.Status)
	assert.Equal(t, "banana", res.Word)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	store, err := NewSQLiteStore("")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	key := Key{Dictionary: "mem", HashType: digest.SHA256}
	_, err = store.Persist(context.Background(), key, nil)
	require.NoError(t, err)

	info, err := store.Info(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, info.Exists)
	assert.Equal(t, 0, info.Records)
}
