package indexstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crackerrors "github.com/Aman-CERP/digestcrack/internal/errors"
)

func TestOpen_SelectsBackend(t *testing.T) {
	text, err := Open(Options{})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, text)
	_ = text.Close()

	sqlite, err := Open(Options{Backend: BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "i.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, sqlite)
	_ = sqlite.Close()
}

func TestOpen_LockRetriesOverrideDefault(t *testing.T) {
	store, err := Open(Options{Backend: BackendText, LockRetries: 9})
	require.NoError(t, err)

	fs, ok := store.(*FileStore)
	require.True(t, ok)
	assert.Equal(t, 9, fs.retry.MaxRetries)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(Options{Backend: "redis"})

	require.Error(t, err)
	assert.True(t, crackerrors.HasCode(err, crackerrors.ErrCodeConfigInvalid))
}
