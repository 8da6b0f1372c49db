package indexstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLock_TryLockIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "words.md5.lock")
	first := NewFileLock(path)
	second := NewFileLock(path)

	acquired, err := first.TryLock()
	require.NoError(t, err)
	assert.True(t, acquired)
	assert.True(t, first.IsLocked())

	acquired, err = second.TryLock()
	require.NoError(t, err)
	assert.False(t, acquired)
	assert.False(t, second.IsLocked())

	require.NoError(t, first.Unlock())

	acquired, err = second.TryLock()
	require.NoError(t, err)
	assert.True(t, acquired)
	require.NoError(t, second.Unlock())
}

func TestFileLock_UnlockWithoutLock(t *testing.T) {
	lock := NewFileLock(filepath.Join(t.TempDir(), "x.lock"))
	assert.NoError(t, lock.Unlock())
	assert.Equal(t, "x.lock", filepath.Base(lock.Path()))
}
