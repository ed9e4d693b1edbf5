package lock

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLockExclusive(t *testing.T) {
	dir := t.TempDir()

	first := NewInDir(dir)
	second := NewInDir(dir)
	assert.Equal(t, filepath.Join(dir, "backup.lock"), first.Path())

	ok, err := first.TryLock()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = second.TryLock()
	require.NoError(t, err)
	assert.False(t, ok, "second holder must not get the lock")

	require.NoError(t, first.Unlock())

	ok, err = second.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, second.Unlock())
}

func TestFileLockBadDir(t *testing.T) {
	l := NewInDir(filepath.Join(t.TempDir(), "missing", "dir"))

	_, err := l.TryLock()
	assert.Error(t, err)
}
