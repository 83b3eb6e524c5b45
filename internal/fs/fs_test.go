package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	dir := filepath.Join(tmp, "subdir")
	require.NoError(t, lfs.MkdirAll(dir, 0o755))

	fpath := filepath.Join(dir, "test.txt")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0o644)
	require.NoError(t, err)
	assert.Equal(t, fpath, f.Name())

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())

	buf := make([]byte, 3)
	_, err = f.ReadAt(buf, 1)
	require.NoError(t, err)
	assert.Equal(t, "ell", string(buf))
	require.NoError(t, f.Close())

	entries, err := lfs.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	newPath := filepath.Join(dir, "renamed.txt")
	require.NoError(t, lfs.Rename(fpath, newPath))
	_, err = lfs.Stat(fpath)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, lfs.Remove(newPath))
	_, err = lfs.Stat(newPath)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS(t *testing.T) {
	tmp := t.TempDir()

	t.Run("FailAfterBytes", func(t *testing.T) {
		ffs := NewFaultyFS(nil)
		ffs.AddRule("limited", Fault{FailAfterBytes: 4})

		f, err := ffs.OpenFile(filepath.Join(tmp, "limited.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		_, err = f.Write([]byte("abc"))
		require.NoError(t, err)
		_, err = f.Write([]byte("de"))
		assert.ErrorIs(t, err, ErrInjected)
		require.NoError(t, f.Close())
	})

	t.Run("Unmatched", func(t *testing.T) {
		ffs := NewFaultyFS(nil)
		ffs.AddRule("other", Fault{FailAfterBytes: 0})

		f, err := ffs.OpenFile(filepath.Join(tmp, "free.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		_, err = f.Write([]byte("anything"))
		require.NoError(t, err)
		require.NoError(t, f.Close())
	})

	t.Run("SyncCloseRename", func(t *testing.T) {
		boom := errors.New("boom")
		ffs := NewFaultyFS(LocalFS{})
		ffs.AddRule("flaky", Fault{FailAfterBytes: -1, FailOnSync: true, FailOnClose: true, FailOnRename: true, Err: boom})

		p := filepath.Join(tmp, "flaky.bin")
		f, err := ffs.OpenFile(p, os.O_CREATE|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		assert.ErrorIs(t, f.Sync(), boom)
		assert.ErrorIs(t, f.Close(), boom)
		assert.ErrorIs(t, ffs.Rename(p, p+".flaky"), boom)

		ffs.ClearRules()
		require.NoError(t, ffs.Rename(p, filepath.Join(tmp, "steady.bin")))
	})
}
