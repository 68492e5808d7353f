package fs

import (
	"errors"
	iofs "io/fs"
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

	f, err := lfs.CreateTemp(dir, ".tmp-*")
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())
	require.NoError(t, f.Close())

	final := filepath.Join(dir, "blob")
	require.NoError(t, lfs.Rename(f.Name(), final))

	r, err := lfs.Open(final)
	require.NoError(t, err)
	buf := make([]byte, 3)
	_, err = r.ReadAt(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, "llo", string(buf))
	require.NoError(t, r.Close())

	var files []string
	require.NoError(t, lfs.WalkDir(tmp, func(p string, d iofs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files = append(files, d.Name())
		}
		return err
	}))
	assert.Equal(t, []string{"blob"}, files)

	require.NoError(t, lfs.Remove(final))
	_, err = os.Stat(final)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_WriteLimit(t *testing.T) {
	ffs := NewFaultyFS(nil)
	ffs.AddRule("faulty", Fault{FailAfterBytes: 5})

	f, err := ffs.CreateTemp(t.TempDir(), "faulty-*")
	require.NoError(t, err)
	defer f.Close()

	n, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = f.Write([]byte("!"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Zero(t, n)
}

func TestFaultyFS_Rules(t *testing.T) {
	boom := errors.New("boom")
	tmp := t.TempDir()
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("sync", Fault{FailAfterBytes: -1, FailOnSync: true, Err: boom})
	ffs.AddRule("close", Fault{FailAfterBytes: -1, FailOnClose: true})
	ffs.AddRule("rename", Fault{FailAfterBytes: -1, FailOnRename: true})

	f, err := ffs.CreateTemp(tmp, "sync-*")
	require.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), boom)
	require.NoError(t, f.Close())

	f, err = ffs.CreateTemp(tmp, "close-*")
	require.NoError(t, err)
	assert.ErrorIs(t, f.Close(), ErrInjected)

	f, err = ffs.CreateTemp(tmp, "plain-*")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.ErrorIs(t, ffs.Rename(f.Name(), filepath.Join(tmp, "rename")), ErrInjected)
	require.NoError(t, ffs.Rename(f.Name(), filepath.Join(tmp, "ok")))
}
