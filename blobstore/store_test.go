package blobstore

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	localfs "github.com/hupe1980/fieldacc/internal/fs"
)

func stores(t *testing.T) map[string]BlobStore {
	return map[string]BlobStore{
		"local":  NewLocalStore(t.TempDir()),
		"memory": NewMemoryStore(),
	}
}

func TestBlobStore_Lifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			data := []byte("replicated accumulator dump")

			w, err := store.Create(ctx, "runs/run-001.facc")
			require.NoError(t, err)
			n, err := w.Write(data)
			require.NoError(t, err)
			require.Equal(t, len(data), n)

			// Not visible before Close.
			_, err = store.Open(ctx, "runs/run-001.facc")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, w.Close())

			b, err := store.Open(ctx, "runs/run-001.facc")
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), b.Size())

			buf := make([]byte, 11)
			_, err = b.ReadAt(buf, 0)
			require.NoError(t, err)
			assert.Equal(t, "replicated ", string(buf))

			all, err := io.ReadAll(NewReader(b))
			require.NoError(t, err)
			assert.Equal(t, data, all)
			require.NoError(t, b.Close())

			require.NoError(t, store.Put(ctx, "runs/run-002.facc", []byte("x")))
			require.NoError(t, store.Put(ctx, "other.facc", []byte("y")))

			names, err := store.List(ctx, "runs/")
			require.NoError(t, err)
			assert.Equal(t, []string{"runs/run-001.facc", "runs/run-002.facc"}, names)

			names, err = store.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, names, 3)

			got, err := ReadAll(ctx, store, "other.facc")
			require.NoError(t, err)
			assert.Equal(t, "y", string(got))

			require.NoError(t, store.Delete(ctx, "other.facc"))
			require.NoError(t, store.Delete(ctx, "other.facc"))
			_, err = store.Open(ctx, "other.facc")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestBlobStore_Abort(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			w, err := store.Create(ctx, "aborted.facc")
			require.NoError(t, err)
			_, err = w.Write([]byte("partial"))
			require.NoError(t, err)
			require.NoError(t, w.Abort())

			_, err = store.Open(ctx, "aborted.facc")
			assert.ErrorIs(t, err, ErrNotFound)

			names, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Empty(t, names)
		})
	}
}

func TestBlobStore_Overwrite(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			require.NoError(t, store.Put(ctx, "a", []byte("first")))
			require.NoError(t, store.Put(ctx, "a", []byte("second")))

			got, err := ReadAll(ctx, store, "a")
			require.NoError(t, err)
			assert.Equal(t, "second", string(got))
		})
	}
}

func TestLocalStore_RejectsEscapingNames(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	for _, name := range []string{"../x", "/etc/passwd", ".", ""} {
		_, err := store.Create(t.Context(), name)
		assert.Error(t, err, name)
	}
}

func TestLocalStore_MissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(t.Context(), "")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = store.Open(t.Context(), "x")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMemoryStore_PutCopies(t *testing.T) {
	store := NewMemoryStore()
	data := []byte("abc")
	require.NoError(t, store.Put(t.Context(), "k", data))
	data[0] = 'z'

	got, err := ReadAll(t.Context(), store, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestLocalStore_FailedCommitRemovesTemp(t *testing.T) {
	for name, fault := range map[string]localfs.Fault{
		"sync":   {FailAfterBytes: -1, FailOnSync: true},
		"close":  {FailAfterBytes: -1, FailOnClose: true},
		"rename": {FailAfterBytes: -1, FailOnRename: true},
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			ffs := localfs.NewFaultyFS(nil)
			ffs.AddRule("blob.bin", fault)
			s := NewLocalStoreFS(dir, ffs)

			err := s.Put(t.Context(), "blob.bin", []byte("payload"))
			require.ErrorIs(t, err, localfs.ErrInjected)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}
