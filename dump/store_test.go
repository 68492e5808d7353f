package dump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fieldacc"
	"github.com/hupe1980/fieldacc/blobstore"
	localfs "github.com/hupe1980/fieldacc/internal/fs"
	"github.com/hupe1980/fieldacc/resource"
	"github.com/hupe1980/fieldacc/testutil"
)

func TestSaveLoad(t *testing.T) {
	for name, store := range map[string]blobstore.BlobStore{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 64 << 20})
			arr := &fieldacc.Array{Records: testutil.NewRNG(4).Replicas(300, 4, 320, -1, 1), N: 300, NArray: 4, Stride: 320}

			h, err := Save(ctx, store, "runs/a.facc", arr, ZSTD, rc)
			require.NoError(t, err)

			st, err := Stat(ctx, store, "runs/a.facc")
			require.NoError(t, err)
			assert.Equal(t, h, st)
			assert.Equal(t, uint32(4), st.NArray)

			got, err := Load(ctx, store, "runs/a.facc", rc)
			require.NoError(t, err)
			requireSameArray(t, arr, got)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.Context(), blobstore.NewMemoryStore(), "nope", nil)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestSave_InvalidArrayAborts(t *testing.T) {
	store := blobstore.NewMemoryStore()
	arr := &fieldacc.Array{N: 4, NArray: 2, Stride: 4}

	_, err := Save(t.Context(), store, "bad.facc", arr, None, nil)
	require.ErrorIs(t, err, fieldacc.ErrInvalidConfig)

	names, err := store.List(t.Context(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSave_WriteFailureLeavesNoBlob(t *testing.T) {
	dir := t.TempDir()
	ffs := localfs.NewFaultyFS(nil)
	ffs.AddRule("broken.facc", localfs.Fault{FailAfterBytes: 1000})
	store := blobstore.NewLocalStoreFS(dir, ffs)

	arr := &fieldacc.Array{Records: testutil.NewRNG(9).Replicas(300, 2, 300, -1, 1), N: 300, NArray: 2, Stride: 300}

	_, err := Save(t.Context(), store, "broken.facc", arr, None, nil)
	require.ErrorIs(t, err, localfs.ErrInjected)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = Save(t.Context(), store, "fine.facc", arr, None, nil)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "fine.facc"))
	require.NoError(t, err)
}
