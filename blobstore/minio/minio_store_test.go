package minio

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fieldacc/blobstore"
)

func TestRelName(t *testing.T) {
	assert.Equal(t, "run.facc", relName("dumps/run.facc", "dumps/"))
	assert.Equal(t, "run.facc", relName("dumps/run.facc", "dumps"))
	assert.Equal(t, "a/b.facc", relName("a/b.facc", ""))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("FIELDACC_TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}

	store, err := Dial(endpoint, "minioadmin", "minioadmin", false, "test-fieldacc", "test-prefix/")
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := t.Context()
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := store.client.ListBuckets(probeCtx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}
	require.NoError(t, store.EnsureBucket(ctx))

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.facc", data))

	blob, err := store.Open(ctx, "test.facc")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	got, err := io.ReadAll(blobstore.NewReader(blob))
	require.NoError(t, err)
	assert.Equal(t, data, got)
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "test.facc")

	require.NoError(t, store.Delete(ctx, "test.facc"))
	_, err = store.Open(ctx, "test.facc")
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	wb, err := store.Create(ctx, "stream.facc")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed data"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	blob3, err := store.Open(ctx, "stream.facc")
	require.NoError(t, err)
	assert.Equal(t, int64(13), blob3.Size())
	require.NoError(t, blob3.Close())

	_ = store.Delete(ctx, "stream.facc")
}
