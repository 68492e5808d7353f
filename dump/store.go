package dump

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/fieldacc"
	"github.com/hupe1980/fieldacc/blobstore"
	"github.com/hupe1980/fieldacc/resource"
)

// Save encodes arr into the named blob. Writes are throttled by rc's IO limit.
func Save(ctx context.Context, store blobstore.BlobStore, name string, arr *fieldacc.Array, c Compression, rc *resource.Controller) (Header, error) {
	w, err := store.Create(ctx, name)
	if err != nil {
		return Header{}, fmt.Errorf("dump: create %s: %w", name, err)
	}

	bw := bufio.NewWriterSize(resource.NewRateLimitedWriter(ctx, w, rc), 1<<20)
	h, err := Encode(bw, arr, c)
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		return Header{}, errors.Join(err, w.Abort())
	}
	if err := w.Close(); err != nil {
		return Header{}, fmt.Errorf("dump: close %s: %w", name, err)
	}
	return h, nil
}

// Load decodes the named blob. Reads are throttled by rc's IO limit.
func Load(ctx context.Context, store blobstore.BlobStore, name string, rc *resource.Controller) (*fieldacc.Array, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("dump: open %s: %w", name, err)
	}
	defer func() { _ = b.Close() }()

	r := bufio.NewReaderSize(resource.NewRateLimitedReader(ctx, blobstore.NewReader(b), rc), 1<<20)
	arr, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return arr, nil
}

// Stat reads only the header of the named blob.
func Stat(ctx context.Context, store blobstore.BlobStore, name string) (Header, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return Header{}, fmt.Errorf("dump: open %s: %w", name, err)
	}
	defer func() { _ = b.Close() }()

	return ReadHeader(blobstore.NewReader(b))
}
