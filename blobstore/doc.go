// Package blobstore provides storage for accumulator dumps.
//
// BlobStore is the interface for reading and writing named blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local directory, atomic writes via rename
//   - MemoryStore: in-process map, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible stores
//
// # Reading
//
// Blobs implement io.ReaderAt. Wrap them in NewReader to stream a blob from
// the start:
//
//	b, err := store.Open(ctx, "run-42.facc")
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
//	arr, err := dump.Decode(blobstore.NewReader(b))
package blobstore
