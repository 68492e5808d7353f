// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("dumps/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	arr, err := dump.Load(ctx, store, "run-42.facc", nil)
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart streaming uploads with CRC32C integrity checks
//   - Automatic pagination for listing
//   - Custom endpoints for S3-compatible services (path-style addressing)
package s3
