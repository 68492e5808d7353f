// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is a high-performance, S3-compatible object storage system. This package
// uses the official MinIO Go client library and works with other S3-compatible
// systems like Ceph, SeaweedFS and Garage.
//
// # Basic Usage
//
//	store, err := minioblob.Dial("localhost:9000", "minioadmin", "minioadmin", false, "my-bucket", "dumps/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := store.EnsureBucket(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	err = dump.Save(ctx, store, "run-42.facc", arr, dump.ZSTD, nil)
//
// An existing client can be wrapped with NewStore:
//
//	client, _ := minio.New("s3.example.com:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
//	    Secure: true,
//	})
//	store := minioblob.NewStore(client, "my-bucket", "dumps/")
package minio
