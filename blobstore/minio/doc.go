// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works against MinIO and other S3-compatible systems (Ceph, Garage,
// SeaweedFS) without pulling in the AWS credential chain.
//
// # Basic Usage
//
//	store, err := minio.Dial("localhost:9000", "minioadmin", "minioadmin", false, "faq", "kb/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	kb, err := knowledge.Load(ctx, store)
package minio
