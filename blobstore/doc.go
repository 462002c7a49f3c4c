// Package blobstore provides the storage abstraction for knowledge base artifacts.
//
// Artifacts (vector blocks, record blocks, manifests) are immutable once
// written. The only mutable blob is the CURRENT pointer, which is replaced
// with a single atomic Put. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, atomic rename on write, mmap on read
//   - MemoryStore: in-memory, for tests and ephemeral builds
//   - CachingStore: read-through cache in front of a remote store
//   - s3.Store: Amazon S3 with multipart uploads
//   - s3.DDBCommitStore: S3 artifacts with a DynamoDB commit pointer
//   - minio.Store: MinIO and other S3-compatible object stores
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
