// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("faq/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	kb, err := knowledge.Load(ctx, store)
//
// For concurrent builders, wrap the store with a DDBCommitStore so that the
// CURRENT pointer is advanced with a DynamoDB conditional write.
//
// # Features
//
//   - Single request reads for whole artifacts, range reads for ReadAt
//   - Multipart uploads with CRC32C integrity for large artifacts
//   - Automatic pagination for listing
//   - Configurable prefix for isolating several knowledge bases in one bucket
package s3
