// Package persistence implements the binary artifact formats of a knowledge base.
//
// A build produces two aligned artifacts:
//
//	Vector artifact (32-byte header, little-endian)
//	  magic "FQV1" | version u32 | compression u8 | pad[3] |
//	  dim u32 | count u64 | payloadLen u32 | crc32c u32
//	  payload: count*dim float32, optionally block-compressed
//
//	Record artifact (24-byte header, little-endian)
//	  magic "FQR1" | version u32 | compression u8 | codec u8 | pad[2] |
//	  count u64 | crc32c u32
//	  payload: codec-encoded array of records, optionally block-compressed
//
// The checksum covers the stored payload bytes. Every decoding failure wraps
// ErrCorrupt so callers can classify it with errors.Is.
package persistence
