// Package hash provides the checksum used to detect corrupted artifacts.
//
// All artifact checksums use CRC32-Castagnoli (CRC32C), which Go's hash/crc32
// computes with hardware instructions where available (SSE4.2, ARM CRC).
//
//	checksum := hash.CRC32C(data)
//
// CRC32C detects accidental corruption such as truncation or bit flips. It is
// not a tamper check.
package hash
