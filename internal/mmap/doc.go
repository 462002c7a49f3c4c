// Package mmap provides read-only memory mapping of local files.
//
// On unix platforms files are mapped with golang.org/x/sys/unix; elsewhere the
// file is read into memory so callers see the same Bytes/ReadAt contract.
package mmap
