package persistence

import (
	"encoding/binary"
	"fmt"

	"github.com/growbot/faqrag/codec"
	"github.com/growbot/faqrag/internal/compress"
	"github.com/growbot/faqrag/internal/hash"
)

// RecordHeader describes a record artifact.
type RecordHeader struct {
	Version     uint32
	Compression compress.Type
	Codec       codec.ID
	Count       uint64
	Checksum    uint32
}

// EncodeRecords serializes records with c.
func EncodeRecords[T any](records []T, c codec.Codec, ct compress.Type) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	id, err := codec.IDOf(c)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}

	raw, err := c.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("persistence: encode records: %w", err)
	}
	payload, err := compress.Compress(ct, raw)
	if err != nil {
		return nil, err
	}

	out := make([]byte, RecordHeaderSize+len(payload))
	copy(out[0:4], RecordMagic)
	binary.LittleEndian.PutUint32(out[4:], Version)
	out[8] = byte(ct)
	out[9] = byte(id)
	binary.LittleEndian.PutUint64(out[12:], uint64(len(records)))
	binary.LittleEndian.PutUint32(out[20:], hash.CRC32C(payload))
	copy(out[RecordHeaderSize:], payload)
	return out, nil
}

// ReadRecordHeader parses and validates the fixed header.
func ReadRecordHeader(b []byte) (RecordHeader, error) {
	var h RecordHeader
	if len(b) < RecordHeaderSize {
		return h, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncated, len(b), RecordHeaderSize)
	}
	if string(b[0:4]) != RecordMagic {
		return h, fmt.Errorf("%w: got %q", ErrInvalidMagic, b[0:4])
	}
	h.Version = binary.LittleEndian.Uint32(b[4:])
	if h.Version != Version {
		return h, fmt.Errorf("%w: got %d", ErrInvalidVersion, h.Version)
	}
	h.Compression = compress.Type(b[8])
	h.Codec = codec.ID(b[9])
	h.Count = binary.LittleEndian.Uint64(b[12:])
	h.Checksum = binary.LittleEndian.Uint32(b[20:])
	return h, nil
}

// DecodeRecords parses a record artifact written by EncodeRecords.
func DecodeRecords[T any](b []byte) (RecordHeader, []T, error) {
	h, err := ReadRecordHeader(b)
	if err != nil {
		return h, nil, err
	}

	payload := b[RecordHeaderSize:]
	if sum := hash.CRC32C(payload); sum != h.Checksum {
		return h, nil, &ChecksumMismatchError{Expected: h.Checksum, Actual: sum}
	}

	c, ok := codec.ByID(h.Codec)
	if !ok {
		return h, nil, fmt.Errorf("%w: unknown codec id %d", ErrCorrupt, h.Codec)
	}

	raw, err := compress.Decompress(h.Compression, payload)
	if err != nil {
		return h, nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	var records []T
	if err := c.Unmarshal(raw, &records); err != nil {
		return h, nil, fmt.Errorf("%w: decode records: %w", ErrCorrupt, err)
	}
	if uint64(len(records)) != h.Count {
		return h, nil, fmt.Errorf("%w: header says %d records, payload has %d", ErrCountMismatch, h.Count, len(records))
	}
	if records == nil {
		records = []T{}
	}
	return h, records, nil
}
