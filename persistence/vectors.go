package persistence

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/growbot/faqrag/internal/compress"
	"github.com/growbot/faqrag/internal/hash"
)

// VectorHeader describes a vector artifact.
type VectorHeader struct {
	Version     uint32
	Compression compress.Type
	Dim         uint32
	Count       uint64
	PayloadLen  uint32
	Checksum    uint32
}

// EncodeVectors serializes a contiguous block of count*dim float32 values.
func EncodeVectors(dim int, data []float32, ct compress.Type) ([]byte, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("persistence: invalid dimension %d", dim)
	}
	if len(data)%dim != 0 {
		return nil, fmt.Errorf("persistence: %d values is not a multiple of dimension %d", len(data), dim)
	}

	raw := make([]byte, len(data)*4)
	putFloat32s(raw, data)

	payload, err := compress.Compress(ct, raw)
	if err != nil {
		return nil, err
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, compress.ErrTooLarge
	}

	out := make([]byte, VectorHeaderSize+len(payload))
	copy(out[0:4], VectorMagic)
	binary.LittleEndian.PutUint32(out[4:], Version)
	out[8] = byte(ct)
	binary.LittleEndian.PutUint32(out[12:], uint32(dim))
	binary.LittleEndian.PutUint64(out[16:], uint64(len(data)/dim))
	binary.LittleEndian.PutUint32(out[24:], uint32(len(payload)))
	binary.LittleEndian.PutUint32(out[28:], hash.CRC32C(payload))
	copy(out[VectorHeaderSize:], payload)
	return out, nil
}

// ReadVectorHeader parses and validates the fixed header.
func ReadVectorHeader(b []byte) (VectorHeader, error) {
	var h VectorHeader
	if len(b) < VectorHeaderSize {
		return h, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncated, len(b), VectorHeaderSize)
	}
	if string(b[0:4]) != VectorMagic {
		return h, fmt.Errorf("%w: got %q", ErrInvalidMagic, b[0:4])
	}
	h.Version = binary.LittleEndian.Uint32(b[4:])
	if h.Version != Version {
		return h, fmt.Errorf("%w: got %d", ErrInvalidVersion, h.Version)
	}
	h.Compression = compress.Type(b[8])
	h.Dim = binary.LittleEndian.Uint32(b[12:])
	h.Count = binary.LittleEndian.Uint64(b[16:])
	h.PayloadLen = binary.LittleEndian.Uint32(b[24:])
	h.Checksum = binary.LittleEndian.Uint32(b[28:])
	return h, nil
}

// DecodeVectors parses a vector artifact and returns its dimension and the
// contiguous vector data.
func DecodeVectors(b []byte) (VectorHeader, []float32, error) {
	h, err := ReadVectorHeader(b)
	if err != nil {
		return h, nil, err
	}

	payload := b[VectorHeaderSize:]
	if uint64(len(payload)) != uint64(h.PayloadLen) {
		return h, nil, fmt.Errorf("%w: payload has %d bytes, header says %d", ErrTruncated, len(payload), h.PayloadLen)
	}
	if sum := hash.CRC32C(payload); sum != h.Checksum {
		return h, nil, &ChecksumMismatchError{Expected: h.Checksum, Actual: sum}
	}

	raw, err := compress.Decompress(h.Compression, payload)
	if err != nil {
		return h, nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if h.Dim == 0 {
		return h, nil, fmt.Errorf("%w: zero dimension", ErrCorrupt)
	}
	want := h.Count * uint64(h.Dim) * 4
	if uint64(len(raw)) != want {
		return h, nil, fmt.Errorf("%w: %d vectors of dim %d need %d bytes, have %d", ErrCountMismatch, h.Count, h.Dim, want, len(raw))
	}

	data := make([]float32, len(raw)/4)
	getFloat32s(data, raw)
	return h, data, nil
}

func putFloat32s(dst []byte, src []float32) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

func getFloat32s(dst []float32, src []byte) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
}
