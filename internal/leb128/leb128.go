// Package leb128 implements the unsigned and signed LEB128 variable-length integer encoding
// used throughout the WebAssembly binary format: section and vector lengths, type, function,
// global, table, memory and tag indices, branch depths, and signed immediates such as memory
// offsets and i32/i64 constants.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-int
package leb128

import (
	"errors"
	"io"
)

const (
	maxVarintLen32 = 5
	maxVarintLen64 = 10
)

// EncodeUint32 encodes v as an unsigned LEB128 byte sequence.
func EncodeUint32(v uint32) []byte {
	return EncodeUint64(uint64(v))
}

// EncodeUint64 encodes v as an unsigned LEB128 byte sequence.
func EncodeUint64(v uint64) []byte {
	out := make([]byte, 0, maxVarintLen64)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			return out
		}
	}
}

// EncodeInt32 encodes v as a signed LEB128 byte sequence.
func EncodeInt32(v int32) []byte {
	return EncodeInt64(int64(v))
}

// EncodeInt64 encodes v as a signed LEB128 byte sequence.
func EncodeInt64(v int64) []byte {
	out := make([]byte, 0, maxVarintLen64)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		// Sign bit of b is set when the remaining value is all 1s (negative) or
		// all 0s (positive); either case means we're done once it matches v's sign.
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			out = append(out, b)
			return out
		}
		out = append(out, b|0x80)
	}
}

// LoadUint32 decodes an unsigned LEB128 value from the head of buf, returning the value, the
// number of bytes consumed, and an error if buf is truncated or the encoding overflows 32 bits.
func LoadUint32(buf []byte) (uint32, uint64, error) {
	v, n, err := loadUint(buf, 32)
	return uint32(v), n, err
}

// LoadUint64 decodes an unsigned LEB128 value from the head of buf.
func LoadUint64(buf []byte) (uint64, uint64, error) {
	return loadUint(buf, 64)
}

// LoadInt32 decodes a signed LEB128 value from the head of buf.
func LoadInt32(buf []byte) (int32, uint64, error) {
	v, n, err := loadInt(buf, 32)
	return int32(v), n, err
}

// LoadInt64 decodes a signed LEB128 value from the head of buf.
func LoadInt64(buf []byte) (int64, uint64, error) {
	return loadInt(buf, 64)
}

func loadUint(buf []byte, bitSize int) (uint64, uint64, error) {
	var result uint64
	var shift uint
	maxLen := maxVarintLen32
	if bitSize == 64 {
		maxLen = maxVarintLen64
	}
	for i := 0; i < len(buf); i++ {
		if i == maxLen {
			return 0, 0, errors.New("leb128: overflow decoding unsigned integer")
		}
		b := buf[i]
		cont := b & 0x80
		result |= uint64(b&0x7f) << shift
		if cont == 0 {
			if bitSize < 64 {
				if shift >= uint(bitSize) {
					return 0, 0, errors.New("leb128: overflow decoding unsigned integer")
				}
				overflowMask := uint64(1)<<uint(bitSize) - 1
				if result&^overflowMask != 0 {
					return 0, 0, errors.New("leb128: overflow decoding unsigned integer")
				}
			} else if i == maxLen-1 && b > 1 {
				// The tenth byte holds only bit 63; any higher bit overflows 64 bits.
				return 0, 0, errors.New("leb128: overflow decoding unsigned integer")
			}
			return result, uint64(i + 1), nil
		}
		shift += 7
	}
	return 0, 0, io.ErrUnexpectedEOF
}

func loadInt(buf []byte, bitSize int) (int64, uint64, error) {
	var result int64
	var shift uint
	var b byte
	maxLen := maxVarintLen32
	if bitSize == 64 {
		maxLen = maxVarintLen64
	}
	i := 0
	for ; i < len(buf); i++ {
		if i == maxLen {
			return 0, 0, errors.New("leb128: overflow decoding signed integer")
		}
		b = buf[i]
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if i == len(buf) {
		return 0, 0, io.ErrUnexpectedEOF
	}
	// Sign extend if the sign bit of the last group is set and there are unfilled bits.
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	if bitSize < 64 {
		result = int64(int32(result))
	}
	return result, uint64(i + 1), nil
}

// DecodeUint32 reads an unsigned LEB128 value one byte at a time from r, returning the value and
// the number of bytes consumed.
func DecodeUint32(r io.ByteReader) (uint32, uint64, error) {
	v, n, err := decodeUintReader(r, 32)
	return uint32(v), n, err
}

// DecodeInt32 reads a signed LEB128 value one byte at a time from r, returning the value and the
// number of bytes consumed.
func DecodeInt32(r io.ByteReader) (int32, uint64, error) {
	v, n, err := decodeIntReader(r, 32)
	return int32(v), n, err
}

// DecodeInt64 reads a signed LEB128 value one byte at a time from r, returning the value and the
// number of bytes consumed.
func DecodeInt64(r io.ByteReader) (int64, uint64, error) {
	return decodeIntReader(r, 64)
}

func decodeUintReader(r io.ByteReader, bitSize int) (uint64, uint64, error) {
	var result uint64
	var shift uint
	var n uint64
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, 0, err
		}
		n++
		result |= uint64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			return result, n, nil
		}
		if shift >= 64 {
			return 0, 0, errors.New("leb128: overflow decoding unsigned integer")
		}
	}
}

func decodeIntReader(r io.ByteReader, bitSize int) (int64, uint64, error) {
	var result int64
	var shift uint
	var b byte
	var n uint64
	for {
		var err error
		b, err = r.ReadByte()
		if err != nil {
			return 0, 0, err
		}
		n++
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	if bitSize < 64 {
		result = int64(int32(result))
	}
	return result, n, nil
}
