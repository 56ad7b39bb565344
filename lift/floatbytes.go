package lift

import (
	"encoding/binary"
	"math"
)

// encodeF32LE encodes v as the 4 little-endian bytes the binary format uses for an f32.const
// immediate (spec: https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-float).
func encodeF32LE(v float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	return b
}

// encodeF64LE encodes v as the 8 little-endian bytes the binary format uses for an f64.const
// immediate.
func encodeF64LE(v float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return b
}
