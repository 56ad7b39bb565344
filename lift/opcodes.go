package lift

import "github.com/wasmlift/wasmlift/ir"

// Base instruction opcodes, per https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#instructions
// and the exception-handling proposal's additions (try/catch/throw/rethrow/delegate/catch_all).
const (
	opUnreachable byte = 0x00
	opNop         byte = 0x01
	opBlock       byte = 0x02
	opLoop        byte = 0x03
	opIf          byte = 0x04
	opElse        byte = 0x05
	opTry         byte = 0x06
	opCatch       byte = 0x07
	opThrow       byte = 0x08
	opRethrow     byte = 0x09
	opEnd         byte = 0x0b
	opBr          byte = 0x0c
	opBrIf        byte = 0x0d
	opReturn      byte = 0x0f
	opCall        byte = 0x10
	opDelegate    byte = 0x18
	opCatchAll    byte = 0x19

	opLocalGet  byte = 0x20
	opLocalSet  byte = 0x21
	opGlobalGet byte = 0x23
	opGlobalSet byte = 0x24

	opTableGet byte = 0x25
	opTableSet byte = 0x26

	opMemorySize byte = 0x3f
	opMemoryGrow byte = 0x40

	opConstI32 byte = 0x41
	opConstI64 byte = 0x42
	opConstF32 byte = 0x43
	opConstF64 byte = 0x44

	opSimdPrefix byte = 0xfd
)

// blockType is the immediate that follows block/loop/if/try: the empty type 0x40, or a value
// type byte for a single-result block.
func blockType(result ir.ILType) byte {
	if result.Kind == ir.KindNothing {
		return 0x40
	}
	return result.ValueType()
}

var memLoadOpcode = map[ir.MemWidth]byte{
	ir.MemI32:        0x28,
	ir.MemI64:        0x29,
	ir.MemF32:        0x2a,
	ir.MemF64:        0x2b,
	ir.MemI32Load8S:  0x2c,
	ir.MemI32Load8U:  0x2d,
	ir.MemI32Load16S: 0x2e,
	ir.MemI32Load16U: 0x2f,
	ir.MemI64Load8S:  0x30,
	ir.MemI64Load8U:  0x31,
	ir.MemI64Load16S: 0x32,
	ir.MemI64Load16U: 0x33,
	ir.MemI64Load32S: 0x34,
	ir.MemI64Load32U: 0x35,
}

var memStoreOpcode = map[ir.MemWidth]byte{
	ir.MemI32:         0x36,
	ir.MemI64:         0x37,
	ir.MemF32:         0x38,
	ir.MemF64:         0x39,
	ir.MemI32Store8:   0x3a,
	ir.MemI32Store16:  0x3b,
	ir.MemI64Store8:   0x3c,
	ir.MemI64Store16:  0x3d,
	ir.MemI64Store32:  0x3e,
}

// memValueKind reports the value type a load of width w produces (and a store of width w
// consumes).
func memValueKind(w ir.MemWidth) ir.Kind {
	switch w {
	case ir.MemI64, ir.MemI64Load8S, ir.MemI64Load8U, ir.MemI64Load16S, ir.MemI64Load16U,
		ir.MemI64Load32S, ir.MemI64Load32U, ir.MemI64Store8, ir.MemI64Store16, ir.MemI64Store32:
		return ir.KindI64
	case ir.MemF32:
		return ir.KindF32
	case ir.MemF64:
		return ir.KindF64
	default:
		return ir.KindI32
	}
}

var i32UnaryOpcode = map[ir.NumericOp]byte{ir.NumClz: 0x67, ir.NumCtz: 0x68, ir.NumPopcnt: 0x69}
var i32BinaryOpcode = map[ir.NumericOp]byte{
	ir.NumAdd: 0x6a, ir.NumSub: 0x6b, ir.NumMul: 0x6c, ir.NumDivS: 0x6d, ir.NumDivU: 0x6e,
	ir.NumRemS: 0x6f, ir.NumRemU: 0x70, ir.NumAnd: 0x71, ir.NumOr: 0x72, ir.NumXor: 0x73,
	ir.NumShl: 0x74, ir.NumShrS: 0x75, ir.NumShrU: 0x76, ir.NumRotl: 0x77, ir.NumRotr: 0x78,
}
var i32CompareOpcode = map[ir.NumericOp]byte{
	ir.NumEqz: 0x45, ir.NumEq: 0x46, ir.NumNe: 0x47, ir.NumLtS: 0x48, ir.NumLtU: 0x49,
	ir.NumGtS: 0x4a, ir.NumGtU: 0x4b, ir.NumLeS: 0x4c, ir.NumLeU: 0x4d, ir.NumGeS: 0x4e, ir.NumGeU: 0x4f,
}

var i64UnaryOpcode = map[ir.NumericOp]byte{ir.NumClz: 0x79, ir.NumCtz: 0x7a, ir.NumPopcnt: 0x7b}
var i64BinaryOpcode = map[ir.NumericOp]byte{
	ir.NumAdd: 0x7c, ir.NumSub: 0x7d, ir.NumMul: 0x7e, ir.NumDivS: 0x7f, ir.NumDivU: 0x80,
	ir.NumRemS: 0x81, ir.NumRemU: 0x82, ir.NumAnd: 0x83, ir.NumOr: 0x84, ir.NumXor: 0x85,
	ir.NumShl: 0x86, ir.NumShrS: 0x87, ir.NumShrU: 0x88, ir.NumRotl: 0x89, ir.NumRotr: 0x8a,
}
var i64CompareOpcode = map[ir.NumericOp]byte{
	ir.NumEqz: 0x50, ir.NumEq: 0x51, ir.NumNe: 0x52, ir.NumLtS: 0x53, ir.NumLtU: 0x54,
	ir.NumGtS: 0x55, ir.NumGtU: 0x56, ir.NumLeS: 0x57, ir.NumLeU: 0x58, ir.NumGeS: 0x59, ir.NumGeU: 0x5a,
}

// float binary tables reuse NumDivS for the division operator: NumericOp has no signedness-free
// "div" entry, and floats have no signed/unsigned distinction.
var f32UnaryOpcode = map[ir.NumericOp]byte{
	ir.NumAbs: 0x8b, ir.NumNeg: 0x8c, ir.NumCeil: 0x8d, ir.NumFloor: 0x8e, ir.NumTrunc: 0x8f,
	ir.NumNearest: 0x90, ir.NumSqrt: 0x91,
}
var f32BinaryOpcode = map[ir.NumericOp]byte{
	ir.NumAdd: 0x92, ir.NumSub: 0x93, ir.NumMul: 0x94, ir.NumDivS: 0x95, ir.NumMin: 0x96,
	ir.NumMax: 0x97, ir.NumCopysign: 0x98,
}
var f32CompareOpcode = map[ir.NumericOp]byte{
	ir.NumEq: 0x5b, ir.NumNe: 0x5c, ir.NumLt: 0x5d, ir.NumGt: 0x5e, ir.NumLe: 0x5f, ir.NumGe: 0x60,
}

var f64UnaryOpcode = map[ir.NumericOp]byte{
	ir.NumAbs: 0x99, ir.NumNeg: 0x9a, ir.NumCeil: 0x9b, ir.NumFloor: 0x9c, ir.NumTrunc: 0x9d,
	ir.NumNearest: 0x9e, ir.NumSqrt: 0x9f,
}
var f64BinaryOpcode = map[ir.NumericOp]byte{
	ir.NumAdd: 0xa0, ir.NumSub: 0xa1, ir.NumMul: 0xa2, ir.NumDivS: 0xa3, ir.NumMin: 0xa4,
	ir.NumMax: 0xa5, ir.NumCopysign: 0xa6,
}
var f64CompareOpcode = map[ir.NumericOp]byte{
	ir.NumEq: 0x61, ir.NumNe: 0x62, ir.NumLt: 0x63, ir.NumGt: 0x64, ir.NumLe: 0x65, ir.NumGe: 0x66,
}

var convertOpcode = map[ir.ConvertKind]byte{
	ir.ConvI32WrapI64:       0xa7,
	ir.ConvI32TruncF32S:     0xa8,
	ir.ConvI32TruncF32U:     0xa9,
	ir.ConvI32TruncF64S:     0xaa,
	ir.ConvI32TruncF64U:     0xab,
	ir.ConvI64ExtendI32S:    0xac,
	ir.ConvI64ExtendI32U:    0xad,
	ir.ConvI64TruncF32S:     0xae,
	ir.ConvI64TruncF32U:     0xaf,
	ir.ConvI64TruncF64S:     0xb0,
	ir.ConvI64TruncF64U:     0xb1,
	ir.ConvF32ConvertI32S:   0xb2,
	ir.ConvF32ConvertI32U:   0xb3,
	ir.ConvF32ConvertI64S:   0xb4,
	ir.ConvF32ConvertI64U:   0xb5,
	ir.ConvF32DemoteF64:     0xb6,
	ir.ConvF64ConvertI32S:   0xb7,
	ir.ConvF64ConvertI32U:   0xb8,
	ir.ConvF64ConvertI64S:   0xb9,
	ir.ConvF64ConvertI64U:   0xba,
	ir.ConvF64PromoteF32:    0xbb,
	ir.ConvI32ReinterpretF32: 0xbc,
	ir.ConvI64ReinterpretF64: 0xbd,
	ir.ConvF32ReinterpretI32: 0xbe,
	ir.ConvF64ReinterpretI64: 0xbf,
}

// convertResultKind reports the Wasm value type a conversion produces.
func convertResultKind(c ir.ConvertKind) ir.Kind {
	switch c {
	case ir.ConvI32WrapI64, ir.ConvI32TruncF32S, ir.ConvI32TruncF32U, ir.ConvI32TruncF64S,
		ir.ConvI32TruncF64U, ir.ConvI32ReinterpretF32:
		return ir.KindI32
	case ir.ConvI64ExtendI32S, ir.ConvI64ExtendI32U, ir.ConvI64TruncF32S, ir.ConvI64TruncF32U,
		ir.ConvI64TruncF64S, ir.ConvI64TruncF64U, ir.ConvI64ReinterpretF64:
		return ir.KindI64
	case ir.ConvF32ConvertI32S, ir.ConvF32ConvertI32U, ir.ConvF32ConvertI64S, ir.ConvF32ConvertI64U,
		ir.ConvF32DemoteF64, ir.ConvF32ReinterpretI32:
		return ir.KindF32
	default:
		return ir.KindF64
	}
}

// simdKey identifies SIMD (0xFD-prefixed) operators this compiler supports: a representative
// core subset (arithmetic, negation/absolute value, and the full comparison family) per shape, not
// the SIMD proposal's entire opcode table (spec §4.3 explicitly scopes SIMD support to what a
// fuzzer-driven lifter is expected to reach).
type simdKey struct {
	shape ir.SimdShape
	op    ir.NumericOp
}

var simdConst = byte(0x0c)

var simdOpcode = map[simdKey]byte{
	{ir.ShapeI8x16, ir.NumAdd}: 0x6e, {ir.ShapeI8x16, ir.NumSub}: 0x71,
	{ir.ShapeI8x16, ir.NumNeg}: 0x61, {ir.ShapeI8x16, ir.NumAbs}: 0x60,
	{ir.ShapeI8x16, ir.NumEq}: 0x23, {ir.ShapeI8x16, ir.NumNe}: 0x24,
	{ir.ShapeI8x16, ir.NumLtS}: 0x25, {ir.ShapeI8x16, ir.NumLtU}: 0x26,
	{ir.ShapeI8x16, ir.NumGtS}: 0x27, {ir.ShapeI8x16, ir.NumGtU}: 0x28,
	{ir.ShapeI8x16, ir.NumLeS}: 0x29, {ir.ShapeI8x16, ir.NumLeU}: 0x2a,
	{ir.ShapeI8x16, ir.NumGeS}: 0x2b, {ir.ShapeI8x16, ir.NumGeU}: 0x2c,

	{ir.ShapeI16x8, ir.NumAdd}: 0x8e, {ir.ShapeI16x8, ir.NumSub}: 0x91, {ir.ShapeI16x8, ir.NumMul}: 0x95,
	{ir.ShapeI16x8, ir.NumNeg}: 0x81, {ir.ShapeI16x8, ir.NumAbs}: 0x80,
	{ir.ShapeI16x8, ir.NumEq}: 0x2d, {ir.ShapeI16x8, ir.NumNe}: 0x2e,
	{ir.ShapeI16x8, ir.NumLtS}: 0x2f, {ir.ShapeI16x8, ir.NumLtU}: 0x30,
	{ir.ShapeI16x8, ir.NumGtS}: 0x31, {ir.ShapeI16x8, ir.NumGtU}: 0x32,
	{ir.ShapeI16x8, ir.NumLeS}: 0x33, {ir.ShapeI16x8, ir.NumLeU}: 0x34,
	{ir.ShapeI16x8, ir.NumGeS}: 0x35, {ir.ShapeI16x8, ir.NumGeU}: 0x36,

	{ir.ShapeI32x4, ir.NumAdd}: 0xae, {ir.ShapeI32x4, ir.NumSub}: 0xb1, {ir.ShapeI32x4, ir.NumMul}: 0xb5,
	{ir.ShapeI32x4, ir.NumNeg}: 0xa1, {ir.ShapeI32x4, ir.NumAbs}: 0xa0,
	{ir.ShapeI32x4, ir.NumEq}: 0x37, {ir.ShapeI32x4, ir.NumNe}: 0x38,
	{ir.ShapeI32x4, ir.NumLtS}: 0x39, {ir.ShapeI32x4, ir.NumLtU}: 0x3a,
	{ir.ShapeI32x4, ir.NumGtS}: 0x3b, {ir.ShapeI32x4, ir.NumGtU}: 0x3c,
	{ir.ShapeI32x4, ir.NumLeS}: 0x3d, {ir.ShapeI32x4, ir.NumLeU}: 0x3e,
	{ir.ShapeI32x4, ir.NumGeS}: 0x3f, {ir.ShapeI32x4, ir.NumGeU}: 0x40,

	{ir.ShapeI64x2, ir.NumAdd}: 0xce, {ir.ShapeI64x2, ir.NumSub}: 0xd1, {ir.ShapeI64x2, ir.NumMul}: 0xd5,
	{ir.ShapeI64x2, ir.NumNeg}: 0xc1, {ir.ShapeI64x2, ir.NumAbs}: 0xc0,
	{ir.ShapeI64x2, ir.NumEq}: 0xd6, {ir.ShapeI64x2, ir.NumNe}: 0xd7,
	{ir.ShapeI64x2, ir.NumLtS}: 0xd8, {ir.ShapeI64x2, ir.NumGtS}: 0xd9,
	{ir.ShapeI64x2, ir.NumLeS}: 0xda, {ir.ShapeI64x2, ir.NumGeS}: 0xdb,

	{ir.ShapeF32x4, ir.NumAdd}: 0xe4, {ir.ShapeF32x4, ir.NumSub}: 0xe5, {ir.ShapeF32x4, ir.NumMul}: 0xe6,
	{ir.ShapeF32x4, ir.NumDivS}: 0xe7, {ir.ShapeF32x4, ir.NumMin}: 0xe8, {ir.ShapeF32x4, ir.NumMax}: 0xe9,
	{ir.ShapeF32x4, ir.NumNeg}: 0xe1, {ir.ShapeF32x4, ir.NumAbs}: 0xe0,
	{ir.ShapeF32x4, ir.NumEq}: 0x41, {ir.ShapeF32x4, ir.NumNe}: 0x42,
	{ir.ShapeF32x4, ir.NumLt}: 0x43, {ir.ShapeF32x4, ir.NumGt}: 0x44,
	{ir.ShapeF32x4, ir.NumLe}: 0x45, {ir.ShapeF32x4, ir.NumGe}: 0x46,

	{ir.ShapeF64x2, ir.NumAdd}: 0xf0, {ir.ShapeF64x2, ir.NumSub}: 0xf1, {ir.ShapeF64x2, ir.NumMul}: 0xf2,
	{ir.ShapeF64x2, ir.NumDivS}: 0xf3, {ir.ShapeF64x2, ir.NumMin}: 0xf4, {ir.ShapeF64x2, ir.NumMax}: 0xf5,
	{ir.ShapeF64x2, ir.NumNeg}: 0xed, {ir.ShapeF64x2, ir.NumAbs}: 0xec,
	{ir.ShapeF64x2, ir.NumEq}: 0x47, {ir.ShapeF64x2, ir.NumNe}: 0x48,
	{ir.ShapeF64x2, ir.NumLt}: 0x49, {ir.ShapeF64x2, ir.NumGt}: 0x4a,
	{ir.ShapeF64x2, ir.NumLe}: 0x4b, {ir.ShapeF64x2, ir.NumGe}: 0x4c,
}
