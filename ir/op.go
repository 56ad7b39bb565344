package ir

// Op is a tagged variant over the closed set of Wasm IR operations the JS lifter can emit. A
// closed set is known at build time, so the emitter dispatches on Op via an exhaustive switch
// rather than a capability/visitor object (spec §9 Design Notes: Polymorphic op handling).
type Op int

const (
	OpInvalid Op = iota

	// Function structure.
	OpBeginWasmFunction
	OpEndWasmFunction
	OpNop
	OpReassign

	// Module-scoped definitions, absorbed entirely by the Import Analyzer; they require no
	// byte emission of their own (updateLifterState returns false for these).
	OpWasmDefineGlobal
	OpWasmDefineTable
	OpWasmDefineMemory
	OpWasmDefineTag

	// Global / memory / table / tag access ("glue ops": their module-level input is resolved
	// directly to a binary index rather than loaded from a local or the expression cache).
	OpWasmLoadGlobal
	OpWasmStoreGlobal
	OpWasmMemoryLoad
	OpWasmMemoryStore
	OpWasmTableGet
	OpWasmTableSet

	// Calls and exceptions.
	OpWasmJsCall
	OpWasmBeginCatch
	OpWasmCatchAll
	OpWasmThrow
	OpWasmRethrow
	OpWasmDelegate

	// Structured control flow.
	OpBlock
	OpLoop
	OpIf
	OpElse
	OpEnd
	OpBr
	OpBrIf
	OpReturn
	OpUnreachable

	// Constants.
	OpConstI32
	OpConstI64
	OpConstF32
	OpConstF64
	OpConstV128

	// Numeric operators. The specific operator (e.g. add vs. sub) is carried in
	// Instruction.Numeric; Op only distinguishes shape (unary/binary/compare) and width.
	OpI32Unary
	OpI32Binary
	OpI32Compare
	OpI64Unary
	OpI64Binary
	OpI64Compare
	OpF32Unary
	OpF32Binary
	OpF32Compare
	OpF64Unary
	OpF64Binary
	OpF64Compare
	OpConvert

	// SIMD.
	OpSimdIntUnary
	OpSimdIntBinary
	OpSimdIntCompare
	OpSimdFloatUnary
	OpSimdFloatBinary
	OpSimdFloatCompare
)

// NumericOp names the specific operator carried by a numeric Instruction (e.g. which of
// i32.eq..i32.ge_u a OpI32Compare represents).
type NumericOp int

const (
	NumAdd NumericOp = iota
	NumSub
	NumMul
	NumDivS
	NumDivU
	NumRemS
	NumRemU
	NumAnd
	NumOr
	NumXor
	NumShl
	NumShrS
	NumShrU
	NumRotl
	NumRotr
	NumClz
	NumCtz
	NumPopcnt
	NumEqz
	NumEq
	NumNe
	NumLtS
	NumLtU
	NumGtS
	NumGtU
	NumLeS
	NumLeU
	NumGeS
	NumGeU
	NumAbs
	NumNeg
	NumCeil
	NumFloor
	NumTrunc
	NumNearest
	NumSqrt
	NumLt
	NumGt
	NumLe
	NumGe
	NumMin
	NumMax
	NumCopysign
)

// ConvertKind identifies a (fromType, toType, signed?) numeric conversion, looked up in a static
// table by the emitter (spec §4.3).
type ConvertKind int

const (
	ConvI32WrapI64 ConvertKind = iota
	ConvI64ExtendI32S
	ConvI64ExtendI32U
	ConvI32TruncF32S
	ConvI32TruncF32U
	ConvI32TruncF64S
	ConvI32TruncF64U
	ConvI64TruncF32S
	ConvI64TruncF32U
	ConvI64TruncF64S
	ConvI64TruncF64U
	ConvF32ConvertI32S
	ConvF32ConvertI32U
	ConvF32ConvertI64S
	ConvF32ConvertI64U
	ConvF32DemoteF64
	ConvF64ConvertI32S
	ConvF64ConvertI32U
	ConvF64ConvertI64S
	ConvF64ConvertI64U
	ConvF64PromoteF32
	ConvI32ReinterpretF32
	ConvI64ReinterpretF64
	ConvF32ReinterpretI32
	ConvF64ReinterpretI64
)

// MemWidth identifies the (value type, bit width, signed?) shape of a memory load/store.
type MemWidth int

const (
	MemI32 MemWidth = iota
	MemI64
	MemF32
	MemF64
	MemI32Load8S
	MemI32Load8U
	MemI32Load16S
	MemI32Load16U
	MemI64Load8S
	MemI64Load8U
	MemI64Load16S
	MemI64Load16U
	MemI64Load32S
	MemI64Load32U
	MemI32Store8
	MemI32Store16
	MemI64Store8
	MemI64Store16
	MemI64Store32
)

// SimdShape identifies the lane shape of a SIMD operation, per the Wasm SIMD proposal's opcode
// tables (spec §4.3: "implementers must consult the Wasm SIMD opcode table verbatim").
type SimdShape int

const (
	ShapeI8x16 SimdShape = iota
	ShapeI16x8
	ShapeI32x4
	ShapeI64x2
	ShapeF32x4
	ShapeF64x2
)

// Instruction is one entry of the append-only Code buffer: an operation tagged with its inputs,
// an optional single output, and zero or more inner outputs visible only inside the block the op
// opens (function parameters, block labels, catch-bound exceptions).
type Instruction struct {
	Op     Op
	Inputs []Variable
	// Output is VariableNone when the op produces no value.
	Output Variable
	// InnerOutputs holds values scoped to the block this op opens: index 0 is always a fresh
	// label for any block-opening op (spec invariant 3); BeginWasmFunction's inner outputs are
	// its parameters; BeginCatch's inner outputs beyond the label are the exception payload.
	InnerOutputs []Variable

	// Numeric carries the specific operator for Op{I32,I64,F32,F64}{Unary,Binary,Compare} and
	// OpSimd* instructions.
	Numeric NumericOp
	// Convert carries the conversion kind for OpConvert.
	Convert ConvertKind
	// Mem carries the load/store shape for OpWasmMemoryLoad/OpWasmMemoryStore.
	Mem MemWidth
	// Shape carries the SIMD lane shape for OpSimd* instructions.
	Shape SimdShape

	// ConstI32/ConstI64/ConstF32/ConstF64/ConstV128 carry the literal value for the
	// corresponding OpConst* instruction.
	ConstI32  int32
	ConstI64  int64
	ConstF32  float32
	ConstF64  float64
	ConstV128 [16]byte

	// Offset is the static memory offset for OpWasmMemoryLoad/Store (signed-encoded to permit
	// fuzzer-chosen out-of-range values, per spec §4.3).
	Offset int64

	// FunctionSignature carries the pre-chosen JS-to-Wasm signature for OpWasmJsCall, and the
	// parameter list for OpWasmBeginCatch/OpWasmThrow/OpWasmDefineTag.
	FunctionSignature *Signature

	// Label carries the immediate operand for OpBr/OpBrIf/OpWasmDelegate/OpWasmRethrow
	// BEFORE it is resolved; it names the label Variable being targeted, not yet a depth. The
	// emitter computes the binary relative depth from this at emission time (spec §4.3).
	Label Variable
}
