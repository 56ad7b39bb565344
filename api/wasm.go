// Package api includes the constants shared between the lifter, the emitter and the section
// builders: value types, external kinds, and the section identifiers of the binary format.
package api

import "fmt"

// ExternType classifies imports and exports with their respective types.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#external-types%E2%91%A0
type ExternType = byte

const (
	ExternTypeFunc   ExternType = 0x00
	ExternTypeTable  ExternType = 0x01
	ExternTypeMemory ExternType = 0x02
	ExternTypeGlobal ExternType = 0x03
	// ExternTypeTag classifies an exception-handling tag import or export.
	//
	// See https://webassembly.github.io/exception-handling/core/binary/modules.html#binary-importdesc
	ExternTypeTag ExternType = 0x04
)

// The below are exported to consolidate parsing behavior for external types.
const (
	ExternTypeFuncName   = "func"
	ExternTypeTableName  = "table"
	ExternTypeMemoryName = "memory"
	ExternTypeGlobalName = "global"
	ExternTypeTagName    = "tag"
)

// ExternTypeName returns the name of the WebAssembly 1.0 (20191205) Text Format field of the given type.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#exports%E2%91%A4
func ExternTypeName(et ExternType) string {
	switch et {
	case ExternTypeFunc:
		return ExternTypeFuncName
	case ExternTypeTable:
		return ExternTypeTableName
	case ExternTypeMemory:
		return ExternTypeMemoryName
	case ExternTypeGlobal:
		return ExternTypeGlobalName
	case ExternTypeTag:
		return ExternTypeTagName
	}
	return fmt.Sprintf("%#x", et)
}

// ValueType describes a numeric type that can live on the Wasm operand stack or be used as a
// local, global, parameter or result. Ex. Function parameters and results are only definable as
// a value type.
//
// Note: This is a type alias as it is easier to encode and decode in the binary format.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-valtype
type ValueType = byte

const (
	// ValueTypeI32 is a 32-bit integer.
	ValueTypeI32 ValueType = 0x7f
	// ValueTypeI64 is a 64-bit integer.
	ValueTypeI64 ValueType = 0x7e
	// ValueTypeF32 is a 32-bit floating point number.
	ValueTypeF32 ValueType = 0x7d
	// ValueTypeF64 is a 64-bit floating point number.
	ValueTypeF64 ValueType = 0x7c
	// ValueTypeV128 is a 128-bit vector value used by the SIMD proposal.
	//
	// See https://github.com/WebAssembly/simd
	ValueTypeV128 ValueType = 0x7b
	// ValueTypeFuncref is an opaque reference to a function.
	ValueTypeFuncref ValueType = 0x70
	// ValueTypeExternref is an opaque reference to a host-defined value.
	//
	// Note: in wasmlift, externref values are opaque raw 64-bit handles and are never
	// dereferenced by the compiler itself; only the host embedder interprets them.
	ValueTypeExternref ValueType = 0x6f
)

// ValueTypeName returns the type name of the given ValueType as used in the WebAssembly text
// format, or "unknown" if t is not a recognized ValueType.
func ValueTypeName(t ValueType) string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	case ValueTypeV128:
		return "v128"
	case ValueTypeFuncref:
		return "funcref"
	case ValueTypeExternref:
		return "externref"
	}
	return "unknown"
}

// SectionID identifies a section of a binary-encoded module, in the order prescribed by
// https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#sections%E2%91%A0, plus the tag section
// added by the exception-handling proposal.
type SectionID = byte

const (
	SectionIDCustom   SectionID = 0
	SectionIDType     SectionID = 1
	SectionIDImport   SectionID = 2
	SectionIDFunction SectionID = 3
	SectionIDTable    SectionID = 4
	SectionIDMemory   SectionID = 5
	SectionIDGlobal   SectionID = 6
	SectionIDExport   SectionID = 7
	SectionIDStart    SectionID = 8
	SectionIDElement  SectionID = 9
	SectionIDCode     SectionID = 10
	SectionIDData     SectionID = 11
	SectionIDDataCount SectionID = 12
	// SectionIDTag is defined by the exception-handling proposal.
	//
	// See https://webassembly.github.io/exception-handling/core/binary/modules.html#tag-section
	SectionIDTag SectionID = 13
)
