package ir

import "github.com/wasmlift/wasmlift/api"

// Kind discriminates the variants of ILType. Only the "plain" kinds (the Wasm value types) are
// legal Signature parameters; everything else is a structured object type that can only appear
// as a module-scoped entity (memory, table, global, tag, function, suspendable object).
type Kind int

const (
	KindI32 Kind = iota
	KindI64
	KindF32
	KindF64
	KindV128
	KindFuncref
	KindExternref
	// KindLabel marks a pseudo-variable produced as the first inner output of a structured
	// block opener; it is never loaded as a value and is skipped during input loading.
	KindLabel
	// KindNothing is the "void" type: the absence of a value, used as a function/tag result.
	KindNothing
	KindMemory
	KindTable
	KindGlobal
	KindTag
	KindFunction
	// KindSuspendableObject models WebAssembly.SuspendableObject, a host-level handle the JS
	// lifter threads through stack-switching-aware call sites. WMC never inspects its
	// contents; it is only tracked so import analysis can classify it correctly.
	KindSuspendableObject
)

func (k Kind) String() string {
	switch k {
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindV128:
		return "v128"
	case KindFuncref:
		return "funcref"
	case KindExternref:
		return "externref"
	case KindLabel:
		return "label"
	case KindNothing:
		return "nothing"
	case KindMemory:
		return "memory"
	case KindTable:
		return "table"
	case KindGlobal:
		return "global"
	case KindTag:
		return "tag"
	case KindFunction:
		return "function"
	case KindSuspendableObject:
		return "suspendable-object"
	}
	return "unknown"
}

// MemoryType describes a WasmMemory{min,max} object type.
type MemoryType struct {
	Min uint32
	Max *uint32 // nil means unbounded
}

// TableType describes a WasmTable{type,min,max} object type. ElemKind is the element's ILType kind,
// one of KindFuncref or KindExternref.
type TableType struct {
	ElemKind Kind
	Min      uint32
	Max      *uint32
}

// GlobalType describes a WasmGlobal{valueType,mutable} object type.
type GlobalType struct {
	ValueType Kind
	Mutable   bool
}

// TagType describes a WasmTag{parameters} object type: an exception tag's parameter list. Tags
// always have zero results, per the exception-handling proposal.
type TagType struct {
	Parameters []Kind
}

// ILType is the tagged variant over Wasm value types, the label marker, the "nothing" (void)
// type, and the structured object types produced by Wasm{Define,Load,Store}* operations.
type ILType struct {
	Kind   Kind
	Memory *MemoryType
	Table  *TableType
	Global *GlobalType
	Tag    *TagType
	// Function is populated when Kind == KindFunction: the signature of a callable entity
	// (import or defined function).
	Function *Signature
}

// Plain value-type constructors, used pervasively by the emitter and by test fixtures.
func I32() ILType               { return ILType{Kind: KindI32} }
func I64() ILType               { return ILType{Kind: KindI64} }
func F32() ILType               { return ILType{Kind: KindF32} }
func F64() ILType               { return ILType{Kind: KindF64} }
func V128() ILType               { return ILType{Kind: KindV128} }
func Funcref() ILType            { return ILType{Kind: KindFuncref} }
func Externref() ILType          { return ILType{Kind: KindExternref} }
func Label() ILType               { return ILType{Kind: KindLabel} }
func Nothing() ILType            { return ILType{Kind: KindNothing} }

// NewMemory builds a KindMemory ILType.
func NewMemory(min uint32, max *uint32) ILType {
	return ILType{Kind: KindMemory, Memory: &MemoryType{Min: min, Max: max}}
}

// NewTable builds a KindTable ILType.
func NewTable(elemKind Kind, min uint32, max *uint32) ILType {
	return ILType{Kind: KindTable, Table: &TableType{ElemKind: elemKind, Min: min, Max: max}}
}

// NewGlobal builds a KindGlobal ILType.
func NewGlobal(valueType Kind, mutable bool) ILType {
	return ILType{Kind: KindGlobal, Global: &GlobalType{ValueType: valueType, Mutable: mutable}}
}

// NewTag builds a KindTag ILType.
func NewTag(params []Kind) ILType {
	return ILType{Kind: KindTag, Tag: &TagType{Parameters: params}}
}

// NewFunction builds a KindFunction ILType wrapping a callable's Signature.
func NewFunction(sig Signature) ILType {
	return ILType{Kind: KindFunction, Function: &sig}
}

// IsPlain reports whether t is a legal Signature parameter/result type: a Wasm value type, not a
// structured object type, label, or void.
func (t ILType) IsPlain() bool {
	switch t.Kind {
	case KindI32, KindI64, KindF32, KindF64, KindV128, KindFuncref, KindExternref:
		return true
	default:
		return false
	}
}

// IsStructuredObject reports whether t names a module-scoped entity rather than a stack value.
// Inputs of this shape are never loaded through the local/cache machinery; they are resolved
// directly to a binary index by the opcode encoder (the "glue op" rule in spec §4.2).
func (t ILType) IsStructuredObject() bool {
	switch t.Kind {
	case KindMemory, KindTable, KindGlobal, KindTag, KindFunction, KindSuspendableObject:
		return true
	default:
		return false
	}
}

// ValueType returns the binary format ValueType byte for a plain ILType. It panics if t is not
// plain; callers must check IsPlain first.
func (t ILType) ValueType() api.ValueType {
	switch t.Kind {
	case KindI32:
		return api.ValueTypeI32
	case KindI64:
		return api.ValueTypeI64
	case KindF32:
		return api.ValueTypeF32
	case KindF64:
		return api.ValueTypeF64
	case KindV128:
		return api.ValueTypeV128
	case KindFuncref:
		return api.ValueTypeFuncref
	case KindExternref:
		return api.ValueTypeExternref
	}
	panic("ir: ValueType called on non-plain ILType " + t.Kind.String())
}

// KindFromValueType maps a binary format ValueType byte back to its plain Kind, the inverse of
// ILType.ValueType. A byte that is not a known value type maps to KindI32.
func KindFromValueType(vt api.ValueType) Kind {
	switch vt {
	case api.ValueTypeI32:
		return KindI32
	case api.ValueTypeI64:
		return KindI64
	case api.ValueTypeF32:
		return KindF32
	case api.ValueTypeF64:
		return KindF64
	case api.ValueTypeV128:
		return KindV128
	case api.ValueTypeFuncref:
		return KindFuncref
	case api.ValueTypeExternref:
		return KindExternref
	}
	return KindI32
}

// Signature is a (parameters, returnType) tuple identifying a function or tag type. Only "plain"
// entries are legal Parameters; a non-plain parameter is a BadSignature error at the point the
// signature is consulted.
type Signature struct {
	Parameters []ILType
	ReturnType ILType // Kind == KindNothing for a void return
}

// HasResult reports whether the signature returns a value.
func (s Signature) HasResult() bool {
	return s.ReturnType.Kind != KindNothing
}

// Equal reports whether two signatures describe the same parameter kinds and return kind. The
// lifter uses it to match a WasmJsCall to the import created for its (callee, signature) pair; it
// is never used to deduplicate type-section entries, and the spec (§9 Design Notes: Signature
// sharing) explicitly requires that type-section deduplication never be assumed by callers.
func (s Signature) Equal(o Signature) bool {
	if len(s.Parameters) != len(o.Parameters) {
		return false
	}
	for i := range s.Parameters {
		if s.Parameters[i].Kind != o.Parameters[i].Kind {
			return false
		}
	}
	return s.ReturnType.Kind == o.ReturnType.Kind
}
