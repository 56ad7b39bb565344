package lift

import (
	"strconv"

	"github.com/wasmlift/wasmlift/api"
	"github.com/wasmlift/wasmlift/internal/leb128"
	"github.com/wasmlift/wasmlift/ir"
)

var wasmPreamble = []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}

// buildModule assembles the final binary module from the lifter's module-scoped tables and
// finalized function bodies, in the section order the core spec prescribes (spec §4.4): Type,
// Import, Function, Table, Memory, Tag, Global, Export, Element, Code. No Start, Data or
// DataCount section is ever produced: nothing in the closed IR op set (ir.Op) introduces a start
// function or a data segment.
func (lf *Lifter) buildModule() ([]byte, error) {
	types, funcImportType, tagImportType, definedTagType, definedFuncType := lf.collectTypes()

	out := append([]byte{}, wasmPreamble...)
	if len(types) > 0 {
		out = append(out, section(api.SectionIDType, encodeTypeSection(types))...)
	}

	if len(lf.imports) > 0 {
		importPayload, err := lf.encodeImportSection(funcImportType, tagImportType)
		if err != nil {
			return nil, err
		}
		out = append(out, section(api.SectionIDImport, importPayload)...)
	}

	if len(definedFuncType) > 0 {
		out = append(out, section(api.SectionIDFunction, encodeFunctionSection(definedFuncType))...)
	}
	if len(lf.tables) > 0 {
		out = append(out, section(api.SectionIDTable, lf.encodeTableSection())...)
	}
	if len(lf.memories) > 0 {
		out = append(out, section(api.SectionIDMemory, lf.encodeMemorySection())...)
	}
	if len(lf.tagOrder) > 0 {
		out = append(out, section(api.SectionIDTag, lf.encodeTagSection(definedTagType))...)
	}
	if len(lf.globals) > 0 {
		out = append(out, section(api.SectionIDGlobal, lf.encodeGlobalSection())...)
	}

	exportPayload, exportCount := lf.encodeExportSection()
	if exportCount > 0 {
		out = append(out, section(api.SectionIDExport, exportPayload)...)
	}

	elemPayload, elemCount, err := lf.encodeElementSection()
	if err != nil {
		return nil, err
	}
	if elemCount > 0 {
		out = append(out, section(api.SectionIDElement, elemPayload)...)
	}

	if len(lf.functions) > 0 {
		out = append(out, section(api.SectionIDCode, encodeCodeSection(lf.functions))...)
	}

	return out, nil
}

func section(id api.SectionID, payload []byte) []byte {
	out := []byte{id}
	out = append(out, leb128.EncodeUint32(uint32(len(payload)))...)
	return append(out, payload...)
}

func encodeName(s string) []byte {
	b := leb128.EncodeUint32(uint32(len(s)))
	return append(b, []byte(s)...)
}

// collectTypes builds the Type section's entries and the index assigned to every entity that
// references one: function imports (including table funcref-element imports) and tag imports
// together in import-table order, then defined tags, then defined functions. Per spec §9 Design Notes ("Signature
// sharing"), no attempt is made to deduplicate identical signatures into one entry.
func (lf *Lifter) collectTypes() (types []ir.Signature, funcImportType, tagImportType map[int]uint32, definedTagType map[ir.Variable]uint32, definedFuncType []uint32) {
	funcImportType = make(map[int]uint32)
	tagImportType = make(map[int]uint32)
	definedTagType = make(map[ir.Variable]uint32)

	for idx, e := range lf.imports {
		switch e.Kind {
		case importFunc:
			types = append(types, *e.Signature)
			funcImportType[idx] = uint32(len(types) - 1)
		case importTag:
			types = append(types, ir.Signature{Parameters: e.Signature.Parameters, ReturnType: ir.Nothing()})
			tagImportType[idx] = uint32(len(types) - 1)
		}
	}
	for _, tagVar := range lf.tagOrder {
		sig := ir.Signature{Parameters: lf.tagParams[tagVar], ReturnType: ir.Nothing()}
		types = append(types, sig)
		definedTagType[tagVar] = uint32(len(types) - 1)
	}
	for _, fn := range lf.functions {
		types = append(types, fn.Signature)
		definedFuncType = append(definedFuncType, uint32(len(types)-1))
	}
	return
}

func encodeFuncType(sig ir.Signature) []byte {
	b := []byte{0x60}
	b = append(b, leb128.EncodeUint32(uint32(len(sig.Parameters)))...)
	for _, p := range sig.Parameters {
		b = append(b, p.ValueType())
	}
	if sig.HasResult() {
		b = append(b, leb128.EncodeUint32(1)...)
		b = append(b, sig.ReturnType.ValueType())
	} else {
		b = append(b, leb128.EncodeUint32(0)...)
	}
	return b
}

func encodeTypeSection(types []ir.Signature) []byte {
	out := leb128.EncodeUint32(uint32(len(types)))
	for _, t := range types {
		out = append(out, encodeFuncType(t)...)
	}
	return out
}

func encodeLimits(min uint32, max *uint32) []byte {
	if max == nil {
		return append([]byte{0x00}, leb128.EncodeUint32(min)...)
	}
	out := append([]byte{0x01}, leb128.EncodeUint32(min)...)
	return append(out, leb128.EncodeUint32(*max)...)
}

// importName synthesizes the two-level (module, field) import name the binary format requires.
// The IR the lifter consumes carries only types for host bindings, never string names, so every
// import lives in module "imports" under field "import_{idx}_{varId}": idx is the entry's position
// in the whole import table and varId is the imported Variable's number. The names are stable
// across runs of the same program, so the host side can rebind them.
func importName(idx int, v ir.Variable) (string, string) {
	return "imports", "import_" + strconv.Itoa(idx) + "_" + strconv.FormatUint(uint64(v), 10)
}

func (lf *Lifter) encodeImportSection(funcImportType, tagImportType map[int]uint32) ([]byte, error) {
	out := leb128.EncodeUint32(uint32(len(lf.imports)))
	for idx, e := range lf.imports {
		mod, field := importName(idx, e.Variable)
		out = append(out, encodeName(mod)...)
		out = append(out, encodeName(field)...)

		switch e.Kind {
		case importFunc:
			out = append(out, api.ExternTypeFunc)
			out = append(out, leb128.EncodeUint32(funcImportType[idx])...)
		case importTable:
			t := lf.oracle.TypeOf(e.Variable)
			if t.Table == nil {
				return nil, newError(InvariantViolation, -1, e.Variable, "table import has no TableType")
			}
			out = append(out, api.ExternTypeTable)
			out = append(out, ir.ILType{Kind: t.Table.ElemKind}.ValueType())
			out = append(out, encodeLimits(t.Table.Min, t.Table.Max)...)
		case importMemory:
			t := lf.oracle.TypeOf(e.Variable)
			if t.Memory == nil {
				return nil, newError(InvariantViolation, -1, e.Variable, "memory import has no MemoryType")
			}
			out = append(out, api.ExternTypeMemory)
			out = append(out, encodeLimits(t.Memory.Min, t.Memory.Max)...)
		case importGlobal:
			t := lf.oracle.TypeOf(e.Variable)
			if t.Global == nil {
				return nil, newError(InvariantViolation, -1, e.Variable, "global import has no GlobalType")
			}
			out = append(out, api.ExternTypeGlobal)
			out = append(out, ir.ILType{Kind: t.Global.ValueType}.ValueType())
			if t.Global.Mutable {
				out = append(out, 0x01)
			} else {
				out = append(out, 0x00)
			}
		case importTag:
			out = append(out, api.ExternTypeTag)
			out = append(out, 0x00) // tag attribute: exception
			out = append(out, leb128.EncodeUint32(tagImportType[idx])...)
		}
	}
	return out, nil
}

func encodeFunctionSection(definedFuncType []uint32) []byte {
	out := leb128.EncodeUint32(uint32(len(definedFuncType)))
	for _, idx := range definedFuncType {
		out = append(out, leb128.EncodeUint32(idx)...)
	}
	return out
}

func (lf *Lifter) encodeTableSection() []byte {
	out := leb128.EncodeUint32(uint32(len(lf.tables)))
	for _, instr := range lf.tables {
		t := lf.oracle.TypeOf(instr.Output)
		out = append(out, ir.ILType{Kind: t.Table.ElemKind}.ValueType())
		out = append(out, encodeLimits(t.Table.Min, t.Table.Max)...)
	}
	return out
}

func (lf *Lifter) encodeMemorySection() []byte {
	out := leb128.EncodeUint32(uint32(len(lf.memories)))
	for _, instr := range lf.memories {
		t := lf.oracle.TypeOf(instr.Output)
		out = append(out, encodeLimits(t.Memory.Min, t.Memory.Max)...)
	}
	return out
}

func (lf *Lifter) encodeTagSection(definedTagType map[ir.Variable]uint32) []byte {
	out := leb128.EncodeUint32(uint32(len(lf.tagOrder)))
	for _, tagVar := range lf.tagOrder {
		out = append(out, 0x00)
		out = append(out, leb128.EncodeUint32(definedTagType[tagVar])...)
	}
	return out
}

// encodeGlobalSection encodes each defined global's type and initializer expression. A global
// initialized from another global reads that global's current value at instantiation time (the
// init expr is global.get); every other case uses the literal constant carried on the defining
// instruction.
func (lf *Lifter) encodeGlobalSection() []byte {
	out := leb128.EncodeUint32(uint32(len(lf.globals)))
	for _, instr := range lf.globals {
		t := lf.oracle.TypeOf(instr.Output)
		out = append(out, ir.ILType{Kind: t.Global.ValueType}.ValueType())
		if t.Global.Mutable {
			out = append(out, 0x01)
		} else {
			out = append(out, 0x00)
		}
		out = append(out, lf.globalInitExpr(instr, t.Global.ValueType)...)
	}
	return out
}

func (lf *Lifter) globalInitExpr(instr ir.Instruction, valueKind ir.Kind) []byte {
	if len(instr.Inputs) > 0 {
		idx, err := lf.resolveGlobalIdx(instr.Inputs[0])
		if err == nil {
			b := append([]byte{opGlobalGet}, leb128.EncodeUint32(idx)...)
			return append(b, opEnd)
		}
	}
	var b []byte
	switch valueKind {
	case ir.KindI64:
		b = append([]byte{opConstI64}, leb128.EncodeInt64(instr.ConstI64)...)
	case ir.KindF32:
		b = append([]byte{opConstF32}, encodeF32LE(instr.ConstF32)...)
	case ir.KindF64:
		b = append([]byte{opConstF64}, encodeF64LE(instr.ConstF64)...)
	default:
		b = append([]byte{opConstI32}, leb128.EncodeInt32(instr.ConstI32)...)
	}
	return append(b, opEnd)
}

// encodeExportSection exports every defined function (name "w{i}", index functionIdxBase+i),
// every imported global (name "wg{globalOrderIndex}", index within imported globals), and every
// defined global (name "wg{globalOrderIndex}", index baseDefinedGlobals+i), per spec §4.4.
// Tables and tags are never exported.
func (lf *Lifter) encodeExportSection() ([]byte, int) {
	var entries [][]byte
	for i := range lf.functions {
		idx := lf.functionIdxBase + uint32(i)
		entries = append(entries, exportEntry("w"+strconv.Itoa(i), api.ExternTypeFunc, idx))
	}
	for idx, e := range lf.imports {
		if e.Kind != importGlobal {
			continue
		}
		globalIdx := uint32(lf.kindIndexOfImport(idx, importGlobal))
		name := "wg" + strconv.Itoa(lf.globalOrderIndex(e.Variable))
		entries = append(entries, exportEntry(name, api.ExternTypeGlobal, globalIdx))
	}
	for i, instr := range lf.globals {
		idx := lf.baseDefinedGlobals + uint32(i)
		name := "wg" + strconv.Itoa(lf.globalOrderIndex(instr.Output))
		entries = append(entries, exportEntry(name, api.ExternTypeGlobal, idx))
	}

	out := leb128.EncodeUint32(uint32(len(entries)))
	for _, e := range entries {
		out = append(out, e...)
	}
	return out, len(entries)
}

func exportEntry(name string, kind api.ExternType, idx uint32) []byte {
	out := encodeName(name)
	out = append(out, kind)
	return append(out, leb128.EncodeUint32(idx)...)
}

// encodeElementSection emits one active element segment per funcref table that was given
// elements at definition time (spec §4.1: table funcref elements are always treated as imported
// callables). Externref tables and funcref tables with no elements get no segment: per the
// Non-goals (passive element segments excluded), there is nothing else this compiler produces.
func (lf *Lifter) encodeElementSection() ([]byte, int, error) {
	var segments [][]byte
	for _, instr := range lf.tables {
		t := lf.oracle.TypeOf(instr.Output)
		if t.Table == nil || t.Table.ElemKind != ir.KindFuncref || len(instr.Inputs) == 0 {
			continue
		}
		tableIdx, err := lf.resolveTableIdx(instr.Output)
		if err != nil {
			return nil, 0, err
		}
		seg := []byte{0x02}
		seg = append(seg, leb128.EncodeUint32(tableIdx)...)
		seg = append(seg, opConstI32)
		seg = append(seg, leb128.EncodeInt32(0)...)
		seg = append(seg, opEnd)
		seg = append(seg, 0x00) // elemkind: funcref
		seg = append(seg, leb128.EncodeUint32(uint32(len(instr.Inputs)))...)
		for _, elem := range instr.Inputs {
			fnIdx, err := lf.resolveFunctionIdx(elem)
			if err != nil {
				return nil, 0, err
			}
			seg = append(seg, leb128.EncodeUint32(fnIdx)...)
		}
		segments = append(segments, seg)
	}

	out := leb128.EncodeUint32(uint32(len(segments)))
	for _, s := range segments {
		out = append(out, s...)
	}
	return out, len(segments), nil
}

func encodeCodeSection(functions []*functionInfo) []byte {
	out := leb128.EncodeUint32(uint32(len(functions)))
	for _, fn := range functions {
		body := compactLocals(fn.extraLocals())
		body = append(body, fn.Code...)
		out = append(out, leb128.EncodeUint32(uint32(len(body)))...)
		out = append(out, body...)
	}
	return out
}

type localRun struct {
	count uint32
	typ   byte
}

func compactLocals(locals []localSlot) []byte {
	var runs []localRun
	for _, l := range locals {
		t := l.Type.ValueType()
		if len(runs) > 0 && runs[len(runs)-1].typ == t {
			runs[len(runs)-1].count++
			continue
		}
		runs = append(runs, localRun{count: 1, typ: t})
	}
	out := leb128.EncodeUint32(uint32(len(runs)))
	for _, r := range runs {
		out = append(out, leb128.EncodeUint32(r.count)...)
		out = append(out, r.typ)
	}
	return out
}
