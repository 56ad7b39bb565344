package lift

import "github.com/wasmlift/wasmlift/ir"

// analyzeImports is the Import Analyzer (spec §4.1): the first forward pass over the
// instruction buffer. It classifies variables into imported vs. locally-defined, and records
// tags, memories, tables and globals in first-seen order. It must run to completion before the
// Emission Driver's pass, since emission resolves indices against the tables this pass builds.
func (lf *Lifter) analyzeImports(instrs []ir.Instruction) error {
	for i, instr := range instrs {
		switch instr.Op {
		case ir.OpWasmLoadGlobal, ir.OpWasmStoreGlobal:
			g := instr.Inputs[0]
			if lf.globalOrderIndex(g) < 0 {
				lf.imports = append(lf.imports, importEntry{Variable: g, Kind: importGlobal})
				lf.globalOrder = append(lf.globalOrder, g)
			}

		case ir.OpWasmDefineGlobal:
			lf.globals = append(lf.globals, instr)
			lf.globalOrder = append(lf.globalOrder, instr.Output)

		case ir.OpWasmDefineTable:
			lf.tables = append(lf.tables, instr)
			t := lf.oracle.TypeOf(instr.Output)
			if t.Kind == ir.KindTable && t.Table != nil && t.Table.ElemKind == ir.KindFuncref {
				for _, elem := range instr.Inputs {
					et := lf.oracle.TypeOf(elem)
					if et.Kind != ir.KindFunction {
						continue
					}
					if lf.findImport(elem, importFunc) >= 0 {
						continue
					}
					if err := validateSignature(et.Function); err != nil {
						return newError(BadSignature, i, elem, "%v", err)
					}
					lf.imports = append(lf.imports, importEntry{
						Variable: elem, Kind: importFunc, Signature: et.Function,
					})
				}
			}

		case ir.OpWasmDefineMemory:
			lf.memories = append(lf.memories, instr)

		case ir.OpWasmMemoryLoad, ir.OpWasmMemoryStore:
			m := instr.Inputs[0]
			if !lf.isMemoryDefined(m) && !lf.isMemoryImported(m) {
				lf.imports = append(lf.imports, importEntry{Variable: m, Kind: importMemory})
			}

		case ir.OpWasmTableGet, ir.OpWasmTableSet:
			tb := instr.Inputs[0]
			if !lf.isTableDefined(tb) && !lf.isTableImported(tb) {
				lf.imports = append(lf.imports, importEntry{Variable: tb, Kind: importTable})
			}

		case ir.OpWasmJsCall:
			callee := instr.Inputs[0]
			if instr.FunctionSignature == nil {
				return newError(InvariantViolation, i, callee, "WasmJsCall missing FunctionSignature")
			}
			if err := validateSignature(instr.FunctionSignature); err != nil {
				return newError(BadSignature, i, callee, "%v", err)
			}
			lf.imports = append(lf.imports, importEntry{
				Variable: callee, Kind: importFunc, Signature: instr.FunctionSignature,
			})

		case ir.OpWasmDefineTag:
			params := tagParamKinds(instr.FunctionSignature)
			lf.tagOrder = append(lf.tagOrder, instr.Output)
			lf.tagParams[instr.Output] = params

		case ir.OpWasmBeginCatch, ir.OpWasmThrow:
			tag := instr.Inputs[0]
			if !lf.isTagDefined(tag) && !lf.isTagImported(tag) {
				sig := &ir.Signature{ReturnType: ir.Nothing()}
				if instr.FunctionSignature != nil {
					sig.Parameters = instr.FunctionSignature.Parameters
				}
				lf.imports = append(lf.imports, importEntry{Variable: tag, Kind: importTag, Signature: sig})
			}

		default:
			for _, in := range instr.Inputs {
				t := lf.oracle.TypeOf(in)
				if t.IsStructuredObject() {
					return newError(UnhandledImport, i, in,
						"op %d has structured-object input of kind %s not modeled by the import analyzer", instr.Op, t.Kind)
				}
			}
		}
	}

	lf.baseDefinedGlobals = uint32(lf.countImports(importGlobal))
	lf.baseDefinedTables = uint32(lf.countImports(importTable))
	return nil
}

func (lf *Lifter) countImports(kind importKind) int {
	n := 0
	for _, e := range lf.imports {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// tagParamKinds extracts the plain ILType parameter list carried by a tag-defining op's
// FunctionSignature. A nil signature means no parameters.
func tagParamKinds(sig *ir.Signature) []ir.ILType {
	if sig == nil {
		return nil
	}
	return sig.Parameters
}

// validateSignature rejects a Signature carrying a non-plain parameter type (spec §4, BadSignature).
func validateSignature(sig *ir.Signature) error {
	if sig == nil {
		return nil
	}
	for _, p := range sig.Parameters {
		if !p.IsPlain() {
			return errBadSignatureParam(p)
		}
	}
	return nil
}

type badSignatureParamError struct{ kind ir.Kind }

func (e badSignatureParamError) Error() string {
	return "signature parameter has non-plain type " + e.kind.String()
}

func errBadSignatureParam(t ir.ILType) error {
	return badSignatureParamError{kind: t.Kind}
}
