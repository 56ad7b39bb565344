package lift

import "github.com/wasmlift/wasmlift/ir"

// resolveGlobalIdx implements spec §4.5: the index of v among globally-typed imports if
// present, else baseDefinedGlobals + the position of v in globals; InvalidReference if neither.
func (lf *Lifter) resolveGlobalIdx(v ir.Variable) (uint32, error) {
	if idx := lf.findImport(v, importGlobal); idx >= 0 {
		return uint32(lf.kindIndexOfImport(idx, importGlobal)), nil
	}
	for i, instr := range lf.globals {
		if instr.Output == v {
			return lf.baseDefinedGlobals + uint32(i), nil
		}
	}
	return 0, newError(InvalidReference, -1, v, "no global index for variable")
}

// resolveTableIdx is symmetric to resolveGlobalIdx for tables.
func (lf *Lifter) resolveTableIdx(v ir.Variable) (uint32, error) {
	if idx := lf.findImport(v, importTable); idx >= 0 {
		return uint32(lf.kindIndexOfImport(idx, importTable)), nil
	}
	for i, instr := range lf.tables {
		if instr.Output == v {
			return lf.baseDefinedTables + uint32(i), nil
		}
	}
	return 0, newError(InvalidReference, -1, v, "no table index for variable")
}

// resolveTagIdx implements spec §4.5: index among tag imports if present, else
// |tagImports| + position of v in tags.
func (lf *Lifter) resolveTagIdx(v ir.Variable) (uint32, error) {
	if idx := lf.findImport(v, importTag); idx >= 0 {
		return uint32(lf.kindIndexOfImport(idx, importTag)), nil
	}
	for i, tag := range lf.tagOrder {
		if tag == v {
			return uint32(lf.countImports(importTag)) + uint32(i), nil
		}
	}
	return 0, newError(InvalidReference, -1, v, "no tag index for variable")
}

// resolveFunctionIdx implements spec §4.5: index among callable imports if present, else
// functionIdxBase + position of v in functions by OutputVariable.
func (lf *Lifter) resolveFunctionIdx(v ir.Variable) (uint32, error) {
	if idx := lf.findImport(v, importFunc); idx >= 0 {
		return uint32(lf.kindIndexOfImport(idx, importFunc)), nil
	}
	for i, fn := range lf.functions {
		if fn.OutputVariable == v {
			return lf.functionIdxBase + uint32(i), nil
		}
	}
	return 0, newError(InvalidReference, -1, v, "no function index for variable")
}

// resolveJsCallFunctionIdx resolves the function index for a WasmJsCall, which is keyed by the
// (callee, signature) pair rather than the callee alone: a callee imported multiple times with
// distinct chosen signatures produces one import per signature (spec §4.1, §4.3).
func (lf *Lifter) resolveJsCallFunctionIdx(callee ir.Variable, sig *ir.Signature) (uint32, error) {
	n := 0
	for _, e := range lf.imports {
		if e.Kind != importFunc {
			continue
		}
		if e.Variable == callee && e.Signature != nil && sig != nil && e.Signature.Equal(*sig) {
			return uint32(n), nil
		}
		n++
	}
	return 0, newError(InvalidReference, -1, callee, "no import matches call signature")
}

// kindIndexOfImport returns the position of the import at lf.imports[idx] among same-kind
// entries (imports are numbered per index space, spec §3 invariant 4).
func (lf *Lifter) kindIndexOfImport(idx int, kind importKind) int {
	n := 0
	for i := 0; i < idx; i++ {
		if lf.imports[i].Kind == kind {
			n++
		}
	}
	return n
}
