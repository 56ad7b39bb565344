package lift

import "github.com/wasmlift/wasmlift/ir"

// localSlot is one entry of a functionInfo's locals table: the first len(Signature.Parameters)
// slots are the function's parameters, in order; subsequent slots are spills added during
// emission.
type localSlot struct {
	Variable ir.Variable
	Type     ir.ILType
}

// functionInfo is the per-function state described in spec §3: one instance is pushed when the
// Emission Driver encounters BeginWasmFunction and popped (finalized) on EndWasmFunction.
type functionInfo struct {
	Signature      ir.Signature
	Code           []byte
	OutputVariable ir.Variable

	locals     []localSlot
	localIndex map[ir.Variable]int

	labelBranchDepth map[ir.Variable]int
	branchDepth      int

	cache exprCache
}

func newFunctionInfo(output ir.Variable, sig ir.Signature, params []ir.Variable) *functionInfo {
	fi := &functionInfo{
		Signature:        sig,
		OutputVariable:   output,
		localIndex:       make(map[ir.Variable]int, len(params)),
		labelBranchDepth: make(map[ir.Variable]int),
		cache:            newExprCache(),
	}
	for i, p := range params {
		fi.locals = append(fi.locals, localSlot{Variable: p, Type: sig.Parameters[i]})
		fi.localIndex[p] = i
	}
	return fi
}

// localSlotOf returns the local index for v and whether one exists.
func (fi *functionInfo) localSlotOf(v ir.Variable) (int, bool) {
	idx, ok := fi.localIndex[v]
	return idx, ok
}

// spill reserves a new local slot of type t for v and returns its index.
func (fi *functionInfo) spill(v ir.Variable, t ir.ILType) int {
	idx := len(fi.locals)
	fi.locals = append(fi.locals, localSlot{Variable: v, Type: t})
	fi.localIndex[v] = idx
	return idx
}

// emit appends raw bytes to the function's code buffer.
func (fi *functionInfo) emit(b ...byte) {
	fi.Code = append(fi.Code, b...)
}

// emitBytes appends a byte slice to the function's code buffer.
func (fi *functionInfo) emitBytes(b []byte) {
	fi.Code = append(fi.Code, b...)
}

// extraLocals returns the spilled locals beyond the parameters, in allocation order, for the
// Code Section's local-declaration prefix.
func (fi *functionInfo) extraLocals() []localSlot {
	return fi.locals[len(fi.Signature.Parameters):]
}
