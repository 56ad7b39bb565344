package lift

import "github.com/wasmlift/wasmlift/ir"

// Lift runs the two-pass compilation described by spec §4: the Import Analyzer over the
// instruction buffer built so far, then the Emission Driver producing each function's code, then
// the section builders assembling the final module. It returns the module's bytes and the
// variables bound to import-table entries in index order (spec §6's "Produced" interface), so
// the embedder can report which host imports the module actually requires.
//
// Lift and AddInstruction must not be called concurrently on the same Lifter (spec §5).
func (lf *Lifter) Lift() ([]byte, []ir.Variable, error) {
	instrs := lf.code.Instructions()

	if err := lf.analyzeImports(instrs); err != nil {
		return nil, nil, err
	}
	lf.functionIdxBase = uint32(lf.countImports(importFunc))

	for i, instr := range instrs {
		handled, err := lf.updateLifterState(i, instr)
		if err != nil {
			return nil, nil, err
		}
		if !handled {
			continue
		}
		if err := lf.emitInstruction(i, instr); err != nil {
			// Resolver errors are built without an instruction index; attach the current one.
			if le, ok := err.(*Error); ok && le.InstrIndex < 0 {
				le.InstrIndex = i
			}
			return nil, nil, err
		}
	}
	if lf.current != nil {
		return nil, nil, newError(InvariantViolation, len(instrs), lf.current.OutputVariable,
			"function body never closed with EndWasmFunction")
	}

	module, err := lf.buildModule()
	if err != nil {
		return nil, nil, err
	}
	lf.dumpDebug(module)

	imported := make([]ir.Variable, len(lf.imports))
	for idx, e := range lf.imports {
		imported[idx] = e.Variable
	}
	return module, imported, nil
}

// updateLifterState advances per-function and per-module state for instr and reports whether it
// additionally needs the Emission Driver's byte-producing path. Module-scoped definitions were
// already fully absorbed by analyzeImports and never emit bytes of their own; BeginWasmFunction
// and EndWasmFunction manage functionInfo lifecycle instead of emitting through emitInstruction;
// Nop carries no binary representation of its own and is dropped entirely (spec §4.2).
func (lf *Lifter) updateLifterState(i int, instr ir.Instruction) (bool, error) {
	switch instr.Op {
	case ir.OpWasmDefineGlobal, ir.OpWasmDefineTable, ir.OpWasmDefineMemory, ir.OpWasmDefineTag, ir.OpNop:
		return false, nil

	case ir.OpBeginWasmFunction:
		if lf.current != nil {
			return false, newError(InvariantViolation, i, instr.Output, "nested BeginWasmFunction")
		}
		if instr.FunctionSignature == nil {
			return false, newError(InvariantViolation, i, instr.Output, "BeginWasmFunction missing FunctionSignature")
		}
		fi := newFunctionInfo(instr.Output, *instr.FunctionSignature, instr.InnerOutputs)
		lf.functions = append(lf.functions, fi)
		lf.current = fi
		return false, nil

	case ir.OpEndWasmFunction:
		if lf.current == nil {
			return false, newError(InvariantViolation, i, instr.Output, "EndWasmFunction without matching BeginWasmFunction")
		}
		lf.current.emit(opEnd)
		lf.current = nil
		return false, nil

	default:
		return true, nil
	}
}
