package lift

import (
	"github.com/wasmlift/wasmlift/internal/leb128"
	"github.com/wasmlift/wasmlift/ir"
)

// cacheableOp reports whether op's result can be deferred in the expression cache instead of
// immediately spilled to a local. Only zero-input producers qualify (spec §9 Design Notes,
// "Expression cache ordering"): a single forward pass cannot safely defer a multi-input
// expression without risking a reordering of side effects relative to whatever runs between
// production and consumption, so everything else always materializes to a local right away.
func cacheableOp(op ir.Op) bool {
	switch op {
	case ir.OpConstI32, ir.OpConstI64, ir.OpConstF32, ir.OpConstF64, ir.OpConstV128, ir.OpWasmLoadGlobal:
		return true
	default:
		return false
	}
}

// loadValue returns the byte sequence that pushes v's value onto the stack: either a deferred
// cache entry (consumed once) or a local.get against its spilled slot. It is the sole input-
// loading path for every non-glue operand (spec §4.2 steps 1-3).
func (fi *functionInfo) loadValue(v ir.Variable) ([]byte, bool) {
	if expr, ok := fi.cache.take(v); ok {
		return expr, true
	}
	if idx, ok := fi.localSlotOf(v); ok {
		return append([]byte{opLocalGet}, leb128.EncodeUint32(uint32(idx))...), true
	}
	return nil, false
}

// loadOperand loads v and appends its bytes to the function's code buffer, or returns
// MissingInput if v has neither a cached expression nor a local slot.
func (lf *Lifter) loadOperand(i int, v ir.Variable) error {
	bytes, ok := lf.current.loadValue(v)
	if !ok {
		return newError(MissingInput, i, v, "no cached expression or local slot for input")
	}
	lf.current.emitBytes(bytes)
	return nil
}

// loadOperands loads instr.Inputs[from:] in order.
func (lf *Lifter) loadOperands(i int, instr ir.Instruction, from int) error {
	for _, v := range instr.Inputs[from:] {
		if err := lf.loadOperand(i, v); err != nil {
			return err
		}
	}
	return nil
}

// finishOutput disposes of instr's produced value: deferred to the cache for a cacheable
// producer, or spilled to a fresh local slot otherwise. Returns immediately if the instruction
// has no output.
func (lf *Lifter) finishOutput(instr ir.Instruction, producedBytes []byte) {
	if instr.Output == ir.VariableNone {
		return
	}
	t := lf.oracle.TypeOf(instr.Output)
	if cacheableOp(instr.Op) {
		lf.current.cache.set(instr.Output, producedBytes)
		return
	}
	lf.current.emitBytes(producedBytes)
	idx := lf.current.spill(instr.Output, t)
	lf.current.emit(opLocalSet)
	lf.current.emitBytes(leb128.EncodeUint32(uint32(idx)))
}

// relativeDepth computes the binary branch-depth immediate for a label reference: per spec §4.3,
// currentDepth - recordedDepth - 1, except rethrow which omits the final -1 because it targets
// the enclosing catch clause itself rather than an outer structured block.
func (lf *Lifter) relativeDepth(i int, label ir.Variable, noOffset bool) (uint32, error) {
	recorded, ok := lf.current.labelBranchDepth[label]
	if !ok {
		return 0, newError(InvariantViolation, i, label, "branch target label was never opened")
	}
	d := lf.current.branchDepth - recorded
	if !noOffset {
		d--
	}
	if d < 0 {
		return 0, newError(InvariantViolation, i, label, "negative relative branch depth")
	}
	return uint32(d), nil
}

// emitInstruction is the Emission Driver's per-instruction step (spec §4.2): input loading,
// opcode encoding, and output spilling for every op updateLifterState judged to need byte
// emission. Structural ops (function begin/end, module-scoped definitions) never reach here.
func (lf *Lifter) emitInstruction(i int, instr ir.Instruction) error {
	fi := lf.current
	if fi == nil {
		return newError(InvariantViolation, i, instr.Output, "instruction outside any function body")
	}

	switch instr.Op {
	case ir.OpUnreachable:
		fi.emit(opUnreachable)
		return nil

	case ir.OpReturn:
		if err := lf.loadOperands(i, instr, 0); err != nil {
			return err
		}
		fi.emit(opReturn)
		return nil

	case ir.OpReassign:
		if err := lf.loadOperand(i, instr.Inputs[0]); err != nil {
			return err
		}
		idx, ok := fi.localSlotOf(instr.Output)
		if !ok {
			idx = fi.spill(instr.Output, lf.oracle.TypeOf(instr.Output))
		}
		fi.emit(opLocalSet)
		fi.emitBytes(leb128.EncodeUint32(uint32(idx)))
		return nil

	case ir.OpBlock, ir.OpLoop:
		return lf.emitBlockOpen(i, instr, map[ir.Op]byte{ir.OpBlock: opBlock, ir.OpLoop: opLoop}[instr.Op])

	case ir.OpIf:
		if err := lf.loadOperand(i, instr.Inputs[0]); err != nil {
			return err
		}
		return lf.emitBlockOpen(i, instr, opIf)

	case ir.OpElse:
		fi.emit(opElse)
		return nil

	case ir.OpEnd:
		fi.emit(opEnd)
		fi.branchDepth--
		return nil

	case ir.OpBr, ir.OpBrIf:
		if instr.Op == ir.OpBrIf {
			if err := lf.loadOperand(i, instr.Inputs[0]); err != nil {
				return err
			}
		}
		depth, err := lf.relativeDepth(i, instr.Label, false)
		if err != nil {
			return err
		}
		if instr.Op == ir.OpBr {
			fi.emit(opBr)
		} else {
			fi.emit(opBrIf)
		}
		fi.emitBytes(leb128.EncodeUint32(depth))
		return nil

	case ir.OpConstI32:
		lf.finishOutput(instr, append([]byte{opConstI32}, leb128.EncodeInt32(instr.ConstI32)...))
		return nil
	case ir.OpConstI64:
		lf.finishOutput(instr, append([]byte{opConstI64}, leb128.EncodeInt64(instr.ConstI64)...))
		return nil
	case ir.OpConstF32:
		lf.finishOutput(instr, append([]byte{opConstF32}, encodeF32LE(instr.ConstF32)...))
		return nil
	case ir.OpConstF64:
		lf.finishOutput(instr, append([]byte{opConstF64}, encodeF64LE(instr.ConstF64)...))
		return nil
	case ir.OpConstV128:
		b := append([]byte{opSimdPrefix}, leb128.EncodeUint32(uint32(simdConst))...)
		b = append(b, instr.ConstV128[:]...)
		lf.finishOutput(instr, b)
		return nil

	case ir.OpI32Unary, ir.OpI32Binary, ir.OpI32Compare:
		return lf.emitNumeric(i, instr, i32UnaryOpcode, i32BinaryOpcode, i32CompareOpcode)
	case ir.OpI64Unary, ir.OpI64Binary, ir.OpI64Compare:
		return lf.emitNumeric(i, instr, i64UnaryOpcode, i64BinaryOpcode, i64CompareOpcode)
	case ir.OpF32Unary, ir.OpF32Binary, ir.OpF32Compare:
		return lf.emitNumeric(i, instr, f32UnaryOpcode, f32BinaryOpcode, f32CompareOpcode)
	case ir.OpF64Unary, ir.OpF64Binary, ir.OpF64Compare:
		return lf.emitNumeric(i, instr, f64UnaryOpcode, f64BinaryOpcode, f64CompareOpcode)

	case ir.OpConvert:
		opcode, ok := convertOpcode[instr.Convert]
		if !ok {
			return newError(InvariantViolation, i, instr.Output, "unknown conversion kind %d", instr.Convert)
		}
		if err := lf.loadOperands(i, instr, 0); err != nil {
			return err
		}
		lf.finishOutput(instr, []byte{opcode})
		return nil

	case ir.OpSimdIntUnary, ir.OpSimdIntBinary, ir.OpSimdIntCompare,
		ir.OpSimdFloatUnary, ir.OpSimdFloatBinary, ir.OpSimdFloatCompare:
		return lf.emitSimd(i, instr)

	case ir.OpWasmLoadGlobal:
		idx, err := lf.resolveGlobalIdx(instr.Inputs[0])
		if err != nil {
			return err
		}
		lf.finishOutput(instr, append([]byte{opGlobalGet}, leb128.EncodeUint32(idx)...))
		return nil

	case ir.OpWasmStoreGlobal:
		idx, err := lf.resolveGlobalIdx(instr.Inputs[0])
		if err != nil {
			return err
		}
		if err := lf.loadOperand(i, instr.Inputs[1]); err != nil {
			return err
		}
		fi.emit(opGlobalSet)
		fi.emitBytes(leb128.EncodeUint32(idx))
		return nil

	case ir.OpWasmMemoryLoad:
		opcode, ok := memLoadOpcode[instr.Mem]
		if !ok {
			return newError(InvariantViolation, i, instr.Output, "unknown memory load width %d", instr.Mem)
		}
		if err := lf.loadOperand(i, instr.Inputs[1]); err != nil {
			return err
		}
		b := append([]byte{opcode}, leb128.EncodeUint32(0)...)
		b = append(b, leb128.EncodeInt64(instr.Offset)...)
		lf.finishOutput(instr, b)
		return nil

	case ir.OpWasmMemoryStore:
		opcode, ok := memStoreOpcode[instr.Mem]
		if !ok {
			return newError(InvariantViolation, i, instr.Output, "unknown memory store width %d", instr.Mem)
		}
		if err := lf.loadOperand(i, instr.Inputs[1]); err != nil {
			return err
		}
		if err := lf.loadOperand(i, instr.Inputs[2]); err != nil {
			return err
		}
		fi.emit(opcode)
		fi.emitBytes(leb128.EncodeUint32(0))
		fi.emitBytes(leb128.EncodeInt64(instr.Offset))
		return nil

	case ir.OpWasmTableGet:
		tableIdx, err := lf.resolveTableIdx(instr.Inputs[0])
		if err != nil {
			return err
		}
		if err := lf.loadOperand(i, instr.Inputs[1]); err != nil {
			return err
		}
		lf.finishOutput(instr, append([]byte{opTableGet}, leb128.EncodeUint32(tableIdx)...))
		return nil

	case ir.OpWasmTableSet:
		tableIdx, err := lf.resolveTableIdx(instr.Inputs[0])
		if err != nil {
			return err
		}
		if err := lf.loadOperand(i, instr.Inputs[1]); err != nil {
			return err
		}
		if err := lf.loadOperand(i, instr.Inputs[2]); err != nil {
			return err
		}
		fi.emit(opTableSet)
		fi.emitBytes(leb128.EncodeUint32(tableIdx))
		return nil

	case ir.OpWasmJsCall:
		fnIdx, err := lf.resolveJsCallFunctionIdx(instr.Inputs[0], instr.FunctionSignature)
		if err != nil {
			return err
		}
		if err := lf.loadOperands(i, instr, 1); err != nil {
			return err
		}
		b := append([]byte{opCall}, leb128.EncodeUint32(fnIdx)...)
		if instr.FunctionSignature != nil && instr.FunctionSignature.HasResult() {
			lf.finishOutput(instr, b)
		} else {
			fi.emitBytes(b)
		}
		return nil

	case ir.OpWasmBeginCatch:
		return lf.emitBeginCatch(i, instr)

	case ir.OpWasmCatchAll:
		fi.emit(opCatchAll)
		return nil

	case ir.OpWasmThrow:
		tagIdx, err := lf.resolveTagIdx(instr.Inputs[0])
		if err != nil {
			return err
		}
		if err := lf.loadOperands(i, instr, 1); err != nil {
			return err
		}
		fi.emit(opThrow)
		fi.emitBytes(leb128.EncodeUint32(tagIdx))
		return nil

	case ir.OpWasmRethrow:
		depth, err := lf.relativeDepth(i, instr.Label, true)
		if err != nil {
			return err
		}
		fi.emit(opRethrow)
		fi.emitBytes(leb128.EncodeUint32(depth))
		return nil

	case ir.OpWasmDelegate:
		depth, err := lf.relativeDepth(i, instr.Label, false)
		if err != nil {
			return err
		}
		fi.emit(opDelegate)
		fi.emitBytes(leb128.EncodeUint32(depth))
		fi.branchDepth--
		return nil
	}

	return newError(InvariantViolation, i, instr.Output, "op %d has no emission handler", instr.Op)
}

// emitBlockOpen handles the three plain structured-control openers (block/loop/if): it records
// the label's branch depth before entering the new nesting level (spec §4.3).
func (lf *Lifter) emitBlockOpen(i int, instr ir.Instruction, opcode byte) error {
	fi := lf.current
	depthAtOpen := fi.branchDepth
	result := ir.Nothing()
	if instr.Output != ir.VariableNone {
		result = lf.oracle.TypeOf(instr.Output)
	}
	fi.emit(opcode, blockType(result))
	fi.branchDepth++
	if len(instr.InnerOutputs) == 0 {
		return newError(InvariantViolation, i, instr.Output, "block-opening op has no label inner output")
	}
	fi.labelBranchDepth[instr.InnerOutputs[0]] = depthAtOpen
	return nil
}

// emitBeginCatch opens a try/catch region: spec §4.2's driver spills BeginCatch's payload locals
// in reverse order, since the exception's parameters arrive on the operand stack with the last
// declared parameter on top.
func (lf *Lifter) emitBeginCatch(i int, instr ir.Instruction) error {
	fi := lf.current
	if len(instr.InnerOutputs) == 0 {
		return newError(InvariantViolation, i, instr.Output, "BeginCatch has no label inner output")
	}
	depthAtOpen := fi.branchDepth
	result := ir.Nothing()
	if instr.Output != ir.VariableNone {
		result = lf.oracle.TypeOf(instr.Output)
	}
	fi.emit(opTry, blockType(result))

	tagIdx, err := lf.resolveTagIdx(instr.Inputs[0])
	if err != nil {
		return err
	}
	fi.emit(opCatch)
	fi.emitBytes(leb128.EncodeUint32(tagIdx))

	fi.branchDepth++
	fi.labelBranchDepth[instr.InnerOutputs[0]] = depthAtOpen

	payload := instr.InnerOutputs[1:]
	for k := len(payload) - 1; k >= 0; k-- {
		v := payload[k]
		idx := fi.spill(v, lf.oracle.TypeOf(v))
		fi.emit(opLocalSet)
		fi.emitBytes(leb128.EncodeUint32(uint32(idx)))
	}
	return nil
}

// emitNumeric loads a unary/binary op's operands, looks opcode up across the three base tables
// (unary, binary, compare all share the NumericOp key space) and spills the result. The result's
// Wasm value type comes from the oracle via finishOutput, not from the operand width: every
// comparison pushes an i32 regardless of its operands' width, per the core spec.
func (lf *Lifter) emitNumeric(i int, instr ir.Instruction, unaryTbl, binTbl, cmpTbl map[ir.NumericOp]byte) error {
	if err := lf.loadOperands(i, instr, 0); err != nil {
		return err
	}
	var opcode byte
	var ok bool
	if opcode, ok = unaryTbl[instr.Numeric]; !ok {
		if opcode, ok = binTbl[instr.Numeric]; !ok {
			opcode, ok = cmpTbl[instr.Numeric]
		}
	}
	if !ok {
		return newError(InvariantViolation, i, instr.Output, "no opcode for numeric operator %d", instr.Numeric)
	}
	lf.finishOutput(instr, []byte{opcode})
	return nil
}

// emitSimd loads a SIMD op's lane operands and looks up its (shape, operator) opcode in the
// representative subset opcodes.go defines.
func (lf *Lifter) emitSimd(i int, instr ir.Instruction) error {
	if err := lf.loadOperands(i, instr, 0); err != nil {
		return err
	}
	opcode, ok := simdOpcode[simdKey{shape: instr.Shape, op: instr.Numeric}]
	if !ok {
		return newError(InvariantViolation, i, instr.Output,
			"no SIMD opcode for shape %d operator %d", instr.Shape, instr.Numeric)
	}
	b := append([]byte{opSimdPrefix}, leb128.EncodeUint32(uint32(opcode))...)
	lf.finishOutput(instr, b)
	return nil
}
