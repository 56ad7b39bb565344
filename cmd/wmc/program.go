package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/wasmlift/wasmlift/ir"
)

// jsonType mirrors ir.ILType as a flat, JSON-friendly record: Kind is the enum's int value, and
// the variant-specific fields below are populated according to it. This is the wire format a
// standalone IR producer (not embedding the Go module directly) would emit.
type jsonType struct {
	Kind        int        `json:"kind"`
	MemoryMin   *uint32    `json:"memoryMin,omitempty"`
	MemoryMax   *uint32    `json:"memoryMax,omitempty"`
	TableElem   *int       `json:"tableElemKind,omitempty"`
	TableMin    *uint32    `json:"tableMin,omitempty"`
	TableMax    *uint32    `json:"tableMax,omitempty"`
	GlobalValue *int       `json:"globalValueKind,omitempty"`
	GlobalMut   bool       `json:"globalMutable,omitempty"`
	TagParams   []jsonType `json:"tagParams,omitempty"`
	FuncParams  []jsonType `json:"funcParams,omitempty"`
	FuncReturn  *jsonType  `json:"funcReturn,omitempty"`
}

func (t jsonType) toIL() ir.ILType {
	k := ir.Kind(t.Kind)
	switch k {
	case ir.KindMemory:
		return ir.NewMemory(derefU32(t.MemoryMin), t.MemoryMax)
	case ir.KindTable:
		elem := ir.KindFuncref
		if t.TableElem != nil {
			elem = ir.Kind(*t.TableElem)
		}
		return ir.NewTable(elem, derefU32(t.TableMin), t.TableMax)
	case ir.KindGlobal:
		v := ir.KindI32
		if t.GlobalValue != nil {
			v = ir.Kind(*t.GlobalValue)
		}
		return ir.NewGlobal(v, t.GlobalMut)
	case ir.KindTag:
		params := make([]ir.Kind, len(t.TagParams))
		for i, p := range t.TagParams {
			params[i] = ir.Kind(p.Kind)
		}
		return ir.NewTag(params)
	case ir.KindFunction:
		sig := ir.Signature{ReturnType: ir.Nothing()}
		for _, p := range t.FuncParams {
			sig.Parameters = append(sig.Parameters, p.toIL())
		}
		if t.FuncReturn != nil {
			sig.ReturnType = t.FuncReturn.toIL()
		}
		return ir.NewFunction(sig)
	default:
		return ir.ILType{Kind: k}
	}
}

func derefU32(p *uint32) uint32 {
	if p == nil {
		return 0
	}
	return *p
}

// jsonInstruction mirrors ir.Instruction field-for-field; enum fields are plain ints.
type jsonInstruction struct {
	Op                int        `json:"op"`
	Inputs            []uint32   `json:"inputs"`
	Output            uint32     `json:"output"`
	InnerOutputs      []uint32   `json:"innerOutputs"`
	Numeric           int        `json:"numeric"`
	Convert           int        `json:"convert"`
	Mem               int        `json:"mem"`
	Shape             int        `json:"shape"`
	ConstI32          int32      `json:"constI32"`
	ConstI64          int64      `json:"constI64"`
	ConstF32          float32    `json:"constF32"`
	ConstF64          float64    `json:"constF64"`
	ConstV128         []byte     `json:"constV128"`
	Offset            int64      `json:"offset"`
	FunctionSignature *jsonType  `json:"functionSignature,omitempty"`
	Label             uint32     `json:"label"`
}

func (ji jsonInstruction) toInstruction() ir.Instruction {
	instr := ir.Instruction{
		Op:       ir.Op(ji.Op),
		Output:   ir.Variable(ji.Output),
		Numeric:  ir.NumericOp(ji.Numeric),
		Convert:  ir.ConvertKind(ji.Convert),
		Mem:      ir.MemWidth(ji.Mem),
		Shape:    ir.SimdShape(ji.Shape),
		ConstI32: ji.ConstI32,
		ConstI64: ji.ConstI64,
		ConstF32: ji.ConstF32,
		ConstF64: ji.ConstF64,
		Offset:   ji.Offset,
		Label:    ir.Variable(ji.Label),
	}
	for _, v := range ji.Inputs {
		instr.Inputs = append(instr.Inputs, ir.Variable(v))
	}
	for _, v := range ji.InnerOutputs {
		instr.InnerOutputs = append(instr.InnerOutputs, ir.Variable(v))
	}
	copy(instr.ConstV128[:], ji.ConstV128)
	if ji.FunctionSignature != nil {
		sig := ji.FunctionSignature.toIL()
		instr.FunctionSignature = sig.Function
	}
	return instr
}

// jsonProgram is the on-disk shape wmc compile/inspect reads: the instruction buffer plus every
// variable's type, keyed by its numeric Variable id.
type jsonProgram struct {
	Instructions []jsonInstruction  `json:"instructions"`
	Types        map[string]jsonType `json:"types"`
}

func loadProgram(path string) ([]ir.Instruction, ir.MapOracle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read program: %w", err)
	}
	var p jsonProgram
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, nil, fmt.Errorf("decode program: %w", err)
	}

	instrs := make([]ir.Instruction, len(p.Instructions))
	for i, ji := range p.Instructions {
		instrs[i] = ji.toInstruction()
	}

	oracle := make(ir.MapOracle, len(p.Types))
	for key, t := range p.Types {
		var v uint32
		if _, err := fmt.Sscanf(key, "%d", &v); err != nil {
			return nil, nil, fmt.Errorf("decode type key %q: %w", key, err)
		}
		oracle[ir.Variable(v)] = t.toIL()
	}
	return instrs, oracle, nil
}
