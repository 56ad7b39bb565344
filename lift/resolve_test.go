package lift

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmlift/wasmlift/ir"
)

func TestResolveGlobalIdx_ImportsPrecedeDefined(t *testing.T) {
	importedGlobal := ir.Variable(1)
	definedGlobal := ir.Variable(2)

	lf := NewLifter(ir.MapOracle{})
	instrs := []ir.Instruction{
		{Op: ir.OpWasmLoadGlobal, Inputs: []ir.Variable{importedGlobal}, Output: ir.Variable(9)},
		{Op: ir.OpWasmDefineGlobal, Output: definedGlobal, ConstI32: 7},
	}
	require.NoError(t, lf.analyzeImports(instrs))

	idx, err := lf.resolveGlobalIdx(importedGlobal)
	require.NoError(t, err)
	require.Equal(t, uint32(0), idx)

	idx, err = lf.resolveGlobalIdx(definedGlobal)
	require.NoError(t, err)
	require.Equal(t, uint32(1), idx)
}

func TestResolveGlobalIdx_UnknownVariableErrors(t *testing.T) {
	lf := NewLifter(ir.MapOracle{})
	require.NoError(t, lf.analyzeImports(nil))

	_, err := lf.resolveGlobalIdx(ir.Variable(42))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidReference))
}

func TestResolveFunctionIdx_DefinedFunctionAfterImports(t *testing.T) {
	callee := ir.Variable(1)
	fn := ir.Variable(2)
	sig := &ir.Signature{ReturnType: ir.Nothing()}

	lf := NewLifter(ir.MapOracle{})
	instrs := []ir.Instruction{
		{Op: ir.OpWasmJsCall, Inputs: []ir.Variable{callee}, FunctionSignature: sig},
	}
	require.NoError(t, lf.analyzeImports(instrs))
	lf.functionIdxBase = uint32(lf.countImports(importFunc))
	lf.functions = append(lf.functions, newFunctionInfo(fn, *sig, nil))

	idx, err := lf.resolveFunctionIdx(callee)
	require.NoError(t, err)
	require.Equal(t, uint32(0), idx)

	idx, err = lf.resolveFunctionIdx(fn)
	require.NoError(t, err)
	require.Equal(t, uint32(1), idx)
}

func TestResolveJsCallFunctionIdx_DistinctSignaturesGetDistinctImports(t *testing.T) {
	callee := ir.Variable(1)
	sigA := &ir.Signature{ReturnType: ir.I32()}
	sigB := &ir.Signature{ReturnType: ir.I64()}

	lf := NewLifter(ir.MapOracle{})
	instrs := []ir.Instruction{
		{Op: ir.OpWasmJsCall, Inputs: []ir.Variable{callee}, FunctionSignature: sigA},
		{Op: ir.OpWasmJsCall, Inputs: []ir.Variable{callee}, FunctionSignature: sigB},
	}
	require.NoError(t, lf.analyzeImports(instrs))
	require.Len(t, lf.imports, 2)

	idxA, err := lf.resolveJsCallFunctionIdx(callee, sigA)
	require.NoError(t, err)
	require.Equal(t, uint32(0), idxA)

	idxB, err := lf.resolveJsCallFunctionIdx(callee, sigB)
	require.NoError(t, err)
	require.Equal(t, uint32(1), idxB)
}

func TestKindIndexOfImport_CountsOnlySameKind(t *testing.T) {
	lf := &Lifter{imports: []importEntry{
		{Variable: 1, Kind: importFunc},
		{Variable: 2, Kind: importGlobal},
		{Variable: 3, Kind: importFunc},
	}}
	require.Equal(t, 0, lf.kindIndexOfImport(0, importFunc))
	require.Equal(t, 0, lf.kindIndexOfImport(1, importGlobal))
	require.Equal(t, 1, lf.kindIndexOfImport(2, importFunc))
}
