package lift

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmlift/wasmlift/ir"
)

func TestAnalyzeImports_JsCallRegistersSingleFuncImport(t *testing.T) {
	callee := ir.Variable(1)
	sig := &ir.Signature{Parameters: []ir.ILType{ir.I32()}, ReturnType: ir.I32()}

	lf := NewLifter(ir.MapOracle{})
	instrs := []ir.Instruction{
		{Op: ir.OpWasmJsCall, Inputs: []ir.Variable{callee, ir.Variable(2)}, FunctionSignature: sig},
	}

	require.NoError(t, lf.analyzeImports(instrs))
	require.Len(t, lf.imports, 1)
	require.Equal(t, callee, lf.imports[0].Variable)
	require.Equal(t, importFunc, lf.imports[0].Kind)
	require.True(t, sig.Equal(*lf.imports[0].Signature))
}

func TestAnalyzeImports_JsCallRejectsNonPlainParameter(t *testing.T) {
	callee := ir.Variable(1)
	sig := &ir.Signature{Parameters: []ir.ILType{ir.Nothing()}, ReturnType: ir.Nothing()}

	lf := NewLifter(ir.MapOracle{})
	instrs := []ir.Instruction{
		{Op: ir.OpWasmJsCall, Inputs: []ir.Variable{callee, ir.Variable(2)}, FunctionSignature: sig},
	}

	err := lf.analyzeImports(instrs)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBadSignature))
}

func TestAnalyzeImports_GlobalLoadRegistersImportOnce(t *testing.T) {
	g := ir.Variable(1)
	lf := NewLifter(ir.MapOracle{})
	instrs := []ir.Instruction{
		{Op: ir.OpWasmLoadGlobal, Inputs: []ir.Variable{g}, Output: ir.Variable(2)},
		{Op: ir.OpWasmLoadGlobal, Inputs: []ir.Variable{g}, Output: ir.Variable(3)},
	}

	require.NoError(t, lf.analyzeImports(instrs))
	require.Len(t, lf.imports, 1)
	require.Equal(t, g, lf.imports[0].Variable)
	require.Equal(t, importGlobal, lf.imports[0].Kind)
}

func TestAnalyzeImports_DefinedMemoryIsNotImported(t *testing.T) {
	m := ir.Variable(1)
	lf := NewLifter(ir.MapOracle{m: ir.NewMemory(1, nil)})
	instrs := []ir.Instruction{
		{Op: ir.OpWasmDefineMemory, Output: m},
		{Op: ir.OpWasmMemoryLoad, Inputs: []ir.Variable{m, ir.Variable(2)}, Output: ir.Variable(3)},
	}

	require.NoError(t, lf.analyzeImports(instrs))
	require.Empty(t, lf.imports)
	require.Len(t, lf.memories, 1)
}

func TestAnalyzeImports_UndefinedTableEntityBecomesImport(t *testing.T) {
	tb := ir.Variable(1)
	lf := NewLifter(ir.MapOracle{})
	instrs := []ir.Instruction{
		{Op: ir.OpWasmTableGet, Inputs: []ir.Variable{tb, ir.Variable(2)}, Output: ir.Variable(3)},
	}

	require.NoError(t, lf.analyzeImports(instrs))
	require.Len(t, lf.imports, 1)
	require.Equal(t, importTable, lf.imports[0].Kind)
}

func TestAnalyzeImports_TableFuncrefElementBecomesFuncImport(t *testing.T) {
	elem := ir.Variable(2)
	table := ir.Variable(1)
	elemSig := ir.Signature{ReturnType: ir.Nothing()}

	oracle := ir.MapOracle{
		table: ir.NewTable(ir.KindFuncref, 1, nil),
		elem:  ir.NewFunction(elemSig),
	}
	lf := NewLifter(oracle)
	instrs := []ir.Instruction{
		{Op: ir.OpWasmDefineTable, Output: table, Inputs: []ir.Variable{elem}},
	}

	require.NoError(t, lf.analyzeImports(instrs))
	require.Len(t, lf.imports, 1)
	require.Equal(t, elem, lf.imports[0].Variable)
	require.Equal(t, importFunc, lf.imports[0].Kind)
}

func TestAnalyzeImports_UnhandledStructuredInputErrors(t *testing.T) {
	memVar := ir.Variable(1)
	lf := NewLifter(ir.MapOracle{memVar: ir.NewMemory(1, nil)})
	// OpNop has no case in analyzeImports's switch and isn't a recognized glue op, so a
	// structured-object input reaching it should be rejected rather than silently ignored.
	instrs := []ir.Instruction{
		{Op: ir.OpNop, Inputs: []ir.Variable{memVar}},
	}

	err := lf.analyzeImports(instrs)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnhandledImport))
}
