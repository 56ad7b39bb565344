package lift_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmlift/wasmlift/ir"
	"github.com/wasmlift/wasmlift/lift"
)

func newLifterWithOracle(oracle ir.MapOracle) *lift.Lifter {
	return lift.NewLifter(oracle)
}

func TestLift_EmptyModule(t *testing.T) {
	lf := newLifterWithOracle(nil)
	module, imported, err := lf.Lift()
	require.NoError(t, err)
	require.Empty(t, imported)
	require.Equal(t, []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}, module)
}

func TestLift_ConstReturn(t *testing.T) {
	fn := ir.Variable(1)
	out := ir.Variable(2)

	oracle := ir.MapOracle{out: ir.I32()}
	lf := newLifterWithOracle(oracle)

	sig := ir.Signature{ReturnType: ir.I32()}
	lf.AddInstruction(ir.Instruction{Op: ir.OpBeginWasmFunction, Output: fn, FunctionSignature: &sig})
	lf.AddInstruction(ir.Instruction{Op: ir.OpConstI32, Output: out, ConstI32: 42})
	lf.AddInstruction(ir.Instruction{Op: ir.OpReturn, Inputs: []ir.Variable{out}})
	lf.AddInstruction(ir.Instruction{Op: ir.OpEndWasmFunction})

	module, imported, err := lf.Lift()
	require.NoError(t, err)
	require.Empty(t, imported)

	// Function body: i32.const 42, return, end.
	wantBody := []byte{0x41, 42, 0x0f, 0x0b}
	require.Contains(t, string(module), string(wantBody))
}

func TestLift_TwoParamAdd(t *testing.T) {
	fn := ir.Variable(1)
	p0, p1 := ir.Variable(2), ir.Variable(3)
	sum := ir.Variable(4)

	oracle := ir.MapOracle{p0: ir.I32(), p1: ir.I32(), sum: ir.I32()}
	lf := newLifterWithOracle(oracle)

	sig := ir.Signature{Parameters: []ir.ILType{ir.I32(), ir.I32()}, ReturnType: ir.I32()}
	lf.AddInstruction(ir.Instruction{Op: ir.OpBeginWasmFunction, Output: fn, InnerOutputs: []ir.Variable{p0, p1}, FunctionSignature: &sig})
	lf.AddInstruction(ir.Instruction{Op: ir.OpI32Binary, Numeric: ir.NumAdd, Inputs: []ir.Variable{p0, p1}, Output: sum})
	lf.AddInstruction(ir.Instruction{Op: ir.OpReturn, Inputs: []ir.Variable{sum}})
	lf.AddInstruction(ir.Instruction{Op: ir.OpEndWasmFunction})

	module, _, err := lf.Lift()
	require.NoError(t, err)

	// local.get 0, local.get 1, i32.add, local.set 2, local.get 2, return, end
	wantBody := []byte{0x20, 0x00, 0x20, 0x01, 0x6a, 0x21, 0x02, 0x20, 0x02, 0x0f, 0x0b}
	require.Contains(t, string(module), string(wantBody))
}

func TestLift_JsCallImport(t *testing.T) {
	callee := ir.Variable(1)
	arg := ir.Variable(2)
	result := ir.Variable(3)
	fn := ir.Variable(4)
	p0 := ir.Variable(5)

	sig := &ir.Signature{Parameters: []ir.ILType{ir.I32()}, ReturnType: ir.I32()}
	oracle := ir.MapOracle{p0: ir.I32(), result: ir.I32()}
	lf := newLifterWithOracle(oracle)

	fnSig := ir.Signature{Parameters: []ir.ILType{ir.I32()}, ReturnType: ir.I32()}
	lf.AddInstruction(ir.Instruction{Op: ir.OpBeginWasmFunction, Output: fn, InnerOutputs: []ir.Variable{p0}, FunctionSignature: &fnSig})
	lf.AddInstruction(ir.Instruction{Op: ir.OpReassign, Inputs: []ir.Variable{p0}, Output: arg})
	lf.AddInstruction(ir.Instruction{Op: ir.OpWasmJsCall, Inputs: []ir.Variable{callee, arg}, Output: result, FunctionSignature: sig})
	lf.AddInstruction(ir.Instruction{Op: ir.OpReturn, Inputs: []ir.Variable{result}})
	lf.AddInstruction(ir.Instruction{Op: ir.OpEndWasmFunction})

	module, imported, err := lf.Lift()
	require.NoError(t, err)
	require.Len(t, imported, 1)
	require.Equal(t, callee, imported[0])
	// call opcode, function index 0 (the callee is the module's sole import).
	require.Contains(t, string(module), string([]byte{0x10, 0x00}))
}

func TestLift_MutableGlobalInit(t *testing.T) {
	g := ir.Variable(1)
	oracle := ir.MapOracle{g: ir.NewGlobal(ir.KindI32, true)}
	lf := newLifterWithOracle(oracle)

	lf.AddInstruction(ir.Instruction{Op: ir.OpWasmDefineGlobal, Output: g, ConstI32: -1})

	module, _, err := lf.Lift()
	require.NoError(t, err)
	// global type i32 mutable, then i32.const -1, end.
	wantGlobal := []byte{0x7f, 0x01, 0x41}
	require.Contains(t, string(module), string(wantGlobal))

	// Export section lists "wg0" (global index 0's first-seen position) as a global export:
	// name length 3, "wg0", kind global (0x03), index 0.
	wantExport := []byte{0x03, 'w', 'g', '0', 0x03, 0x00}
	require.Contains(t, string(module), string(wantExport))
}

func TestLift_NestedBrIf(t *testing.T) {
	fn := ir.Variable(1)
	outerLabel := ir.Variable(2)
	innerLabel := ir.Variable(3)
	cond := ir.Variable(4)

	oracle := ir.MapOracle{cond: ir.I32()}
	lf := newLifterWithOracle(oracle)

	sig := ir.Signature{ReturnType: ir.Nothing()}
	lf.AddInstruction(ir.Instruction{Op: ir.OpBeginWasmFunction, Output: fn, FunctionSignature: &sig})
	lf.AddInstruction(ir.Instruction{Op: ir.OpBlock, InnerOutputs: []ir.Variable{outerLabel}})
	lf.AddInstruction(ir.Instruction{Op: ir.OpBlock, InnerOutputs: []ir.Variable{innerLabel}})
	lf.AddInstruction(ir.Instruction{Op: ir.OpConstI32, Output: cond, ConstI32: 1})
	lf.AddInstruction(ir.Instruction{Op: ir.OpBrIf, Inputs: []ir.Variable{cond}, Label: outerLabel})
	lf.AddInstruction(ir.Instruction{Op: ir.OpEnd})
	lf.AddInstruction(ir.Instruction{Op: ir.OpEnd})
	lf.AddInstruction(ir.Instruction{Op: ir.OpEndWasmFunction})

	module, _, err := lf.Lift()
	require.NoError(t, err)
	// br_if targeting the outer block from inside the inner one: relative depth 1.
	wantBrIf := []byte{0x0d, 0x01}
	require.Contains(t, string(module), string(wantBrIf))
}

func TestLift_ExportSection_FunctionsAndGlobalsOnly(t *testing.T) {
	importedGlobal := ir.Variable(1)
	fn := ir.Variable(2)
	table := ir.Variable(3)

	oracle := ir.MapOracle{
		importedGlobal: ir.NewGlobal(ir.KindI32, false),
		table:          ir.NewTable(ir.KindExternref, 1, nil),
	}
	lf := newLifterWithOracle(oracle)

	sig := ir.Signature{ReturnType: ir.Nothing()}
	lf.AddInstruction(ir.Instruction{Op: ir.OpWasmDefineTable, Output: table})
	lf.AddInstruction(ir.Instruction{Op: ir.OpBeginWasmFunction, Output: fn, FunctionSignature: &sig})
	lf.AddInstruction(ir.Instruction{Op: ir.OpWasmLoadGlobal, Inputs: []ir.Variable{importedGlobal}, Output: ir.Variable(9)})
	lf.AddInstruction(ir.Instruction{Op: ir.OpEndWasmFunction})

	module, _, err := lf.Lift()
	require.NoError(t, err)

	// "w0": the sole defined function, name length 2.
	wantFuncExport := []byte{0x02, 'w', '0', 0x00, 0x00}
	require.Contains(t, string(module), string(wantFuncExport))

	// "wg0": the imported global, at its first-seen position (0), not its own index space.
	wantGlobalExport := []byte{0x03, 'w', 'g', '0', 0x03, 0x00}
	require.Contains(t, string(module), string(wantGlobalExport))

	// A table was defined but spec §4.4 says tables are never exported: no "t0"/"table0" name.
	require.NotContains(t, string(module), "table")
}

