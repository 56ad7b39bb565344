package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmlift/wasmlift/ir"
)

func TestCode_NewVariable_SkipsReservedZero(t *testing.T) {
	c := ir.NewCode()
	v1 := c.NewVariable()
	v2 := c.NewVariable()
	require.NotEqual(t, ir.VariableNone, v1)
	require.Equal(t, v1+1, v2)
}

func TestCode_AddInstruction_AppendsInOrder(t *testing.T) {
	c := ir.NewCode()
	c.AddInstruction(ir.Instruction{Op: ir.OpNop})
	c.AddInstruction(ir.Instruction{Op: ir.OpUnreachable})

	require.Equal(t, 2, c.Len())
	require.Equal(t, []ir.Instruction{{Op: ir.OpNop}, {Op: ir.OpUnreachable}}, c.Instructions())
}

func TestMapOracle_TypeOf_MissingReturnsZeroValue(t *testing.T) {
	oracle := ir.MapOracle{}
	require.Equal(t, ir.ILType{}, oracle.TypeOf(ir.Variable(99)))
}

func TestTypeOracleFunc_AdaptsPlainFunction(t *testing.T) {
	var oracle ir.TypeOracle = ir.TypeOracleFunc(func(v ir.Variable) ir.ILType {
		return ir.I64()
	})
	require.Equal(t, ir.I64(), oracle.TypeOf(ir.Variable(1)))
}
