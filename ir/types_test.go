package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmlift/wasmlift/api"
	"github.com/wasmlift/wasmlift/ir"
)

func TestILType_IsPlain(t *testing.T) {
	plain := []ir.ILType{ir.I32(), ir.I64(), ir.F32(), ir.F64(), ir.V128(), ir.Funcref(), ir.Externref()}
	for _, ty := range plain {
		require.True(t, ty.IsPlain(), ty.Kind.String())
	}

	notPlain := []ir.ILType{
		ir.Label(),
		ir.Nothing(),
		ir.NewMemory(1, nil),
		ir.NewTable(ir.KindFuncref, 0, nil),
		ir.NewGlobal(ir.KindI32, false),
		ir.NewTag(nil),
		ir.NewFunction(ir.Signature{}),
	}
	for _, ty := range notPlain {
		require.False(t, ty.IsPlain(), ty.Kind.String())
	}
}

func TestILType_IsStructuredObject(t *testing.T) {
	require.True(t, ir.NewMemory(1, nil).IsStructuredObject())
	require.True(t, ir.NewTable(ir.KindFuncref, 0, nil).IsStructuredObject())
	require.True(t, ir.NewGlobal(ir.KindI32, true).IsStructuredObject())
	require.True(t, ir.NewTag(nil).IsStructuredObject())
	require.True(t, ir.NewFunction(ir.Signature{}).IsStructuredObject())
	require.False(t, ir.I32().IsStructuredObject())
	require.False(t, ir.Label().IsStructuredObject())
}

func TestILType_ValueType(t *testing.T) {
	require.Equal(t, api.ValueTypeI32, ir.I32().ValueType())
	require.Equal(t, api.ValueTypeF64, ir.F64().ValueType())
	require.Equal(t, api.ValueTypeFuncref, ir.Funcref().ValueType())
}

func TestILType_ValueType_PanicsOnNonPlain(t *testing.T) {
	require.Panics(t, func() { ir.Nothing().ValueType() })
}

func TestKindFromValueType_RoundTrip(t *testing.T) {
	kinds := []ir.Kind{ir.KindI32, ir.KindI64, ir.KindF32, ir.KindF64, ir.KindV128, ir.KindFuncref, ir.KindExternref}
	for _, k := range kinds {
		vt := ir.ILType{Kind: k}.ValueType()
		require.Equal(t, k, ir.KindFromValueType(vt))
	}
}

func TestSignature_HasResult(t *testing.T) {
	require.False(t, ir.Signature{ReturnType: ir.Nothing()}.HasResult())
	require.True(t, ir.Signature{ReturnType: ir.I32()}.HasResult())
}

func TestSignature_Equal(t *testing.T) {
	a := ir.Signature{Parameters: []ir.ILType{ir.I32(), ir.F64()}, ReturnType: ir.I32()}
	b := ir.Signature{Parameters: []ir.ILType{ir.I32(), ir.F64()}, ReturnType: ir.I32()}
	c := ir.Signature{Parameters: []ir.ILType{ir.I32()}, ReturnType: ir.I32()}
	d := ir.Signature{Parameters: []ir.ILType{ir.I32(), ir.F64()}, ReturnType: ir.Nothing()}

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(d))
}
