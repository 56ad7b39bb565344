package lift

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmlift/wasmlift/ir"
)

func TestExprCache_SetTakeConsumesOnce(t *testing.T) {
	c := newExprCache()
	v := ir.Variable(1)
	expr := []byte{0x41, 0x2a}

	require.False(t, c.has(v))
	c.set(v, expr)
	require.True(t, c.has(v))

	got, ok := c.take(v)
	require.True(t, ok)
	require.Equal(t, expr, got)

	_, ok = c.take(v)
	require.False(t, ok, "a second take of the same variable must miss")
}

func TestExprCache_SetOverwritesPriorEntry(t *testing.T) {
	c := newExprCache()
	v := ir.Variable(1)
	c.set(v, []byte{0x01})
	c.set(v, []byte{0x02})

	got, ok := c.take(v)
	require.True(t, ok)
	require.Equal(t, []byte{0x02}, got)
}

func TestExprCache_TakeUnknownVariableMisses(t *testing.T) {
	c := newExprCache()
	_, ok := c.take(ir.Variable(5))
	require.False(t, ok)
}
