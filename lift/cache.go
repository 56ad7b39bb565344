package lift

import "github.com/wasmlift/wasmlift/ir"

// exprCache maps a variable to its deferred byte sequence (a const or global.get, see cacheableOp), consumed
// exactly once per use. Per spec invariant 5, the cache never returns the same expression twice
// for lifting purposes: a second use of the same variable requires a spill instead.
type exprCache struct {
	entries map[ir.Variable][]byte
}

func newExprCache() exprCache {
	return exprCache{entries: make(map[ir.Variable][]byte)}
}

// set installs expr as the deferred expression for v, overwriting any prior entry.
func (c *exprCache) set(v ir.Variable, expr []byte) {
	c.entries[v] = expr
}

// take returns v's deferred expression and removes it from the cache (it is consumed once per
// use, per spec invariant 5).
func (c *exprCache) take(v ir.Variable) ([]byte, bool) {
	expr, ok := c.entries[v]
	if !ok {
		return nil, false
	}
	delete(c.entries, v)
	return expr, true
}

// has reports whether v currently has a pending cached expression, without consuming it.
func (c *exprCache) has(v ir.Variable) bool {
	_, ok := c.entries[v]
	return ok
}
