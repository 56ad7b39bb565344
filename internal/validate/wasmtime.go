// Package validate cross-checks a compiled module against independent Wasm engines: it never
// executes a function, only asks each engine to decode and validate the module bytes. This is
// the smoke test a fuzzer-facing compiler needs that a unit test suite can't provide on its own —
// confirmation that a byte-for-byte-correct encoding actually parses under a production-grade
// validator, not just under wasmlift's own assumptions about the format.
package validate

import (
	"fmt"

	"github.com/bytecodealliance/wasmtime-go/v7"
)

// Wasmtime asks wasmtime to compile module, returning its validation error if any. A successful
// call proves the module is well-formed per wasmtime's binary-format and type-checking rules.
func Wasmtime(module []byte) error {
	engine := wasmtime.NewEngine()
	if _, err := wasmtime.NewModule(engine, module); err != nil {
		return fmt.Errorf("wasmtime: %w", err)
	}
	return nil
}
