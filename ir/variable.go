// Package ir defines the instruction buffer that the upstream JavaScript lifter appends to, and
// the type vocabulary (ILType, Signature) the lift package consults while compiling it to a Wasm
// binary.
package ir

// Variable is an opaque handle produced by the upstream IR. It has no ownership semantics; its
// lifetime is dominated by the Code buffer that produced it. Variable is used as a map key
// throughout the lift package, so its zero value must never collide with a real variable — the
// upstream builder is responsible for never emitting VariableNone as a live handle.
type Variable uint32

// VariableNone is the zero Variable, reserved to mean "no variable" in optional fields (e.g. an
// Instruction with no Output).
const VariableNone Variable = 0
