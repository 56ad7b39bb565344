package lift

import (
	"fmt"

	"github.com/wasmlift/wasmlift/ir"
)

// Kind identifies one of the programming-error categories a Lift call can abort with (spec §7).
// All are fatal: lifting stops immediately and any partial bytecode is discarded.
type Kind int

const (
	// MissingInput: an instruction input has no stack slot and no cached expression, and the
	// op is not a glue op that resolves its operand directly.
	MissingInput Kind = iota
	// UnhandledImport: an op introduces a structured-object input the Import Analyzer does
	// not model.
	UnhandledImport
	// BadSignature: a Signature carries a non-plain parameter type.
	BadSignature
	// InvalidReference: a resolver (resolveGlobalIdx, resolveTableIdx, ...) found no index for
	// a Variable.
	InvalidReference
	// InvariantViolation: one of the §3 data-model invariants was violated.
	InvariantViolation
)

func (k Kind) String() string {
	switch k {
	case MissingInput:
		return "MissingInput"
	case UnhandledImport:
		return "UnhandledImport"
	case BadSignature:
		return "BadSignature"
	case InvalidReference:
		return "InvalidReference"
	case InvariantViolation:
		return "InvariantViolation"
	}
	return "UnknownError"
}

// Error is the diagnostic wasmlift aborts a Lift call with. It names the offending instruction
// index and variable so the upstream fuzzer driver (or a human debugging a crash) can locate the
// IR that produced it. InstrIndex is -1 for an error raised while assembling the sections after
// the instruction walk (an import with no usable type, an unresolvable table element).
type Error struct {
	Kind        Kind
	InstrIndex  int
	Variable    ir.Variable
	Message     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("wasmlift: %s at instruction %d (variable %d): %s",
		e.Kind, e.InstrIndex, e.Variable, e.Message)
}

// Is supports errors.Is(err, lift.ErrMissingInput) and friends by comparing Kind, letting a caller
// that wants to distinguish error categories write errors.Is(err, lift.ErrMissingInput) without
// type-asserting to *Error first. A sentinel kindError carries only a Kind for this comparison.
func (e *Error) Is(target error) bool {
	if ke, ok := target.(kindError); ok {
		return e.Kind == Kind(ke)
	}
	return false
}

type kindError Kind

func (k kindError) Error() string { return Kind(k).String() }

// newError builds an *Error for the given kind, instruction index and variable.
func newError(kind Kind, instrIndex int, v ir.Variable, format string, args ...interface{}) *Error {
	return &Error{
		Kind:       kind,
		InstrIndex: instrIndex,
		Variable:   v,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Sentinel kind errors usable with errors.Is, e.g. errors.Is(err, lift.ErrMissingInput).
var (
	ErrMissingInput       error = kindError(MissingInput)
	ErrUnhandledImport    error = kindError(UnhandledImport)
	ErrBadSignature       error = kindError(BadSignature)
	ErrInvalidReference   error = kindError(InvalidReference)
	ErrInvariantViolation error = kindError(InvariantViolation)
)
