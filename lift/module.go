// Package lift implements the WebAssembly Module Compiler: the Import Analyzer, the per-function
// Variable Analyzer, the expression cache, the per-instruction emitter, and the section builders
// that together turn an ir.Code instruction buffer into a binary Wasm module.
package lift

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/wasmlift/wasmlift/ir"
)

// importKind classifies a module's import table entries by index space.
type importKind int

const (
	importFunc importKind = iota
	importTable
	importMemory
	importGlobal
	importTag
)

// importEntry is one entry of the module-scoped imports table (spec §3): a variable paired with
// its Signature when it names a callable entity whose JS-to-Wasm signature has been chosen by
// the upstream lifter (functions and tags), and nil otherwise (tables, memories, globals).
type importEntry struct {
	Variable  ir.Variable
	Kind      importKind
	Signature *ir.Signature
}

// Lifter is the single-threaded, stateful compiler described by spec §5: it owns an instruction
// buffer, the module-scoped index-space tables, and per-function state for the duration of a
// Lift call. AddInstruction and Lift must not be called concurrently on the same instance.
type Lifter struct {
	oracle ir.TypeOracle
	code   *ir.Code

	logger        *logrus.Logger
	debugDumpPath string
	debugFs       afero.Fs

	imports     []importEntry
	globals     []ir.Instruction
	memories    []ir.Instruction
	tables      []ir.Instruction
	tagOrder    []ir.Variable
	tagParams   map[ir.Variable][]ir.ILType
	globalOrder []ir.Variable

	functions       []*functionInfo
	functionIdxBase uint32

	baseDefinedGlobals uint32
	baseDefinedTables  uint32

	current *functionInfo
}

// Option configures a Lifter at construction time.
type Option func(*Lifter)

// WithLogger attaches a logrus.Logger used for diagnostic output during Lift. Lifting never
// depends on a logger being present: a nil logger (the default) simply means no diagnostics are
// emitted.
func WithLogger(l *logrus.Logger) Option {
	return func(lf *Lifter) { lf.logger = l }
}

// WithDebugDumpPath configures a best-effort write of the final module bytes to path after a
// successful Lift call. Errors writing the dump are logged (if a logger is configured) and
// otherwise swallowed, per spec §5.
func WithDebugDumpPath(path string) Option {
	return func(lf *Lifter) { lf.debugDumpPath = path }
}

// WithDebugFs overrides the filesystem used for WithDebugDumpPath; it defaults to the OS
// filesystem. Tests use an in-memory afero.Fs so the dump path can be asserted without touching
// disk.
func WithDebugFs(fs afero.Fs) Option {
	return func(lf *Lifter) { lf.debugFs = fs }
}

// NewLifter constructs an empty Lifter consulting oracle for variable types.
func NewLifter(oracle ir.TypeOracle, opts ...Option) *Lifter {
	lf := &Lifter{
		oracle:    oracle,
		code:      ir.NewCode(),
		tagParams: make(map[ir.Variable][]ir.ILType),
		debugFs:   afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(lf)
	}
	return lf
}

// AddInstruction appends instr to the lifter's instruction buffer. Safe to call repeatedly
// before Lift; must not be called concurrently with Lift or with another AddInstruction on the
// same instance.
func (lf *Lifter) AddInstruction(instr ir.Instruction) {
	lf.code.AddInstruction(instr)
}

// NewVariable allocates a fresh Variable handle from the lifter's own buffer, for callers
// building an Instruction that needs a label or output before it exists elsewhere.
func (lf *Lifter) NewVariable() ir.Variable {
	return lf.code.NewVariable()
}

// Reset clears all per-instance state so a single Lifter can be reused across multiple
// fuzzer-generated programs without reallocating its tables on every iteration. oracle replaces
// the lifter's TypeOracle, since a new program typically comes with a new oracle instance.
func (lf *Lifter) Reset(oracle ir.TypeOracle) {
	lf.oracle = oracle
	lf.code = ir.NewCode()
	lf.imports = lf.imports[:0]
	lf.globals = lf.globals[:0]
	lf.memories = lf.memories[:0]
	lf.tables = lf.tables[:0]
	lf.tagOrder = lf.tagOrder[:0]
	for v := range lf.tagParams {
		delete(lf.tagParams, v)
	}
	lf.globalOrder = lf.globalOrder[:0]
	lf.functions = lf.functions[:0]
	lf.functionIdxBase = 0
	lf.baseDefinedGlobals = 0
	lf.baseDefinedTables = 0
	lf.current = nil
}

func (lf *Lifter) logf(format string, args ...interface{}) {
	if lf.logger != nil {
		lf.logger.Debugf(format, args...)
	}
}

// isTableImported reports whether v is already present in imports as a table.
func (lf *Lifter) isTableImported(v ir.Variable) bool {
	return lf.findImport(v, importTable) >= 0
}

// isMemoryImported reports whether v is already present in imports as a memory.
func (lf *Lifter) isMemoryImported(v ir.Variable) bool {
	return lf.findImport(v, importMemory) >= 0
}

// isTagImported reports whether v is already present in imports as a tag.
func (lf *Lifter) isTagImported(v ir.Variable) bool {
	return lf.findImport(v, importTag) >= 0
}

func (lf *Lifter) findImport(v ir.Variable, kind importKind) int {
	for i, e := range lf.imports {
		if e.Kind == kind && e.Variable == v {
			return i
		}
	}
	return -1
}

func (lf *Lifter) isTableDefined(v ir.Variable) bool {
	for _, instr := range lf.tables {
		if instr.Output == v {
			return true
		}
	}
	return false
}

func (lf *Lifter) isMemoryDefined(v ir.Variable) bool {
	for _, instr := range lf.memories {
		if instr.Output == v {
			return true
		}
	}
	return false
}

func (lf *Lifter) isTagDefined(v ir.Variable) bool {
	_, ok := lf.tagParams[v]
	return ok
}

// globalOrderIndex returns the position of v in globalOrder, or -1.
func (lf *Lifter) globalOrderIndex(v ir.Variable) int {
	for i, g := range lf.globalOrder {
		if g == v {
			return i
		}
	}
	return -1
}
