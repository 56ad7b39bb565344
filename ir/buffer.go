package ir

// Code is the append-only instruction buffer the upstream JS lifter writes to via
// AddInstruction. It is read by lift.Lifter.Lift in two passes: import analysis, then emission.
// A Code value must not be mutated concurrently with a Lift call on it (spec §5).
type Code struct {
	instructions []Instruction
	nextVariable Variable
}

// NewCode returns an empty instruction buffer.
func NewCode() *Code {
	// Variable 0 is reserved (VariableNone), so allocation starts at 1.
	return &Code{nextVariable: 1}
}

// AddInstruction appends instr to the buffer. It is the sole write path into Code.
func (c *Code) AddInstruction(instr Instruction) {
	c.instructions = append(c.instructions, instr)
}

// NewVariable allocates and returns a fresh Variable handle, for callers building an Instruction
// (e.g. a label for InnerOutputs) before appending it.
func (c *Code) NewVariable() Variable {
	v := c.nextVariable
	c.nextVariable++
	return v
}

// Instructions returns the buffer's contents in append order. The returned slice aliases internal
// storage and must not be mutated by the caller.
func (c *Code) Instructions() []Instruction {
	return c.instructions
}

// Len returns the number of instructions appended so far.
func (c *Code) Len() int {
	return len(c.instructions)
}

// TypeOracle is a read-only lookup from Variable to ILType, consulted during import analysis and
// emission. Implementations must be pure and idempotent: the same Variable always maps to the
// same ILType for the lifetime of a single Lift call (spec §5, §6).
type TypeOracle interface {
	TypeOf(v Variable) ILType
}

// TypeOracleFunc adapts a plain function to the TypeOracle interface, for tests and small
// embedders that don't need a stateful oracle implementation.
type TypeOracleFunc func(v Variable) ILType

// TypeOf implements TypeOracle.
func (f TypeOracleFunc) TypeOf(v Variable) ILType { return f(v) }

// MapOracle is a TypeOracle backed by a plain map, the shape most test fixtures and small
// embedders want: build the map once from the same builder that allocates variables, then hand
// it to the Lifter.
type MapOracle map[Variable]ILType

// TypeOf implements TypeOracle.
func (m MapOracle) TypeOf(v Variable) ILType {
	return m[v]
}
