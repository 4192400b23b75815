// Package isa describes the fixed, 16-mnemonic instruction set assembled
// by this module: opcode numbers, operand arity, and which addressing
// modes are legal in the source and destination operand positions.
package isa

// Mode identifies an operand addressing mode.
type Mode int

// The three addressing modes recognized by the instruction set, given
// the wire-visible values the encoder writes directly into a code
// word's 3-bit addressing-mode fields. There is no translation step
// between a Mode and the bits emitted -- the constant IS the bit
// pattern.
const (
	Immediate Mode = 1 // [+-]?[0-9]+
	Direct    Mode = 3 // a label
	Register  Mode = 5 // @r0..@r7
)

// ModeSet is a small bitmask of allowed Modes for one operand position.
type ModeSet uint8

func modeBit(m Mode) ModeSet { return 1 << ModeSet(m) }

// Allows reports whether m is a member of the set.
func (s ModeSet) Allows(m Mode) bool { return s&modeBit(m) != 0 }

// Operand position addressing-mode sets shared by several instructions.
var (
	noOperand   = ModeSet(0)
	anyMode     = modeBit(Immediate) | modeBit(Direct) | modeBit(Register)
	destOnly    = modeBit(Direct) | modeBit(Register)
	directOnly  = modeBit(Direct)
)

// Instruction describes one of the sixteen fixed mnemonics.
type Instruction struct {
	Name     string  // mnemonic, lowercase
	Opcode   int     // 0-15
	Operands int     // 0, 1 or 2
	Src      ModeSet // legal addressing modes for the source operand (2-operand instructions only)
	Dst      ModeSet // legal addressing modes for the destination/sole operand
}

// Instructions holds every mnemonic ordered by opcode number.
var Instructions []Instruction

var byName map[string]*Instruction

func init() {
	Instructions = []Instruction{
		{Name: "mov", Opcode: 0, Operands: 2, Src: anyMode, Dst: destOnly},
		{Name: "cmp", Opcode: 1, Operands: 2, Src: anyMode, Dst: anyMode},
		{Name: "add", Opcode: 2, Operands: 2, Src: anyMode, Dst: destOnly},
		{Name: "sub", Opcode: 3, Operands: 2, Src: anyMode, Dst: destOnly},
		{Name: "not", Opcode: 4, Operands: 1, Dst: destOnly},
		{Name: "clr", Opcode: 5, Operands: 1, Dst: destOnly},
		{Name: "lea", Opcode: 6, Operands: 2, Src: directOnly, Dst: destOnly},
		{Name: "inc", Opcode: 7, Operands: 1, Dst: destOnly},
		{Name: "dec", Opcode: 8, Operands: 1, Dst: destOnly},
		{Name: "jmp", Opcode: 9, Operands: 1, Dst: destOnly},
		{Name: "bne", Opcode: 10, Operands: 1, Dst: destOnly},
		{Name: "red", Opcode: 11, Operands: 1, Dst: destOnly},
		{Name: "prn", Opcode: 12, Operands: 1, Dst: anyMode},
		{Name: "jsr", Opcode: 13, Operands: 1, Dst: destOnly},
		{Name: "rts", Opcode: 14, Operands: 0, Dst: noOperand},
		{Name: "stop", Opcode: 15, Operands: 0, Dst: noOperand},
	}

	byName = make(map[string]*Instruction, len(Instructions))
	for i := range Instructions {
		byName[Instructions[i].Name] = &Instructions[i]
	}
}

// Lookup finds the instruction with the given mnemonic, if any exists.
func Lookup(name string) (*Instruction, bool) {
	inst, ok := byName[name]
	return inst, ok
}

// ValidAddressing reports whether src/dst are legal addressing modes for
// inst's operand positions. For a one-operand instruction, pass dst as
// the sole operand's mode; src is ignored. For a zero-operand
// instruction both are ignored.
func ValidAddressing(inst *Instruction, src, dst Mode) bool {
	switch inst.Operands {
	case 0:
		return true
	case 1:
		return inst.Dst.Allows(dst)
	default:
		return inst.Src.Allows(src) && inst.Dst.Allows(dst)
	}
}
