package asm

import "github.com/go-asc/asc2000/isa"

// kind identifies what a parsed source line turned into.
type kind int

const (
	kindBlank kind = iota
	kindInstruction
	kindData
	kindString
	kindEntry
	kindExtern
)

// operandRef is one operand of an instruction line, already classified
// by addressing mode but not yet resolved to an address or register
// number (that happens during label resolution in pass two).
type operandRef struct {
	mode  isa.Mode
	text  fstring // the raw operand text, e.g. "LABEL" or "7" or "@r3"
	value int     // decoded immediate value, when mode == isa.Immediate
	reg   int     // decoded register number, when mode == isa.Register
}

// irLine is the parsed, line-classified intermediate representation
// built by a single read of the source file. Both the address-
// assignment pass and the symbol-resolution pass operate on this
// structure instead of re-reading source text, eliminating the
// original implementation's "run the first pass twice" approach to a
// second pass.
type irLine struct {
	kind  kind
	line  fstring // the full source line, for diagnostics
	label string  // label preceding this line, if any

	// kindInstruction
	inst *isa.Instruction
	src  *operandRef
	dst  *operandRef
	addr int // address of the opcode word, assigned in pass one

	// kindData
	values []int

	// kindString
	text string

	// kindEntry / kindExtern
	symbol string
}
