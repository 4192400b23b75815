// Package asm implements the macro pre-processor, two-pass symbol
// resolution, and instruction encoder for the fixed, 16-mnemonic
// instruction set described by this module.
package asm

import (
	"bufio"
	"io"
)

// Assembler holds every piece of state accumulated while assembling a
// single source file: the symbol table, the parsed line list, the
// resulting code image, and any diagnostics. One Assembler is created
// per file; nothing here is shared across files, and nothing is
// package-level mutable state.
type Assembler struct {
	File string

	symbols *symbolTable
	lines   []*irLine
	image   *CodeImage
	externs []externRef
	errors  []*AssemblerError

	// entries queues .entry declarations so they can be applied once
	// every label in the file has been assigned an address, allowing
	// an .entry line to precede the label it names.
	entries []string
}

// NewAssembler creates an empty Assembler for the named source file.
func NewAssembler(file string) *Assembler {
	return &Assembler{
		File:    file,
		symbols: newSymbolTable(),
		image:   newCodeImage(),
	}
}

// Errors returns every diagnostic collected during assembly, in the
// order encountered.
func (a *Assembler) Errors() []*AssemblerError { return a.errors }

func (a *Assembler) addError(err *AssemblerError) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

// AddError appends a diagnostic produced outside of Assemble itself,
// such as one raised by the macro pre-processor before parsing began.
func (a *Assembler) AddError(err *AssemblerError) { a.addError(err) }

// Symbols returns the file's symbol table in definition order.
func (a *Assembler) Symbols() []*Symbol { return a.symbols.symbols() }

// Externs returns every recorded use of an externally-defined symbol.
func (a *Assembler) Externs() []externRef { return a.externs }

// Image returns the assembled code image.
func (a *Assembler) Image() *CodeImage { return a.image }

// readLines reads r line by line into position-tracked fstrings, the
// same way the original implementation read one physical line at a
// time. Trailing comments are left in place; parse strips them.
func readLines(r io.Reader) []fstring {
	var lines []fstring
	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		row++
		lines = append(lines, newFstring(0, row, scanner.Text()))
	}
	return lines
}
