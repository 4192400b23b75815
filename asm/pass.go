package asm

import (
	"io"
	"strconv"
	"strings"

	"github.com/go-asc/asc2000/isa"
)

// Assemble runs the full pipeline over a single source file: macro
// pre-processing has already happened by the time Assemble is called
// (see Preprocess); Assemble parses the expanded source once into an
// IR, assigns addresses and builds the symbol table in one pass over
// that IR, then resolves symbol references and encodes code words in a
// second pass over the same IR. Neither pass re-reads source text,
// which is what lets the second pass be a pure function of the first
// pass's output instead of a second, diagnostic-suppressed trip through
// the parser.
func Assemble(file string, r io.Reader) *Assembler {
	a := NewAssembler(file)

	lines := readLines(r)
	a.parse(lines)
	if len(a.errors) > 0 {
		return a
	}

	a.assignAddresses()
	if len(a.errors) > 0 {
		return a
	}

	a.resolveSymbols()
	return a
}

// parse performs the single read of source text, classifying each line
// and recording it as IR. No addresses or symbol values are assigned
// here.
func (a *Assembler) parse(lines []fstring) {
	for _, raw := range lines {
		line := raw.stripTrailingComment()
		if len(raw.str) > maxLineLength {
			a.addError(newError(a.File, raw, CodeOverflowLine,
				"line exceeds %d characters", maxLineLength))
			continue
		}

		trimmed := strings.TrimSpace(line.str)
		if trimmed == "" {
			continue
		}

		label, rest, err := splitLabel(a.File, line)
		if err != nil {
			a.addError(err)
			continue
		}
		rest = rest.consumeWhitespace()
		if rest.isEmpty() {
			if label != "" {
				a.addError(newError(a.File, line, CodeInvalidLabelDeclaration,
					"label '%s' is not followed by a directive or instruction", label))
			}
			continue
		}

		word, _ := rest.consumeWhile(func(c byte) bool { return c != ' ' && c != '\t' })
		switch {
		case isDirective(word.str):
			a.parseDirective(line, label, word.str, rest)
		default:
			a.parseInstructionLine(line, label, rest)
		}
	}
}

func (a *Assembler) parseDirective(line fstring, label, directive string, rest fstring) {
	_, operand := rest.consumeWhile(func(c byte) bool { return c != ' ' && c != '\t' })
	operand = operand.consumeWhitespace()

	switch directive {
	case ".data":
		fields, err := splitFields(a.File, operand)
		if err != nil {
			a.addError(err)
			return
		}
		values := make([]int, 0, len(fields))
		for _, f := range fields {
			s := strings.TrimSpace(f.str)
			n, convErr := strconv.Atoi(s)
			if convErr != nil {
				a.addError(newError(a.File, f, CodeInvalidAddressingMode,
					"invalid integer '%s' in .data list", s))
				return
			}
			values = append(values, n)
		}
		a.lines = append(a.lines, &irLine{kind: kindData, line: line, label: label, values: values})

	case ".string":
		lit, _, ok := operand.consumeQuoted()
		if !ok {
			if !operand.startsWithChar('"') {
				a.addError(newError(a.File, operand, CodeMissingOpeningQuote,
					".string operand must begin with an opening quote"))
			} else {
				a.addError(newError(a.File, operand, CodeMissingClosingQuote,
					".string operand is missing its closing quote"))
			}
			return
		}
		text := lit.str[1 : len(lit.str)-1] // every character between the quotes is encoded
		a.lines = append(a.lines, &irLine{kind: kindString, line: line, label: label, text: text})

	case ".entry":
		name := strings.TrimSpace(operand.str)
		a.lines = append(a.lines, &irLine{kind: kindEntry, line: line, symbol: name})

	case ".extern":
		name := strings.TrimSpace(operand.str)
		a.lines = append(a.lines, &irLine{kind: kindExtern, line: line, symbol: name})
	}
}

func (a *Assembler) parseInstructionLine(line fstring, label string, rest fstring) {
	mnemonic, remain := rest.consumeWhile(alpha)
	inst, ok := isa.Lookup(strings.ToLower(mnemonic.str))
	if !ok {
		a.addError(newError(a.File, mnemonic, CodeUnknownMnemonic,
			"unknown mnemonic '%s'", mnemonic.str))
		return
	}
	remain = remain.consumeWhitespace()

	fields, err := splitFields(a.File, remain)
	if err != nil {
		a.addError(err)
		return
	}
	if len(fields) != inst.Operands {
		a.addError(newError(a.File, line, CodeWrongOperandCount,
			"'%s' expects %d operand(s), got %d", inst.Name, inst.Operands, len(fields)))
		return
	}

	ir := &irLine{kind: kindInstruction, line: line, label: label, inst: inst}

	var srcMode, dstMode isa.Mode
	switch inst.Operands {
	case 1:
		op, operr := parseOperand(a.File, fields[0])
		if operr != nil {
			a.addError(operr)
			return
		}
		ir.dst = op
		dstMode = op.mode
	case 2:
		srcOp, operr := parseOperand(a.File, fields[0])
		if operr != nil {
			a.addError(operr)
			return
		}
		dstOp, operr := parseOperand(a.File, fields[1])
		if operr != nil {
			a.addError(operr)
			return
		}
		ir.src, ir.dst = srcOp, dstOp
		srcMode, dstMode = srcOp.mode, dstOp.mode
	}

	if !isa.ValidAddressing(inst, srcMode, dstMode) {
		a.addError(newError(a.File, line, CodeInvalidAddressingMode,
			"invalid addressing mode for '%s'", inst.Name))
		return
	}

	a.lines = append(a.lines, ir)
}

// wordCount returns how many 12-bit words an instruction line occupies:
// one opcode word, plus one additional word per operand, except that
// (per the register-fusion rule) two register-direct operands share a
// single word instead of one each.
func wordCount(ir *irLine) int {
	n := 1
	switch {
	case ir.src != nil && ir.dst != nil:
		if registerFusion(ir.src.mode, ir.dst.mode) {
			n++
		} else {
			n += 2
		}
	case ir.dst != nil:
		n++
	}
	return n
}

// assignAddresses is pass one: walk the IR once, assigning an address
// to every instruction/data/string line and defining every label as a
// symbol. .entry declarations are queued rather than applied
// immediately, since they may name a label defined later in the file.
func (a *Assembler) assignAddresses() {
	addr := BaseAddress

	defineLabel := func(line fstring, label string, value int) {
		if label == "" {
			return
		}
		sym := a.symbols.define(label)
		if !sym.setValue(value) {
			a.addError(newError(a.File, line, CodeDuplicateSymbol,
				"symbol '%s' is already defined", label))
		}
	}

	for _, ir := range a.lines {
		switch ir.kind {
		case kindInstruction:
			ir.addr = addr
			defineLabel(ir.line, ir.label, addr)
			addr += wordCount(ir)

		case kindData:
			defineLabel(ir.line, ir.label, addr)
			ir.addr = addr
			addr += len(ir.values)

		case kindString:
			defineLabel(ir.line, ir.label, addr)
			ir.addr = addr
			addr += len(ir.text) + 1 // +1 for the terminating zero word

		case kindExtern:
			sym := a.symbols.define(ir.symbol)
			if !sym.markExtern() {
				a.addError(newError(a.File, ir.line, CodeEntryExternConflict,
					"symbol '%s' cannot be both .entry and .extern", ir.symbol))
			}

		case kindEntry:
			a.entries = append(a.entries, ir.symbol)
		}
	}

	if addr-BaseAddress > Capacity {
		a.addError(newError(a.File, fstring{}, CodeMemoryAccessViolation,
			"program exceeds %d words of code memory", Capacity))
	}
}

// resolveSymbols is pass two: apply queued .entry marks now that every
// label has an address, then walk the IR a second time to resolve
// direct operands against the now-complete symbol table and encode the
// final code words. This pass never needs to re-parse source text or
// re-discover a syntax error; the IR built by parse already
// guarantees well-formed lines.
func (a *Assembler) resolveSymbols() {
	for _, name := range a.entries {
		sym, ok := a.symbols.get(name)
		if !ok {
			sym = a.symbols.define(name)
		}
		if !sym.markEntry() {
			a.addError(newError(a.File, fstring{}, CodeEntryExternConflict,
				"symbol '%s' cannot be both .entry and .extern", name))
		}
	}

	for _, ir := range a.lines {
		switch ir.kind {
		case kindInstruction:
			a.encodeInstruction(ir)
		case kindData:
			for i, v := range ir.values {
				a.store(ir.addr+i, encodeValueWord(toTwosComplement10(v), AREAbsolute))
			}
		case kindString:
			for i := 0; i < len(ir.text); i++ {
				a.store(ir.addr+i, encodeValueWord(int(ir.text[i]), AREAbsolute))
			}
			a.store(ir.addr+len(ir.text), encodeValueWord(0, AREAbsolute))
		}
	}
}

func (a *Assembler) store(addr int, word uint16) {
	if err := a.image.Store(addr, word); err != nil {
		a.addError(newError(a.File, fstring{}, CodeMemoryAccessViolation, "%v", err))
	}
}

func (a *Assembler) resolveOperand(addr int, op *operandRef) (are ARE, value int, reg int) {
	switch op.mode {
	case isa.Immediate:
		return AREAbsolute, toTwosComplement10(op.value), 0
	case isa.Register:
		return AREAbsolute, 0, op.reg
	default: // isa.Direct
		sym, ok := a.symbols.get(op.text.str)
		if !ok || !sym.valueSet {
			if ok && sym.IsExtern {
				a.externs = append(a.externs, externRef{Name: op.text.str, Addr: addr})
				return AREExternal, 0, 0
			}
			a.addError(newError(a.File, op.text, CodeUndefinedSymbol,
				"undefined symbol '%s'", op.text.str))
			return AREAbsolute, 0, 0
		}
		if sym.IsExtern {
			a.externs = append(a.externs, externRef{Name: op.text.str, Addr: addr})
			return AREExternal, 0, 0
		}
		return ARERelocatable, sym.Value, 0
	}
}

func (a *Assembler) encodeInstruction(ir *irLine) {
	var srcMode, dstMode isa.Mode
	if ir.src != nil {
		srcMode = ir.src.mode
	}
	if ir.dst != nil {
		dstMode = ir.dst.mode
	}
	a.store(ir.addr, encodeOpcodeWord(ir.inst.Opcode, srcMode, dstMode))

	wordAddr := ir.addr + 1
	switch {
	case ir.src != nil && ir.dst != nil && registerFusion(srcMode, dstMode):
		_, _, srcReg := a.resolveOperand(wordAddr, ir.src)
		_, _, dstReg := a.resolveOperand(wordAddr, ir.dst)
		a.store(wordAddr, encodeRegisterWord(dstReg, true, srcReg, true))

	case ir.src != nil && ir.dst != nil:
		a.encodeOperandWord(wordAddr, ir.src, false)
		a.encodeOperandWord(wordAddr+1, ir.dst, true)

	case ir.dst != nil:
		a.encodeOperandWord(wordAddr, ir.dst, true)
	}
}

// encodeOperandWord encodes a single operand that did not take part in
// register fusion. isDest selects which half of a register word the
// value occupies; it has no effect for immediate or direct operands,
// which use the whole 10-bit value field.
func (a *Assembler) encodeOperandWord(addr int, op *operandRef, isDest bool) {
	are, value, reg := a.resolveOperand(addr, op)
	if op.mode == isa.Register {
		a.store(addr, encodeRegisterWord(reg, isDest, reg, !isDest))
		return
	}
	a.store(addr, encodeValueWord(value, are))
}
