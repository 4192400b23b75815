package asm

import (
	"strings"
	"testing"
)

func assemble(t *testing.T, code string) *Assembler {
	t.Helper()
	a := Assemble("test", strings.NewReader(code))
	return a
}

func checkNoErrors(t *testing.T, a *Assembler) {
	t.Helper()
	for _, e := range a.Errors() {
		t.Errorf("unexpected error: %v", e)
	}
}

func checkError(t *testing.T, a *Assembler, code Code) {
	t.Helper()
	for _, e := range a.Errors() {
		if e.Code == code {
			return
		}
	}
	t.Errorf("expected error %s, got %v", code, a.Errors())
}

func TestSimpleInstruction(t *testing.T) {
	a := assemble(t, "stop\n")
	checkNoErrors(t, a)
	words := a.Image().Words()
	if len(words) != 1 {
		t.Fatalf("expected 1 word, got %d", len(words))
	}
}

func TestLabelAndDirect(t *testing.T) {
	a := assemble(t, "LOOP: inc @r2\n      jmp LOOP\n")
	checkNoErrors(t, a)
	syms := a.Symbols()
	if len(syms) != 1 || syms[0].Name != "LOOP" || syms[0].Value != BaseAddress {
		t.Fatalf("unexpected symbols: %+v", syms)
	}
}

func TestRegisterFusionSharesOneWord(t *testing.T) {
	a := assemble(t, "mov @r1, @r2\n")
	checkNoErrors(t, a)
	if len(a.Image().Words()) != 2 {
		t.Fatalf("expected opcode word + 1 fused operand word, got %d", len(a.Image().Words()))
	}
}

func TestTwoOperandsWithoutFusionUseTwoWords(t *testing.T) {
	a := assemble(t, "mov 5, @r2\n")
	checkNoErrors(t, a)
	if len(a.Image().Words()) != 3 {
		t.Fatalf("expected opcode word + 2 operand words, got %d", len(a.Image().Words()))
	}
}

func TestUndefinedSymbol(t *testing.T) {
	a := assemble(t, "jmp NOPE\n")
	checkError(t, a, CodeUndefinedSymbol)
}

func TestDuplicateSymbol(t *testing.T) {
	a := assemble(t, "A: stop\nA: stop\n")
	checkError(t, a, CodeDuplicateSymbol)
}

func TestEntryExternConflict(t *testing.T) {
	a := assemble(t, ".extern X\n.entry X\n")
	checkError(t, a, CodeEntryExternConflict)
}

func TestExternReferenceRecorded(t *testing.T) {
	a := assemble(t, ".extern X\njmp X\n")
	checkNoErrors(t, a)
	ext := a.Externs()
	if len(ext) != 1 || ext[0].Name != "X" {
		t.Fatalf("expected one extern reference to X, got %+v", ext)
	}
}

func TestStringEncodesEveryCharacter(t *testing.T) {
	a := assemble(t, `S: .string "a1 !"`)
	checkNoErrors(t, a)
	words := a.Image().Words()
	// 4 characters + a terminating zero word
	if len(words) != 5 {
		t.Fatalf("expected 5 words for a 4-character string, got %d", len(words))
	}
}

func TestMissingClosingQuote(t *testing.T) {
	a := assemble(t, `S: .string "unterminated`)
	checkError(t, a, CodeMissingClosingQuote)
}

func TestOverflowLine(t *testing.T) {
	a := assemble(t, "stop"+strings.Repeat(" ", 100)+"\n")
	checkError(t, a, CodeOverflowLine)
}

func TestOverflowLabel(t *testing.T) {
	a := assemble(t, strings.Repeat("A", 32)+": stop\n")
	checkError(t, a, CodeOverflowLabel)
}

func TestInvalidAddressingMode(t *testing.T) {
	// lea's source operand must be direct; a register source is invalid.
	a := assemble(t, "lea @r1, @r2\n")
	checkError(t, a, CodeInvalidAddressingMode)
}

func TestWrongOperandCount(t *testing.T) {
	a := assemble(t, "stop @r1\n")
	checkError(t, a, CodeWrongOperandCount)
}

func TestUnknownMnemonic(t *testing.T) {
	a := assemble(t, "frobnicate @r1\n")
	checkError(t, a, CodeUnknownMnemonic)
}

func TestDataDirective(t *testing.T) {
	a := assemble(t, "N: .data 1, -2, 3\n")
	checkNoErrors(t, a)
	if len(a.Image().Words()) != 3 {
		t.Fatalf("expected 3 data words, got %d", len(a.Image().Words()))
	}
}

func TestCommaErrors(t *testing.T) {
	checkError(t, assemble(t, "N: .data ,1,2\n"), CodeCommaAtStart)
	checkError(t, assemble(t, "N: .data 1,2,\n"), CodeCommaAtEnd)
	checkError(t, assemble(t, "N: .data 1,,2\n"), CodeConsecutiveCommas)
}

func TestEndToEndWithEntryAndExtern(t *testing.T) {
	code := `.entry LOOP
.extern COUNTER
LOOP:   add COUNTER, @r1
        bne LOOP
        stop
`
	a := assemble(t, code)
	checkNoErrors(t, a)
	if !a.HasEntries() {
		t.Error("expected an .ent entry for LOOP")
	}
	if !a.HasExterns() {
		t.Error("expected an .ext entry for COUNTER")
	}
}
