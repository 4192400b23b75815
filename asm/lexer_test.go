package asm

import (
	"testing"

	"github.com/go-asc/asc2000/isa"
)

func line(s string) fstring {
	return newFstring(0, 1, s)
}

func TestSplitLabelPresent(t *testing.T) {
	label, rest, err := splitLabel("t.as", line("LOOP: mov @r1, @r2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "LOOP" {
		t.Fatalf("got label %q, want LOOP", label)
	}
	if rest.str != "mov @r1, @r2" {
		t.Fatalf("got rest %q, want 'mov @r1, @r2'", rest.str)
	}
}

func TestSplitLabelAbsent(t *testing.T) {
	label, rest, err := splitLabel("t.as", line("mov @r1, @r2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != "" {
		t.Fatalf("got label %q, want none", label)
	}
	if rest.str != "mov @r1, @r2" {
		t.Fatalf("rest was modified: %q", rest.str)
	}
}

func TestSplitLabelNotFollowedByColon(t *testing.T) {
	// "mov" looks like a label-shaped word but has no trailing colon,
	// so it must not be consumed as one.
	label, rest, err := splitLabel("t.as", line("mov @r1, @r2"))
	if err != nil || label != "" || rest.str != "mov @r1, @r2" {
		t.Fatalf("got (%q, %q, %v), want no label consumed", label, rest.str, err)
	}
}

func TestSplitLabelOverflow(t *testing.T) {
	long := ""
	for i := 0; i < maxLabelLength+5; i++ {
		long += "a"
	}
	_, _, err := splitLabel("t.as", line(long+": mov @r1, @r2"))
	if err == nil || err.Code != CodeOverflowLabel {
		t.Fatalf("expected CodeOverflowLabel, got %v", err)
	}
}

func TestSplitFieldsBasic(t *testing.T) {
	fields, err := splitFields("t.as", line("1, -2, 3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"1", "-2", "3"}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i, w := range want {
		if fields[i].str != w {
			t.Errorf("field %d = %q, want %q", i, fields[i].str, w)
		}
	}
}

func TestSplitFieldsLeadingWhitespaceStripped(t *testing.T) {
	// Regression: a leading space before a negative number must not end
	// up embedded in the field value.
	fields, err := splitFields("t.as", line("  1,   -2  , 3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"1", "-2", "3"}
	for i, w := range want {
		if fields[i].str != w {
			t.Errorf("field %d = %q, want %q", i, fields[i].str, w)
		}
	}
}

func TestSplitFieldsCommaAtStart(t *testing.T) {
	_, err := splitFields("t.as", line(", 1, 2"))
	if err == nil || err.Code != CodeCommaAtStart {
		t.Fatalf("expected CodeCommaAtStart, got %v", err)
	}
}

func TestSplitFieldsCommaAtEnd(t *testing.T) {
	_, err := splitFields("t.as", line("1, 2,"))
	if err == nil || err.Code != CodeCommaAtEnd {
		t.Fatalf("expected CodeCommaAtEnd, got %v", err)
	}
}

func TestSplitFieldsConsecutiveCommas(t *testing.T) {
	_, err := splitFields("t.as", line("1,, 2"))
	if err == nil || err.Code != CodeConsecutiveCommas {
		t.Fatalf("expected CodeConsecutiveCommas, got %v", err)
	}
}

func TestSplitFieldsEmpty(t *testing.T) {
	fields, err := splitFields("t.as", line("   "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fields != nil {
		t.Fatalf("expected no fields, got %v", fields)
	}
}

func TestParseOperandImmediate(t *testing.T) {
	op, err := parseOperand("t.as", line("5"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.mode != isa.Immediate || op.value != 5 {
		t.Fatalf("got %+v, want immediate 5", op)
	}
}

func TestParseOperandNegativeImmediate(t *testing.T) {
	op, err := parseOperand("t.as", line("-2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.mode != isa.Immediate || op.value != -2 {
		t.Fatalf("got %+v, want immediate -2", op)
	}
}

func TestParseOperandRegister(t *testing.T) {
	op, err := parseOperand("t.as", line("@r3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.mode != isa.Register || op.reg != 3 {
		t.Fatalf("got %+v, want register 3", op)
	}
}

func TestParseOperandDirect(t *testing.T) {
	op, err := parseOperand("t.as", line("LOOP"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.mode != isa.Direct || op.text.str != "LOOP" {
		t.Fatalf("got %+v, want direct reference to LOOP", op)
	}
}

func TestParseOperandInvalidImmediate(t *testing.T) {
	// A bare sign with no digits is neither a register, a valid
	// integer, nor a label (labels must start with a letter).
	_, err := parseOperand("t.as", line("-"))
	if err == nil || err.Code != CodeInvalidAddressingMode {
		t.Fatalf("expected CodeInvalidAddressingMode, got %v", err)
	}
}

func TestIsDirective(t *testing.T) {
	for _, d := range []string{".data", ".string", ".entry", ".extern"} {
		if !isDirective(d) {
			t.Errorf("%q should be a directive", d)
		}
	}
	if isDirective(".unknown") {
		t.Error(".unknown should not be a directive")
	}
}
