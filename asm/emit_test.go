package asm

import (
	"strings"
	"testing"
)

func TestEncodeWordZero(t *testing.T) {
	if got := encodeWord(0); got != "AA" {
		t.Errorf("got %q, want %q", got, "AA")
	}
}

func TestEncodeWordHighBits(t *testing.T) {
	// word = 0xFFF (all 12 bits set) -> both sextets are 0x3F -> "//"
	if got := encodeWord(0xFFF); got != "//" {
		t.Errorf("got %q, want %q", got, "//")
	}
}

func TestEncodeWordSplitsAtBitSix(t *testing.T) {
	// bit 6 set only -> hi sextet = 1, lo sextet = 0 -> "BA"
	if got := encodeWord(1 << 6); got != "BA" {
		t.Errorf("got %q, want %q", got, "BA")
	}
}

func TestWriteObjectProducesOneLinePerWord(t *testing.T) {
	a := assemble(t, "mov @r1, @r2\n")
	checkNoErrors(t, a)

	var buf strings.Builder
	if err := a.WriteObject(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(a.Image().Words()) {
		t.Fatalf("got %d lines, want %d", len(lines), len(a.Image().Words()))
	}
	for _, l := range lines {
		if len(l) != 2 {
			t.Errorf("line %q is not exactly two characters", l)
		}
	}
}

func TestWriteEntriesOnlyListsEntrySymbols(t *testing.T) {
	src := "HELLO: mov @r1, @r2\n.entry HELLO\n"
	a := assemble(t, src)
	checkNoErrors(t, a)

	var buf strings.Builder
	if err := a.WriteEntries(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "HELLO") {
		t.Errorf("expected HELLO in entries output, got %q", buf.String())
	}
}

func TestWriteExternsListsReferenceAddress(t *testing.T) {
	src := ".extern FOO\nmov FOO, @r2\n"
	a := assemble(t, src)
	checkNoErrors(t, a)

	var buf strings.Builder
	if err := a.WriteExterns(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// mov's opcode word is at 100, so FOO's operand word is at 101.
	if !strings.Contains(buf.String(), "FOO 101\n") {
		t.Errorf("expected \"FOO 101\" in externs output, got %q", buf.String())
	}
}

func TestHasEntriesAndExternsFalseWhenAbsent(t *testing.T) {
	a := assemble(t, "mov @r1, @r2\n")
	checkNoErrors(t, a)
	if a.HasEntries() {
		t.Error("expected no entries")
	}
	if a.HasExterns() {
		t.Error("expected no externs")
	}
}
