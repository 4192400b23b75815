package asm

import (
	"fmt"
	"io"
	"os"
)

// base64Alphabet is exactly the RFC 4648 standard alphabet. A 12-bit
// code word packs into two 6-bit groups rather than the 8-bit byte
// groups encoding/base64's stream API expects, so the two sextets are
// indexed into the alphabet directly; the alphabet itself is still the
// standard one, not a bespoke substitute.
const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// encodeWord renders a 12-bit code word as two base64 characters: the
// high 6 bits followed by the low 6 bits. This is a stateless, pure
// function -- unlike the array-indexed encoder it replaces, it carries
// no table-building step and no shared state between calls.
func encodeWord(word uint16) string {
	hi := (word >> 6) & 0x3F
	lo := word & 0x3F
	return string([]byte{base64Alphabet[hi], base64Alphabet[lo]})
}

// WriteObject writes the object file: one line per code word, each
// line the word's base64 encoding at its address. It writes to w and
// opens nothing; callers open the file with CreateTruncated.
func (a *Assembler) WriteObject(w io.Writer) error {
	words := a.image.Words()
	bw := newLineWriter(w)
	for _, word := range words {
		if err := bw.writef("%s\n", encodeWord(word)); err != nil {
			return err
		}
	}
	return bw.err
}

// WriteEntries writes the .ent file: one "name value" line per symbol
// marked .entry, in definition order. Suppressed entirely (caller
// should not create the file) when there are no entries.
func (a *Assembler) WriteEntries(w io.Writer) error {
	bw := newLineWriter(w)
	for _, sym := range a.Symbols() {
		if sym.IsEntry {
			bw.writef("%s %d\n", sym.Name, sym.Value)
		}
	}
	return bw.err
}

// WriteExterns writes the .ext file: one "name address" line per use of
// an externally-defined symbol, in the order those uses were
// encountered. Suppressed entirely when there are no extern references.
func (a *Assembler) WriteExterns(w io.Writer) error {
	bw := newLineWriter(w)
	for _, ref := range a.externs {
		bw.writef("%s %d\n", ref.Name, ref.Addr)
	}
	return bw.err
}

// HasEntries reports whether the .ent file should be produced.
func (a *Assembler) HasEntries() bool {
	for _, sym := range a.Symbols() {
		if sym.IsEntry {
			return true
		}
	}
	return false
}

// HasExterns reports whether the .ext file should be produced.
func (a *Assembler) HasExterns() bool { return len(a.externs) > 0 }

// CreateTruncated opens path for writing, truncating any existing
// content -- the object/entries/externals files are always rewritten
// from scratch, never appended to.
func CreateTruncated(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

type lineWriter struct {
	w   io.Writer
	err error
}

func newLineWriter(w io.Writer) *lineWriter { return &lineWriter{w: w} }

func (lw *lineWriter) writef(format string, args ...any) error {
	if lw.err != nil {
		return lw.err
	}
	_, lw.err = fmt.Fprintf(lw.w, format, args...)
	return lw.err
}
