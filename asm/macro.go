package asm

import (
	"bufio"
	"io"
	"strings"
)

// reservedWords may never be used as a macro name: every mnemonic,
// directive, and register name collides with the language itself.
var reservedWords = map[string]bool{
	"mcro": true, "endmcro": true,
	".data": true, ".string": true, ".entry": true, ".extern": true,
}

func init() {
	for _, inst := range []string{"mov", "cmp", "add", "sub", "not", "clr",
		"lea", "inc", "dec", "jmp", "bne", "red", "prn", "jsr", "rts", "stop"} {
		reservedWords[inst] = true
	}
	for i := 0; i < 8; i++ {
		reservedWords["r"+string(rune('0'+i))] = true
	}
}

type macroState int

const (
	macroIdle macroState = iota
	macroCollecting
)

type macro struct {
	name string
	body []string
}

// macroTable is an insertion-ordered map of macro name to body,
// mirroring symbolTable's structure so both tables are built and
// walked the same way.
type macroTable struct {
	byName map[string]*macro
	order  []string
}

func newMacroTable() *macroTable {
	return &macroTable{byName: make(map[string]*macro)}
}

func (t *macroTable) get(name string) (*macro, bool) {
	m, ok := t.byName[name]
	return m, ok
}

func (t *macroTable) define(name string) *macro {
	m := &macro{name: name}
	t.byName[name] = m
	t.order = append(t.order, name)
	return m
}

// Preprocess runs the macro pre-processor over r, a state machine with
// exactly two states (Idle, Collecting). It returns the expanded
// source text (the ".am" file contents) and any diagnostics
// encountered. Macro expansion is textual and non-recursive: a macro
// invocation inside a macro body is not expanded.
func Preprocess(file string, r io.Reader) (string, []*AssemblerError) {
	macros := newMacroTable()
	var out []string
	var errs []*AssemblerError

	state := macroIdle
	var current *macro

	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		row++
		text := scanner.Text()
		line := newFstring(0, row, text)
		trimmed := strings.TrimSpace(line.str)

		switch state {
		case macroCollecting:
			fields := strings.Fields(trimmed)
			if len(fields) > 0 && fields[0] == "endmcro" {
				if len(fields) > 1 {
					errs = append(errs, newError(file, line, CodeEndMacroExtraTokens,
						"unexpected tokens after 'endmcro'"))
				}
				macros.byName[current.name] = current
				macros.order = append(macros.order, current.name)
				state = macroIdle
				current = nil
				continue
			}
			current.body = append(current.body, text)
			continue

		case macroIdle:
			fields := strings.Fields(trimmed)
			if len(fields) > 0 && fields[0] == "mcro" {
				if len(fields) < 2 {
					errs = append(errs, newError(file, line, CodeMacroNameReserved,
						"macro declaration is missing a name"))
					continue
				}
				name := fields[1]
				if len(fields) > 2 {
					errs = append(errs, newError(file, line, CodeMacroExtraTokens,
						"unexpected tokens after macro name '%s'", name))
				}
				if reservedWords[name] {
					errs = append(errs, newError(file, line, CodeMacroNameReserved,
						"macro name '%s' is reserved", name))
				}
				current = &macro{name: name}
				state = macroCollecting
				continue
			}

			if len(fields) > 0 {
				if m, ok := macros.get(fields[0]); ok {
					out = append(out, m.body...)
					continue
				}
			}
			out = append(out, text)
		}
	}

	return strings.Join(out, "\n") + "\n", errs
}
