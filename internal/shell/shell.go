// Package shell implements an optional interactive front end onto the
// assembler core, built the same way the teacher repository's
// debugger shell was: a github.com/beevik/cmd command tree dispatched
// from a line-oriented read loop, with settings looked up through a
// github.com/beevik/prefixtree/v2 prefix trie.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/prefixtree/v2"

	"github.com/go-asc/asc2000/asm"
	"github.com/go-asc/asc2000/internal/settings"
)

// Shell is the interactive front end's state, analogous to the
// teacher's Host but with no CPU, debugger, or memory image -- only
// the assembler core and the settings that govern it.
type Shell struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool

	settings *settings.Settings
	last     *asm.Assembler
	lastCmd  *cmd.Selection
}

// New creates a Shell with default settings.
func New() *Shell {
	return &Shell{settings: settings.New()}
}

// Run reads commands from r and writes responses to w until the input
// is exhausted, a command errors, or "quit" is entered.
func (s *Shell) Run(r io.Reader, w io.Writer, interactive bool) {
	s.input = bufio.NewScanner(r)
	s.output = bufio.NewWriter(w)
	s.interactive = interactive

	for {
		if s.interactive {
			s.printf("asc2000> ")
		}

		line, err := s.getLine()
		if err != nil {
			break
		}
		if err := s.processCommand(line); err != nil {
			break
		}
	}
}

func (s *Shell) getLine() (string, error) {
	if s.input.Scan() {
		return s.input.Text(), nil
	}
	if s.input.Err() != nil {
		return "", s.input.Err()
	}
	return "", io.EOF
}

func (s *Shell) processCommand(line string) error {
	var c cmd.Selection
	if strings.TrimSpace(line) != "" {
		var err error
		c, err = cmds.Lookup(line)
		switch {
		case errors.Is(err, cmd.ErrNotFound):
			s.println("Command not found.")
			return nil
		case errors.Is(err, cmd.ErrAmbiguous):
			s.println("Command is ambiguous.")
			return nil
		case err != nil:
			s.printf("ERROR: %v\n", err)
			return nil
		}
	} else if s.lastCmd != nil {
		c = *s.lastCmd
	}

	if c.Command == nil {
		return nil
	}
	if c.Command.Data == nil && c.Command.Subtree != nil {
		s.println(c.Command.Brief)
		return nil
	}

	s.lastCmd = &c
	handler := c.Command.Data.(func(*Shell, cmd.Selection) error)
	return handler(s, c)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.output, format, args...)
	s.output.Flush()
}

func (s *Shell) println(args ...any) {
	fmt.Fprintln(s.output, args...)
	s.output.Flush()
}

func (s *Shell) cmdAssemble(c cmd.Selection) error {
	if len(c.Args) == 0 {
		s.println("Usage:", c.Command.Usage)
		return nil
	}
	for _, filename := range c.Args {
		a, err := AssembleFile(filename, s.settings)
		if err != nil {
			s.printf("%s: %v\n", filename, err)
			continue
		}
		s.last = a
		if len(a.Errors()) > 0 {
			for _, e := range a.Errors() {
				s.println(e)
			}
			continue
		}
		s.printf("%s assembled successfully (%d words).\n", filename, len(a.Image().Words()))
	}
	return nil
}

func (s *Shell) cmdSymbols(c cmd.Selection) error {
	if s.last == nil {
		s.println("No file has been assembled yet.")
		return nil
	}

	tree := prefixtree.New[*asm.Symbol]()
	for _, sym := range s.last.Symbols() {
		tree.Add(strings.ToLower(sym.Name), sym)
	}

	if len(c.Args) == 0 {
		for _, sym := range s.last.Symbols() {
			s.printf("%-20s %d entry=%v extern=%v\n", sym.Name, sym.Value, sym.IsEntry, sym.IsExtern)
		}
		return nil
	}

	prefix := strings.ToLower(c.Args[0])
	sym, err := tree.FindValue(prefix)
	if err != nil {
		s.printf("No symbol uniquely matches '%s'.\n", c.Args[0])
		return nil
	}
	s.printf("%-20s %d entry=%v extern=%v\n", sym.Name, sym.Value, sym.IsEntry, sym.IsExtern)
	return nil
}

func (s *Shell) cmdEntries(c cmd.Selection) error {
	if s.last == nil {
		s.println("No file has been assembled yet.")
		return nil
	}
	for _, sym := range s.last.Symbols() {
		if sym.IsEntry {
			s.printf("%s %d\n", sym.Name, sym.Value)
		}
	}
	return nil
}

func (s *Shell) cmdExterns(c cmd.Selection) error {
	if s.last == nil {
		s.println("No file has been assembled yet.")
		return nil
	}
	for _, ref := range s.last.Externs() {
		s.printf("%s %d\n", ref.Name, ref.Addr)
	}
	return nil
}

func (s *Shell) cmdSet(c cmd.Selection) error {
	if len(c.Args) == 0 {
		s.settings.Display(s.output)
		s.output.Flush()
		return nil
	}
	if len(c.Args) != 2 {
		s.println("Usage:", c.Command.Usage)
		return nil
	}

	key, raw := c.Args[0], c.Args[1]
	if s.settings.Kind(key) == reflect.Invalid {
		s.printf("Unknown setting '%s'.\n", key)
		return nil
	}
	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	} else if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}

	if err := s.settings.Set(key, value); err != nil {
		s.printf("%v\n", err)
	}
	return nil
}

func (s *Shell) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		s.println("asc2000 shell commands: assemble, symbols, entries, externs, set, help, quit")
		return nil
	}
	sel, err := cmds.Lookup(strings.Join(c.Args, " "))
	if err != nil {
		s.println("Command not found.")
		return nil
	}
	s.println(sel.Command.Description)
	return nil
}

func (s *Shell) cmdQuit(c cmd.Selection) error {
	return errors.New("exiting shell")
}

// AssembleFile runs the macro pre-processor and two-pass assembler
// against filename, writing the .am/.ob/.ent/.ext files alongside it
// exactly as the batch CLI does.
func AssembleFile(filename string, cfg *settings.Settings) (*asm.Assembler, error) {
	src, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	expanded, macroErrs := asm.Preprocess(filename, src)
	if len(macroErrs) > 0 {
		a := asm.NewAssembler(filename)
		for _, e := range macroErrs {
			a.AddError(e)
		}
		return a, nil
	}

	amPath := strings.TrimSuffix(filename, ".as") + ".am"
	if err := os.WriteFile(amPath, []byte(expanded), 0644); err != nil {
		return nil, err
	}

	am, err := os.Open(amPath)
	if err != nil {
		return nil, err
	}
	defer am.Close()

	a := asm.Assemble(filename, am)
	if len(a.Errors()) > 0 {
		return a, nil
	}

	base := strings.TrimSuffix(filename, ".as")
	if err := writeOutputFiles(a, base); err != nil {
		return a, err
	}
	return a, nil
}

func writeOutputFiles(a *asm.Assembler, base string) error {
	ob, err := asm.CreateTruncated(base + ".ob")
	if err != nil {
		return err
	}
	defer ob.Close()
	if err := a.WriteObject(ob); err != nil {
		return err
	}

	if a.HasEntries() {
		ent, err := asm.CreateTruncated(base + ".ent")
		if err != nil {
			return err
		}
		defer ent.Close()
		if err := a.WriteEntries(ent); err != nil {
			return err
		}
	}

	if a.HasExterns() {
		ext, err := asm.CreateTruncated(base + ".ext")
		if err != nil {
			return err
		}
		defer ext.Close()
		if err := a.WriteExterns(ext); err != nil {
			return err
		}
	}
	return nil
}
