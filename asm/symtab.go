package asm

// Symbol is one entry of the symbol table: a name bound to an address,
// together with the entry/extern flags the linker-less object format
// still needs to record.
type Symbol struct {
	Name     string
	Value    int
	IsEntry  bool
	IsExtern bool
	valueSet bool
}

// symbolTable is an insertion-ordered map from symbol name to Symbol,
// replacing the linked list the original implementation used. Order is
// preserved so the .ent file is emitted in definition order (the .ext
// file follows the order of the recorded extern references instead).
type symbolTable struct {
	byName map[string]*Symbol
	order  []string
}

func newSymbolTable() *symbolTable {
	return &symbolTable{byName: make(map[string]*Symbol)}
}

func (t *symbolTable) get(name string) (*Symbol, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// define creates the symbol if it does not already exist. It never
// overwrites an existing symbol's value or flags.
func (t *symbolTable) define(name string) *Symbol {
	if s, ok := t.byName[name]; ok {
		return s
	}
	s := &Symbol{Name: name}
	t.byName[name] = s
	t.order = append(t.order, name)
	return s
}

// setValue assigns a symbol's address. It is an error to call this more
// than once for the same symbol.
func (s *Symbol) setValue(v int) bool {
	if s.valueSet {
		return false
	}
	s.Value = v
	s.valueSet = true
	return true
}

// markEntry flags a symbol as an .entry export. Returns false if the
// symbol is already marked extern (entry and extern are mutually
// exclusive).
func (s *Symbol) markEntry() bool {
	if s.IsExtern {
		return false
	}
	s.IsEntry = true
	return true
}

// markExtern flags a symbol as externally defined. Returns false if the
// symbol is already marked entry.
func (s *Symbol) markExtern() bool {
	if s.IsEntry {
		return false
	}
	s.IsExtern = true
	return true
}

// symbols returns every symbol in definition order.
func (t *symbolTable) symbols() []*Symbol {
	out := make([]*Symbol, len(t.order))
	for i, name := range t.order {
		out[i] = t.byName[name]
	}
	return out
}

// externRef is a single use of an external symbol at a particular code
// address — the raw material for the .ext file, distinct from the
// symbol table's extern declaration flag.
type externRef struct {
	Name string
	Addr int
}
