package quark

import (
	"fmt"
	"maps"
	"sort"
)

// Symbol is a declared variable and the primitive type it was declared with.
type Symbol struct {
	Name string
	Type Type
}

// SymbolTable is the flat namespace of one compilation unit. It is not safe
// for concurrent use; give every unit its own table.
type SymbolTable struct {
	entries map[string]Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make(map[string]Symbol)}
}

// Add declares name. Declaring an existing name fails and leaves the
// original entry in place.
func (s *SymbolTable) Add(name string, typ Type) error {
	if existing, ok := s.entries[name]; ok {
		return fmt.Errorf("variable %s already declared as %s", name, existing.Type)
	}
	s.entries[name] = Symbol{Name: name, Type: typ}
	return nil
}

func (s *SymbolTable) Get(name string) (Symbol, bool) {
	sym, ok := s.entries[name]
	return sym, ok
}

func (s *SymbolTable) Has(name string) bool {
	_, ok := s.entries[name]
	return ok
}

func (s *SymbolTable) Len() int {
	return len(s.entries)
}

// Names returns the declared names in sorted order.
func (s *SymbolTable) Names() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the table.
func (s *SymbolTable) Clone() *SymbolTable {
	return &SymbolTable{entries: maps.Clone(s.entries)}
}

// restore makes s hold exactly the entries of snapshot. Callers holding s
// see the rollback.
func (s *SymbolTable) restore(snapshot *SymbolTable) {
	s.entries = maps.Clone(snapshot.entries)
}
