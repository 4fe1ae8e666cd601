package ir

// SymbolTable maps names to symbols within one scope. Lookups fall
// through to the parent scope; additions always land in the innermost
// table.
type SymbolTable struct {
	Parent  *SymbolTable
	symbols map[string]Symbol
	owned   []Symbol
}

// NewSymbolTable opens a scope nested inside parent (which may be nil
// for the root scope).
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{Parent: parent, symbols: make(map[string]Symbol)}
}

// Lookup finds the symbol bound to name in this scope or any enclosing
// scope, or nil.
func (st *SymbolTable) Lookup(name string) Symbol {
	for t := st; t != nil; t = t.Parent {
		if s, ok := t.symbols[name]; ok {
			return s
		}
	}
	return nil
}

// LookupLocal finds a symbol in this scope only, ignoring parents.
func (st *SymbolTable) LookupLocal(name string) Symbol {
	return st.symbols[name]
}

// Add binds name to symbol in this scope and reports whether the
// binding took. When both the existing binding and the new symbol are
// functions, the overloads merge into a single UnresolvedFunction.
// Any other same-scope rebinding is refused; the caller reports the
// redefinition. Shadowing an enclosing scope is always legal.
func (st *SymbolTable) Add(name string, symbol Symbol) bool {
	existing, ok := st.symbols[name]
	if !ok {
		st.symbols[name] = symbol
		return true
	}
	newFn, newIsFn := symbol.(*FunctionDeclaration)
	if !newIsFn {
		return false
	}
	switch old := existing.(type) {
	case *FunctionDeclaration:
		st.symbols[name] = &UnresolvedFunction{Functions: []*FunctionDeclaration{old, newFn}}
		return true
	case *UnresolvedFunction:
		st.symbols[name] = &UnresolvedFunction{Functions: append(append([]*FunctionDeclaration{}, old.Functions...), newFn)}
		return true
	}
	return false
}

// TakeOwnership retains a symbol that has no name binding, such as a
// compiler-synthesized variable or the backing variable of an anonymous
// interface block. The symbol stays reachable through the scope that
// introduced it without being visible to Lookup.
func (st *SymbolTable) TakeOwnership(symbol Symbol) {
	st.owned = append(st.owned, symbol)
}

// Names returns the names bound directly in this scope, in no particular
// order.
func (st *SymbolTable) Names() []string {
	names := make([]string, 0, len(st.symbols))
	for n := range st.symbols {
		names = append(names, n)
	}
	return names
}
